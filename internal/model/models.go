package model

import (
	"time"
)

// User 用户模型（身份子系统持有，其他模块只引用不复制）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Rating 评分记录
// 每个 (user, movie) 对至多存在一条记录，由复合唯一索引兜底；
// 图数据库中的 RATED 边与此记录一一对应，写入时同步。
type Rating struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment" gorm:"size:500"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"userId" gorm:"uniqueIndex:idx_ratings_user_movie"`
	UserName   string    `json:"userName"`
	MovieID    string    `json:"movieId" gorm:"uniqueIndex:idx_ratings_user_movie"`
	MovieTitle string    `json:"movieTitle"`
}

// Watchlist 想看清单条目（userId 存用户邮箱）
type Watchlist struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	MovieID    string    `json:"movieId" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	MovieTitle string    `json:"movieTitle"`
	AddedAt    time.Time `json:"addedAt"`
}

// AverageRating 电影平均分（无评分时返回 0.0 / 0，不视为错误）
type AverageRating struct {
	MovieID string  `json:"movieId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RatingEvent 评分变更事件
type RatingEvent struct {
	EventType string    `json:"eventType"`
	RatingID  int64     `json:"ratingId"`
	UserID    string    `json:"userId"`
	MovieID   string    `json:"movieId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// WatchlistEvent 想看清单变更事件
type WatchlistEvent struct {
	EventType   string    `json:"eventType"`
	WatchlistID int64     `json:"watchlistId"`
	UserID      string    `json:"userId"`
	MovieID     string    `json:"movieId"`
	MovieTitle  string    `json:"movieTitle"`
	AddedAt     time.Time `json:"addedAt"`
}

// 事件类型常量
const (
	EventRatingCreated    = "RATING_CREATED"
	EventRatingUpdated    = "RATING_UPDATED"
	EventRatingDeleted    = "RATING_DELETED"
	EventWatchlistAdded   = "WATCHLIST_ADDED"
	EventWatchlistRemoved = "WATCHLIST_REMOVED"
)
