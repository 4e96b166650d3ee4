package repository

import (
	"errors"

	"github.com/user/graphflix/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// FindByUserAndMovie 查找想看清单条目
func (r *WatchlistRepository) FindByUserAndMovie(userID, movieID string) (*model.Watchlist, error) {
	var rec model.Watchlist
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Create 新增想看清单条目
func (r *WatchlistRepository) Create(rec *model.Watchlist) error {
	return r.db.Create(rec).Error
}

// Delete 删除想看清单条目
func (r *WatchlistRepository) Delete(rec *model.Watchlist) error {
	return r.db.Delete(rec).Error
}

// PageByUser 按用户分页查询想看清单
func (r *WatchlistRepository) PageByUser(userID string, page, size int) ([]*model.Watchlist, int64, error) {
	var total int64
	if err := r.db.Model(&model.Watchlist{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*model.Watchlist
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Limit(size).
		Offset(page * size).
		Find(&records).Error
	return records, total, err
}

// Exists 判断电影是否在用户的想看清单中
func (r *WatchlistRepository) Exists(userID, movieID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Watchlist{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// CountByUser 统计用户的想看清单条数
func (r *WatchlistRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Watchlist{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
