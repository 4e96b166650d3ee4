package repository

import (
	"fmt"

	"github.com/user/graphflix/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// 自动建表（评分/想看清单的复合唯一索引在模型标签里声明）
	if err := db.AutoMigrate(&model.User{}, &model.Rating{}, &model.Watchlist{}); err != nil {
		return nil, fmt.Errorf("自动建表失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB             *gorm.DB
	Graph          *Graph
	User           *UserRepository
	Rating         *RatingRepository
	Watchlist      *WatchlistRepository
	Movie          *MovieRepository
	Recommendation *RecommendationRepository
	Edge           *EdgeRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB, graph *Graph) *Repositories {
	return &Repositories{
		DB:             db,
		Graph:          graph,
		User:           NewUserRepository(db),
		Rating:         NewRatingRepository(db),
		Watchlist:      NewWatchlistRepository(db),
		Movie:          NewMovieRepository(graph),
		Recommendation: NewRecommendationRepository(graph),
		Edge:           NewEdgeRepository(graph),
	}
}
