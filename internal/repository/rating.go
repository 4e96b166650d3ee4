package repository

import (
	"errors"

	"github.com/user/graphflix/internal/model"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// FindByID 根据 ID 查找评分
func (r *RatingRepository) FindByID(id int64) (*model.Rating, error) {
	var rec model.Rating
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FindByUserAndMovie 查找某用户对某电影的评分（先查后写的 upsert 依赖此查询）
func (r *RatingRepository) FindByUserAndMovie(userID, movieID string) (*model.Rating, error) {
	var rec model.Rating
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Save 保存评分（新记录插入，已有记录整体更新）
func (r *RatingRepository) Save(rec *model.Rating) error {
	return r.db.Save(rec).Error
}

// Delete 删除评分
func (r *RatingRepository) Delete(rec *model.Rating) error {
	return r.db.Delete(rec).Error
}

// ListByMovie 查询某电影的全部评分（平均分在服务层计算）
func (r *RatingRepository) ListByMovie(movieID string) ([]*model.Rating, error) {
	var records []*model.Rating
	err := r.db.Where("movie_id = ?", movieID).Find(&records).Error
	return records, err
}

// PageByUser 按用户分页查询评分
func (r *RatingRepository) PageByUser(userID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	return r.pageBy("user_id = ?", userID, page, size, sortBy)
}

// PageByMovie 按电影分页查询评分
func (r *RatingRepository) PageByMovie(movieID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	return r.pageBy("movie_id = ?", movieID, page, size, sortBy)
}

func (r *RatingRepository) pageBy(cond, value string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	var total int64
	if err := r.db.Model(&model.Rating{}).Where(cond, value).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*model.Rating
	err := r.db.Where(cond, value).
		Order(sortColumn(sortBy) + " DESC").
		Limit(size).
		Offset(page * size).
		Find(&records).Error
	return records, total, err
}

// sortColumn 排序字段白名单，防止拼接注入
func sortColumn(sortBy string) string {
	switch sortBy {
	case "rating":
		return "rating"
	case "timestamp":
		return "timestamp"
	default:
		return "timestamp"
	}
}
