package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/graphflix/internal/model"
	"github.com/user/graphflix/internal/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ratingStore interface {
	FindByID(id int64) (*model.Rating, error)
	FindByUserAndMovie(userID, movieID string) (*model.Rating, error)
	Save(rec *model.Rating) error
	Delete(rec *model.Rating) error
	ListByMovie(movieID string) ([]*model.Rating, error)
	PageByUser(userID string, page, size int, sortBy string) ([]*model.Rating, int64, error)
	PageByMovie(movieID string, page, size int, sortBy string) ([]*model.Rating, int64, error)
}

type userStore interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id string) (*model.User, error)
}

type movieFinder interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
}

type ratedEdgeStore interface {
	MergeRated(ctx context.Context, email, movieID string, rating int, comment string, timestamp time.Time) error
	DeleteRated(ctx context.Context, email, movieID string) error
}

// ratingInput 评分写入参数（落库前校验）
type ratingInput struct {
	MovieID string `validate:"required"`
	Rating  int    `validate:"required,min=1,max=10"`
	Comment string `validate:"max=500"`
}

// ratingUpdateInput 按 ID 更新时 movieId 来自已有记录，不参与校验
type ratingUpdateInput struct {
	Rating  int    `validate:"required,min=1,max=10"`
	Comment string `validate:"max=500"`
}

// RatingService 评分服务。
// 写路径是双写：先写记录存储，再写图边，最后发事件。
// 边写入失败整个操作按失败返回；事件发布失败不回滚已落库的写入，
// 返回已保存的评分和 ErrEventPublishing。
type RatingService struct {
	ratings  ratingStore
	users    userStore
	movies   movieFinder
	edges    ratedEdgeStore
	events   *RatingEventProducer
	validate *validator.Validate
}

func NewRatingService(ratings ratingStore, users userStore, movies movieFinder, edges ratedEdgeStore, events *RatingEventProducer) *RatingService {
	return &RatingService{
		ratings:  ratings,
		users:    users,
		movies:   movies,
		edges:    edges,
		events:   events,
		validate: validator.New(),
	}
}

// UpsertRating 创建或更新评分。
// 同一用户对同一电影只保留一条记录，重复提交按更新处理。
func (s *RatingService) UpsertRating(ctx context.Context, email, movieID string, rating int, comment string) (*model.Rating, error) {
	if err := s.validate.Struct(ratingInput{MovieID: movieID, Rating: rating, Comment: comment}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	existing, err := s.ratings.FindByUserAndMovie(user.ID, movieID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var rec *model.Rating
	created := existing == nil
	if created {
		rec = &model.Rating{
			Rating:     rating,
			Comment:    comment,
			Timestamp:  now,
			UserID:     user.ID,
			UserName:   user.Name,
			MovieID:    movieID,
			MovieTitle: movie.Title,
		}
	} else {
		rec = existing
		rec.Rating = rating
		rec.Comment = comment
		rec.Timestamp = now
	}

	if err := s.ratings.Save(rec); err != nil {
		return nil, err
	}
	if err := s.edges.MergeRated(ctx, email, movieID, rating, comment, now); err != nil {
		return nil, err
	}

	if created {
		err = s.events.Created(ctx, rec)
	} else {
		err = s.events.Updated(ctx, rec)
	}
	if err != nil {
		log.Printf("评分事件发布失败 userId=%s movieId=%s: %v", user.ID, movieID, err)
		return rec, err
	}
	return rec, nil
}

// UpdateRating 根据评分 ID 更新评分
func (s *RatingService) UpdateRating(ctx context.Context, ratingID int64, rating int, comment string) (*model.Rating, error) {
	if err := s.validate.Struct(ratingUpdateInput{Rating: rating, Comment: comment}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rec, err := s.ratings.FindByID(ratingID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRatingNotFound
	}

	// 图边以邮箱为键，需要先解析出用户邮箱
	user, err := s.users.FindByID(rec.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	rec.Rating = rating
	rec.Comment = comment
	rec.Timestamp = now

	if err := s.ratings.Save(rec); err != nil {
		return nil, err
	}
	if err := s.edges.MergeRated(ctx, user.Email, rec.MovieID, rating, comment, now); err != nil {
		return nil, err
	}

	if err := s.events.Updated(ctx, rec); err != nil {
		log.Printf("评分事件发布失败 ratingId=%d: %v", rec.ID, err)
		return rec, err
	}
	return rec, nil
}

// DeleteRating 删除评分（先删边再删记录，保持边不悬空）
func (s *RatingService) DeleteRating(ctx context.Context, ratingID int64) error {
	rec, err := s.ratings.FindByID(ratingID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRatingNotFound
	}

	user, err := s.users.FindByID(rec.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.edges.DeleteRated(ctx, user.Email, rec.MovieID); err != nil {
		return err
	}
	if err := s.ratings.Delete(rec); err != nil {
		return err
	}

	if err := s.events.Deleted(ctx, rec); err != nil {
		log.Printf("评分事件发布失败 ratingId=%d: %v", rec.ID, err)
		return err
	}
	return nil
}

// GetRating 根据 ID 查询评分
func (s *RatingService) GetRating(ratingID int64) (*model.Rating, error) {
	rec, err := s.ratings.FindByID(ratingID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRatingNotFound
	}
	return rec, nil
}

// GetUserRating 查询某用户对某电影的评分
func (s *RatingService) GetUserRating(email, movieID string) (*model.Rating, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	rec, err := s.ratings.FindByUserAndMovie(user.ID, movieID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRatingNotFound
	}
	return rec, nil
}

// GetAverageRating 计算电影平均分。无评分返回 0.0 / 0，不视为错误。
func (s *RatingService) GetAverageRating(movieID string) (*model.AverageRating, error) {
	records, err := s.ratings.ListByMovie(movieID)
	if err != nil {
		return nil, err
	}

	avg := &model.AverageRating{MovieID: movieID}
	if len(records) == 0 {
		return avg, nil
	}

	sum := 0
	for _, rec := range records {
		sum += rec.Rating
	}
	avg.Average = float64(sum) / float64(len(records))
	avg.Count = int64(len(records))
	return avg, nil
}

// GetMovieRatings 按电影分页查询评分
func (s *RatingService) GetMovieRatings(movieID string, page, size int, sortBy string) (*utils.Page[*model.Rating], error) {
	page, size = utils.NormalizePage(page, size, defaultPageSize, maxPageSize)
	records, total, err := s.ratings.PageByMovie(movieID, page, size, sortBy)
	if err != nil {
		return nil, err
	}
	result := utils.NewPage(records, page, size, total)
	return &result, nil
}

// GetUserRatings 按用户分页查询评分
func (s *RatingService) GetUserRatings(email string, page, size int, sortBy string) (*utils.Page[*model.Rating], error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	page, size = utils.NormalizePage(page, size, defaultPageSize, maxPageSize)
	records, total, err := s.ratings.PageByUser(user.ID, page, size, sortBy)
	if err != nil {
		return nil, err
	}
	result := utils.NewPage(records, page, size, total)
	return &result, nil
}
