package service

import (
	"context"

	"github.com/user/graphflix/internal/model"
)

type movieStore interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	SearchByTitle(ctx context.Context, title string, limit int) ([]model.Movie, error)
}

const maxSearchResults = 20

// MovieService 电影查询（图数据库节点对本系统只读）
type MovieService struct {
	movies movieStore
}

func NewMovieService(movies movieStore) *MovieService {
	return &MovieService{movies: movies}
}

// GetMovie 根据 ID 查询电影详情
func (s *MovieService) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

// Search 按标题搜索电影
func (s *MovieService) Search(ctx context.Context, title string, limit int) ([]model.Movie, error) {
	if limit < 1 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	return s.movies.SearchByTitle(ctx, title, limit)
}
