package service

import (
	"context"
	"log"
	"time"

	"github.com/user/graphflix/internal/model"
	"github.com/user/graphflix/internal/utils"
)

type watchlistStore interface {
	FindByUserAndMovie(userID, movieID string) (*model.Watchlist, error)
	Create(rec *model.Watchlist) error
	Delete(rec *model.Watchlist) error
	PageByUser(userID string, page, size int) ([]*model.Watchlist, int64, error)
	Exists(userID, movieID string) (bool, error)
	CountByUser(userID string) (int64, error)
}

type watchlistEdgeStore interface {
	MergeWatchlisted(ctx context.Context, email, movieID string, addedAt time.Time) error
	DeleteWatchlisted(ctx context.Context, email, movieID string) error
}

// WatchlistService 想看清单。
// 条目以用户邮箱为键，与图中的 IN_WATCHLIST 边一一对应。
type WatchlistService struct {
	items  watchlistStore
	users  userStore
	movies movieFinder
	edges  watchlistEdgeStore
	events *WatchlistEventProducer
}

func NewWatchlistService(items watchlistStore, users userStore, movies movieFinder, edges watchlistEdgeStore, events *WatchlistEventProducer) *WatchlistService {
	return &WatchlistService{
		items:  items,
		users:  users,
		movies: movies,
		edges:  edges,
		events: events,
	}
}

// Add 添加电影到想看清单。重复添加直接返回已有条目，不报错。
func (s *WatchlistService) Add(ctx context.Context, email, movieID string) (*model.Watchlist, error) {
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

	existing, err := s.items.FindByUserAndMovie(email, movieID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	rec := &model.Watchlist{
		UserID:     email,
		MovieID:    movieID,
		MovieTitle: movie.Title,
		AddedAt:    now,
	}
	if err := s.items.Create(rec); err != nil {
		return nil, err
	}
	if err := s.edges.MergeWatchlisted(ctx, email, movieID, now); err != nil {
		return nil, err
	}

	if err := s.events.Added(ctx, rec); err != nil {
		log.Printf("想看清单事件发布失败 userId=%s movieId=%s: %v", email, movieID, err)
		return rec, err
	}
	return rec, nil
}

// Remove 从想看清单移除电影（先删边再删记录）
func (s *WatchlistService) Remove(ctx context.Context, email, movieID string) error {
	rec, err := s.items.FindByUserAndMovie(email, movieID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrWatchlistNotFound
	}

	if err := s.edges.DeleteWatchlisted(ctx, email, movieID); err != nil {
		return err
	}
	if err := s.items.Delete(rec); err != nil {
		return err
	}

	if err := s.events.Removed(ctx, rec); err != nil {
		log.Printf("想看清单事件发布失败 userId=%s movieId=%s: %v", email, movieID, err)
		return err
	}
	return nil
}

// List 分页查询想看清单
func (s *WatchlistService) List(email string, page, size int) (*utils.Page[*model.Watchlist], error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	page, size = utils.NormalizePage(page, size, defaultPageSize, maxPageSize)
	records, total, err := s.items.PageByUser(email, page, size)
	if err != nil {
		return nil, err
	}
	result := utils.NewPage(records, page, size, total)
	return &result, nil
}

// Contains 判断电影是否在想看清单中
func (s *WatchlistService) Contains(email, movieID string) (bool, error) {
	return s.items.Exists(email, movieID)
}

// Count 想看清单条数
func (s *WatchlistService) Count(email string) (int64, error) {
	return s.items.CountByUser(email)
}
