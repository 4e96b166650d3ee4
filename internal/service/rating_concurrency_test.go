package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/graphflix/internal/model"
)

// uniqueRatingStore 模拟 (user_id, movie_id) 复合唯一索引的存储：
// 对已占用键的第二次插入报唯一约束冲突，更新不受影响。
type uniqueRatingStore struct {
	mu     sync.Mutex
	byPair map[string]*model.Rating
	nextID int64
}

var errDuplicatePair = errors.New("重复键违反唯一约束 idx_ratings_user_movie")

func newUniqueRatingStore() *uniqueRatingStore {
	return &uniqueRatingStore{byPair: map[string]*model.Rating{}}
}

func pairKey(userID, movieID string) string {
	return userID + ":" + movieID
}

func (s *uniqueRatingStore) FindByID(id int64) (*model.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.byPair {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

// 查询返回行的副本，和真实存储一样每次查询都物化新结构
func (s *uniqueRatingStore) FindByUserAndMovie(userID, movieID string) (*model.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byPair[pairKey(userID, movieID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *uniqueRatingStore) Save(rec *model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(rec.UserID, rec.MovieID)
	if rec.ID == 0 {
		if _, occupied := s.byPair[key]; occupied {
			return errDuplicatePair
		}
		s.nextID++
		rec.ID = s.nextID
	}
	cp := *rec
	s.byPair[key] = &cp
	return nil
}

func (s *uniqueRatingStore) Delete(rec *model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPair, pairKey(rec.UserID, rec.MovieID))
	return nil
}

func (s *uniqueRatingStore) ListByMovie(movieID string) ([]*model.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Rating
	for _, rec := range s.byPair {
		if rec.MovieID == movieID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *uniqueRatingStore) PageByUser(userID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	return nil, 0, nil
}

func (s *uniqueRatingStore) PageByMovie(movieID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	return nil, 0, nil
}

func (s *uniqueRatingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byPair)
}

// 并发安全的边/事件假实现（并发用例下共享）
type safeEdgeStore struct {
	mu sync.Mutex
	n  int
}

func (s *safeEdgeStore) MergeRated(_ context.Context, _, _ string, _ int, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *safeEdgeStore) DeleteRated(_ context.Context, _, _ string) error {
	return nil
}

type safePublisher struct {
	mu sync.Mutex
	n  int
}

func (s *safePublisher) Publish(_ context.Context, _, _ string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func TestUpsertRatingConcurrentSamePair(t *testing.T) {
	store := newUniqueRatingStore()
	users := &fakeUserStore{users: map[string]*model.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	movies := &fakeMovieFinder{movies: map[string]*model.Movie{
		"m1": {ID: "m1", Title: "黑客帝国", Released: 1999},
	}}
	svc := NewRatingService(store, users, movies, &safeEdgeStore{}, NewRatingEventProducer(&safePublisher{}, testTopics()))

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			<-start
			_, err := svc.UpsertRating(context.Background(), "alice@example.com", "m1", 1+score%10, "")
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				// 先查后写的窗口里撞上唯一索引的请求以冲突失败
				assert.ErrorIs(t, err, errDuplicatePair)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	// 至少一个请求成功，且每对 (user, movie) 最终只剩一条记录
	require.GreaterOrEqual(t, succeeded, 1)
	assert.Equal(t, 1, store.count())
}
