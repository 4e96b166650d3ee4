package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/graphflix/internal/config"
	"github.com/user/graphflix/internal/model"
)

type fakeRatingStore struct {
	byID        map[int64]*model.Rating
	saveCalls   int
	deleteCalls int
	nextID      int64
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{byID: map[int64]*model.Rating{}}
}

func (f *fakeRatingStore) FindByID(id int64) (*model.Rating, error) {
	return f.byID[id], nil
}

func (f *fakeRatingStore) FindByUserAndMovie(userID, movieID string) (*model.Rating, error) {
	for _, rec := range f.byID {
		if rec.UserID == userID && rec.MovieID == movieID {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingStore) Save(rec *model.Rating) error {
	f.saveCalls++
	if rec.ID == 0 {
		f.nextID++
		rec.ID = f.nextID
	}
	f.byID[rec.ID] = rec
	return nil
}

func (f *fakeRatingStore) Delete(rec *model.Rating) error {
	f.deleteCalls++
	delete(f.byID, rec.ID)
	return nil
}

func (f *fakeRatingStore) ListByMovie(movieID string) ([]*model.Rating, error) {
	var out []*model.Rating
	for _, rec := range f.byID {
		if rec.MovieID == movieID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRatingStore) PageByUser(userID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	var out []*model.Rating
	for _, rec := range f.byID {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRatingStore) PageByMovie(movieID string, page, size int, sortBy string) ([]*model.Rating, int64, error) {
	out, _ := f.ListByMovie(movieID)
	return out, int64(len(out)), nil
}

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(id string) (*model.User, error) {
	return f.users[id], nil
}

type fakeMovieFinder struct {
	movies map[string]*model.Movie
}

func (f *fakeMovieFinder) FindByID(_ context.Context, id string) (*model.Movie, error) {
	return f.movies[id], nil
}

type fakeEdgeStore struct {
	mergeCalls  []string
	deleteCalls []string
	mergeErr    error
}

func (f *fakeEdgeStore) MergeRated(_ context.Context, email, movieID string, _ int, _ string, _ time.Time) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.mergeCalls = append(f.mergeCalls, email+":"+movieID)
	return nil
}

func (f *fakeEdgeStore) DeleteRated(_ context.Context, email, movieID string) error {
	f.deleteCalls = append(f.deleteCalls, email+":"+movieID)
	return nil
}

type fakePublisher struct {
	topics []string
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic, _ string, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	return nil
}

func testTopics() config.Topics {
	return config.Topics{
		RatingCreated:    "rating-created",
		RatingUpdated:    "rating-updated",
		RatingDeleted:    "rating-deleted",
		WatchlistAdded:   "watchlist-added",
		WatchlistRemoved: "watchlist-removed",
	}
}

type ratingFixture struct {
	svc     *RatingService
	ratings *fakeRatingStore
	edges   *fakeEdgeStore
	pub     *fakePublisher
}

func newRatingFixture() *ratingFixture {
	ratings := newFakeRatingStore()
	users := &fakeUserStore{users: map[string]*model.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	movies := &fakeMovieFinder{movies: map[string]*model.Movie{
		"m1": {ID: "m1", Title: "黑客帝国", Released: 1999},
	}}
	edges := &fakeEdgeStore{}
	pub := &fakePublisher{}
	events := NewRatingEventProducer(pub, testTopics())

	return &ratingFixture{
		svc:     NewRatingService(ratings, users, movies, edges, events),
		ratings: ratings,
		edges:   edges,
		pub:     pub,
	}
}

func TestUpsertRatingCreatesNewRating(t *testing.T) {
	f := newRatingFixture()

	rec, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 8, "不错")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 8, rec.Rating)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "Alice", rec.UserName)
	assert.Equal(t, "黑客帝国", rec.MovieTitle)
	assert.Equal(t, []string{"alice@example.com:m1"}, f.edges.mergeCalls)
	assert.Equal(t, []string{"rating-created"}, f.pub.topics)
}

func TestUpsertRatingOverwritesExisting(t *testing.T) {
	f := newRatingFixture()

	first, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 8, "不错")
	require.NoError(t, err)
	second, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 5, "重看后一般")
	require.NoError(t, err)

	// 同一 (user, movie) 只保留一条记录
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.ratings.byID, 1)
	assert.Equal(t, 5, f.ratings.byID[first.ID].Rating)
	assert.Equal(t, "重看后一般", f.ratings.byID[first.ID].Comment)
	assert.Equal(t, []string{"rating-created", "rating-updated"}, f.pub.topics)
}

func TestUpsertRatingValidation(t *testing.T) {
	f := newRatingFixture()

	for _, invalid := range []int{0, -1, 11} {
		_, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", invalid, "")
		assert.ErrorIs(t, err, ErrValidation, "rating=%d", invalid)
	}

	// 空 movieId 同样在写入前拒绝
	_, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "", 8, "")
	assert.ErrorIs(t, err, ErrValidation)

	// 校验失败不应触发任何写入
	assert.Zero(t, f.ratings.saveCalls)
	assert.Empty(t, f.edges.mergeCalls)
	assert.Empty(t, f.pub.topics)
}

func TestUpsertRatingUserNotFound(t *testing.T) {
	f := newRatingFixture()

	_, err := f.svc.UpsertRating(context.Background(), "nobody@example.com", "m1", 8, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, f.ratings.saveCalls)
}

func TestUpsertRatingMovieNotFound(t *testing.T) {
	f := newRatingFixture()

	_, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "missing", 8, "")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Zero(t, f.ratings.saveCalls)
}

func TestUpsertRatingEdgeFailureAborts(t *testing.T) {
	f := newRatingFixture()
	f.edges.mergeErr = errors.New("图数据库不可用")

	_, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 8, "")
	require.Error(t, err)
	assert.Empty(t, f.pub.topics)
}

func TestUpsertRatingPublishFailureKeepsWrites(t *testing.T) {
	f := newRatingFixture()
	f.pub.err = errors.New("broker 不可达")

	rec, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 8, "")
	// 事件发布失败不回滚，已保存的评分一并返回
	require.ErrorIs(t, err, ErrEventPublishing)
	require.NotNil(t, rec)
	assert.Len(t, f.ratings.byID, 1)
	assert.Len(t, f.edges.mergeCalls, 1)
}

func TestDeleteRating(t *testing.T) {
	f := newRatingFixture()

	rec, err := f.svc.UpsertRating(context.Background(), "alice@example.com", "m1", 8, "")
	require.NoError(t, err)

	err = f.svc.DeleteRating(context.Background(), rec.ID)
	require.NoError(t, err)

	assert.Empty(t, f.ratings.byID)
	assert.Equal(t, []string{"alice@example.com:m1"}, f.edges.deleteCalls)
	assert.Equal(t, []string{"rating-created", "rating-deleted"}, f.pub.topics)
}

func TestDeleteRatingNotFound(t *testing.T) {
	f := newRatingFixture()

	err := f.svc.DeleteRating(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRatingNotFound)
	assert.Zero(t, f.ratings.deleteCalls)
	assert.Empty(t, f.edges.deleteCalls)
}

func TestGetAverageRating(t *testing.T) {
	f := newRatingFixture()
	for i, score := range []int{8, 6, 10} {
		f.ratings.Save(&model.Rating{UserID: string(rune('a' + i)), MovieID: "m1", Rating: score})
	}

	avg, err := f.svc.GetAverageRating("m1")
	require.NoError(t, err)
	assert.InDelta(t, 8.0, avg.Average, 1e-9)
	assert.Equal(t, int64(3), avg.Count)
}

func TestGetAverageRatingEmpty(t *testing.T) {
	f := newRatingFixture()

	// 无评分返回 0.0 / 0，不视为错误
	avg, err := f.svc.GetAverageRating("m1")
	require.NoError(t, err)
	assert.Zero(t, avg.Average)
	assert.Zero(t, avg.Count)
}
