package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/graphflix/internal/model"
)

type fakeWatchlistStore struct {
	items       map[string]*model.Watchlist
	createCalls int
	deleteCalls int
	nextID      int64
}

func newFakeWatchlistStore() *fakeWatchlistStore {
	return &fakeWatchlistStore{items: map[string]*model.Watchlist{}}
}

func (f *fakeWatchlistStore) key(userID, movieID string) string {
	return userID + ":" + movieID
}

func (f *fakeWatchlistStore) FindByUserAndMovie(userID, movieID string) (*model.Watchlist, error) {
	return f.items[f.key(userID, movieID)], nil
}

func (f *fakeWatchlistStore) Create(rec *model.Watchlist) error {
	f.createCalls++
	f.nextID++
	rec.ID = f.nextID
	f.items[f.key(rec.UserID, rec.MovieID)] = rec
	return nil
}

func (f *fakeWatchlistStore) Delete(rec *model.Watchlist) error {
	f.deleteCalls++
	delete(f.items, f.key(rec.UserID, rec.MovieID))
	return nil
}

func (f *fakeWatchlistStore) PageByUser(userID string, page, size int) ([]*model.Watchlist, int64, error) {
	var out []*model.Watchlist
	for _, rec := range f.items {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWatchlistStore) Exists(userID, movieID string) (bool, error) {
	_, ok := f.items[f.key(userID, movieID)]
	return ok, nil
}

func (f *fakeWatchlistStore) CountByUser(userID string) (int64, error) {
	_, total, _ := f.PageByUser(userID, 0, 0)
	return total, nil
}

type fakeWatchlistEdgeStore struct {
	mergeCalls  []string
	deleteCalls []string
}

func (f *fakeWatchlistEdgeStore) MergeWatchlisted(_ context.Context, email, movieID string, _ time.Time) error {
	f.mergeCalls = append(f.mergeCalls, email+":"+movieID)
	return nil
}

func (f *fakeWatchlistEdgeStore) DeleteWatchlisted(_ context.Context, email, movieID string) error {
	f.deleteCalls = append(f.deleteCalls, email+":"+movieID)
	return nil
}

type watchlistFixture struct {
	svc   *WatchlistService
	items *fakeWatchlistStore
	edges *fakeWatchlistEdgeStore
	pub   *fakePublisher
}

func newWatchlistFixture() *watchlistFixture {
	items := newFakeWatchlistStore()
	users := &fakeUserStore{users: map[string]*model.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	movies := &fakeMovieFinder{movies: map[string]*model.Movie{
		"m1": {ID: "m1", Title: "黑客帝国", Released: 1999},
	}}
	edges := &fakeWatchlistEdgeStore{}
	pub := &fakePublisher{}
	events := NewWatchlistEventProducer(pub, testTopics())

	return &watchlistFixture{
		svc:   NewWatchlistService(items, users, movies, edges, events),
		items: items,
		edges: edges,
		pub:   pub,
	}
}

func TestWatchlistAdd(t *testing.T) {
	f := newWatchlistFixture()

	item, err := f.svc.Add(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "alice@example.com", item.UserID)
	assert.Equal(t, "黑客帝国", item.MovieTitle)
	assert.Equal(t, []string{"alice@example.com:m1"}, f.edges.mergeCalls)
	assert.Equal(t, []string{"watchlist-added"}, f.pub.topics)
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	f := newWatchlistFixture()

	first, err := f.svc.Add(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)
	second, err := f.svc.Add(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)

	// 重复添加直接返回已有条目，不再写入也不发事件
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.items.createCalls)
	assert.Equal(t, []string{"watchlist-added"}, f.pub.topics)
}

func TestWatchlistAddUserNotFound(t *testing.T) {
	f := newWatchlistFixture()

	_, err := f.svc.Add(context.Background(), "nobody@example.com", "m1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, f.items.createCalls)
}

func TestWatchlistAddMovieNotFound(t *testing.T) {
	f := newWatchlistFixture()

	_, err := f.svc.Add(context.Background(), "alice@example.com", "missing")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Zero(t, f.items.createCalls)
}

func TestWatchlistRemove(t *testing.T) {
	f := newWatchlistFixture()

	_, err := f.svc.Add(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)

	err = f.svc.Remove(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)

	assert.Empty(t, f.items.items)
	assert.Equal(t, []string{"alice@example.com:m1"}, f.edges.deleteCalls)
	assert.Equal(t, []string{"watchlist-added", "watchlist-removed"}, f.pub.topics)
}

func TestWatchlistRemoveNotFound(t *testing.T) {
	f := newWatchlistFixture()

	err := f.svc.Remove(context.Background(), "alice@example.com", "m1")
	assert.ErrorIs(t, err, ErrWatchlistNotFound)
	assert.Zero(t, f.items.deleteCalls)
	assert.Empty(t, f.edges.deleteCalls)
}

func TestWatchlistContains(t *testing.T) {
	f := newWatchlistFixture()

	exists, err := f.svc.Contains("alice@example.com", "m1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.svc.Add(context.Background(), "alice@example.com", "m1")
	require.NoError(t, err)

	exists, err = f.svc.Contains("alice@example.com", "m1")
	require.NoError(t, err)
	assert.True(t, exists)
}
