package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/user/graphflix/internal/config"
	"github.com/user/graphflix/internal/model"
	"github.com/user/graphflix/internal/utils"
	"golang.org/x/sync/errgroup"
)

// 推荐评分规则。
// 候选电影按来源赋分，演员+导演双重命中升级为最高分；
// 热门候选兜底，分数最低。
const (
	minLikedRating     = 7
	coldStartThreshold = 3
	defaultRecLimit    = 10
	maxRecLimit        = 50

	scoreActor         = 0.8
	scoreDirector      = 0.7
	scoreActorDirector = 1.0
	scoreTrending      = 0.5

	reasonActor         = "Because you liked movies with these actors"
	reasonDirector      = "Because you liked movies directed by these directors"
	reasonActorDirector = "Because you liked movies with these actors and directors"
	reasonTrending      = "Trending now"
)

type recommendationStore interface {
	FindMoviesByLikedActors(ctx context.Context, email string, minRating, limit int) ([]model.Movie, error)
	FindMoviesByLikedDirectors(ctx context.Context, email string, minRating, limit int) ([]model.Movie, error)
	FindTrendingMovies(ctx context.Context, limit int) ([]model.Movie, error)
	CountUserRatings(ctx context.Context, email string) (int64, error)
}

// RecommendationService 个性化推荐与热门推荐
type RecommendationService struct {
	store recommendationStore
	cfg   *config.Config
}

func NewRecommendationService(store recommendationStore, cfg *config.Config) *RecommendationService {
	return &RecommendationService{store: store, cfg: cfg}
}

// GetPersonalized 个性化推荐。
// 评分不足 3 条的用户视为冷启动，直接返回热门推荐；
// 否则并行执行演员/导演亲和遍历，合并打分后排序截断。
func (s *RecommendationService) GetPersonalized(ctx context.Context, email string, limit int) ([]model.RecommendedMovie, error) {
	limit = clampLimit(limit)

	count, err := s.store.CountUserRatings(ctx, email)
	if err != nil {
		return nil, err
	}
	if count < coldStartThreshold {
		return s.GetTrending(ctx, limit)
	}

	var actorMovies, directorMovies []model.Movie
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		actorMovies, err = s.store.FindMoviesByLikedActors(gctx, email, minLikedRating, limit)
		return err
	})
	g.Go(func() error {
		var err error
		directorMovies, err = s.store.FindMoviesByLikedDirectors(gctx, email, minLikedRating, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeCandidates(actorMovies, directorMovies, limit), nil
}

// mergeCandidates 合并演员/导演候选并打分。
// 插入顺序保留：演员候选先入表，双重命中的只升级分数不改位置，
// 排序只比较分数，同分时保持插入顺序。
func mergeCandidates(actorMovies, directorMovies []model.Movie, limit int) []model.RecommendedMovie {
	keys := make([]string, 0, len(actorMovies)+len(directorMovies))
	merged := make(map[string]*model.RecommendedMovie, len(actorMovies)+len(directorMovies))

	for _, m := range actorMovies {
		if _, ok := merged[m.ID]; ok {
			continue
		}
		keys = append(keys, m.ID)
		merged[m.ID] = &model.RecommendedMovie{
			ID:       m.ID,
			Title:    m.Title,
			Released: m.Released,
			Tagline:  m.Tagline,
			Reason:   reasonActor,
			Score:    scoreActor,
		}
	}

	for _, m := range directorMovies {
		if existing, ok := merged[m.ID]; ok {
			existing.Reason = reasonActorDirector
			existing.Score = scoreActorDirector
			continue
		}
		keys = append(keys, m.ID)
		merged[m.ID] = &model.RecommendedMovie{
			ID:       m.ID,
			Title:    m.Title,
			Released: m.Released,
			Tagline:  m.Tagline,
			Reason:   reasonDirector,
			Score:    scoreDirector,
		}
	}

	result := make([]model.RecommendedMovie, 0, len(keys))
	for _, key := range keys {
		result = append(result, *merged[key])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// GetTrending 热门推荐（带短期缓存，冷启动分支和热门接口共用）
func (s *RecommendationService) GetTrending(ctx context.Context, limit int) ([]model.RecommendedMovie, error) {
	limit = clampLimit(limit)

	cacheKey := fmt.Sprintf("trending:%d", limit)
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.([]model.RecommendedMovie), nil
	}

	movies, err := s.store.FindTrendingMovies(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]model.RecommendedMovie, 0, len(movies))
	for _, m := range movies {
		result = append(result, model.RecommendedMovie{
			ID:       m.ID,
			Title:    m.Title,
			Released: m.Released,
			Tagline:  m.Tagline,
			Reason:   reasonTrending,
			Score:    scoreTrending,
		})
	}

	utils.CacheSet(cacheKey, result, s.cfg.TrendingTTL)
	return result, nil
}

// clampLimit 越界的 limit 一律回退默认值
func clampLimit(limit int) int {
	if limit < 1 || limit > maxRecLimit {
		return defaultRecLimit
	}
	return limit
}
