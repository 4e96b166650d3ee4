package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/user/graphflix/internal/model"
)

// RecommendationRepository 推荐查询（全部为只读遍历，可安全并行）
type RecommendationRepository struct {
	graph *Graph
}

func NewRecommendationRepository(graph *Graph) *RecommendationRepository {
	return &RecommendationRepository{graph: graph}
}

// FindMoviesByLikedActors 演员亲和遍历：
// 用户打了高分的电影 -> 这些电影的演员 -> 演员出演的其他未看电影，
// 按命中演员数降序、上映年份降序排列。
func (r *RecommendationRepository) FindMoviesByLikedActors(ctx context.Context, email string, minRating, limit int) ([]model.Movie, error) {
	return r.candidateQuery(ctx, `
		MATCH (user:User {email: $email})-[r:RATED]->(likedMovie:Movie)
		WHERE r.rating >= $minRating
		WITH user, likedMovie
		MATCH (likedMovie)<-[:ACTED_IN]-(actor:Person)-[:ACTED_IN]->(m:Movie)
		WHERE NOT (user)-[:RATED]->(m)
		AND m <> likedMovie
		RETURN m, count(DISTINCT actor) AS matches
		ORDER BY matches DESC, m.released DESC
		LIMIT $limit
	`, email, minRating, limit)
}

// FindMoviesByLikedDirectors 导演亲和遍历，结构与演员遍历一致
func (r *RecommendationRepository) FindMoviesByLikedDirectors(ctx context.Context, email string, minRating, limit int) ([]model.Movie, error) {
	return r.candidateQuery(ctx, `
		MATCH (user:User {email: $email})-[r:RATED]->(likedMovie:Movie)
		WHERE r.rating >= $minRating
		WITH user, likedMovie
		MATCH (likedMovie)<-[:DIRECTED]-(director:Person)-[:DIRECTED]->(m:Movie)
		WHERE NOT (user)-[:RATED]->(m)
		AND m <> likedMovie
		RETURN m, count(DISTINCT director) AS matches
		ORDER BY matches DESC, m.released DESC
		LIMIT $limit
	`, email, minRating, limit)
}

func (r *RecommendationRepository) candidateQuery(ctx context.Context, query, email string, minRating, limit int) ([]model.Movie, error) {
	session := r.graph.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, query, map[string]any{
			"email":     email,
			"minRating": minRating,
			"limit":     limit,
		})
		if err != nil {
			return nil, err
		}
		return collectMovies(ctx, rs)
	})
	if err != nil {
		return nil, err
	}
	return result.([]model.Movie), nil
}

// FindTrendingMovies 全局热门：至少有一条评分的电影，
// 按评分人数降序、平均分降序排列。零评分电影不参与排名。
func (r *RecommendationRepository) FindTrendingMovies(ctx context.Context, limit int) ([]model.Movie, error) {
	session := r.graph.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, `
			MATCH (m:Movie)<-[r:RATED]-(u:User)
			WITH m, count(r) AS ratingCount, avg(r.rating) AS avgRating
			WHERE ratingCount >= 1
			RETURN m
			ORDER BY ratingCount DESC, avgRating DESC
			LIMIT $limit
		`, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}
		return collectMovies(ctx, rs)
	})
	if err != nil {
		return nil, err
	}
	return result.([]model.Movie), nil
}

// CountUserRatings 统计用户的评分数（冷启动判断依据）
func (r *RecommendationRepository) CountUserRatings(ctx context.Context, email string) (int64, error) {
	session := r.graph.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, `
			MATCH (user:User {email: $email})-[r:RATED]->(m:Movie)
			RETURN count(r) AS ratingCount
		`, map[string]any{"email": email})
		if err != nil {
			return nil, err
		}

		records, err := rs.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return int64(0), nil
		}
		if v, ok := records[0].Get("ratingCount"); ok {
			if count, ok := v.(int64); ok {
				return count, nil
			}
		}
		return int64(0), nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}
