package repository

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// EdgeRepository 维护与记录存储一一对应的图边。
// 评分记录对应 RATED 边，想看清单条目对应 IN_WATCHLIST 边；
// 记录写入成功后必须同步写边，否则整个操作按失败处理。
type EdgeRepository struct {
	graph *Graph
}

func NewEdgeRepository(graph *Graph) *EdgeRepository {
	return &EdgeRepository{graph: graph}
}

// MergeRated 写入/更新 RATED 边（MERGE 保证每对用户-电影只有一条边）
func (r *EdgeRepository) MergeRated(ctx context.Context, email, movieID string, rating int, comment string, timestamp time.Time) error {
	return r.write(ctx, `
		MATCH (m:Movie {id: $movieId})
		MERGE (u:User {email: $email})
		MERGE (u)-[e:RATED]->(m)
		SET e.rating = $rating,
		    e.comment = $comment,
		    e.timestamp = $timestamp
	`, map[string]any{
		"email":     email,
		"movieId":   movieID,
		"rating":    rating,
		"comment":   comment,
		"timestamp": timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// DeleteRated 删除 RATED 边
func (r *EdgeRepository) DeleteRated(ctx context.Context, email, movieID string) error {
	return r.write(ctx, `
		MATCH (u:User {email: $email})-[e:RATED]->(m:Movie {id: $movieId})
		DELETE e
	`, map[string]any{
		"email":   email,
		"movieId": movieID,
	})
}

// MergeWatchlisted 写入 IN_WATCHLIST 边
func (r *EdgeRepository) MergeWatchlisted(ctx context.Context, email, movieID string, addedAt time.Time) error {
	return r.write(ctx, `
		MATCH (m:Movie {id: $movieId})
		MERGE (u:User {email: $email})
		MERGE (u)-[e:IN_WATCHLIST]->(m)
		SET e.addedAt = $addedAt
	`, map[string]any{
		"email":   email,
		"movieId": movieID,
		"addedAt": addedAt.UTC().Format(time.RFC3339Nano),
	})
}

// DeleteWatchlisted 删除 IN_WATCHLIST 边
func (r *EdgeRepository) DeleteWatchlisted(ctx context.Context, email, movieID string) error {
	return r.write(ctx, `
		MATCH (u:User {email: $email})-[e:IN_WATCHLIST]->(m:Movie {id: $movieId})
		DELETE e
	`, map[string]any{
		"email":   email,
		"movieId": movieID,
	})
}

func (r *EdgeRepository) write(ctx context.Context, query string, params map[string]any) error {
	session := r.graph.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if _, err := rs.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
