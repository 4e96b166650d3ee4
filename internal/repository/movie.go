package repository

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/user/graphflix/internal/model"
	"github.com/user/graphflix/internal/utils"
)

type MovieRepository struct {
	graph *Graph
	cache *utils.LookupCache[model.Movie]
}

func NewMovieRepository(graph *Graph) *MovieRepository {
	return &MovieRepository{
		graph: graph,
		// 电影节点对本系统只读，短期缓存可以安全复用
		cache: utils.NewLookupCache[model.Movie](1000, 10*time.Minute),
	}
}

// FindByID 根据 ID 查找电影（带演员/导演信息），未找到返回 nil
func (r *MovieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	if cached, ok := r.cache.Get(id); ok {
		return &cached, nil
	}

	session := r.graph.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, `
			MATCH (m:Movie {id: $id})
			OPTIONAL MATCH (m)<-[:ACTED_IN]-(a:Person)
			OPTIONAL MATCH (m)<-[:DIRECTED]-(d:Person)
			RETURN m,
			       [p IN collect(DISTINCT a) | p {.id, .name, .born}] AS actors,
			       [p IN collect(DISTINCT d) | p {.id, .name, .born}] AS directors
		`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		records, err := rs.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		record := records[0]

		node, ok := record.Get("m")
		if !ok {
			return nil, nil
		}
		movie := movieFromNode(node.(neo4j.Node))
		if v, ok := record.Get("actors"); ok {
			movie.Actors = personsFromValue(v)
		}
		if v, ok := record.Get("directors"); ok {
			movie.Director = personsFromValue(v)
		}
		return &movie, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	movie := result.(*model.Movie)
	r.cache.Set(id, *movie)
	return movie, nil
}

// SearchByTitle 按标题模糊搜索电影
func (r *MovieRepository) SearchByTitle(ctx context.Context, title string, limit int) ([]model.Movie, error) {
	session := r.graph.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rs, err := tx.Run(ctx, `
			MATCH (m:Movie)
			WHERE toLower(m.title) CONTAINS toLower($title)
			RETURN m
			ORDER BY m.released DESC
			LIMIT $limit
		`, map[string]any{"title": title, "limit": limit})
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

// collectMovies 从结果集里取出 m 列的电影节点
func collectMovies(ctx context.Context, rs neo4j.ResultWithContext) ([]model.Movie, error) {
	records, err := rs.Collect(ctx)
	if err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(records))
	for _, record := range records {
		node, ok := record.Get("m")
		if !ok {
			continue
		}
		movies = append(movies, movieFromNode(node.(neo4j.Node)))
	}
	return movies, nil
}

// movieFromNode 电影节点转模型
func movieFromNode(node neo4j.Node) model.Movie {
	return model.Movie{
		ID:       stringProp(node.Props, "id"),
		Title:    stringProp(node.Props, "title"),
		Released: intProp(node.Props, "released"),
		Tagline:  stringProp(node.Props, "tagline"),
	}
}

// personsFromValue 人物投影列表转模型
func personsFromValue(value any) []model.Person {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	persons := make([]model.Person, 0, len(items))
	for _, item := range items {
		props, ok := item.(map[string]any)
		if !ok {
			continue
		}
		person := model.Person{
			ID:   stringProp(props, "id"),
			Name: stringProp(props, "name"),
			Born: intProp(props, "born"),
		}
		if person.ID == "" && person.Name == "" {
			// OPTIONAL MATCH 未命中时 collect 会产生空投影
			continue
		}
		persons = append(persons, person)
	}
	return persons
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	if v, ok := props[key].(int64); ok {
		return int(v)
	}
	return 0
}
