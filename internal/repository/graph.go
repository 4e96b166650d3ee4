package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Graph Neo4j 连接封装
type Graph struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// InitGraph 初始化 Neo4j 连接并验证连通性
func InitGraph(uri, user, password, database string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""), func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = 50
		cfg.SocketConnectTimeout = 10 * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建 Neo4j 驱动: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("Neo4j 连接失败: %w", err)
	}

	return &Graph{Driver: driver, Database: database}, nil
}

// Close 关闭连接
func (g *Graph) Close(ctx context.Context) error {
	if g == nil || g.Driver == nil {
		return nil
	}
	return g.Driver.Close(ctx)
}

// readSession 创建只读会话
func (g *Graph) readSession(ctx context.Context) neo4j.SessionWithContext {
	return g.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.Database,
	})
}

// writeSession 创建写会话
func (g *Graph) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return g.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.Database,
	})
}
