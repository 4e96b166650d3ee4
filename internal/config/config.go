package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string

	// Neo4j 图数据库
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Kafka 事件总线
	KafkaBrokers string
	Topics       Topics

	// 热门推荐缓存有效期
	TrendingTTL time.Duration
}

// Topics 事件主题配置
type Topics struct {
	RatingCreated    string
	RatingUpdated    string
	RatingDeleted    string
	WatchlistAdded   string
	WatchlistRemoved string
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	trendingSeconds, _ := strconv.Atoi(getEnv("TRENDING_CACHE_SECONDS", "60"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "graphflix")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		AppSecret:   appSecret,
		DatabaseURL: dbURL,
		JWTExpiry:   time.Duration(expiryHours) * time.Hour,
		Port:        getEnv("PORT", "5008"),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "neo4j"),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", ""),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
		Topics: Topics{
			RatingCreated:    getEnv("KAFKA_TOPIC_RATING_CREATED", "rating-created"),
			RatingUpdated:    getEnv("KAFKA_TOPIC_RATING_UPDATED", "rating-updated"),
			RatingDeleted:    getEnv("KAFKA_TOPIC_RATING_DELETED", "rating-deleted"),
			WatchlistAdded:   getEnv("KAFKA_TOPIC_WATCHLIST_ADDED", "watchlist-added"),
			WatchlistRemoved: getEnv("KAFKA_TOPIC_WATCHLIST_REMOVED", "watchlist-removed"),
		},

		TrendingTTL: time.Duration(trendingSeconds) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
