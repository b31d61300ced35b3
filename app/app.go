package app

import (
	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/session"
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config

	identCache *session.IdentityCache
}

// Config 从环境变量读取
type Config struct {
	RedisAddr  string
	RedisPwd   string
	WebOrigin  string
	AuthSecret string

	// 首次接触时授予管理员的白名单；显式传给 EnsureAccount，不做全局单例
	AdminIDs       []int64
	AdminUsernames []string

	IdentityTTL time.Duration
}

func (a *App) IdentityCache() *session.IdentityCache { return a.identCache }

func MustNew() *App {
	logger, err := NewLogger(LoggerConfigFromEnv())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	cfg := loadConfig()
	if cfg.AuthSecret == "" {
		logger.Fatal("AUTH_SECRET is not set")
	}

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Log: logger, Config: cfg,
		identCache: session.NewIdentityCache(rdb, cfg.IdentityTTL),
	}
	return a
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttlSec := get("IDENTITY_CACHE_TTL_SECONDS", "300")
	ttl := 5 * time.Minute
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil {
		ttl = d
	}

	// 例如: "123456789,987654321"
	var adminIDs []int64
	for _, s := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		if t := strings.TrimSpace(s); t != "" {
			if id, err := strconv.ParseInt(t, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}
	// 例如: "@alice,bob" → 归一化成小写、去 @
	var adminNames []string
	for _, s := range strings.Split(os.Getenv("ADMIN_USERNAMES"), ",") {
		if t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@")); t != "" {
			adminNames = append(adminNames, t)
		}
	}

	return Config{
		RedisAddr:      get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:       os.Getenv("REDIS_PASSWORD"),
		WebOrigin:      get("WEB_ORIGIN", "http://localhost:3000"),
		AuthSecret:     os.Getenv("AUTH_SECRET"),
		AdminIDs:       adminIDs,
		AdminUsernames: adminNames,
		IdentityTTL:    ttl,
	}
}
