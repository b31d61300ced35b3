package main

import (
	"Gin_postgres_redis_custody_tracker/app"
	"Gin_postgres_redis_custody_tracker/config"
	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/metrics"
	"Gin_postgres_redis_custody_tracker/routes"
	"context"
	"os"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health + metrics
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })
	r.GET("/metrics", metrics.Handler())

	routes.RegisterRoutes(r, application)

	// 启动提示：没有管理员也没配白名单时，没人能做管理操作
	app.CheckAdminBootstrap(context.Background(), application.Config,
		db.NewRepo(application.DB), application.Log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	application.Log.Info("listening", zap.String("port", port))
	_ = r.Run(":" + port)
}
