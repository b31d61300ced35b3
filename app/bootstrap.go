// app/bootstrap.go
package app

import (
	"context"

	"Gin_postgres_redis_custody_tracker/db"

	"go.uber.org/zap"
)

// CheckAdminBootstrap 启动时确认系统能产生管理员。
// 账号是首次接触懒创建的，所以这里只能提示，不能造账号。
func CheckAdminBootstrap(ctx context.Context, cfg Config, repo *db.Repo, logger *zap.Logger) {
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		logger.Warn("admin bootstrap check failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("administrators present", zap.Int64("count", n))
		return
	}
	if len(cfg.AdminIDs) == 0 && len(cfg.AdminUsernames) == 0 {
		logger.Warn("no administrators exist and ADMIN_IDS/ADMIN_USERNAMES are empty; " +
			"nobody will be able to manage categories or items")
		return
	}
	logger.Info("no administrators yet; first contact from the allow-list will be promoted",
		zap.Int64s("adminIds", cfg.AdminIDs),
		zap.Strings("adminUsernames", cfg.AdminUsernames))
}
