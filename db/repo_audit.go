package db

import (
	"Gin_postgres_redis_custody_tracker/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// logAdmin 在所属事务内追加一条审计记录；所有管理变更都走这里
func (r *Repo) logAdmin(tx *gorm.DB, admin *models.Account, action, details string) error {
	entry := &models.AuditLog{
		Action:  action,
		Details: details,
	}
	if admin != nil {
		entry.AdminID = &admin.ID
		entry.AdminUsername = admin.Username
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *Repo) ListAuditLog(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.AuditLog
	err := r.DB.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
