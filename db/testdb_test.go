package db

import (
	"context"
	"testing"

	"Gin_postgres_redis_custody_tracker/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo 内存 SQLite；单连接，事务串行化，测试结果确定
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(gdb)
}

func mkAccount(t *testing.T, r *Repo, tgID int64, username string, isAdmin bool) *models.Account {
	t.Helper()
	acc := &models.Account{
		ID:         uuid.NewString(),
		TelegramID: tgID,
		Username:   username,
		IsAdmin:    isAdmin,
	}
	if err := r.DB.Create(acc).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return acc
}

func mkCategory(t *testing.T, r *Repo, name string) *models.Category {
	t.Helper()
	cat := &models.Category{ID: uuid.NewString(), Name: name, IsActive: true}
	if err := r.DB.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return cat
}

func mkItem(t *testing.T, r *Repo, categoryID, name string) *models.Item {
	t.Helper()
	it := &models.Item{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Name:       name,
		Status:     models.StatusAvailable,
	}
	if err := r.DB.Create(it).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return it
}

func reloadItem(t *testing.T, r *Repo, id string) *models.Item {
	t.Helper()
	it, err := r.FindItemByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	return it
}

func countEvents(t *testing.T, r *Repo, itemID string) int64 {
	t.Helper()
	var n int64
	if err := r.DB.Model(&models.CustodyEvent{}).
		Where("item_id = ?", itemID).Count(&n).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func countAudit(t *testing.T, r *Repo, action string) int64 {
	t.Helper()
	var n int64
	if err := r.DB.Model(&models.AuditLog{}).
		Where("action = ?", action).Count(&n).Error; err != nil {
		t.Fatalf("count audit: %v", err)
	}
	return n
}
