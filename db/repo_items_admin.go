// db/repo_items_admin.go
package db

import (
	"Gin_postgres_redis_custody_tracker/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListItemsByCategory(ctx context.Context, categoryID string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *Repo) ListAvailableItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("status = ?", models.StatusAvailable).
		Order("name").
		Find(&items).Error
	return items, err
}

// SearchItems 按名称/资产编号模糊搜索
func (r *Repo) SearchItems(ctx context.Context, q string, limit int) ([]models.Item, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	pat := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(inventory_code) LIKE ?", pat, pat).
		Order("name").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// CreateItem 新物品总是 available；编号可选，给了就必须全局唯一
func (r *Repo) CreateItem(ctx context.Context, admin *models.Account, categoryID, name, inventoryCode string) (*models.Item, error) {
	var item *models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).
			Where("id = ?", categoryID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrCategoryNotFound
		}

		var code *string
		if c := strings.TrimSpace(inventoryCode); c != "" {
			var dup int64
			if err := tx.Model(&models.Item{}).
				Where("inventory_code = ?", c).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				return ErrDuplicateCode
			}
			code = &c
		}

		it := &models.Item{
			ID:            uuid.NewString(),
			CategoryID:    categoryID,
			Name:          name,
			InventoryCode: code,
			Status:        models.StatusAvailable,
		}
		if err := tx.Create(it).Error; err != nil {
			return err
		}
		if err := r.logAdmin(tx, admin, "create_item",
			fmt.Sprintf("category=%s,name=%s", categoryID, name)); err != nil {
			return err
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RenameItem 目标不存在时返回 (false, nil)，不报错
func (r *Repo) RenameItem(ctx context.Context, admin *models.Account, id, newName string) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ?", id).
			Update("name", newName)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return r.logAdmin(tx, admin, "rename_item",
			fmt.Sprintf("id=%s,new_name=%s", id, newName))
	})
	return found, err
}

// SetItemCode 同 RenameItem 的 bool 契约；编号冲突报 ErrDuplicateCode
func (r *Repo) SetItemCode(ctx context.Context, admin *models.Account, id, newCode string) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var code *string
		if c := strings.TrimSpace(newCode); c != "" {
			var dup int64
			if err := tx.Model(&models.Item{}).
				Where("inventory_code = ? AND id <> ?", c, id).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				return ErrDuplicateCode
			}
			code = &c
		}
		res := tx.Model(&models.Item{}).
			Where("id = ?", id).
			Update("inventory_code", code)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return r.logAdmin(tx, admin, "update_item_code",
			fmt.Sprintf("id=%s,new_code=%s", id, newCode))
	})
	return found, err
}

// ForceStatus 管理员强制状态变更：绕过持有人检查，离开 taken 时清空持有人。
// 不追加 CustodyEvent —— 这是纠错记账，不是拍照作证的交接，只进审计日志。
// 不允许强制改成 taken：taken 只能经由 CheckOut 产生，否则持有人无从谈起。
func (r *Repo) ForceStatus(ctx context.Context, admin *models.Account, itemID, status string) (bool, error) {
	if !models.ValidStatus(status) || status == models.StatusTaken {
		return false, ErrInvalidTransition
	}

	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ?", itemID).
			Updates(map[string]any{
				"status":            status,
				"current_holder_id": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return r.logAdmin(tx, admin, "set_item_status",
			fmt.Sprintf("item=%s,status=%s", itemID, status))
	})
	return found, err
}

// DeleteItem 硬删除，连同其交接历史（删除后账本不可重建）
func (r *Repo) DeleteItem(ctx context.Context, admin *models.Account, id string) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.CustodyEvent{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return r.logAdmin(tx, admin, "delete_item", "id="+id)
	})
	return found, err
}
