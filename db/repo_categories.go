// db/repo_categories.go
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

func (r *Repo) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&cats).Error
	return cats, err
}

func (r *Repo) ListAllCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Order("name").Find(&cats).Error
	return cats, err
}

func (r *Repo) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// CreateCategory 名称在活跃/停用分类间都唯一
func (r *Repo) CreateCategory(ctx context.Context, admin *models.Account, name, description string) (*models.Category, error) {
	var cat *models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).
			Where("name = ?", name).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateName
		}
		c := &models.Category{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			IsActive:    true,
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := r.logAdmin(tx, admin, "create_category", "name="+name); err != nil {
			return err
		}
		cat = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// UpdateCategory 改名/改描述；目标不存在时返回 (false, nil)
func (r *Repo) UpdateCategory(ctx context.Context, admin *models.Account, id string, name, description *string) (bool, error) {
	updates := map[string]any{}
	if name != nil {
		updates["name"] = strings.TrimSpace(*name)
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return false, nil
	}

	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if name != nil {
			var n int64
			if err := tx.Model(&models.Category{}).
				Where("name = ? AND id <> ?", updates["name"], id).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateName
			}
		}
		res := tx.Model(&models.Category{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return r.logAdmin(tx, admin, "update_category", fmt.Sprintf("id=%s", id))
	})
	return found, err
}

// SetCategoryActive 软删除/恢复
func (r *Repo) SetCategoryActive(ctx context.Context, admin *models.Account, id string, active bool) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Category{}).
			Where("id = ?", id).
			Update("is_active", active)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		action := "deactivate_category"
		if active {
			action = "activate_category"
		}
		return r.logAdmin(tx, admin, action, "id="+id)
	})
	return found, err
}

// DeleteCategory 硬删除，级联删掉物品和它们的交接历史。
// 仍有非 available 物品（在外/丢失/维修）时拒绝，避免悄悄销毁未了结的账本。
func (r *Repo) DeleteCategory(ctx context.Context, admin *models.Account, id string) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var open int64
		if err := tx.Model(&models.Item{}).
			Where("category_id = ? AND status <> ?", id, models.StatusAvailable).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrCategoryNotEmptyTaken
		}

		if err := tx.Where("item_id IN (?)",
			tx.Model(&models.Item{}).Select("id").Where("category_id = ?", id),
		).Delete(&models.CustodyEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Category{ID: id}).Error; err != nil {
			return err
		}
		found = true
		return r.logAdmin(tx, admin, "delete_category", "id="+id+",name="+cat.Name)
	})
	return found, err
}
