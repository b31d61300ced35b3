package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Gin_postgres_redis_custody_tracker/models"

	"gorm.io/gorm"
)

// Custody engine: 唯一允许把物品移入/移出 taken 的地方。
//
// 借出/归还都是单事务的 read-check-write：先读出物品分类错误，
// 再用条件 UPDATE 做原子占位（WHERE 带上期望状态），RowsAffected == 0
// 说明并发竞争输了，按前置条件失败处理。事件与状态变更同事务提交。

// CheckOut 借出：available → taken，追加一条 take 事件
func (r *Repo) CheckOut(ctx context.Context, itemID, accountID, photoRef, comment string) (*models.CustodyEvent, *models.Item, error) {
	var (
		ev   *models.CustodyEvent
		snap models.Item
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if it.Status != models.StatusAvailable {
			return ErrInvalidTransition
		}

		// 原子占位：条件不再成立（被并发借走）则 0 行
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", itemID, models.StatusAvailable).
			Updates(map[string]any{
				"status":            models.StatusTaken,
				"current_holder_id": accountID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		e := &models.CustodyEvent{
			ItemID:    itemID,
			AccountID: accountID,
			Action:    models.ActionTake,
			PhotoRef:  photoRef,
			Comment:   comment,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if err := tx.First(&snap, "id = ?", itemID).Error; err != nil {
			return err
		}
		ev = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ev, &snap, nil
}

// CheckIn 归还：taken → available，清空持有人，追加一条 return 事件。
// 自助规则：只有当前持有人本人可以归还（管理员纠错走 ForceStatus）。
func (r *Repo) CheckIn(ctx context.Context, itemID, accountID, photoRef, comment string) (*models.CustodyEvent, *models.Item, error) {
	var (
		ev   *models.CustodyEvent
		snap models.Item
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if it.Status != models.StatusTaken {
			return ErrInvalidTransition
		}
		if it.CurrentHolderID == nil || *it.CurrentHolderID != accountID {
			return ErrNotHolder
		}

		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ? AND current_holder_id = ?",
				itemID, models.StatusTaken, accountID).
			Updates(map[string]any{
				"status":            models.StatusAvailable,
				"current_holder_id": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		e := &models.CustodyEvent{
			ItemID:    itemID,
			AccountID: accountID,
			Action:    models.ActionReturn,
			PhotoRef:  photoRef,
			Comment:   comment,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if err := tx.First(&snap, "id = ?", itemID).Error; err != nil {
			return err
		}
		ev = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ev, &snap, nil
}

// EventWithActor 历史记录行，带操作人的展示信息
type EventWithActor struct {
	ID        uint      `json:"id"`
	ItemID    string    `json:"itemId"`
	AccountID string    `json:"accountId"`
	Action    string    `json:"action"`
	PhotoRef  string    `json:"photoRef"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// History 物品的交接历史，新的在前
func (r *Repo) History(ctx context.Context, itemID string, limit int) ([]EventWithActor, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrItemNotFound
	}

	var rows []EventWithActor
	err := r.DB.WithContext(ctx).
		Table(models.CustodyEventTable+" e").
		Select(`
			e.id, e.item_id, e.account_id, e.action, e.photo_ref, e.comment, e.created_at,
			u.username, u.first_name, u.last_name
		`).
		Joins("LEFT JOIN "+models.AccountTable+" u ON u.id = e.account_id").
		Where("e.item_id = ?", itemID).
		Order("e.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ListEventsForAccount 某账号的交接历史（自助"我的记录"）
func (r *Repo) ListEventsForAccount(ctx context.Context, accountID string, limit int) ([]models.CustodyEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var events []models.CustodyEvent
	err := r.DB.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// LatestTake 物品最近一次 take 事件；没有则 (nil, nil)
func (r *Repo) LatestTake(ctx context.Context, itemID string) (*models.CustodyEvent, error) {
	var e models.CustodyEvent
	err := r.DB.WithContext(ctx).
		Where("item_id = ? AND action = ?", itemID, models.ActionTake).
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// OnHandsRow 在外物品报表行
type OnHandsRow struct {
	ItemID        string  `json:"itemId"`
	ItemName      string  `json:"itemName"`
	InventoryCode *string `json:"inventoryCode,omitempty"`
	CategoryName  string  `json:"categoryName"`

	HolderID        string `json:"holderId"`
	HolderUsername  string `json:"holderUsername,omitempty"`
	HolderFirstName string `json:"holderFirstName,omitempty"`
	HolderLastName  string `json:"holderLastName,omitempty"`

	TakenAt *time.Time `json:"takenAt,omitempty"` // 最近一次 take 的时间
}

// ListOnHands 所有 taken 状态的物品及其持有人
func (r *Repo) ListOnHands(ctx context.Context) ([]OnHandsRow, error) {
	var rows []OnHandsRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select(`
			i.id AS item_id, i.name AS item_name, i.inventory_code,
			c.name AS category_name,
			u.id AS holder_id, u.username AS holder_username,
			u.first_name AS holder_first_name, u.last_name AS holder_last_name,
			(SELECT e.created_at FROM `+models.CustodyEventTable+` e
			 WHERE e.item_id = i.id AND e.action = 'take'
			 ORDER BY e.id DESC LIMIT 1) AS taken_at
		`).
		Joins("JOIN "+models.AccountTable+" u ON u.id = i.current_holder_id").
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = i.category_id").
		Where("i.status = ?", models.StatusTaken).
		Order("taken_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListHeldBy 某账号当前持有的物品
func (r *Repo) ListHeldBy(ctx context.Context, accountID string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("current_holder_id = ?", accountID).
		Order("name").
		Find(&items).Error
	return items, err
}

// ReconcileHolder 管理员对账：按事件账本重算持有人，与冗余列不一致时修复。
// 只在显式调用时执行，引擎绝不隐式重算。返回修复后的快照和是否发生了修复。
func (r *Repo) ReconcileHolder(ctx context.Context, admin *models.Account, itemID string) (*models.Item, bool, error) {
	var (
		snap     models.Item
		repaired bool
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		// 期望值：taken 时为最近一次 take 的账号，否则为空
		var want *string
		if it.Status == models.StatusTaken {
			var e models.CustodyEvent
			err := tx.Where("item_id = ? AND action = ?", itemID, models.ActionTake).
				Order("id DESC").
				First(&e).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				want = &e.AccountID
			}
		}

		if !holderEqual(it.CurrentHolderID, want) {
			updates := map[string]any{"current_holder_id": want}
			if want == nil && it.Status == models.StatusTaken {
				// taken 却找不到任何 take 事件：账本说这东西没被借走
				updates["status"] = models.StatusAvailable
			}
			if err := tx.Model(&models.Item{}).
				Where("id = ?", itemID).
				Updates(updates).Error; err != nil {
				return err
			}
			details := fmt.Sprintf("item=%s,old_holder=%s,new_holder=%s",
				itemID, holderString(it.CurrentHolderID), holderString(want))
			if err := r.logAdmin(tx, admin, "reconcile_holder", details); err != nil {
				return err
			}
			repaired = true
		}

		return tx.First(&snap, "id = ?", itemID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &snap, repaired, nil
}

func holderEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func holderString(h *string) string {
	if h == nil {
		return "none"
	}
	return *h
}
