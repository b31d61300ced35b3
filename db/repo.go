package db

import (
	"Gin_postgres_redis_custody_tracker/models"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Accounts

type EnsureAccountInput struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string

	// 首次接触时的管理员白名单（由调用方显式传入，不读全局状态）
	AdminIDs       []int64
	AdminUsernames []string // 已归一化：小写、无 @ 前缀
}

func (in EnsureAccountInput) allowListed() bool {
	for _, id := range in.AdminIDs {
		if id == in.TelegramID {
			return true
		}
	}
	u := strings.ToLower(strings.TrimPrefix(in.Username, "@"))
	if u == "" {
		return false
	}
	for _, name := range in.AdminUsernames {
		if name == u {
			return true
		}
	}
	return false
}

// EnsureAccount 首次交互懒创建账号；每次接触刷新资料字段。
// 白名单命中只会授予、从不回收管理员权限。
func (r *Repo) EnsureAccount(ctx context.Context, in EnsureAccountInput) (*models.Account, error) {
	var acc models.Account
	err := r.DB.WithContext(ctx).Where("telegram_id = ?", in.TelegramID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acc = models.Account{
			ID:         uuid.NewString(),
			TelegramID: in.TelegramID,
			Username:   in.Username,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			IsAdmin:    in.allowListed(),
		}
		if err := r.DB.WithContext(ctx).Create(&acc).Error; err != nil {
			return nil, err
		}
		return &acc, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"username":   in.Username,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
	}
	if !acc.IsAdmin && in.allowListed() {
		updates["is_admin"] = true
		acc.IsAdmin = true
	}
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", acc.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	acc.Username = in.Username
	acc.FirstName = in.FirstName
	acc.LastName = in.LastName
	return &acc, nil
}

func (r *Repo) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *Repo) FindAccountByTelegramID(ctx context.Context, tgID int64) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).First(&acc, "telegram_id = ?", tgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *Repo) TouchAccountSeen(ctx context.Context, accountID string) error {
	return r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// 列表（分页 + 关键词，匹配 username / 姓名）
type ListAccountsResult struct {
	Accounts []models.Account `json:"accounts"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListAccounts(ctx context.Context, q string, page, size int) (ListAccountsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Account{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListAccountsResult{}, err
	}

	var accounts []models.Account
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&accounts).Error; err != nil {
		return ListAccountsResult{}, err
	}
	return ListAccountsResult{Accounts: accounts, Total: total}, nil
}

func (r *Repo) ListAdmins(ctx context.Context) ([]models.Account, error) {
	var admins []models.Account
	err := r.DB.WithContext(ctx).
		Where("is_admin = ?", true).
		Order("created_at").
		Find(&admins).Error
	return admins, err
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.Account{}).
		Where("is_admin = ?", true).
		Count(&n).Error
	return n, err
}

// ToggleAdmin 翻转目标账号的管理员标志，返回新值；目标不存在时返回 (nil, nil)。
// 降级最后一名管理员会被拒绝（ErrLastAdmin）。
func (r *Repo) ToggleAdmin(ctx context.Context, admin *models.Account, targetID string) (*bool, error) {
	var newValue *bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Account
		if err := tx.First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // bool 契约：调用方只关心找没找到
			}
			return err
		}

		if target.IsAdmin {
			var n int64
			if err := tx.Model(&models.Account{}).
				Where("is_admin = ?", true).
				Count(&n).Error; err != nil {
				return err
			}
			if n <= 1 {
				return ErrLastAdmin
			}
		}

		v := !target.IsAdmin
		if err := tx.Model(&models.Account{}).
			Where("id = ?", targetID).
			Update("is_admin", v).Error; err != nil {
			return err
		}
		if err := r.logAdmin(tx, admin, "toggle_admin",
			"target="+targetID+",new_is_admin="+boolString(v)); err != nil {
			return err
		}
		newValue = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newValue, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
