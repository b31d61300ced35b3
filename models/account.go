package models

import (
	"strings"
	"time"
)

const AccountTable = "lsb_accounts"

// Account 以 Telegram ID 作为外部身份，首次交互时懒创建，永不硬删除
type Account struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegramId"`
	Username   string `gorm:"size:64;index" json:"username,omitempty"`
	FirstName  string `gorm:"size:64" json:"firstName,omitempty"`
	LastName   string `gorm:"size:64" json:"lastName,omitempty"`
	IsAdmin    bool   `gorm:"not null;default:false" json:"isAdmin"`

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Account) TableName() string { return AccountTable }

// DisplayName 优先用姓名，缺省回退到 username
func (a *Account) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if full != "" {
		return full
	}
	if a.Username != "" {
		return "@" + a.Username
	}
	return a.ID
}
