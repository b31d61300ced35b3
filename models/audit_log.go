package models

import "time"

// AuditLog 记录管理操作的审计信息（分类/物品/账号管理、强制状态变更）。
// 与 CustodyEvent 分开：管理操作没有照片证据，属于纠错记账。
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 可空：管理员账号后续被移除时日志仍保留
	AdminID       *string   `gorm:"type:uuid;index" json:"adminId,omitempty"`
	AdminUsername string    `gorm:"size:64" json:"adminUsername,omitempty"`
	Action        string    `gorm:"size:128;not null" json:"action"`
	Details       string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string { return "lsb_audit_log" }
