// models/custody_event.go
package models

import "time"

const CustodyEventTable = "lsb_custody_events"

// 交接动作
const (
	ActionTake   = "take"
	ActionReturn = "return"
)

// CustodyEvent 记录一次取用或归还，带照片证据，只追加、永不修改
type CustodyEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    string    `gorm:"type:uuid;index;not null" json:"itemId"`
	AccountID string    `gorm:"type:uuid;index;not null" json:"accountId"`
	Action    string    `gorm:"size:10;not null" json:"action"`
	// 不透明的照片引用（file id 或 URL），原样存储，不做解码
	PhotoRef  string    `gorm:"size:256;not null" json:"photoRef"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (CustodyEvent) TableName() string { return CustodyEventTable }
