// models/item.go
package models

import "time"

const ItemTable = "lsb_items"

// 物品生命周期状态；taken 时必须有 current_holder_id，其余状态必须为空
const (
	StatusAvailable   = "available"
	StatusTaken       = "taken"
	StatusLost        = "lost"
	StatusMaintenance = "maintenance"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusTaken, StatusLost, StatusMaintenance:
		return true
	}
	return false
}

type Item struct {
	ID         string  `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID string  `gorm:"type:uuid;index;not null" json:"categoryId"`
	Name       string  `gorm:"size:128;not null" json:"name"`
	// 可选的资产编号，存在时全局唯一
	InventoryCode *string `gorm:"size:64;uniqueIndex" json:"inventoryCode,omitempty"`
	Status        string  `gorm:"size:20;not null;default:'available'" json:"status"`
	// ✅ 冗余列：当前持有人，与 status=taken 保持一致（见 db.Migrate 的约束）
	CurrentHolderID *string `gorm:"type:uuid;index" json:"currentHolderId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
