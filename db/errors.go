package db

import "errors"

// 业务错误；controllers 按类别映射到 HTTP 状态码，绝不吞掉
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAccountNotFound  = errors.New("account not found")

	// 状态前置条件不满足（已被借走 / lost / maintenance 等）
	ErrInvalidTransition = errors.New("item state does not allow this transition")
	// 自助归还只能还自己手上的物品
	ErrNotHolder = errors.New("item is held by another user")

	ErrDuplicateCode = errors.New("inventory code already in use")
	ErrDuplicateName = errors.New("category name already in use")

	// 策略：最后一名管理员不可自降权限
	ErrLastAdmin = errors.New("cannot demote the last administrator")
	// 策略：分类下仍有非 available 的物品时禁止删除
	ErrCategoryNotEmptyTaken = errors.New("category contains items that are not available")
)
