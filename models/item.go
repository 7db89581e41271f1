package models

import (
	"time"
)

// Item 商品，所有用户共享
// 名称全局唯一（与类别无关），CategoryID 只在创建时写入
type Item struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CategoryID uint      `json:"category_id" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Item) TableName() string {
	return "items"
}

// ItemWithCategory 商品及其类别名称（用于输入联想）
type ItemWithCategory struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
}
