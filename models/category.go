package models

import (
	"time"
)

// Category 商品类别，所有用户共享
// 名称统一为小写，首次使用时创建，之后不再修改或删除
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
