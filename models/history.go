package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// NoDate 购买日期缺省时的占位值，任何 YYYY-MM-DD 日期都不会换算到该值
const NoDate int64 = math.MinInt64

// History 购买记录，每条代表用户的一次购买
// (user_id, item_id, t_date, price) 唯一，重复提交会被忽略
type History struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;index;uniqueIndex:idx_history_entry"`
	ItemID    uint            `json:"item_id" gorm:"not null;index;uniqueIndex:idx_history_entry"`
	Date      int64           `json:"date" gorm:"column:t_date;not null;uniqueIndex:idx_history_entry"` // 当地零点的 Unix 秒，NoDate 表示未填写
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;uniqueIndex:idx_history_entry"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (History) TableName() string {
	return "history"
}

// HasDate 是否填写了购买日期
func (h *History) HasDate() bool {
	return h.Date != NoDate
}

// PurchaseView 购买记录联表视图（history + items + categories + users）
type PurchaseView struct {
	HistoryID    uint            `json:"history_id"`
	ItemID       uint            `json:"item_id"`
	ItemName     string          `json:"item_name"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Date         int64           `json:"date"`
	Username     string          `json:"username"`

	// 展示字段，查询后由接口层填充
	PriceDisplay string `json:"price_display" gorm:"-"`
	DateDisplay  string `json:"date_display" gorm:"-"`
}
