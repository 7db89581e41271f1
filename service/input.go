package service

import (
	"strings"
	"time"

	"purchases/models"

	"github.com/shopspring/decimal"
)

// DateLayout 购买日期输入格式
const DateLayout = "2006-01-02"

// MaxPrice 价格上限，与 decimal(10,2) 列一致
var MaxPrice = decimal.RequireFromString("99999999.99")

// PurchaseInput 一次购买提交的原始输入
// Date 为空表示未填写日期
type PurchaseInput struct {
	Category string
	Item     string
	Date     string
	Price    string
}

// parsedPurchase 校验通过后的购买数据
type parsedPurchase struct {
	category string
	item     string
	date     int64
	price    decimal.Decimal
}

// NormalizeName 名称去除首尾空白并转为小写，作为类别和商品的唯一标识
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseDate 将 YYYY-MM-DD 解析为 loc 时区当天零点的 Unix 秒
// 空字符串返回 models.NoDate
func ParseDate(s string, loc *time.Location) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.NoDate, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return 0, invalid("date", "日期格式错误，应为: 2006-01-02")
	}
	return t.Unix(), nil
}

// ParsePrice 解析价格，保留两位小数，不允许负数或超过 MaxPrice
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid("price", "价格不能为空")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("price", "价格必须是数字")
	}
	if price.IsNegative() {
		return decimal.Zero, invalid("price", "价格不能为负数")
	}
	price = price.Round(2)
	if price.GreaterThan(MaxPrice) {
		return decimal.Zero, invalid("price", "价格不能超过 99999999.99")
	}
	return price, nil
}

func parsePurchase(in PurchaseInput, loc *time.Location) (*parsedPurchase, error) {
	category := NormalizeName(in.Category)
	if category == "" {
		return nil, invalid("category", "类别不能为空")
	}
	item := NormalizeName(in.Item)
	if item == "" {
		return nil, invalid("item", "商品名称不能为空")
	}
	date, err := ParseDate(in.Date, loc)
	if err != nil {
		return nil, err
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	return &parsedPurchase{category: category, item: item, date: date, price: price}, nil
}
