package service

import (
	"time"

	"purchases/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatUSD 金额显示为美元格式，如 $1,234.50
func FormatUSD(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v.Round(2).InexactFloat64())
}

// Decorate 填充购买记录的展示价格和展示日期
func Decorate(v *models.PurchaseView, loc *time.Location) {
	v.PriceDisplay = FormatUSD(v.Price)
	v.DateDisplay = FormatDate(v.Date, loc)
}

// FormatDate 将 Unix 秒按 loc 时区格式化为 YYYY-MM-DD，未填写日期返回空字符串
func FormatDate(epoch int64, loc *time.Location) string {
	if epoch == models.NoDate {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc).Format(DateLayout)
}
