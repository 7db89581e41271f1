package service

import (
	"purchases/models"
)

const secondsPerDay = 86400

// DayNumber 将 Unix 秒换算为自 1970-01-01 起的天数（向下取整）
func DayNumber(epoch int64) int64 {
	d := epoch / secondsPerDay
	if epoch%secondsPerDay < 0 {
		d--
	}
	return d
}

// AverageIntervalDays 计算相邻两次购买之间的平均间隔天数
// dates 按时间倒序排列（最近的在前）；未填写日期（models.NoDate）的记录不参与计算；
// 有效记录少于两条时返回 0
func AverageIntervalDays(dates []int64) int {
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		if d == models.NoDate {
			continue
		}
		days = append(days, DayNumber(d))
	}

	var sum, count int64
	for i := 0; i+1 < len(days); i++ {
		sum += days[i] - days[i+1]
		count++
	}
	if count == 0 {
		return 0
	}
	return int(sum / count)
}

// AverageIntervalForViews 对联表视图计算平均间隔天数
func AverageIntervalForViews(views []models.PurchaseView) int {
	dates := make([]int64, len(views))
	for i, v := range views {
		dates[i] = v.Date
	}
	return AverageIntervalDays(dates)
}
