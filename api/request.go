package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"purchases/middleware"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// PriceValue 价格输入，JSON 中既可以是数字也可以是字符串
type PriceValue string

// UnmarshalJSON 接受 3.5 或 "3.50"
func (p *PriceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("价格必须是数字")
	}
	*p = PriceValue(n.String())
	return nil
}

// PurchaseRequest 新增/修改购买记录请求，支持 JSON 和表单
type PurchaseRequest struct {
	Category string     `json:"category" form:"category" example:"grocery"`
	Item     string     `json:"item" form:"item" example:"milk"`
	Date     string     `json:"date" form:"date" example:"2024-01-10"` // 可为空
	Price    PriceValue `json:"price" form:"price" swaggertype:"string" example:"3.50"`
}

func (r PurchaseRequest) toInput() service.PurchaseInput {
	return service.PurchaseInput{
		Category: r.Category,
		Item:     r.Item,
		Date:     r.Date,
		Price:    string(r.Price),
	}
}

// currentActor 由认证中间件写入的身份构造请求上下文
func currentActor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:   middleware.GetCurrentUserID(c),
		Username: middleware.GetCurrentUsername(c),
	}
}

func parseHistoryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}
