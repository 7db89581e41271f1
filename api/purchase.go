package api

import (
	"time"

	"purchases/database"
	"purchases/models"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler 购买记录处理器
type PurchaseHandler struct{}

// NewPurchaseHandler 创建购买记录处理器
func NewPurchaseHandler() *PurchaseHandler {
	return &PurchaseHandler{}
}

// HistoryResponse 购买记录列表响应
type HistoryResponse struct {
	Username  string                `json:"username"`
	Purchases []models.PurchaseView `json:"purchases"`
}

// CreatedResponse 新增购买记录响应
type CreatedResponse struct {
	HistoryID uint `json:"history_id"`
}

func (h *PurchaseHandler) svc() *service.PurchaseService {
	return service.NewPurchaseService(database.GetDB())
}

// List 获取当前用户的购买记录
// @Summary 获取购买记录
// @Description 当前用户的全部购买记录，按日期倒序
// @Tags 购买记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=HistoryResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	actor := currentActor(c)
	svc := h.svc()
	views, err := svc.GetUserHistory(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "查询购买记录失败")
		return
	}
	if views == nil {
		views = []models.PurchaseView{}
	}
	decorateAll(views, svc.Location())
	Success(c, HistoryResponse{Username: actor.Username, Purchases: views})
}

// Create 记录一次购买
// @Summary 新增购买记录
// @Description 类别和商品不存在时自动创建；重复提交返回已有记录
// @Tags 购买记录
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body PurchaseRequest true "购买信息"
// @Success 200 {object} Response{data=CreatedResponse} "记录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	id, err := h.svc().RecordPurchase(c.Request.Context(), currentActor(c), req.toInput())
	if err != nil {
		respondError(c, err, "记录购买失败")
		return
	}
	SuccessWithMessage(c, "记录成功", CreatedResponse{HistoryID: id})
}

// Update 修改购买记录
// @Summary 修改购买记录
// @Description 商品不变时原地更新（kind=updated）；商品改变或与已有记录重复时替换（kind=replaced）
// @Tags 购买记录
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "购买记录ID"
// @Param request body PurchaseRequest true "购买信息"
// @Success 200 {object} Response{data=service.EditResult} "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	result, err := h.svc().EditPurchase(c.Request.Context(), currentActor(c), id, req.toInput())
	if err != nil {
		respondError(c, err, "修改购买记录失败")
		return
	}
	SuccessWithMessage(c, "修改成功", result)
}

// Delete 删除购买记录
// @Summary 删除购买记录
// @Description 记录不存在时同样返回成功
// @Tags 购买记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "购买记录ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}
	if err := h.svc().DeletePurchase(c.Request.Context(), currentActor(c), id); err != nil {
		respondError(c, err, "删除失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Stats 单个商品的购买记录和平均购买间隔
// @Summary 商品购买统计
// @Description 以指定购买记录所属商品为准，返回当前用户该商品的全部记录和平均间隔天数
// @Tags 购买记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "购买记录ID"
// @Success 200 {object} Response{data=service.ItemStats} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/purchases/{id}/stats [get]
func (h *PurchaseHandler) Stats(c *gin.Context) {
	id, ok := parseHistoryID(c)
	if !ok {
		return
	}
	svc := h.svc()
	stats, err := svc.GetItemHistoryAndStats(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err, "查询统计失败")
		return
	}
	service.Decorate(&stats.Selected, svc.Location())
	decorateAll(stats.Entries, svc.Location())
	Success(c, stats)
}

func decorateAll(views []models.PurchaseView, loc *time.Location) {
	for i := range views {
		service.Decorate(&views[i], loc)
	}
}
