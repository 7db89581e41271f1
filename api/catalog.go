package api

import (
	"strconv"

	"purchases/database"
	"purchases/models"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 类别/商品目录（所有用户共享）
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Categories 获取全部类别
// @Summary 获取类别列表
// @Tags 目录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	list, err := service.NewCatalogStore(database.GetDB()).ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	if list == nil {
		list = []models.Category{}
	}
	Success(c, list)
}

// SearchItems 按名称前缀查找商品，用于输入联想
// @Summary 商品联想
// @Tags 目录
// @Produce json
// @Security BearerAuth
// @Param q query string false "商品名称前缀"
// @Param limit query int false "返回数量" default(20)
// @Success 200 {object} Response{data=[]models.ItemWithCategory} "获取成功"
// @Router /api/v1/items [get]
func (h *CatalogHandler) SearchItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := service.NewCatalogStore(database.GetDB()).SearchItems(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err, "查询商品失败")
		return
	}
	if list == nil {
		list = []models.ItemWithCategory{}
	}
	Success(c, list)
}
