package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"purchases/database"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportCSV 导出购买记录为 CSV
// @Summary 导出购买记录
// @Description 导出当前用户的全部购买记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	views, err := service.NewPurchaseService(database.GetDB()).GetUserHistory(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err, "查询数据失败")
		return
	}

	buf := new(bytes.Buffer)
	if err := service.WriteCSV(buf, views, time.Local); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("purchases_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出购买记录为 Excel
// @Summary 导出购买记录为 Excel
// @Description 导出当前用户的全部购买记录为 xlsx 文件，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	views, err := service.NewPurchaseService(database.GetDB()).GetUserHistory(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err, "查询数据失败")
		return
	}

	f, err := service.BuildWorkbook(views, time.Local)
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("purchases_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
