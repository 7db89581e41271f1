package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"purchases/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportSheetName 导出 Excel 的工作表名称
const ExportSheetName = "购买记录"

var exportHeaders = []string{"ID", "类别", "商品", "日期", "价格"}

// WriteCSV 将购买记录写为 CSV，带 UTF-8 BOM 以便 Excel 正确显示中文
func WriteCSV(w io.Writer, views []models.PurchaseView, loc *time.Location) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, v := range views {
		row := []string{
			strconv.FormatUint(uint64(v.HistoryID), 10),
			v.CategoryName,
			v.ItemName,
			FormatDate(v.Date, loc),
			FormatUSD(v.Price),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildWorkbook 生成包含购买记录和合计行的 Excel 工作簿，调用方负责 Close
func BuildWorkbook(views []models.PurchaseView, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(ExportSheetName, "A", "A", 10)
	f.SetColWidth(ExportSheetName, "B", "C", 20)
	f.SetColWidth(ExportSheetName, "D", "E", 14)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(ExportSheetName, cell, header)
		f.SetCellStyle(ExportSheetName, cell, cell, headerStyle)
	}

	total := decimal.Zero
	for i, v := range views {
		row := i + 2
		f.SetCellValue(ExportSheetName, fmt.Sprintf("A%d", row), v.HistoryID)
		f.SetCellValue(ExportSheetName, fmt.Sprintf("B%d", row), v.CategoryName)
		f.SetCellValue(ExportSheetName, fmt.Sprintf("C%d", row), v.ItemName)
		f.SetCellValue(ExportSheetName, fmt.Sprintf("D%d", row), FormatDate(v.Date, loc))
		f.SetCellValue(ExportSheetName, fmt.Sprintf("E%d", row), FormatUSD(v.Price))
		f.SetCellStyle(ExportSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
		total = total.Add(v.Price)
	}

	summaryRow := len(views) + 2
	f.SetCellValue(ExportSheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(ExportSheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(views)))
	f.MergeCell(ExportSheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(ExportSheetName, fmt.Sprintf("E%d", summaryRow), FormatUSD(total))
	f.SetCellStyle(ExportSheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow), summaryStyle)

	return f, nil
}
