package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"classfund/internal/ledger"
	"classfund/internal/models"
	"classfund/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 负责导出接口。
// 导出和列表页用同一个聚合层算结余，两边数字不会对不上。
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func typeText(t string) string {
	if t == models.TypeIncome {
		return "收入"
	}
	return "支出"
}

// exportRows 查出全部记录并算好流水结余（时间正序）
func (h *ExportHandler) exportRows() ([]ledger.BalanceRow, error) {
	var all []models.Transaction
	if err := h.DB.Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	return ledger.ComputeRunningBalances(all), nil
}

var exportHeaders = []string{"日期", "类型", "类别", "用途", "金额(元)", "经手人", "见证人", "结余(元)"}

func exportRowCells(row *ledger.BalanceRow) []string {
	category := row.Category
	if category == "" {
		category = ledger.UncategorizedLabel
	}
	return []string{
		row.CreatedAt.Format("2006-01-02"),
		typeText(row.Type),
		category,
		row.Description,
		ledger.FormatCent(row.AmountCent),
		row.Handler,
		row.Witness,
		ledger.FormatCent(row.BalanceCent),
	}
}

// ExportCSV 导出全部收支记录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, err := h.exportRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range rows {
		writer.Write(exportRowCells(&rows[i]))
	}
}

// ExportXLSX 导出全部收支记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	rows, err := h.exportRows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	f := excelize.NewFile()
	sheetName := "班费明细"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	for i, hd := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx := range rows {
		cells := exportRowCells(&rows[idx])
		rowNum := idx + 2
		for col, val := range cells {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", 'A'+col, rowNum), val)
		}
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "G", 10)
	f.SetColWidth(sheetName, "H", "H", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
	}
}
