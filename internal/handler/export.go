package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/store"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler downloads sessions of one status as CSV or XLSX.
type ExportHandler struct {
	Stores *store.Stores
}

func NewExportHandler(stores *store.Stores) *ExportHandler {
	return &ExportHandler{Stores: stores}
}

var exportHeaders = []string{
	"Session ID", "Session Name", "Customer ID", "Customer Name",
	"Remarks", "Created By", "Created On", "Updated On", "Status",
}

func exportRow(s *models.Session) []string {
	return []string{
		s.SessionID,
		s.SessionName,
		s.CustomerID,
		s.Customer.Name,
		s.Remarks,
		s.CreatedBy,
		s.CreatedOn.Format("2006-01-02 15:04:05"),
		s.UpdatedOn.Format("2006-01-02 15:04:05"),
		string(s.Status),
	}
}

func (h *ExportHandler) sessionsForExport(c *gin.Context) ([]models.Session, bool) {
	status, err := models.ParseStatusFilter(c.DefaultQuery("status", "A"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	sessions, err := h.Stores.Sessions.FindByStatus(c.Request.Context(), status, "updated_on")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load sessions")
		return nil, false
	}
	return sessions, true
}

// ExportCSV serves GET /export/sessions/csv?status=A.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	sessions, ok := h.sessionsForExport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sessions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)
	for i := range sessions {
		writer.Write(exportRow(&sessions[i]))
	}
}

// ExportXLSX serves GET /export/sessions/xlsx?status=A.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	sessions, ok := h.sessionsForExport(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range sessions {
		row := exportRow(&sessions[idx])
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 18)
	f.SetColWidth(sheetName, "C", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "H", 20)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sessions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to export")
	}
}
