package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/service"
)

// ReportHandler 處理報表下載
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler 創建一個新的 ReportHandler 實例
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportQuery 報表的日期區間與篩選條件
type ReportQuery struct {
	StartDate string               `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string               `form:"endDate" binding:"required,datetime=2006-01-02"`
	Status    models.StatusType    `form:"status" binding:"omitempty,oneof=TRIP IDLE STOPPED"`
	Format    service.ReportFormat `form:"format,default=xlsx" binding:"oneof=xlsx csv"`
}

// VehicleReport 單一車輛的報表，vehicleId 為 all 時包含所有車輛
func (h *ReportHandler) VehicleReport(c *gin.Context) {
	h.generate(c, c.Param("vehicleId"))
}

// Generate 所有車輛的一般報表
func (h *ReportHandler) Generate(c *gin.Context) {
	h.generate(c, "")
}

func (h *ReportHandler) generate(c *gin.Context, vehicleID string) {
	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalid(c, err)
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), service.ReportParams{
		VehicleID: vehicleID,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Status:    query.Status,
		Format:    query.Format,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
	c.Header("Content-Length", strconv.Itoa(len(report.Data)))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
