package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/service"
)

// VehicleHandler 處理車輛與狀態紀錄相關的請求
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler 創建一個新的 VehicleHandler 實例
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// ListVehiclesQuery 車輛列表的分頁與排序參數
type ListVehiclesQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=10" binding:"min=1,max=100"`
	SortBy    string `form:"sortBy,default=date" binding:"oneof=date plateNumber status"`
	SortOrder string `form:"sortOrder,default=desc" binding:"oneof=asc desc"`
}

// StatusQuery date 省略時查詢今天
type StatusQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type CreateVehicleInput struct {
	PlateNumber string               `json:"plateNumber" binding:"required,max=20,plate"`
	Model       string               `json:"model" binding:"required,max=100"`
	Brand       string               `json:"brand" binding:"required,max=100"`
	Year        int                  `json:"year" binding:"required,vehicleyear"`
	Status      models.VehicleStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
}

type UpdateVehicleInput struct {
	PlateNumber *string               `json:"plateNumber" binding:"omitempty,min=1,max=20,plate"`
	Model       *string               `json:"model" binding:"omitempty,min=1,max=100"`
	Brand       *string               `json:"brand" binding:"omitempty,min=1,max=100"`
	Year        *int                  `json:"year" binding:"omitempty,vehicleyear"`
	Status      *models.VehicleStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
}

// RecordStatusInput 上報狀態，timestamp 為 RFC 3339，省略時使用伺服器時間
type RecordStatusInput struct {
	Status    models.StatusType `json:"status" binding:"required,oneof=TRIP IDLE STOPPED"`
	Latitude  *float64          `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64          `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Speed     *float64          `json:"speed" binding:"omitempty,gte=0"`
	Timestamp *time.Time        `json:"timestamp"`
}

func (h *VehicleHandler) List(c *gin.Context) {
	var query ListVehiclesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalid(c, err)
		return
	}

	page, err := h.vehicleService.List(c.Request.Context(), service.ListVehiclesParams{
		Page:      query.Page,
		Limit:     query.Limit,
		SortBy:    repository.SortField(query.SortBy),
		SortOrder: query.SortOrder,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", vehicle)
}

// Status 回傳車輛單日的狀態紀錄
func (h *VehicleHandler) Status(c *gin.Context) {
	var query StatusQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalid(c, err)
		return
	}

	day, err := h.vehicleService.StatusForDay(c.Request.Context(), c.Param("id"), query.Date)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", day)
}

// RecordStatus 新增一筆狀態紀錄
func (h *VehicleHandler) RecordStatus(c *gin.Context) {
	var input RecordStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	record, err := h.vehicleService.RecordStatus(c.Request.Context(), c.Param("id"), service.RecordStatusParams{
		Status:    input.Status,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Speed:     input.Speed,
		Timestamp: input.Timestamp,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Status recorded successfully", record)
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), service.CreateVehicleParams{
		PlateNumber: input.PlateNumber,
		Model:       input.Model,
		Brand:       input.Brand,
		Year:        input.Year,
		Status:      input.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Vehicle created successfully", vehicle)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), service.UpdateVehicleParams{
		PlateNumber: input.PlateNumber,
		Model:       input.Model,
		Brand:       input.Brand,
		Year:        input.Year,
		Status:      input.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Vehicle updated successfully", vehicle)
}

// Delete 刪除車輛及其所有狀態紀錄
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Vehicle deleted successfully", nil)
}
