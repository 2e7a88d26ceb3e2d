package service

import (
	"context"
	"errors"
	"time"

	"fleet_tracker/internal/metrics"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
)

// ListVehiclesParams 車輛列表查詢參數
type ListVehiclesParams struct {
	Page      int
	Limit     int
	SortBy    repository.SortField
	SortOrder string
}

// CreateVehicleParams 新增車輛所需資料，Status 為空時預設 ACTIVE
type CreateVehicleParams struct {
	PlateNumber string
	Model       string
	Brand       string
	Year        int
	Status      models.VehicleStatus
}

// UpdateVehicleParams 僅更新非 nil 的欄位
type UpdateVehicleParams struct {
	PlateNumber *string
	Model       *string
	Brand       *string
	Year        *int
	Status      *models.VehicleStatus
}

// RecordStatusParams 上報一筆車輛狀態，Timestamp 為 nil 時使用目前時間
type RecordStatusParams struct {
	Status    models.StatusType
	Latitude  *float64
	Longitude *float64
	Speed     *float64
	Timestamp *time.Time
}

// VehicleView 車輛資料附帶最新狀態與位置
type VehicleView struct {
	models.Vehicle
	Location string `json:"location"`
}

// StatusRecordView 狀態紀錄附帶格式化位置
type StatusRecordView struct {
	models.VehicleStatusRecord
	Location string `json:"location"`
}

// VehicleSummary 狀態查詢回應中的車輛摘要
type VehicleSummary struct {
	ID          string               `json:"id"`
	PlateNumber string               `json:"plateNumber"`
	Model       string               `json:"model"`
	Brand       string               `json:"brand"`
	Year        int                  `json:"year"`
	Status      models.VehicleStatus `json:"status"`
}

// DayStatus 車輛單日的狀態紀錄
type DayStatus struct {
	Vehicle       VehicleSummary     `json:"vehicle"`
	StatusRecords []StatusRecordView `json:"statusRecords"`
	Date          string             `json:"date"`
}

// VehiclePage 車輛分頁結果
type VehiclePage struct {
	Vehicles   []VehicleView `json:"vehicles"`
	Pagination Pagination    `json:"pagination"`
}

type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	recordRepo  repository.StatusRecordRepository
	live        *LiveHub
	loc         *time.Location
	now         func() time.Time
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, recordRepo repository.StatusRecordRepository, live *LiveHub, loc *time.Location) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		recordRepo:  recordRepo,
		live:        live,
		loc:         loc,
		now:         time.Now,
	}
}

// List 分頁列出車輛，每台附帶最新一筆狀態紀錄
func (s *VehicleService) List(ctx context.Context, p ListVehiclesParams) (*VehiclePage, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, repository.VehicleQuery{
		Page:   repository.Page{Number: p.Page, Limit: p.Limit},
		SortBy: p.SortBy,
		Desc:   p.SortOrder != "asc",
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	latest, err := s.recordRepo.LatestByVehicles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]VehicleView, len(vehicles))
	for i, v := range vehicles {
		views[i] = withLatest(v, latest)
	}

	return &VehiclePage{Vehicles: views, Pagination: newPagination(p.Page, p.Limit, total)}, nil
}

func (s *VehicleService) Get(ctx context.Context, id string) (*VehicleView, error) {
	vehicle, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.recordRepo.LatestByVehicles(ctx, []string{vehicle.ID})
	if err != nil {
		return nil, err
	}
	view := withLatest(*vehicle, latest)
	return &view, nil
}

func (s *VehicleService) Create(ctx context.Context, p CreateVehicleParams) (*models.Vehicle, error) {
	if err := s.ensurePlateFree(ctx, p.PlateNumber); err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = models.VehicleActive
	}

	vehicle := &models.Vehicle{
		PlateNumber: p.PlateNumber,
		Model:       p.Model,
		Brand:       p.Brand,
		Year:        p.Year,
		Status:      status,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlateTaken
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, id string, p UpdateVehicleParams) (*models.Vehicle, error) {
	vehicle, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PlateNumber != nil && *p.PlateNumber != vehicle.PlateNumber {
		if err := s.ensurePlateFree(ctx, *p.PlateNumber); err != nil {
			return nil, err
		}
		vehicle.PlateNumber = *p.PlateNumber
	}
	if p.Model != nil {
		vehicle.Model = *p.Model
	}
	if p.Brand != nil {
		vehicle.Brand = *p.Brand
	}
	if p.Year != nil {
		vehicle.Year = *p.Year
	}
	if p.Status != nil {
		vehicle.Status = *p.Status
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlateTaken
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, id string) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// StatusForDay 回傳車輛在指定日期（設定時區）的所有狀態紀錄，date 為空時使用今天
func (s *VehicleService) StatusForDay(ctx context.Context, id, date string) (*DayStatus, error) {
	vehicle, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	start := today(s.now(), s.loc)
	if date != "" {
		if start, err = dayStart(date, s.loc); err != nil {
			return nil, err
		}
	}

	records, err := s.recordRepo.FindByVehicle(ctx, vehicle.ID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	views := make([]StatusRecordView, len(records))
	for i, r := range records {
		views[i] = newStatusRecordView(r)
	}

	return &DayStatus{
		Vehicle: VehicleSummary{
			ID:          vehicle.ID,
			PlateNumber: vehicle.PlateNumber,
			Model:       vehicle.Model,
			Brand:       vehicle.Brand,
			Year:        vehicle.Year,
			Status:      vehicle.Status,
		},
		StatusRecords: views,
		Date:          start.Format(DateLayout),
	}, nil
}

// RecordStatus 新增一筆狀態紀錄並推送給即時訂閱者
func (s *VehicleService) RecordStatus(ctx context.Context, id string, p RecordStatusParams) (*StatusRecordView, error) {
	vehicle, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if p.Timestamp != nil {
		at = *p.Timestamp
	}

	record := models.VehicleStatusRecord{
		VehicleID: vehicle.ID,
		Status:    p.Status,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Speed:     p.Speed,
		Timestamp: at.UTC(),
	}
	if err := s.recordRepo.Create(ctx, &record); err != nil {
		return nil, err
	}
	metrics.StatusRecordsIngestedTotal.WithLabelValues(string(record.Status)).Inc()

	view := newStatusRecordView(record)
	if s.live != nil {
		s.live.Publish(LiveEvent{PlateNumber: vehicle.PlateNumber, Record: view})
	}
	return &view, nil
}

// Exists 只確認車輛存在，不存在時回傳 ErrVehicleNotFound
func (s *VehicleService) Exists(ctx context.Context, id string) error {
	_, err := s.find(ctx, id)
	return err
}

func (s *VehicleService) find(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) ensurePlateFree(ctx context.Context, plate string) error {
	_, err := s.vehicleRepo.FindByPlate(ctx, plate)
	switch {
	case err == nil:
		return ErrPlateTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}

func withLatest(v models.Vehicle, latest map[string]models.VehicleStatusRecord) VehicleView {
	v.StatusRecords = []models.VehicleStatusRecord{}
	location := "Unknown"
	if rec, ok := latest[v.ID]; ok {
		v.StatusRecords = append(v.StatusRecords, rec)
		location = rec.Location()
	}
	return VehicleView{Vehicle: v, Location: location}
}

func newStatusRecordView(r models.VehicleStatusRecord) StatusRecordView {
	return StatusRecordView{VehicleStatusRecord: r, Location: r.Location()}
}
