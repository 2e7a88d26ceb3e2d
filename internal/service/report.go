package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"fleet_tracker/internal/metrics"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/report"
	"fleet_tracker/internal/repository"
)

// AllVehicles 作為 vehicleId 時代表所有車輛
const AllVehicles = "all"

// ReportFormat 報表輸出格式
type ReportFormat string

const (
	FormatXLSX ReportFormat = "xlsx"
	FormatCSV  ReportFormat = "csv"
)

// ReportParams 報表條件
// VehicleID 為空表示一般報表（/reports/generate），"all" 表示指定全部車輛
type ReportParams struct {
	VehicleID string
	StartDate string
	EndDate   string
	Status    models.StatusType
	Format    ReportFormat
}

// Report 產生好的檔案
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportService struct {
	vehicleRepo repository.VehicleRepository
	recordRepo  repository.StatusRecordRepository
	loc         *time.Location
}

func NewReportService(vehicleRepo repository.VehicleRepository, recordRepo repository.StatusRecordRepository, loc *time.Location) *ReportService {
	return &ReportService{vehicleRepo: vehicleRepo, recordRepo: recordRepo, loc: loc}
}

// Generate 產生報表，結束日整天都包含在內
func (s *ReportService) Generate(ctx context.Context, p ReportParams) (*Report, error) {
	start, err := dayStart(p.StartDate, s.loc)
	if err != nil {
		return nil, err
	}
	end, err := dayStart(p.EndDate, s.loc)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	filter := repository.RecordFilter{
		Status: p.Status,
		From:   start,
		To:     end.AddDate(0, 0, 1),
	}

	var vehicles []models.Vehicle
	if p.VehicleID == "" || p.VehicleID == AllVehicles {
		if vehicles, err = s.vehicleRepo.FindAll(ctx); err != nil {
			return nil, err
		}
	} else {
		vehicle, err := s.vehicleRepo.FindByID(ctx, p.VehicleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrVehicleNotFound
			}
			return nil, err
		}
		vehicles = []models.Vehicle{*vehicle}
		filter.VehicleID = vehicle.ID
	}

	records, err := s.recordRepo.FindForReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary, detail := s.buildRows(vehicles, records)

	format := p.Format
	if format == "" {
		format = FormatXLSX
	}

	var buf bytes.Buffer
	out := &Report{Filename: reportFilename(p, vehicles, format)}
	switch format {
	case FormatCSV:
		out.ContentType = report.ContentTypeCSV
		err = report.WriteCSV(&buf, detail)
	default:
		out.ContentType = report.ContentTypeXLSX
		err = report.WriteXLSX(&buf, summary, detail)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s report: %w", format, err)
	}
	out.Data = buf.Bytes()

	metrics.ReportsGeneratedTotal.WithLabelValues(string(format)).Inc()
	return out, nil
}

func (s *ReportService) buildRows(vehicles []models.Vehicle, records []models.VehicleStatusRecord) ([]report.SummaryRow, []report.DetailRow) {
	byID := make(map[string]*models.Vehicle, len(vehicles))
	counts := make(map[string]*report.SummaryRow, len(vehicles))
	summary := make([]report.SummaryRow, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		byID[v.ID] = v
		summary[i] = report.SummaryRow{
			PlateNumber: v.PlateNumber,
			Brand:       v.Brand,
			Model:       v.Model,
			Year:        v.Year,
			Status:      string(v.Status),
		}
		counts[v.ID] = &summary[i]
	}

	detail := make([]report.DetailRow, 0, len(records))
	for _, r := range records {
		v, ok := byID[r.VehicleID]
		if !ok {
			continue
		}

		row := counts[r.VehicleID]
		row.TotalRecords++
		switch r.Status {
		case models.StatusTrip:
			row.TripRecords++
		case models.StatusIdle:
			row.IdleRecords++
		case models.StatusStopped:
			row.StoppedRecords++
		}

		local := r.Timestamp.In(s.loc)
		speed := 0.0
		if r.Speed != nil {
			speed = *r.Speed
		}
		detail = append(detail, report.DetailRow{
			PlateNumber: v.PlateNumber,
			Brand:       v.Brand,
			Model:       v.Model,
			Status:      string(r.Status),
			Date:        local.Format("02/01/2006"),
			Time:        local.Format("15.04.05"),
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Speed:       speed,
			Location:    r.Location(),
		})
	}
	return summary, detail
}

func reportFilename(p ReportParams, vehicles []models.Vehicle, format ReportFormat) string {
	switch {
	case p.VehicleID == "":
		return fmt.Sprintf("vehicle-report-%s-to-%s.%s", p.StartDate, p.EndDate, format)
	case p.VehicleID == AllVehicles:
		return fmt.Sprintf("vehicle-report-all-%s-to-%s.%s", p.StartDate, p.EndDate, format)
	default:
		return fmt.Sprintf("vehicle-report-%s-%s-to-%s.%s", vehicles[0].PlateNumber, p.StartDate, p.EndDate, format)
	}
}
