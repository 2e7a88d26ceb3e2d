package repository

import (
	"context"
	"time"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/storage"
)

// RecordFilter 狀態紀錄的查詢條件，時間區間為 [From, To)
type RecordFilter struct {
	VehicleID string
	Status    models.StatusType
	From      time.Time
	To        time.Time
}

type StatusRecordRepository interface {
	Create(ctx context.Context, record *models.VehicleStatusRecord) error
	CreateMany(ctx context.Context, records []models.VehicleStatusRecord) error
	FindByVehicle(ctx context.Context, vehicleID string, from, to time.Time) ([]models.VehicleStatusRecord, error)
	FindForReport(ctx context.Context, f RecordFilter) ([]models.VehicleStatusRecord, error)
	LatestByVehicles(ctx context.Context, vehicleIDs []string) (map[string]models.VehicleStatusRecord, error)
}

type statusRecordRepository struct {
	baseRepository[models.VehicleStatusRecord]
}

func NewStatusRecordRepository(db *storage.DB) StatusRecordRepository {
	return &statusRecordRepository{baseRepository[models.VehicleStatusRecord]{db: db}}
}

// CreateMany 分批寫入大量紀錄，僅供資料初始化使用
func (r *statusRecordRepository) CreateMany(ctx context.Context, records []models.VehicleStatusRecord) error {
	if len(records) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(records, 200).Error)
}

// FindByVehicle 回傳單一車輛在區間內的紀錄，依時間遞增
func (r *statusRecordRepository) FindByVehicle(ctx context.Context, vehicleID string, from, to time.Time) ([]models.VehicleStatusRecord, error) {
	var records []models.VehicleStatusRecord
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND recorded_at >= ? AND recorded_at < ?", vehicleID, from.UTC(), to.UTC()).
		Order("recorded_at ASC").
		Find(&records).Error
	return records, err
}

// FindForReport 依車牌、時間排序回傳區間內的紀錄
func (r *statusRecordRepository) FindForReport(ctx context.Context, f RecordFilter) ([]models.VehicleStatusRecord, error) {
	q := r.db.WithContext(ctx).
		Select("vehicle_status_records.*").
		Joins("JOIN vehicles ON vehicles.id = vehicle_status_records.vehicle_id").
		Where("vehicle_status_records.recorded_at >= ? AND vehicle_status_records.recorded_at < ?", f.From.UTC(), f.To.UTC())
	if f.VehicleID != "" {
		q = q.Where("vehicle_status_records.vehicle_id = ?", f.VehicleID)
	}
	if f.Status != "" {
		q = q.Where("vehicle_status_records.status = ?", f.Status)
	}

	var records []models.VehicleStatusRecord
	err := q.Order("vehicles.plate_number ASC").
		Order("vehicle_status_records.recorded_at ASC").
		Find(&records).Error
	return records, err
}

// LatestByVehicles 回傳每台車最新的一筆紀錄，沒有紀錄的車輛不會出現在結果中
func (r *statusRecordRepository) LatestByVehicles(ctx context.Context, vehicleIDs []string) (map[string]models.VehicleStatusRecord, error) {
	latest := make(map[string]models.VehicleStatusRecord, len(vehicleIDs))
	if len(vehicleIDs) == 0 {
		return latest, nil
	}

	var records []models.VehicleStatusRecord
	err := r.db.WithContext(ctx).
		Table("vehicle_status_records AS r").
		Select("r.*").
		Where("r.vehicle_id IN ?", vehicleIDs).
		Where("r.recorded_at = (SELECT MAX(m.recorded_at) FROM vehicle_status_records m WHERE m.vehicle_id = r.vehicle_id)").
		Order("r.id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// 同一時間點有多筆時只取第一筆
	for _, rec := range records {
		if _, ok := latest[rec.VehicleID]; !ok {
			latest[rec.VehicleID] = rec
		}
	}
	return latest, nil
}
