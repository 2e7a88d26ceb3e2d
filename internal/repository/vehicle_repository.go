package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/storage"
)

// SortField 車輛列表可排序的欄位
type SortField string

const (
	SortByDate        SortField = "date"
	SortByPlateNumber SortField = "plateNumber"
	SortByStatus      SortField = "status"
)

var sortColumns = map[SortField]string{
	SortByDate:        "created_at",
	SortByPlateNumber: "plate_number",
	SortByStatus:      "status",
}

// VehicleQuery 車輛列表查詢條件
type VehicleQuery struct {
	Page   Page
	SortBy SortField
	Desc   bool
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	List(ctx context.Context, q VehicleQuery) ([]models.Vehicle, int64, error)
	FindAll(ctx context.Context) ([]models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id string) error
}

type vehicleRepository struct {
	baseRepository[models.Vehicle]
}

func NewVehicleRepository(db *storage.DB) VehicleRepository {
	return &vehicleRepository{baseRepository[models.Vehicle]{db: db}}
}

func (r *vehicleRepository) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Where("plate_number = ?", plate).First(&vehicle).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, q VehicleQuery) ([]models.Vehicle, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[SortByDate]
	}

	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Desc}).
		Order("id").
		Offset(q.Page.Offset()).Limit(q.Page.Limit).
		Find(&vehicles).Error
	return vehicles, total, err
}

// FindAll 依車牌遞增回傳所有車輛，供報表使用
func (r *vehicleRepository) FindAll(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).Order("plate_number ASC").Find(&vehicles).Error
	return vehicles, err
}

// Delete 連同狀態紀錄一起刪除
func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.VehicleStatusRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Vehicle{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
