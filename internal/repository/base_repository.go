package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleet_tracker/internal/storage"
)

var (
	// ErrNotFound 查無資料
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 違反唯一索引
	ErrDuplicate = errors.New("duplicate record")
)

// baseRepository 提供各模型共用的 CRUD，T 為 gorm 模型
type baseRepository[T any] struct {
	db *storage.DB
}

func (r *baseRepository[T]) Create(ctx context.Context, model *T) error {
	return translate(r.db.WithContext(ctx).Create(model).Error)
}

func (r *baseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var model T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return &model, nil
}

func (r *baseRepository[T]) Update(ctx context.Context, model *T) error {
	return translate(r.db.WithContext(ctx).Save(model).Error)
}

func (r *baseRepository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translate 將 gorm 錯誤轉為 repository 層的錯誤
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
