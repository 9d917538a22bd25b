package repository

import (
	"context"
	"errors"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("code asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("code asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Get(ctx context.Context, code string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// ErrConflict when the code is already registered
func (r *ProductGormRepository) Insert(ctx context.Context, p model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Product{}).Where("code = ?", p.Code).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return repo.ErrConflict
		}

		p.Version = 0
		if err := tx.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return repo.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("code = ?", p.Code).Updates(map[string]interface{}{
		"name":     p.Name,
		"price":    p.Price,
		"stock":    p.Stock,
		"category": p.Category,
		"photo":    p.Photo,
		"photo_id": p.PhotoID,
		"version":  gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// versionが一致するときだけ在庫を更新
func (r *ProductGormRepository) UpdateStock(ctx context.Context, code string, newStock int64, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("code = ? AND version = ?", code, expectedVersion).
		Updates(map[string]interface{}{
			"stock":   newStock,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// either gone or moved
	if _, err := r.Get(ctx, code); err != nil {
		return err
	}
	return repo.ErrConflict
}

func (r *ProductGormRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
