package repository

import (
	"bodega/internal/domain/model"
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// code already taken, or the row moved since it was read
	ErrConflict = errors.New("conflict")
)

// 商品の永続化を約束。ErrNotFound/ErrConflict 以外はバックエンド障害
type ProductRepository interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	Get(ctx context.Context, code string) (model.Product, error)

	// ErrConflict when the code exists
	Insert(ctx context.Context, p model.Product) error
	// name, price, stock, category and photo; ErrNotFound when the code is gone
	Update(ctx context.Context, p model.Product) error
	// compare-and-swap on Version: ErrConflict when another write happened since the read
	UpdateStock(ctx context.Context, code string, newStock int64, expectedVersion int64) error
	Delete(ctx context.Context, code string) error
}
