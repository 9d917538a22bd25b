package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
)

// csvHeader starts with the export column order; photo_id and version are appended.
var csvHeader = []string{"code", "name", "price", "stock", "category", "photo", "photo_id", "version"}

// 旧ファイルの「写真なし」
const legacyNoPhoto = "Sin foto"

// ProductCSVRepository keeps the whole inventory in one flat file.
// Every write rewrites the file under one mutex.
type ProductCSVRepository struct {
	path string
	mu   sync.Mutex
}

var _ repo.ProductRepository = (*ProductCSVRepository)(nil)

func NewProductCSVRepository(path string) *ProductCSVRepository {
	return &ProductCSVRepository{path: path}
}

func (r *ProductCSVRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *ProductCSVRepository) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductCSVRepository) Get(ctx context.Context, code string) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return model.Product{}, err
	}
	i := indexOf(all, code)
	if i < 0 {
		return model.Product{}, repo.ErrNotFound
	}
	return all[i], nil
}

func (r *ProductCSVRepository) Insert(ctx context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	if indexOf(all, p.Code) >= 0 {
		return repo.ErrConflict
	}
	p.Version = 0
	return r.save(append(all, p))
}

func (r *ProductCSVRepository) Update(ctx context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(all, p.Code)
	if i < 0 {
		return repo.ErrNotFound
	}
	p.Version = all[i].Version + 1
	p.CreatedAt = all[i].CreatedAt
	all[i] = p
	return r.save(all)
}

func (r *ProductCSVRepository) UpdateStock(ctx context.Context, code string, newStock int64, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(all, code)
	if i < 0 {
		return repo.ErrNotFound
	}
	if all[i].Version != expectedVersion {
		return repo.ErrConflict
	}
	all[i].Stock = newStock
	all[i].Version++
	return r.save(all)
}

func (r *ProductCSVRepository) Delete(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(all, code)
	if i < 0 {
		return repo.ErrNotFound
	}
	return r.save(append(all[:i], all[i+1:]...))
}

func indexOf(all []model.Product, code string) int {
	for i, p := range all {
		if p.Code == code {
			return i
		}
	}
	return -1
}

// ファイルなし = 在庫ゼロ
func (r *ProductCSVRepository) load() ([]model.Product, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(header) < 6 {
		return nil, fmt.Errorf("read %s: unexpected header %v", r.path, header)
	}

	var out []model.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}
		p, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", r.path, line, err)
		}
		out = append(out, p)
	}
	if out == nil {
		out = []model.Product{}
	}
	return out, nil
}

func decodeRecord(rec []string) (model.Product, error) {
	if len(rec) < 6 {
		return model.Product{}, fmt.Errorf("expected at least 6 columns, got %d", len(rec))
	}
	price, err := parseWhole(rec[2])
	if err != nil {
		return model.Product{}, fmt.Errorf("price: %w", err)
	}
	stock, err := parseWhole(rec[3])
	if err != nil {
		return model.Product{}, fmt.Errorf("stock: %w", err)
	}
	photo := strings.TrimSpace(rec[5])
	if strings.EqualFold(photo, legacyNoPhoto) {
		photo = ""
	}

	p := model.Product{
		Code:     rec[0],
		Name:     rec[1],
		Price:    price,
		Stock:    stock,
		Category: rec[4],
		Photo:    photo,
	}
	if len(rec) > 6 {
		p.PhotoID = rec[6]
	}
	if len(rec) > 7 && rec[7] != "" {
		v, err := strconv.ParseInt(rec[7], 10, 64)
		if err != nil {
			return model.Product{}, fmt.Errorf("version: %w", err)
		}
		p.Version = v
	}
	return p, nil
}

// old files may hold "50000.0"
func parseWhole(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if whole, ok := strings.CutSuffix(s, ".0"); ok {
		s = whole
	}
	return strconv.ParseInt(s, 10, 64)
}

// 一時ファイルに書いてrename
func (r *ProductCSVRepository) save(all []model.Product) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".inventario-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, p := range all {
		rec := []string{
			p.Code,
			p.Name,
			strconv.FormatInt(p.Price, 10),
			strconv.FormatInt(p.Stock, 10),
			p.Category,
			p.Photo,
			p.PhotoID,
			strconv.FormatInt(p.Version, 10),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
