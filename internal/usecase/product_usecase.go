package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
	"bodega/internal/validator"

	"github.com/rs/zerolog"
)

// ExportHeader is the fixed column order of the backup export.
var ExportHeader = []string{"code", "name", "price", "stock", "category", "photo"}

type ProductUsecase struct {
	products repo.ProductRepository
	images   repo.ImageStore
	audit    repo.AuditLogRepository
	sessions repo.SessionRepository
	idGen    IDGenerator
	clock    Clock
	log      zerolog.Logger
}

// DI
func NewProductUsecase(
	products repo.ProductRepository,
	images repo.ImageStore,
	audit repo.AuditLogRepository,
	sessions repo.SessionRepository,
	idGen IDGenerator,
	clock Clock,
	log zerolog.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		products: products,
		images:   images,
		audit:    audit,
		sessions: sessions,
		idGen:    idGen,
		clock:    clock,
		log:      log,
	}
}

type RegisterProductInput struct {
	Code     string
	Name     string
	Price    int64
	Stock    int64
	Category string
	// optional; nil = no photo
	Photo []byte
}

// 省略したフィールドは現在の値のまま
type UpdateProductInput struct {
	Name     string
	Price    *int64
	Stock    *int64
	Category string
	// nil keeps the current photo
	Photo []byte
}

func (u *ProductUsecase) Register(ctx context.Context, sess *model.Session, in RegisterProductInput) (model.Product, error) {
	if sess == nil {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if err := validator.ValidateCode(code); err != nil {
		return model.Product{}, badRequest(err)
	}
	category, err := validateFields(name, in.Price, in.Stock, in.Category, sess.ExtraCategories)
	if err != nil {
		return model.Product{}, err
	}

	// 既存コードなら写真に触らない
	if _, err := u.products.Get(ctx, code); err == nil {
		return model.Product{}, NewHTTPError(http.StatusConflict, "code already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, storeError(err, "not found")
	}

	p := model.Product{
		Code:     code,
		Name:     name,
		Price:    in.Price,
		Stock:    in.Stock,
		Category: category,
	}

	if len(in.Photo) > 0 {
		ref, err := u.upload(ctx, code, in.Photo)
		if err != nil {
			return model.Product{}, err
		}
		p.Photo, p.PhotoID = ref.URL, ref.ID
	}

	if err := u.products.Insert(ctx, p); err != nil {
		if p.PhotoID != "" {
			u.dropImage(ctx, p.PhotoID)
		}
		// 同時登録に負けた
		if errors.Is(err, repo.ErrConflict) {
			return model.Product{}, NewHTTPError(http.StatusConflict, "code already registered")
		}
		return model.Product{}, storeError(err, "not found")
	}

	u.record(ctx, sess, model.AuditActionCreateProduct, code, nil, &p)
	u.log.Info().Str("code", code).Str("session_id", sess.ID).Msg("product registered")
	return p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, sess *model.Session, code string, in UpdateProductInput) (model.Product, error) {
	if sess == nil {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	before, err := u.products.Get(ctx, code)
	if err != nil {
		return model.Product{}, storeError(err, "product not found")
	}

	after := before
	if name := strings.TrimSpace(in.Name); name != "" {
		after.Name = name
	}
	if in.Price != nil {
		after.Price = *in.Price
	}
	if in.Stock != nil {
		after.Stock = *in.Stock
	}
	if err := validator.ValidateProduct(after.Name, after.Price, after.Stock); err != nil {
		return model.Product{}, badRequest(err)
	}
	if strings.TrimSpace(in.Category) != "" {
		c, ok := model.KnownCategory(in.Category, sess.ExtraCategories)
		if !ok {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "unknown category")
		}
		after.Category = c
	}

	if len(in.Photo) > 0 {
		ref, err := u.upload(ctx, code, in.Photo)
		if err != nil {
			return model.Product{}, err
		}
		after.Photo, after.PhotoID = ref.URL, ref.ID
	}

	if err := u.products.Update(ctx, after); err != nil {
		if after.PhotoID != before.PhotoID {
			u.dropImage(ctx, after.PhotoID)
		}
		return model.Product{}, storeError(err, "product not found")
	}
	if before.PhotoID != "" && before.PhotoID != after.PhotoID {
		u.dropImage(ctx, before.PhotoID)
	}
	after.Version = before.Version + 1

	u.record(ctx, sess, model.AuditActionUpdateProduct, code, &before, &after)
	return after, nil
}

func (u *ProductUsecase) Delete(ctx context.Context, sess *model.Session, code string) error {
	if sess == nil {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	p, err := u.products.Get(ctx, code)
	if err != nil {
		return storeError(err, "product not found")
	}
	if err := u.products.Delete(ctx, code); err != nil {
		return storeError(err, "product not found")
	}
	if p.PhotoID != "" {
		u.dropImage(ctx, p.PhotoID)
	}

	u.record(ctx, sess, model.AuditActionDeleteProduct, code, &p, nil)
	u.log.Info().Str("code", code).Str("session_id", sess.ID).Msg("product deleted")
	return nil
}

// Export writes the whole table as CSV in ExportHeader order.
func (u *ProductUsecase) Export(ctx context.Context, w io.Writer) error {
	items, err := u.products.ListAll(ctx)
	if err != nil {
		return storeError(err, "not found")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, p := range items {
		if err := cw.Write([]string{
			p.Code,
			p.Name,
			strconv.FormatInt(p.Price, 10),
			strconv.FormatInt(p.Stock, 10),
			p.Category,
			p.Photo,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (u *ProductUsecase) Categories(sess *model.Session) []string {
	if sess == nil {
		return model.MergeCategories(nil)
	}
	return sess.Categories()
}

// AddCategory extends the category list of this session only.
func (u *ProductUsecase) AddCategory(ctx context.Context, sess *model.Session, name string) ([]string, error) {
	if sess == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name = strings.TrimSpace(name)
	if err := validator.ValidateCategoryName(name); err != nil {
		return nil, badRequest(err)
	}
	if _, ok := model.KnownCategory(name, sess.ExtraCategories); ok {
		return sess.Categories(), nil
	}

	sess.ExtraCategories = append(sess.ExtraCategories, name)
	if err := u.sessions.Save(ctx, sess); err != nil {
		sess.ExtraCategories = sess.ExtraCategories[:len(sess.ExtraCategories)-1]
		return nil, NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
	return sess.Categories(), nil
}

func (u *ProductUsecase) AuditLogs(ctx context.Context, code string, limit int) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{Limit: limit}
	if c := strings.TrimSpace(code); c != "" {
		f.ResourceCode = &c
	}
	logs, err := u.audit.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "backend unavailable")
	}
	return logs, nil
}

func validateFields(name string, price, stock int64, category string, extras []string) (string, error) {
	if err := validator.ValidateProduct(name, price, stock); err != nil {
		return "", badRequest(err)
	}
	c, ok := model.KnownCategory(category, extras)
	if !ok {
		return "", NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	return c, nil
}

// 毎回ユニークな名前で保存(既存の写真は上書きしない)
func (u *ProductUsecase) upload(ctx context.Context, code string, data []byte) (repo.ImageRef, error) {
	ref, err := u.images.Upload(ctx, code+"-"+shortID(u.idGen.NewID()), data)
	if err != nil {
		u.log.Error().Err(err).Str("code", code).Msg("photo upload failed")
		return repo.ImageRef{}, NewHTTPError(http.StatusServiceUnavailable, "image store unavailable")
	}
	return ref, nil
}

// 削除失敗は無視
func (u *ProductUsecase) dropImage(ctx context.Context, id string) {
	if err := u.images.Delete(ctx, id); err != nil {
		u.log.Warn().Err(err).Str("photo_id", id).Msg("photo delete failed")
	}
}

// 監査ログ作成。失敗しても処理は止めない
func (u *ProductUsecase) record(ctx context.Context, sess *model.Session, action model.AuditAction, code string, before, after *model.Product) {
	err := u.audit.Create(ctx, model.AuditLog{
		SessionID:    sess.ID,
		Action:       action,
		ResourceCode: code,
		BeforeJSON:   productJSON(before),
		AfterJSON:    productJSON(after),
		CreatedAt:    u.clock.Now(),
	})
	if err != nil {
		u.log.Warn().Err(err).Str("code", code).Str("action", string(action)).Msg("audit write failed")
	}
}

func productJSON(p *model.Product) string {
	if p == nil {
		return ""
	}
	b, err := json.Marshal(struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Stock    int64  `json:"stock"`
		Category string `json:"category"`
		Photo    string `json:"photo,omitempty"`
	}{p.Name, p.Price, p.Stock, p.Category, p.Photo})
	if err != nil {
		return ""
	}
	return string(b)
}
