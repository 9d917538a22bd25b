package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bodega/internal/middleware"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

// MaxPhotoBytes caps an uploaded product photo.
const MaxPhotoBytes = 5 << 20

type SuccessResponse struct {
	Message string `json:"message"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// /admin/products, /admin/categories, /admin/audit-logs
type AdminProductHandler struct {
	products *usecase.ProductUsecase
	catalog  *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(products *usecase.ProductUsecase, catalog *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{products: products, catalog: catalog}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	admin := e.Group("/admin")
	admin.Use(gate)

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.GET("/products/export.csv", h.exportProducts)
	admin.PUT("/products/:code", h.updateProduct)
	admin.DELETE("/products/:code", h.deleteProduct)

	admin.GET("/categories", h.listCategories)
	admin.POST("/categories", h.addCategory)

	admin.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminProductHandler) listProducts(c echo.Context) error {
	items := h.catalog.List(c.Request().Context(), catalogQuery(c))
	return c.JSON(http.StatusOK, CatalogResponse{Items: items, Total: len(items)})
}

// multipart: code,name,price,stock,category,photo
func (h *AdminProductHandler) createProduct(c echo.Context) error {
	form, err := readProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	p, err := h.products.Register(c.Request().Context(), middleware.SessionFrom(c), usecase.RegisterProductInput{
		Code:     c.FormValue("code"),
		Name:     form.name,
		Price:    valueOrZero(form.price),
		Stock:    valueOrZero(form.stock),
		Category: form.category,
		Photo:    form.photo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	form, err := readProductForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	p, err := h.products.Update(c.Request().Context(), middleware.SessionFrom(c), c.Param("code"), usecase.UpdateProductInput{
		Name:     form.name,
		Price:    form.price,
		Stock:    form.stock,
		Category: form.category,
		Photo:    form.photo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), middleware.SessionFrom(c), c.Param("code")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// 失敗時にJSONで返せるよう一度バッファする
func (h *AdminProductHandler) exportProducts(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.products.Export(c.Request().Context(), &buf); err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventario.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *AdminProductHandler) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: h.products.Categories(middleware.SessionFrom(c))})
}

func (h *AdminProductHandler) addCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cats, err := h.products.AddCategory(c.Request().Context(), middleware.SessionFrom(c), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: cats})
}

// ?code=&limit=
func (h *AdminProductHandler) listAuditLogs(c echo.Context) error {
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}

	logs, err := h.products.AuditLogs(c.Request().Context(), c.QueryParam("code"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// price/stock: nil = フィールドなし
type productForm struct {
	name     string
	price    *int64
	stock    *int64
	category string
	photo    []byte
}

func readProductForm(c echo.Context) (productForm, error) {
	f := productForm{
		name:     c.FormValue("name"),
		category: c.FormValue("category"),
	}

	var err error
	if f.price, err = parseIntField(c, "price"); err != nil {
		return productForm{}, err
	}
	if f.stock, err = parseIntField(c, "stock"); err != nil {
		return productForm{}, err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		// 写真なし
		return f, nil
	}
	if fh.Size > MaxPhotoBytes {
		return productForm{}, fmt.Errorf("photo larger than %d bytes", MaxPhotoBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return productForm{}, fmt.Errorf("invalid photo")
	}
	defer src.Close()

	f.photo, err = io.ReadAll(io.LimitReader(src, MaxPhotoBytes+1))
	if err != nil {
		return productForm{}, fmt.Errorf("invalid photo")
	}
	return f, nil
}

// empty means absent
func parseIntField(c echo.Context, name string) (*int64, error) {
	s := strings.TrimSpace(c.FormValue(name))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &n, nil
}

func valueOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
