package handler

import (
	"net/http"
	"strconv"

	"bodega/internal/domain/model"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 公開カタログのルートを登録
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type CatalogResponse struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalog", h.listCatalog)
}

func (h *ProductHandler) listCatalog(c echo.Context) error {
	items := h.uc.List(c.Request().Context(), catalogQuery(c))
	return c.JSON(http.StatusOK, CatalogResponse{Items: items, Total: len(items)})
}

// ?category=&in_stock=&q=
func catalogQuery(c echo.Context) usecase.CatalogQuery {
	inStock, _ := strconv.ParseBool(c.QueryParam("in_stock"))
	return usecase.CatalogQuery{
		Category:    c.QueryParam("category"),
		InStockOnly: inStock,
		Q:           c.QueryParam("q"),
	}
}
