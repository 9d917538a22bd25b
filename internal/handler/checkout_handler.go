package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"bodega/internal/middleware"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	DiscountPercent int    `json:"discount_percent"`
	CustomerName    string `json:"customer_name"`
	TaxID           string `json:"tax_id"`
	Salesperson     string `json:"salesperson"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	g := e.Group("/checkout")
	g.Use(gate)

	g.POST("", h.commit)
	g.GET("/invoice", h.invoice)
}

// 一部失敗でも200（failuresで返す）
func (h *CheckoutHandler) commit(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Commit(c.Request().Context(), middleware.SessionFrom(c), usecase.CheckoutInput{
		DiscountPercent: req.DiscountPercent,
		CustomerName:    req.CustomerName,
		TaxID:           req.TaxID,
		Salesperson:     req.Salesperson,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) invoice(c echo.Context) error {
	name, doc, err := h.uc.InvoiceDocument(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(name))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// filename* carries the UTF-8 name; filename is the ASCII fallback.
func contentDisposition(name string) string {
	ascii := []rune(name)
	for i, r := range ascii {
		if r > 127 || r == '"' || r == '\\' {
			ascii[i] = '_'
		}
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, string(ascii), url.PathEscape(name))
}
