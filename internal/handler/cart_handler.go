package handler

import (
	"net/http"
	"strconv"

	"bodega/internal/middleware"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	Code     string `json:"code"`
	Quantity int64  `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	g := e.Group("/cart")
	g.Use(gate)

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
}

// ?discount= previews totals with a discount
func (h *CartHandler) getCart(c echo.Context) error {
	discount := 0
	if s := c.QueryParam("discount"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid discount"})
		}
		discount = n
	}

	out, err := h.uc.GetCart(middleware.SessionFrom(c), discount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), middleware.SessionFrom(c), usecase.AddCartInput{
		Code:     req.Code,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
