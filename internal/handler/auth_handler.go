package handler

import (
	"net/http"

	"bodega/internal/middleware"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type loginRequest struct {
	Secret string `json:"secret"`
}

// logoutだけgateを通す
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/logout", h.logout, gate)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req.Secret)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.SessionFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
