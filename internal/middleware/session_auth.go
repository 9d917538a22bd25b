package middleware

import (
	"context"
	"net/http"
	"strings"

	"bodega/internal/domain/model"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
)

const CtxSessionKey = "session" // *model.Session

// SessionAuthenticator resolves a bearer token to its session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// SessionAuth is the back-office gate: no valid bearer token, no access.
func SessionAuth(auth SessionAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			sess, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				if he, ok := usecase.AsHTTPError(err); ok {
					return c.JSON(he.Status, errorJSON(he.Message))
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session SessionAuth stored, or nil.
func SessionFrom(c echo.Context) *model.Session {
	sess, _ := c.Get(CtxSessionKey).(*model.Session)
	return sess
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
