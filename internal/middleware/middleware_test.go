package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bodega/internal/domain/model"
	"bodega/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	switch token {
	case "ok":
		return model.NewSession("sess-7", time.Now()), nil
	case "expired":
		return nil, usecase.NewHTTPError(http.StatusUnauthorized, "session expired")
	default:
		return nil, usecase.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
}

func serve(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		return c.String(http.StatusOK, SessionFrom(c).ID)
	}, SessionAuth(fakeAuth{}))

	rec := serve(e, "Bearer ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-7", rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(e, "bearer ok").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Basic ok").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer expired").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(e, "Bearer down").Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.Use(Recover(zerolog.New(&buf)))
	e.GET("/x", func(c echo.Context) error {
		c.Set(CtxSessionKey, model.NewSession("sess-9", time.Now()))
		return c.NoContent(http.StatusTeapot)
	})
	e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	rec := serve(e, "")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"session_id":"sess-9"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
}
