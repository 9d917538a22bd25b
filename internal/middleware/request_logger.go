package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger writes one line per request and tags the request context logger
// with a request id.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, rid)

			l := log.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			ev := l.Info()
			switch {
			case status >= http.StatusInternalServerError:
				ev = l.Error()
			case status >= http.StatusBadRequest:
				ev = l.Warn()
			}
			if sess := SessionFrom(c); sess != nil {
				ev = ev.Str("session_id", sess.ID)
			}
			ev.Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}

// Recover turns a panic into a 500 and logs the stack.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("panic", fmt.Sprint(r)).
						Bytes("stack", debug.Stack()).
						Str("path", c.Request().URL.Path).
						Msg("recovered")
					err = c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			}()
			return next(c)
		}
	}
}
