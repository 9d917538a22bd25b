package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
	"bodega/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// storeError maps a repository error: not found 404, conflict 409, anything else means
// the backend could not be reached.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, repo.ErrConflict):
		return NewHTTPError(http.StatusConflict, "conflict")
	default:
		return NewHTTPError(http.StatusServiceUnavailable, "backend unavailable")
	}
}

func badRequest(err error) error {
	return NewHTTPError(http.StatusBadRequest, validator.Message(err))
}

func totalsError(err error) error {
	if errors.Is(err, model.ErrAmountOutOfRange) {
		return NewHTTPError(http.StatusBadRequest, "amount too large")
	}
	return NewHTTPError(http.StatusBadRequest, "discount must be between 0 and 50")
}
