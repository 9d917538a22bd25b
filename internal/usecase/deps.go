package usecase

import (
	"strings"
	"time"

	"bodega/internal/domain/model"
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// InvoiceRenderer turns an invoice into a printable document.
type InvoiceRenderer interface {
	Render(inv model.Invoice) ([]byte, error)
}

// first 8 hex digits of a uuid
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
