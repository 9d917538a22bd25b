package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bodega/internal/domain/model"
	"bodega/internal/metrics"
	repo "bodega/internal/repository"
	"bodega/internal/validator"

	"github.com/rs/zerolog"
)

// Reasons reported for a cart line whose stock could not be decremented.
const (
	ReasonNotFound           = "product not found"
	ReasonConflict           = "stock changed concurrently"
	ReasonInsufficientStock  = "insufficient stock"
	ReasonBackendUnavailable = "backend unavailable"
)

type CheckoutUsecase struct {
	products repo.ProductRepository
	sessions repo.SessionRepository
	audit    repo.AuditLogRepository
	renderer InvoiceRenderer
	idGen    IDGenerator
	clock    Clock
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewCheckoutUsecase(
	products repo.ProductRepository,
	sessions repo.SessionRepository,
	audit repo.AuditLogRepository,
	renderer InvoiceRenderer,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	log zerolog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		products: products,
		sessions: sessions,
		audit:    audit,
		renderer: renderer,
		idGen:    idGen,
		clock:    clock,
		metrics:  m,
		log:      log,
	}
}

type CheckoutInput struct {
	DiscountPercent int
	CustomerName    string
	TaxID           string
	Salesperson     string
}

type LineFailure struct {
	Code     string `json:"code"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

type CheckoutOutput struct {
	Invoice  model.Invoice `json:"invoice"`
	Failures []LineFailure `json:"failures"`
	// true when at least one line did not decrement stock
	Partial bool `json:"partial"`
}

// Commit decrements stock line by line and issues the invoice.
//
// Lines are independent: a failed line is reported and the loop goes on, so the result
// can be partial. The invoice always lists every cart line, and the cart is emptied
// afterwards either way.
func (u *CheckoutUsecase) Commit(ctx context.Context, sess *model.Session, in CheckoutInput) (CheckoutOutput, error) {
	if sess == nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validator.ValidateCustomer(in.CustomerName); err != nil {
		return CheckoutOutput{}, badRequest(err)
	}
	if sess.Cart.IsEmpty() {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	lines := sess.Cart.Lines()
	totals, err := model.ComputeTotals(lines, in.DiscountPercent)
	if err != nil {
		return CheckoutOutput{}, totalsError(err)
	}

	failures := make([]LineFailure, 0)
	for _, line := range lines {
		if reason := u.decrement(ctx, sess, line); reason != "" {
			u.log.Warn().
				Str("session_id", sess.ID).
				Str("code", line.Code).
				Int64("quantity", line.Quantity).
				Str("reason", reason).
				Msg("stock not updated")
			failures = append(failures, LineFailure{Code: line.Code, Quantity: line.Quantity, Reason: reason})
		}
	}

	now := u.clock.Now()
	inv := model.NewInvoice(
		u.invoiceNumber(),
		model.Customer{Name: in.CustomerName, TaxID: in.TaxID, Salesperson: in.Salesperson},
		now,
		lines,
		totals,
	)

	sess.Cart.Clear()
	sess.LastInvoice = &inv
	if err := u.sessions.Save(ctx, sess); err != nil {
		// 在庫は確定済み。請求書はレスポンスで返す
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("save session after checkout")
	}

	u.metrics.ObserveCommit(len(failures), totals.Total)
	u.log.Info().
		Str("session_id", sess.ID).
		Str("invoice", inv.Number).
		Int("lines", len(lines)).
		Int("failed_lines", len(failures)).
		Int64("total", totals.Total).
		Msg("checkout committed")

	return CheckoutOutput{
		Invoice:  inv,
		Failures: failures,
		Partial:  len(failures) > 0,
	}, nil
}

// decrement re-reads the product and writes the new stock against the version it read.
// Returns "" on success or the failure reason.
func (u *CheckoutUsecase) decrement(ctx context.Context, sess *model.Session, line model.LineItem) string {
	p, err := u.products.Get(ctx, line.Code)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReasonNotFound
		}
		return ReasonBackendUnavailable
	}
	if p.Stock < line.Quantity {
		return ReasonInsufficientStock
	}

	newStock := p.Stock - line.Quantity
	if err := u.products.UpdateStock(ctx, p.Code, newStock, p.Version); err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return ReasonConflict
		case errors.Is(err, repo.ErrNotFound):
			return ReasonNotFound
		default:
			return ReasonBackendUnavailable
		}
	}

	if err := u.audit.Create(ctx, model.AuditLog{
		SessionID:    sess.ID,
		Action:       model.AuditActionSaleStock,
		ResourceCode: p.Code,
		BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, p.Stock),
		AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		u.log.Warn().Err(err).Str("code", p.Code).Msg("audit write failed")
	}
	return ""
}

// F20261018-1a2b3c4d
func (u *CheckoutUsecase) invoiceNumber() string {
	return fmt.Sprintf("F%s-%s", u.clock.Now().Format("20060102"), strings.ToUpper(shortID(u.idGen.NewID())))
}

// InvoiceDocument renders the last invoice of the session.
func (u *CheckoutUsecase) InvoiceDocument(ctx context.Context, sess *model.Session) (string, []byte, error) {
	if sess == nil {
		return "", nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.LastInvoice == nil {
		return "", nil, NewHTTPError(http.StatusNotFound, "no invoice issued in this session")
	}

	doc, err := u.renderer.Render(*sess.LastInvoice)
	if err != nil {
		u.log.Error().Err(err).Str("invoice", sess.LastInvoice.Number).Msg("render invoice")
		return "", nil, NewHTTPError(http.StatusInternalServerError, "render error")
	}
	u.metrics.ObserveInvoiceRendered()
	return sess.LastInvoice.DocumentName(), doc, nil
}
