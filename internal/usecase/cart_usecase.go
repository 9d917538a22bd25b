package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"github.com/rs/zerolog"
)

// CartUsecase owns the session cart. Stock is only checked here, never reserved.
type CartUsecase struct {
	products repo.ProductRepository
	sessions repo.SessionRepository
	log      zerolog.Logger
}

func NewCartUsecase(products repo.ProductRepository, sessions repo.SessionRepository, log zerolog.Logger) *CartUsecase {
	return &CartUsecase{products: products, sessions: sessions, log: log}
}

type AddCartInput struct {
	Code     string
	Quantity int64
}

type CartOutput struct {
	Items  []model.LineItem `json:"items"`
	Totals model.Totals     `json:"totals"`
}

// GetCart previews totals for the given discount without touching the cart.
func (u *CartUsecase) GetCart(sess *model.Session, discountPercent int) (CartOutput, error) {
	if sess == nil {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	lines := sess.Cart.Lines()
	totals, err := model.ComputeTotals(lines, discountPercent)
	if err != nil {
		return CartOutput{}, totalsError(err)
	}
	return CartOutput{Items: lines, Totals: totals}, nil
}

func (u *CartUsecase) AddToCart(ctx context.Context, sess *model.Session, in AddCartInput) (CartOutput, error) {
	if sess == nil {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.products.Get(ctx, code)
	if err != nil {
		return CartOutput{}, storeError(err, "product not found")
	}

	if _, err := sess.Cart.Add(p, in.Quantity); err != nil {
		switch {
		case errors.Is(err, model.ErrInsufficientStock):
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity exceeds stock")
		case errors.Is(err, model.ErrAmountOutOfRange):
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, "amount too large")
		default:
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
	}

	if err := u.sessions.Save(ctx, sess); err != nil {
		// 保存できなかった行を戻す
		sess.Cart.Items = sess.Cart.Items[:len(sess.Cart.Items)-1]
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("save cart")
		return CartOutput{}, NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	return u.GetCart(sess, 0)
}
