package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
	"bodega/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartUsecase_AddToCart_Success(t *testing.T) {
	ctx := context.Background()
	products := new(ProductRepoMock)
	sessions := new(SessionRepoMock)
	uc := usecase.NewCartUsecase(products, sessions, zerolog.Nop())

	sess := newSession()
	products.On("Get", mock.Anything, "AN-001").
		Return(model.Product{Code: "AN-001", Name: "Anillo", Price: 50000, Stock: 10}, nil)
	sessions.On("Save", mock.Anything, sess).Return(nil)

	out, err := uc.AddToCart(ctx, sess, usecase.AddCartInput{Code: "AN-001", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(150000), out.Items[0].Subtotal)
	assert.Equal(t, int64(150000), out.Totals.Total)
	sessions.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_SameProductTwiceAppends(t *testing.T) {
	products := new(ProductRepoMock)
	sessions := new(SessionRepoMock)
	uc := usecase.NewCartUsecase(products, sessions, zerolog.Nop())

	sess := newSession()
	products.On("Get", mock.Anything, "A").Return(model.Product{Code: "A", Price: 10, Stock: 5}, nil)
	sessions.On("Save", mock.Anything, sess).Return(nil)

	_, err := uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "A", Quantity: 2})
	require.NoError(t, err)
	out, err := uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "A", Quantity: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestCartUsecase_AddToCart_StockBoundary(t *testing.T) {
	products := new(ProductRepoMock)
	sessions := new(SessionRepoMock)
	uc := usecase.NewCartUsecase(products, sessions, zerolog.Nop())

	sess := newSession()
	products.On("Get", mock.Anything, "A").Return(model.Product{Code: "A", Price: 10, Stock: 4}, nil)
	sessions.On("Save", mock.Anything, sess).Return(nil)

	_, err := uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "A", Quantity: 5})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assert.True(t, sess.Cart.IsEmpty())

	_, err = uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "A", Quantity: 4})
	assert.NoError(t, err)
}

func TestCartUsecase_AddToCart_Errors(t *testing.T) {
	cases := []struct {
		name   string
		in     usecase.AddCartInput
		getErr error
		status int
	}{
		{name: "empty code", in: usecase.AddCartInput{Code: " ", Quantity: 1}, status: http.StatusBadRequest},
		{name: "zero quantity", in: usecase.AddCartInput{Code: "A", Quantity: 0}, status: http.StatusBadRequest},
		{name: "unknown code", in: usecase.AddCartInput{Code: "A", Quantity: 1}, getErr: repo.ErrNotFound, status: http.StatusNotFound},
		{name: "store down", in: usecase.AddCartInput{Code: "A", Quantity: 1}, getErr: errBackend, status: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products := new(ProductRepoMock)
			uc := usecase.NewCartUsecase(products, new(SessionRepoMock), zerolog.Nop())
			products.On("Get", mock.Anything, "A").Return(model.Product{}, tc.getErr)

			_, err := uc.AddToCart(context.Background(), newSession(), tc.in)
			assertHTTPStatus(t, err, tc.status)
		})
	}
}

func TestCartUsecase_AddToCart_SaveFailureRollsBack(t *testing.T) {
	products := new(ProductRepoMock)
	sessions := new(SessionRepoMock)
	uc := usecase.NewCartUsecase(products, sessions, zerolog.Nop())

	sess := newSession()
	products.On("Get", mock.Anything, "A").Return(model.Product{Code: "A", Price: 10, Stock: 5}, nil)
	sessions.On("Save", mock.Anything, sess).Return(errBackend)

	_, err := uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "A", Quantity: 1})
	assertHTTPStatus(t, err, http.StatusServiceUnavailable)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestCartUsecase_GetCart_PreviewIsIdempotent(t *testing.T) {
	uc := usecase.NewCartUsecase(new(ProductRepoMock), new(SessionRepoMock), zerolog.Nop())
	sess := newSession()
	_, err := sess.Cart.Add(model.Product{Code: "A", Price: 45000, Stock: 1}, 1)
	require.NoError(t, err)

	first, err := uc.GetCart(sess, 15)
	require.NoError(t, err)
	second, err := uc.GetCart(sess, 15)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(6750), first.Totals.DiscountAmount)
	assert.Equal(t, int64(38250), first.Totals.Total)

	_, err = uc.GetCart(sess, 60)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddToCart_AmountTooLarge(t *testing.T) {
	products := new(ProductRepoMock)
	sessions := new(SessionRepoMock)
	uc := usecase.NewCartUsecase(products, sessions, zerolog.Nop())

	sess := newSession()
	products.On("Get", mock.Anything, "X").Return(model.Product{Code: "X", Price: 1 << 62, Stock: 4}, nil)

	_, err := uc.AddToCart(context.Background(), sess, usecase.AddCartInput{Code: "X", Quantity: 4})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assert.True(t, sess.Cart.IsEmpty())
	sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
