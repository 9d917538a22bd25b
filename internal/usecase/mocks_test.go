package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
	"bodega/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Get(ctx context.Context, code string) (model.Product, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Insert(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) UpdateStock(ctx context.Context, code string, newStock int64, expectedVersion int64) error {
	return m.Called(ctx, code, newStock, expectedVersion).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Save(ctx context.Context, s *model.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SessionRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Upload(ctx context.Context, name string, data []byte) (repo.ImageRef, error) {
	args := m.Called(ctx, name, data)
	ref, _ := args.Get(0).(repo.ImageRef)
	return ref, args.Error(1)
}

func (m *ImageStoreMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(inv model.Invoice) ([]byte, error) {
	args := m.Called(inv)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type IssuerMock struct{ mock.Mock }

func (m *IssuerMock) Issue(sessionID string, now time.Time) (string, time.Time, error) {
	args := m.Called(sessionID, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *IssuerMock) Parse(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// =====================
// Fakes
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqID struct {
	mu  sync.Mutex
	ids []string
	i   int
}

func (g *seqID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.i >= len(g.ids) {
		return "ffffffff-0000-0000-0000-000000000000"
	}
	id := g.ids[g.i]
	g.i++
	return id
}

type staticVerifier struct{ secret string }

func (v staticVerifier) Verify(plain string) bool { return plain == v.secret }

var (
	testNow    = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	errBackend = errors.New("connection refused")
)

func newSession() *model.Session {
	return model.NewSession("sess-1", testNow)
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected *HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}
