package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// SessionTokenIssuer signs and verifies the handle that points to a session.
type SessionTokenIssuer interface {
	Issue(sessionID string, now time.Time) (token string, expiresAt time.Time, err error)
	Parse(token string) (sessionID string, err error)
}

// SecretVerifier compares the submitted back-office secret with the configured one.
type SecretVerifier interface {
	Verify(plain string) bool
}

// BcryptSecret keeps only a hash of the configured secret in memory.
type BcryptSecret struct {
	hash []byte
}

func NewBcryptSecret(secret string, cost int) (*BcryptSecret, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptSecret{hash: h}, nil
}

func (s *BcryptSecret) Verify(plain string) bool {
	return bcrypt.CompareHashAndPassword(s.hash, []byte(plain)) == nil
}

type AuthUsecase struct {
	verifier SecretVerifier
	issuer   SessionTokenIssuer
	sessions repo.SessionRepository
	idGen    IDGenerator
	clock    Clock
	log      zerolog.Logger
}

func NewAuthUsecase(
	verifier SecretVerifier,
	issuer SessionTokenIssuer,
	sessions repo.SessionRepository,
	idGen IDGenerator,
	clock Clock,
	log zerolog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		verifier: verifier,
		issuer:   issuer,
		sessions: sessions,
		idGen:    idGen,
		clock:    clock,
		log:      log,
	}
}

type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login opens a new authenticated session. Attempts are not limited.
func (u *AuthUsecase) Login(ctx context.Context, secret string) (LoginOutput, error) {
	if secret == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "secret required")
	}
	if !u.verifier.Verify(secret) {
		u.log.Warn().Msg("rejected back-office secret")
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid secret")
	}

	now := u.clock.Now()
	sess := model.NewSession(u.idGen.NewID(), now)
	if err := u.sessions.Save(ctx, sess); err != nil {
		u.log.Error().Err(err).Msg("save session")
		return LoginOutput{}, NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	token, exp, err := u.issuer.Issue(sess.ID, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	u.log.Info().Str("session_id", sess.ID).Msg("session opened")
	return LoginOutput{Token: token, ExpiresAt: exp}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, sess *model.Session) error {
	if sess == nil {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.sessions.Delete(ctx, sess.ID); err != nil {
		return NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
	return nil
}

// Authenticate resolves a bearer token to its live session.
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := u.issuer.Parse(token)
	if err != nil || id == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sess, err := u.sessions.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
	if !sess.Authenticated {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return sess, nil
}
