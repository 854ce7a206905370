package application

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultSessionTTL is how long a session stays valid without a refresh.
const DefaultSessionTTL = 12 * time.Hour

// CredentialStore resolves the authentication material for an organizer.
type CredentialStore interface {
	GetOrganizerCredentialsByEmail(ctx context.Context, email string) (OrganizerCredentials, error)
}

// SessionStore is the persistence contract the auth service depends on.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AuthService authenticates organizers and manages their sessions.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionStore
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

func NewAuthService(credentials CredentialStore, sessions SessionStore, idGenerator, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if idGenerator == nil || tokenGenerator == nil {
		panic("application: NewAuthService requires id and token generators")
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

// Authenticate verifies the email and password pair and issues a session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (AuthenticateResult, error) {
	logger := serviceLogger(ctx, s.logger, "AuthService", "Authenticate")

	credentials, err := s.credentials.GetOrganizerCredentialsByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Warn("authentication rejected", slog.String("error_kind", ErrorKind(ErrInvalidCredentials)))
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		logger.Error("failed to load credentials", slog.String("error", err.Error()))
		return AuthenticateResult{}, err
	}
	if credentials.Disabled {
		logger.Warn("authentication rejected",
			slog.String("organizer_id", credentials.Organizer.ID),
			slog.String("error_kind", ErrorKind(ErrAccountDisabled)))
		return AuthenticateResult{}, ErrAccountDisabled
	}
	if err := VerifyPassword(credentials.PasswordHash, params.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("authentication rejected",
				slog.String("organizer_id", credentials.Organizer.ID),
				slog.String("error_kind", ErrorKind(err)))
			return AuthenticateResult{}, err
		}
		logger.Error("failed to verify password", slog.String("error", err.Error()))
		return AuthenticateResult{}, err
	}

	reference := s.now()
	session := Session{
		ID:          s.idGenerator(),
		OrganizerID: credentials.Organizer.ID,
		Token:       s.tokenGenerator(),
		Fingerprint: params.Fingerprint,
		ExpiresAt:   reference.Add(s.sessionTTL),
		CreatedAt:   reference,
		UpdatedAt:   reference,
	}
	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		logger.Error("failed to create session", slog.String("error", err.Error()))
		return AuthenticateResult{}, err
	}

	logger.Info("organizer authenticated", slog.String("organizer_id", credentials.Organizer.ID))
	return AuthenticateResult{Organizer: credentials.Organizer, Session: created}, nil
}

// ValidateSession resolves a bearer token into the acting principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	logger := serviceLogger(ctx, s.logger, "AuthService", "ValidateSession")

	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		logger.Error("failed to load session", slog.String("error", err.Error()))
		return Principal{}, err
	}
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}
	return Principal{OrganizerID: session.OrganizerID}, nil
}

// RefreshSession extends a live session's expiry by the configured TTL.
func (s *AuthService) RefreshSession(ctx context.Context, token string) (Session, error) {
	logger := serviceLogger(ctx, s.logger, "AuthService", "RefreshSession")

	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		logger.Error("failed to load session", slog.String("error", err.Error()))
		return Session{}, err
	}
	if session.RevokedAt != nil {
		return Session{}, ErrSessionRevoked
	}
	reference := s.now()
	if !reference.Before(session.ExpiresAt) {
		return Session{}, ErrSessionExpired
	}

	session.ExpiresAt = reference.Add(s.sessionTTL)
	session.UpdatedAt = reference
	updated, err := s.sessions.UpdateSession(ctx, session)
	if err != nil {
		logger.Error("failed to refresh session", slog.String("error", err.Error()))
		return Session{}, err
	}
	return updated, nil
}

// RevokeSession invalidates a session token. Revoking an unknown token is
// reported as unauthorized rather than not found.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	logger := serviceLogger(ctx, s.logger, "AuthService", "RevokeSession")

	if _, err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnauthorized
		}
		logger.Error("failed to revoke session", slog.String("error", err.Error()))
		return err
	}
	logger.Info("session revoked")
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry. Intended for a
// periodic janitor, not request handling.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	logger := serviceLogger(ctx, s.logger, "AuthService", "PurgeExpiredSessions")
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		logger.Error("failed to purge expired sessions", slog.String("error", err.Error()))
		return err
	}
	return nil
}
