// Package session holds the client's single source of truth for "who is
// logged in". Every role gated surface and route decision derives from the
// phase tracked here.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/guard"
	"github.com/example/roombook/internal/logging"
	"github.com/example/roombook/internal/persistence"
)

// Phase is the lifecycle state of the session. The store starts in
// Bootstrapping and resolves to Anonymous or Authenticated; Authenticated can
// only fall back to Anonymous through Logout or token rejection.
type Phase int

const (
	Bootstrapping Phase = iota
	Anonymous
	Authenticated
)

// String returns the lower case phase label used in logs.
func (p Phase) String() string {
	switch p {
	case Bootstrapping:
		return "bootstrapping"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// IdentityClient is the slice of the API client the session store depends on.
type IdentityClient interface {
	Login(ctx context.Context, payload api.LoginPayload) (string, error)
	Register(ctx context.Context, payload api.RegisterPayload) (string, error)
	Me(ctx context.Context) (api.User, error)
}

// Navigator moves the view layer to a named surface after a lifecycle
// transition. Implementations belong to the presentation layer.
type Navigator interface {
	NavigateTo(route string)
}

// Notifier surfaces transient user-visible messages. This is presentation,
// not part of the state contract; a nil notifier is valid.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Store is the process-wide session container. It is safe for concurrent
// reads; all writers funnel through the lifecycle operations.
type Store struct {
	client IdentityClient
	tokens persistence.KV
	nav    Navigator
	notify Notifier
	logger *slog.Logger

	mu    sync.RWMutex
	phase Phase
	user  *api.User
}

// NewStore constructs a session store. The phase starts at Bootstrapping and
// stays there until Bootstrap resolves it.
func NewStore(client IdentityClient, tokens persistence.KV, nav Navigator, notify Notifier) *Store {
	return NewStoreWithLogger(client, tokens, nav, notify, nil)
}

// NewStoreWithLogger constructs a session store with a specified logger.
func NewStoreWithLogger(client IdentityClient, tokens persistence.KV, nav Navigator, notify Notifier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		tokens: tokens,
		nav:    nav,
		notify: notify,
		logger: logger,
		phase:  Bootstrapping,
	}
}

func (s *Store) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scope(ctx, s.logger, "SessionStore", operation, attrs...)
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// IsLoading reports whether the store is still resolving the persisted token.
func (s *Store) IsLoading() bool {
	return s.Phase() == Bootstrapping
}

// IsAuthenticated is derived from the presence of a user, never stored
// independently.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the authenticated user, or false when the session is anonymous
// or still bootstrapping.
func (s *Store) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// Bootstrap resolves the persisted token into a session exactly once at
// startup. No stored token means Anonymous without any network call. A stored
// token that the identity endpoint rejects is treated as expired: it is
// deleted and the session resolves to Anonymous, never retried. Bootstrap
// always leaves the store out of the Bootstrapping phase.
func (s *Store) Bootstrap(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("session store is nil")
	}

	logger := s.loggerWith(ctx, "Bootstrap")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "bootstrap failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.With("phase", s.Phase().String()).InfoContext(ctx, "bootstrap resolved")
	}()

	token, err := s.tokens.Get(ctx, persistence.TokenKey)
	if err != nil {
		s.setAnonymous()
		return err
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}

	user, meErr := s.client.Me(ctx)
	if meErr != nil {
		// Token invalid or expired. Discard it; transport failures get the
		// same demotion so a half-working session never gates the first render.
		if delErr := s.tokens.Delete(ctx, persistence.TokenKey); delErr != nil {
			logger.ErrorContext(ctx, "failed to discard rejected token", "error", delErr)
		}
		s.setAnonymous()
		logger.InfoContext(ctx, "stored token rejected", "error_kind", api.ErrorKind(meErr))
		return nil
	}

	s.setAuthenticated(user)
	return nil
}

// LoginParams carries the credentials plus an optional surface to navigate to
// after a successful sign-in.
type LoginParams struct {
	Payload  api.LoginPayload
	Redirect string
}

// Login exchanges credentials for a token and establishes the session. On
// failure the state is left untouched and the normalized server message is
// surfaced; nothing is retried.
func (s *Store) Login(ctx context.Context, params LoginParams) (err error) {
	if s == nil {
		return fmt.Errorf("session store is nil")
	}

	logger := s.loggerWith(ctx, "Login", "email", params.Payload.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	token, err := s.client.Login(ctx, params.Payload)
	if err != nil {
		s.notifyError(api.Message(err))
		return err
	}

	return s.adoptToken(ctx, logger, token, params.Redirect)
}

// RegisterParams carries the registration payload plus an optional redirect
// target.
type RegisterParams struct {
	Payload  api.RegisterPayload
	Redirect string
}

// Register creates an account and signs the user in immediately with the
// token the registration endpoint returns; no separate login round-trip.
func (s *Store) Register(ctx context.Context, params RegisterParams) (err error) {
	if s == nil {
		return fmt.Errorf("session store is nil")
	}

	logger := s.loggerWith(ctx, "Register", "email", params.Payload.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "registration succeeded")
	}()

	token, err := s.client.Register(ctx, params.Payload)
	if err != nil {
		s.notifyError(api.Message(err))
		return err
	}

	return s.adoptToken(ctx, logger, token, params.Redirect)
}

// adoptToken persists a freshly issued token and completes the identity fetch
// shared by Login, Register, and Bootstrap's happy path. An identity failure
// here discards the token again so storage never holds a token the session
// does not trust.
func (s *Store) adoptToken(ctx context.Context, logger *slog.Logger, token, redirect string) error {
	if err := s.tokens.Set(ctx, persistence.TokenKey, token); err != nil {
		return err
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		if delErr := s.tokens.Delete(ctx, persistence.TokenKey); delErr != nil {
			logger.ErrorContext(ctx, "failed to discard token after identity failure", "error", delErr)
		}
		s.notifyError("Нэвтрэх үед хэрэглэгчийн мэдээлэл татаж чадсангүй.")
		s.navigateTo(guard.RouteHome)
		return err
	}

	s.setAuthenticated(user)
	s.notifySuccess(fmt.Sprintf("Тавтай морилно уу, %s!", user.Username))

	if redirect != "" {
		s.navigateTo(redirect)
		return nil
	}
	s.navigateTo(guard.RouteDashboard)
	return nil
}

// Logout is synchronous: it deletes the persisted token, clears the user, and
// sends the view layer to the login surface. It cannot fail in a way that
// leaves the session authenticated.
func (s *Store) Logout(ctx context.Context) {
	if s == nil {
		return
	}

	logger := s.loggerWith(ctx, "Logout")
	if err := s.tokens.Delete(ctx, persistence.TokenKey); err != nil {
		logger.ErrorContext(ctx, "failed to delete token", "error", err)
	}
	s.setAnonymous()
	s.notifySuccess("Системээс амжилттай гарлаа.")
	s.navigateTo(guard.RouteLogin)
	logger.InfoContext(ctx, "logged out")
}

// SetNewToken installs a token issued outside the login flow, typically after
// a password change. On identity failure the token is deleted silently and
// the error is returned for the caller to surface, unlike Login which
// notifies on its own.
func (s *Store) SetNewToken(ctx context.Context, token string) (err error) {
	if s == nil {
		return fmt.Errorf("session store is nil")
	}

	logger := s.loggerWith(ctx, "SetNewToken")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "token rotation failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "token rotated")
	}()

	if err := s.tokens.Set(ctx, persistence.TokenKey, token); err != nil {
		return err
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		if delErr := s.tokens.Delete(ctx, persistence.TokenKey); delErr != nil {
			logger.ErrorContext(ctx, "failed to discard rotated token", "error", delErr)
		}
		return err
	}

	s.setAuthenticated(user)
	return nil
}

func (s *Store) setAuthenticated(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Authenticated
	s.user = &user
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Anonymous
	s.user = nil
}

func (s *Store) notifySuccess(message string) {
	if s.notify != nil {
		s.notify.Success(message)
	}
}

func (s *Store) notifyError(message string) {
	if s.notify != nil {
		s.notify.Error(message)
	}
}

func (s *Store) navigateTo(route string) {
	if s.nav != nil {
		s.nav.NavigateTo(route)
	}
}
