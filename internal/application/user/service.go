// Package user provides the authentication use cases of the client
package user

import (
	"context"
	"net/http"

	"github.com/alchemorsel/recipeweb/internal/domain/user"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"go.uber.org/zap"
)

// AuthService logs users in and out and owns the stored session
type AuthService struct {
	gateway *gateway.Client
	store   outbound.SessionStore
	logger  *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(gw *gateway.Client, store outbound.SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		gateway: gw,
		store:   store,
		logger:  logger.Named("auth-service"),
	}
}

type loginResponse struct {
	Token string `json:"token"`
	Icon  string `json:"icon"`
}

type registerResponse struct {
	Token string `json:"token"`
}

// Login authenticates with the backend and stores the returned token and icon
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.Session, error) {
	creds := user.Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	resp, err := gateway.Do[loginResponse](ctx, s.gateway, "/auth/login", gateway.Options{
		Method: http.MethodPost,
		JSON:   creds,
	})
	if err != nil {
		s.logger.Info("Login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperrors.NewRequestFailedError("login", "backend returned no token")
	}

	session := &user.Session{Token: resp.Token, Icon: user.Icon(resp.Icon)}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("email", email))
	return session, nil
}

// Register creates an account and stores the token with the chosen icon
func (s *AuthService) Register(ctx context.Context, reg user.Registration) (*user.Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	resp, err := gateway.Do[registerResponse](ctx, s.gateway, "/auth/register", gateway.Options{
		Method: http.MethodPost,
		JSON:   reg,
	})
	if err != nil {
		s.logger.Info("Registration failed", zap.String("email", reg.Email), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperrors.NewRequestFailedError("register", "backend returned no token")
	}

	session := &user.Session{Token: resp.Token, Icon: reg.Icon}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("email", reg.Email))
	return session, nil
}

// Logout forgets the stored token and icon
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx, outbound.SessionKeys...); err != nil {
		return apperrors.Wrap(err, "failed to clear session")
	}
	s.logger.Info("User logged out")
	return nil
}

// Session returns the stored session; ok is false when nobody is logged in
func (s *AuthService) Session(ctx context.Context) (session user.Session, ok bool, err error) {
	token, ok, err := s.store.Get(ctx, outbound.TokenKey)
	if err != nil {
		return user.Session{}, false, apperrors.Wrap(err, "failed to read session")
	}
	if !ok || token == "" {
		return user.Session{}, false, nil
	}

	icon, _, err := s.store.Get(ctx, outbound.UserIconKey)
	if err != nil {
		return user.Session{}, false, apperrors.Wrap(err, "failed to read session")
	}

	return user.Session{Token: token, Icon: user.Icon(icon)}, true, nil
}

// AuthHeader returns the bearer authorization header for the stored token
func (s *AuthService) AuthHeader(ctx context.Context) (http.Header, error) {
	session, ok, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewUnauthorizedError("Please log in first")
	}

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+session.Token)
	return header, nil
}

func (s *AuthService) save(ctx context.Context, session *user.Session) error {
	if err := s.store.Set(ctx, outbound.TokenKey, session.Token); err != nil {
		return apperrors.Wrap(err, "failed to store token")
	}
	if err := s.store.Set(ctx, outbound.UserIconKey, string(session.Icon)); err != nil {
		return apperrors.Wrap(err, "failed to store user icon")
	}
	return nil
}
