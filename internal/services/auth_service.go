package services

import (
	"context"
	"time"

	"chatrelay/internal/domain/user"
	relay_errors "chatrelay/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionStore keeps live sessions; a missing session means the caller
// must re-authenticate even if the token has not expired yet.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type AuthService struct {
	users     *UserService
	sessions  SessionStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users *UserService, sessions SessionStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type AccessClaims struct {
	UserID    string `json:"sub"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	SessionID   string    `json:"session_id"`
	User        user.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.users.VerifyUser(ctx, email, password)
	if err != nil {
		return AuthResponse{}, err
	}

	sessionID := uuid.New()
	if err := s.sessions.Put(ctx, sessionID, u.ID, s.tokenTTL); err != nil {
		return AuthResponse{}, err
	}

	token, expiresIn, err := s.newAccessToken(u.ID, sessionID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		SessionID:   sessionID.String(),
		User:        u,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) newAccessToken(userID, sessionID uuid.UUID) (string, int64, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.tokenTTL.Seconds()), nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, relay_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, relay_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, relay_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, relay_errors.ErrUnauthorized
	}
	return *claims, nil
}

// ValidateSession checks the session is still live and belongs to userID.
func (s *AuthService) ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	owner, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if owner != userID {
		return relay_errors.ErrUnauthorized
	}
	return nil
}

// Authenticate parses the token and validates its session, returning the
// caller's identity. It is the single entry point for the guard and the
// websocket authorizer.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (userID, sessionID uuid.UUID, err error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err = uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, relay_errors.ErrUnauthorized
	}
	sessionID, err = uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, relay_errors.ErrUnauthorized
	}
	if err := s.ValidateSession(ctx, sessionID, userID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, sessionID, nil
}
