package service

import (
	"context"
	"strconv"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is one issued session: a short-lived access token and the
// refresh token that can mint its successor.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	UserID    uint
	JTI       string
	TokenType string
	ExpiresAt time.Time
}

// TokenService issues, verifies and revokes JWTs. Every issued token is
// recorded in the outstanding ledger so it can be revoked individually or
// as part of a bulk logout.
type TokenService struct {
	tokenRepo  repository.TokenRepository
	userRepo   repository.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(
	tokenRepo repository.TokenRepository,
	userRepo repository.UserRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *TokenService {
	return &TokenService{
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Authenticate checks the email/password pair and returns the user.
func (s *TokenService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("No active account found with the given credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("No active account found with the given credentials")
	}
	return user, nil
}

// IssuePair mints an access/refresh token pair for the user and records
// both in the outstanding ledger.
func (s *TokenService) IssuePair(ctx context.Context, userID uint) (*TokenPair, error) {
	access, err := s.issue(ctx, userID, models.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(ctx, userID, models.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) issue(ctx context.Context, userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"jti": jti,
		"typ": tokenType,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	err = s.tokenRepo.RecordOutstanding(ctx, &models.OutstandingToken{
		JTI:       jti,
		UserID:    userID,
		TokenType: tokenType,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", err
	}

	middleware.TokensIssued.WithLabelValues(tokenType).Inc()
	return signed, nil
}

// Verify parses the token, checks its signature, expiry, type and
// revocation state. expectedType may be empty to accept either type.
func (s *TokenService) Verify(ctx context.Context, tokenString, expectedType string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if expectedType != "" && claims.TokenType != expectedType {
		return nil, models.NewUnauthorizedError("Token has wrong type")
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, models.NewUnauthorizedError("Token is blacklisted")
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Token is invalid or expired")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid token subject")
	}
	jti, _ := mapClaims["jti"].(string)
	if jti == "" {
		return nil, models.NewUnauthorizedError("Token has no id")
	}
	tokenType, _ := mapClaims["typ"].(string)

	out := &TokenClaims{
		UserID:    uint(userID),
		JTI:       jti,
		TokenType: tokenType,
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Verify(ctx, refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.tokenRepo.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if outstanding != nil {
		if err := s.tokenRepo.Blacklist(ctx, outstanding.ID); err != nil {
			return nil, err
		}
		middleware.TokensBlacklisted.Inc()
	}

	return s.IssuePair(ctx, claims.UserID)
}

// Logout revokes the presented refresh token. A malformed, expired or
// unknown token is a validation failure, not an auth failure.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return models.NewValidationError("Refresh token is invalid or expired")
	}
	if claims.TokenType != models.TokenTypeRefresh {
		return models.NewValidationError("Token is not a refresh token")
	}

	outstanding, err := s.tokenRepo.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return err
	}
	if outstanding == nil {
		return models.NewValidationError("Refresh token is unknown")
	}

	if err := s.tokenRepo.Blacklist(ctx, outstanding.ID); err != nil {
		return err
	}
	middleware.TokensBlacklisted.Inc()
	return nil
}

// LogoutAll revokes every outstanding token of the user, access and
// refresh alike. Already-revoked tokens are skipped silently.
func (s *TokenService) LogoutAll(ctx context.Context, userID uint) error {
	tokens, err := s.tokenRepo.ListOutstandingByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := s.tokenRepo.Blacklist(ctx, token.ID); err != nil {
			return err
		}
		middleware.TokensBlacklisted.Inc()
	}
	return nil
}
