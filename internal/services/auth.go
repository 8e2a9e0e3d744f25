package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

// JWTClaims carries the user id in Subject. Tokens are issued by the account
// service; this backend only verifies them.
type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies tokenString and attaches the user to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// IssueToken signs a token for local tooling and tests.
	IssueToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

type authService struct {
	log       *logger.Logger
	secretKey []byte
	now       func() time.Time
}

func NewAuthService(log *logger.Logger, jwtSecretKey string, cal Calendar) AuthService {
	return &authService{
		log:       log.With("service", "AuthService"),
		secretKey: []byte(jwtSecretKey),
		now:       cal.Now,
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.ErrUnauthorized
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
		jwt.WithLeeway(30*time.Second),
	)
	parsed, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		return as.secretKey, nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: parse token: %v", apierr.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid or expired token", apierr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, fmt.Errorf("%w: invalid user id in token", apierr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	if userID == uuid.Nil {
		return "", apierr.Invalid("user id is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
