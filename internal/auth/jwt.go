package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jaevor/go-nanoid"
)

const issuer = "barrage-board"

var ErrInvalidToken = errors.New("invalid or expired token")

type AppClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens whose subject is the
// username. A token is valid from its iat up to and including iat+ttl.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	newID  func() string
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		newID:  generateID,
		now:    time.Now,
	}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("token subject must not be empty")
	}

	// exp carries whole seconds only, so the lifetime is measured from the
	// truncated issue time that also goes into iat.
	now := s.now().Truncate(time.Second)
	claims := &AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        s.newID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the token subject. Every failure wraps ErrInvalidToken and
// the underlying jwt error, so callers can still test for jwt.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AppClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != issuer {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidIssuer)
	}
	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenRequiredClaimMissing)
	}
	// jwt's own check rejects at the expiry instant; the token must still be
	// accepted there.
	if s.now().After(claims.ExpiresAt.Time) {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenExpired)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
