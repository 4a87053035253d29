package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every way a presented token can fail validation:
// bad signature, wrong algorithm, wrong issuer, expired.
var ErrInvalidToken = errors.New("invalid token")

const (
	defaultIssuer   = "curio"
	defaultTokenTTL = 24 * time.Hour
)

// Claims carried in every access token. The set is closed: user identity
// only, no roles and no revocation counters, so a token stays valid until it
// expires.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	duration time.Duration
}

func NewTokenService(secret []byte, issuer string, duration time.Duration) TokenService {
	if issuer == "" {
		issuer = defaultIssuer
	}
	if duration <= 0 {
		duration = defaultTokenTTL
	}
	return TokenService{secret: secret, issuer: issuer, duration: duration}
}

// Sign issues a token for u and reports when it expires.
func (ts TokenService) Sign(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ts.duration)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	s, err := tok.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Parse validates raw and returns its claims. The parser is pinned to HS256
// and to this service's issuer, and an exp claim is mandatory.
func (ts TokenService) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return ts.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}
