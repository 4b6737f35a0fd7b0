package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the identity carried by a bearer token issued by the identity provider.
type Claims struct {
	Plan string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 bearer tokens with a shared secret.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens returns a Tokens for secret. An empty secret makes every call fail.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

// Sign issues a token for userID with the given plan tier.
func (t *Tokens) Sign(userID, plan string, ttl time.Duration) (string, error) {
	if len(t.secret) == 0 {
		return "", errMissingSecret
	}
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("sub is required")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := t.now().UTC()
	claims := Claims{
		Plan: NormalizePlan(plan),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks the signature and expiry and returns the claims.
func (t *Tokens) Verify(raw string) (Claims, error) {
	if len(t.secret) == 0 {
		return Claims{}, errMissingSecret
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}
	claims.Plan = NormalizePlan(claims.Plan)
	return claims, nil
}
