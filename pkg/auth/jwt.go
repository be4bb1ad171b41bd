// Package auth resolves bearer tokens into principals and guards HTTP routes
// by role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Claims is the token payload issued to clinicians.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
}

// JWTProvider implements ports.SessionProvider with HMAC-signed tokens.
type JWTProvider struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// Option configures a JWTProvider.
type Option func(*JWTProvider)

// WithIssuer requires and stamps the iss claim.
func WithIssuer(issuer string) Option {
	return func(p *JWTProvider) { p.issuer = issuer }
}

// WithAudience requires and stamps the aud claim.
func WithAudience(audience string) Option {
	return func(p *JWTProvider) { p.audience = audience }
}

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(p *JWTProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewJWTProvider creates a provider signing with secret (HS256).
func NewJWTProvider(secret []byte, opts ...Option) (*JWTProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	p := &JWTProvider{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Authenticate validates credential, with or without a "Bearer " prefix,
// and returns its principal.
func (p *JWTProvider) Authenticate(_ context.Context, credential string) (*domain.Principal, error) {
	tokenStr := strings.TrimSpace(credential)
	if scheme, rest, ok := strings.Cut(tokenStr, " "); ok && strings.EqualFold(scheme, "bearer") {
		tokenStr = strings.TrimSpace(rest)
	}
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return &domain.Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Roles:   claims.Roles,
	}, nil
}

// Issue signs a token for principal valid for ttl.
func (p *JWTProvider) Issue(principal domain.Principal, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: principal.Email,
		Roles: principal.Roles,
	}
	if p.audience != "" {
		claims.Audience = jwt.ClaimStrings{p.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
