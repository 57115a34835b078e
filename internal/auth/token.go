package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const (
	TokenType   = "JWT"
	TokenPrefix = "Bearer"
)

// Token is the login response payload.
type Token struct {
	Value  string `json:"token"`
	Type   string `json:"type"`
	Prefix string `json:"prefix"`
}

// TokenVerifier extracts the subject from a signed token.
type TokenVerifier interface {
	Verify(tokenValue string) (subject string, err error)
}

// TokenCodec issues and verifies HS256 tokens carrying sub, iss and exp.
// Expiry is checked without leeway: a token is valid only while now < exp.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
	parser *jwt.Parser
}

// NewTokenCodec builds a codec from cfg. A nil clock means the real clock.
func NewTokenCodec(cfg Config, clock clockwork.Clock) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(clock.Now),
	)
	return &TokenCodec{secret: cfg.Secret, issuer: issuer, ttl: ttl, clock: clock, parser: parser}, nil
}

// Issue signs a token for subject expiring ttl from now.
func (c *TokenCodec) Issue(subject string) (Token, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		ExpiresAt: jwt.NewNumericDate(c.clock.Now().Add(c.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, Type: TokenType, Prefix: TokenPrefix}, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
// Every failure is reported as ErrTokenInvalid.
func (c *TokenCodec) Verify(tokenValue string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := c.parser.ParseWithClaims(tokenValue, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
