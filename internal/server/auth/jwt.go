// Package auth implements the stateless authentication primitives: the JWT
// codec, password hashing, and the request-scoped principal.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adithya/trackfolio/internal/common"
)

// TokenKind selects the lifetime of an issued token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims are the assertions carried by every token: the standard registered
// set plus the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}

// Codec signs and verifies HS256 tokens with a single process-wide key.
// The key is immutable after construction and safe for concurrent use.
type Codec struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec decodes the base64 signing secret and fixes the token lifetimes.
// A missing or malformed secret is a configuration error: callers must treat
// it as fatal at startup, not as a per-request condition.
func NewCodec(base64Secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if base64Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("jwt secret is not valid base64: %w", err)
	}
	return &Codec{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Issue signs a token for subject with the lifetime of the given kind.
func (c *Codec) Issue(subject string, kind TokenKind) (string, error) {
	ttl := c.accessTTL
	if kind == TokenKindRefresh {
		ttl = c.refreshTTL
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	})
	return token.SignedString(c.key)
}

// Verify checks signature and expiry, returning the claims on success.
// Expiry and malformation are distinct, typed outcomes: common.ErrTokenExpired
// for a structurally valid token past its expiry, common.ErrTokenMalformed for
// everything else (garbled structure, wrong signature, wrong algorithm).
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}
	return claims, nil
}

// ExtractSubject parses the token once and returns its subject together with
// the same typed errors as Verify. An expired token still yields its subject,
// so a caller can tell "parse failed" from "expired" without a second pass.
func (c *Codec) ExtractSubject(tokenString string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Claims are populated even when expiry validation fails.
			return claims.Subject, common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
	return claims.Subject, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.key, nil
}
