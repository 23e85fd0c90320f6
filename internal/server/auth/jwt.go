package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the smallest accepted HS256 signing key, in bytes.
const MinKeyLength = 32

var (
	ErrInvalidSignature = errors.New("invalid token")
	ErrExpired          = errors.New("token expired")
	ErrKeyTooShort      = fmt.Errorf("signing key must be at least %d bytes", MinKeyLength)
)

// Claims is the JWT payload: the standard claims plus the login key under uid.
type Claims struct {
	jwt.RegisteredClaims
	UID string `json:"uid"`
}

// IssuedToken is what a successful login hands back to the client.
type IssuedToken struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// TokenCodec issues and verifies HS256 session tokens. It holds only the
// key and TTL and is safe for concurrent use.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

func NewTokenCodec(key []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(key) < MinKeyLength {
		return nil, ErrKeyTooShort
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &TokenCodec{key: k, ttl: ttl}, nil
}

// DecodeSigningKey decodes a base64 secret (standard or URL alphabet,
// padded or not) and checks its length.
func DecodeSigningKey(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("signing key is empty")
	}

	var (
		key []byte
		err error
	)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		key, err = enc.DecodeString(secret)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("signing key is not valid base64: %w", err)
	}

	if len(key) < MinKeyLength {
		common.WipeByteArray(key)
		return nil, ErrKeyTooShort
	}

	return key, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for login valid from now for the codec TTL.
// exp is rounded up to a whole second so the token never expires early.
func (c *TokenCodec) Issue(login string, now time.Time) (*IssuedToken, error) {
	if login == "" {
		return nil, errors.New("login is empty")
	}

	exp := now.Add(c.ttl)
	if t := exp.Truncate(time.Second); !t.Equal(exp) {
		exp = t.Add(time.Second)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UID: login,
	})

	s, err := token.SignedString(c.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     s,
		TokenType: common.TokenType,
		ExpiresIn: int64(c.ttl / time.Second),
	}, nil
}

// Verify checks signature and expiry against now and returns the claims.
// Expired tokens with a good signature report ErrExpired, everything else
// that is wrong reports ErrInvalidSignature.
func (c *TokenCodec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidSignature
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
