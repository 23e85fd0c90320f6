package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte("k"), MinKeyLength)

func newCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(testKey, ttl)
	require.NoError(t, err)
	return c
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tok, err := c.Issue("alice@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, common.TokenType, tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	claims, err := c.Verify(tok.Token, now)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.UID)
	assert.Equal(t, now, claims.IssuedAt.Time.UTC())
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	ttl := 90 * time.Second
	c := newCodec(t, ttl)

	// Sub-second issue time: exp must not land before now+ttl.
	now := time.Date(2024, 5, 1, 10, 0, 0, 700_000_000, time.UTC)
	tok, err := c.Issue("bob@example.com", now)
	require.NoError(t, err)

	for _, d := range []time.Duration{0, time.Second, ttl / 2, ttl - time.Millisecond} {
		_, err := c.Verify(tok.Token, now.Add(d))
		assert.NoError(t, err, "at +%v", d)
	}

	_, err = c.Verify(tok.Token, now.Add(ttl+time.Second))
	assert.ErrorIs(t, err, ErrExpired)

	_, err = c.Verify(tok.Token, now.Add(24*time.Hour))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Now()
	tok, err := c.Issue("carol@example.com", now)
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	sigStart := strings.LastIndex(tok.Token, ".") + 1
	// every other character at every position, including the trailing
	// character whose low bits are padding
	for i := sigStart; i < len(tok.Token); i++ {
		for j := 0; j < len(alphabet); j++ {
			if alphabet[j] == tok.Token[i] {
				continue
			}
			b := []byte(tok.Token)
			b[i] = alphabet[j]

			_, err := c.Verify(string(b), now)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("tamper at %d with %q: want ErrInvalidSignature, got %v", i, alphabet[j], err)
			}
		}
	}
}

func TestVerify_PaddingBitsInLastSignatureChar(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Now()
	tok, err := c.Issue("carol@example.com", now)
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	last := len(tok.Token) - 1
	idx := strings.IndexByte(alphabet, tok.Token[last])
	require.GreaterOrEqual(t, idx, 0)

	for d := 1; d <= 3; d++ {
		b := []byte(tok.Token)
		b[last] = alphabet[idx^d]

		_, err := c.Verify(string(b), now)
		assert.ErrorIs(t, err, ErrInvalidSignature, "last char %q", b[last])
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Now()
	tok, err := c.Issue("carol@example.com", now)
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"mallory@example.com","uid":"mallory@example.com","exp":9999999999}`))
	_, err = c.Verify(parts[0]+"."+forged+"."+parts[2], now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Now()
	otherKey := bytes.Repeat([]byte("o"), MinKeyLength)

	sign := func(method jwt.SigningMethod, claims jwt.Claims, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dave@example.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrInvalidSignature},
		{"garbage", "not-a-jwt", ErrInvalidSignature},
		{"two segments", "a.b", ErrInvalidSignature},
		{"bad base64", "%%%.%%%.%%%", ErrInvalidSignature},
		{"wrong key", sign(jwt.SigningMethodHS256, valid, otherKey), ErrInvalidSignature},
		{"hs512", sign(jwt.SigningMethodHS512, valid, testKey), ErrInvalidSignature},
		{"alg none", sign(jwt.SigningMethodNone, valid, jwt.UnsafeAllowNoneSignatureType), ErrInvalidSignature},
		{"missing exp", sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "dave@example.com"}, testKey), ErrInvalidSignature},
		{"empty sub", sign(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}, testKey), ErrInvalidSignature},
		{"expired with wrong key", sign(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dave@example.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		}}, otherKey), ErrInvalidSignature},
		{"expired", sign(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dave@example.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		}}, testKey), ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := c.Verify(tt.token, now)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerify_Concurrent(t *testing.T) {
	t.Parallel()

	c := newCodec(t, time.Hour)
	now := time.Now()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			login := strings.Repeat("u", i+1) + "@example.com"
			tok, err := c.Issue(login, now)
			if err != nil {
				errs <- err
				return
			}
			claims, err := c.Verify(tok.Token, now)
			if err != nil {
				errs <- err
				return
			}
			if claims.Subject != login {
				errs <- errors.New("subject mismatch for " + login)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNewTokenCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec([]byte("short"), time.Hour)
	assert.ErrorIs(t, err, ErrKeyTooShort)

	_, err = NewTokenCodec(testKey, 0)
	assert.Error(t, err)

	key := bytes.Clone(testKey)
	c, err := NewTokenCodec(key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, c.TTL())

	// codec keeps its own copy of the key
	key[0] = 'x'
	tok, err := c.Issue("erin@example.com", time.Now())
	require.NoError(t, err)
	_, err = newCodec(t, time.Minute).Verify(tok.Token, time.Now())
	assert.NoError(t, err)
}

func TestIssue_EmptyLogin(t *testing.T) {
	t.Parallel()

	_, err := newCodec(t, time.Hour).Issue("", time.Now())
	assert.Error(t, err)
}

func TestDecodeSigningKey(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{0xfb, 0xff}, 24)

	for name, enc := range map[string]*base64.Encoding{
		"std":     base64.StdEncoding,
		"raw std": base64.RawStdEncoding,
		"url":     base64.URLEncoding,
		"raw url": base64.RawURLEncoding,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeSigningKey("  " + enc.EncodeToString(raw) + "\n")
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		})
	}

	_, err := DecodeSigningKey("")
	assert.Error(t, err)

	_, err = DecodeSigningKey("!!!not base64!!!")
	assert.Error(t, err)

	_, err = DecodeSigningKey(base64.StdEncoding.EncodeToString([]byte("too short")))
	assert.ErrorIs(t, err, ErrKeyTooShort)
}
