package auth

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/logging"
)

// IdentityResolver loads the current identity for a verified login key.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, login string) (*Principal, error)
}

// Gate authenticates a request from its Authorization header. It never
// rejects anything: a request it cannot authenticate stays anonymous and
// the access policy decides what to do with it.
type Gate struct {
	codec    *TokenCodec
	resolver IdentityResolver
	logger   logging.Logger
	now      func() time.Time
}

func NewGate(codec *TokenCodec, resolver IdentityResolver, logger logging.Logger, clock func() time.Time) *Gate {
	if clock == nil {
		clock = time.Now
	}
	return &Gate{
		codec:    codec,
		resolver: resolver,
		logger:   logger.With("module", "auth"),
		now:      clock,
	}
}

// Authenticate returns ctx carrying the principal named by a valid bearer
// token, or ctx unchanged.
func (g *Gate) Authenticate(ctx context.Context, authorization string) context.Context {
	token, ok := extractBearerToken(authorization)
	if !ok {
		return ctx
	}

	claims, err := g.codec.Verify(token, g.now())
	if err != nil {
		g.logger.Debug(ctx, "token rejected", "error", err)
		return ctx
	}

	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}

	p, err := g.resolver.ResolveIdentity(ctx, claims.Subject)
	if err != nil {
		g.logger.Debug(ctx, "identity not resolved", "login", claims.Subject, "error", err)
		return ctx
	}

	return WithPrincipal(ctx, p)
}

// extractBearerToken matches the auth scheme case-insensitively (RFC 7235).
func extractBearerToken(header string) (string, bool) {
	if len(header) <= len(common.BearerPrefix) {
		return "", false
	}
	if !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}
