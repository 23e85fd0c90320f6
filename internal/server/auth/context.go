package auth

import (
	"context"
	"slices"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    int64
	Name  string
	Email string
	Roles []string
}

func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// WithPrincipal attaches p to ctx. A request is authenticated at most once:
// if ctx already carries a principal it is returned unchanged.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if p == nil {
		return ctx
	}
	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request principal, ok is false for
// anonymous requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
