package auth

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/common"
)

type Access int

const (
	Authenticated Access = iota
	Public
)

type Decision int

const (
	Allowed Decision = iota
	RejectedUnauthenticated
	RejectedForbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RejectedUnauthenticated:
		return "unauthenticated"
	case RejectedForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Rule matches a path exactly, or every path under a prefix when Pattern
// ends in "/**". Role is only checked for Authenticated rules and may be
// empty.
type Rule struct {
	Pattern string
	Access  Access
	Role    string
}

func (r Rule) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Policy is an ordered rule table. The first matching rule wins and paths
// that match nothing use the fallback rule.
type Policy struct {
	rules    []Rule
	fallback Rule
}

func NewPolicy(fallback Rule, rules ...Rule) *Policy {
	return &Policy{rules: slices.Clone(rules), fallback: fallback}
}

// DefaultPolicy opens auth entry points, API docs, uploaded files, health
// and metrics. Everything else needs ROLE_USER.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Access: Authenticated, Role: common.RoleUser},
		Rule{Pattern: "/api/auth/register", Access: Public},
		Rule{Pattern: "/api/auth/login", Access: Public},
		Rule{Pattern: "/v3/api-docs/**", Access: Public},
		Rule{Pattern: "/swagger-ui.html", Access: Public},
		Rule{Pattern: "/swagger-ui/**", Access: Public},
		Rule{Pattern: "/files/**", Access: Public},
		Rule{Pattern: "/actuator/health", Access: Public},
		Rule{Pattern: "/metrics", Access: Public},
	)
}

func (p *Policy) match(path string) Rule {
	for _, r := range p.rules {
		if r.matches(path) {
			return r
		}
	}
	return p.fallback
}

// Decide checks a request path against the table. principal is nil for
// anonymous requests.
func (p *Policy) Decide(path string, principal *Principal) Decision {
	r := p.match(path)
	if r.Access == Public {
		return Allowed
	}
	if principal == nil {
		return RejectedUnauthenticated
	}
	if r.Role != "" && !principal.HasRole(r.Role) {
		return RejectedForbidden
	}
	return Allowed
}
