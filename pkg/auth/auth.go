package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
)

// Vote is an authenticator's opinion about a request.
type Vote int

const (
	// Accept means the credentials are valid. The chain stops.
	Accept Vote = iota

	// Reject means credentials were presented and are invalid. The chain
	// stops and the request is refused.
	Reject

	// Abstain means the authenticator does not handle the presented
	// credentials (or none were presented). The chain moves on.
	Abstain
)

func (v Vote) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Abstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Verdict carries the outcome of one authentication attempt.
type Verdict struct {
	Vote      Vote
	Principal *Principal // set when Vote == Accept
	Err       error      // set when Vote == Reject
}

// Principal is an authenticated caller.
type Principal struct {
	// Subject identifies the caller. Never empty on an accepted verdict.
	Subject string

	// Method names the authenticator that accepted the caller
	// ("apikey", "jwt", "anonymous").
	Method string

	// Scopes lists granted scopes, if the credential carries any.
	Scopes []string
}

// HasScope reports whether p was granted scope.
func (p *Principal) HasScope(scope string) bool {
	return p != nil && slices.Contains(p.Scopes, scope)
}

// Anonymous is the principal used when the chain admits unauthenticated
// callers.
func Anonymous() *Principal {
	return &Principal{Subject: "anonymous", Method: "anonymous"}
}

// Authenticator inspects request credentials and votes.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Verdict
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, r *http.Request) Verdict

// Authenticate calls f(ctx, r).
func (f AuthenticatorFunc) Authenticate(ctx context.Context, r *http.Request) Verdict {
	return f(ctx, r)
}

// Sentinel errors.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Chain evaluates authenticators in order.
type Chain struct {
	authenticators []Authenticator
	allowAnonymous bool
}

// NewChain creates a chain. allowAnonymous decides the outcome when every
// authenticator abstains.
func NewChain(allowAnonymous bool, authenticators ...Authenticator) *Chain {
	return &Chain{
		authenticators: authenticators,
		allowAnonymous: allowAnonymous,
	}
}

// Authenticate runs the chain and stops at the first Accept or Reject.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Verdict {
	for _, a := range c.authenticators {
		if v := a.Authenticate(ctx, r); v.Vote != Abstain {
			return v
		}
	}
	if c.allowAnonymous {
		return Verdict{Vote: Accept, Principal: Anonymous()}
	}
	return Verdict{Vote: Reject, Err: ErrUnauthenticated}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
// present is false when the header is missing or uses another scheme.
func BearerToken(r *http.Request) (token string, present bool) {
	header := r.Header.Get("Authorization")
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
