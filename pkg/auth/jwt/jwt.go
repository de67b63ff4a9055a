// Package jwt authenticates callers by RS256/384/512 bearer tokens whose
// signing keys are published at a JWKS endpoint.
package jwt

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/echosyntax/echosyntax/pkg/auth"
)

// Config holds the JWT authenticator settings.
type Config struct {
	// Issuer is the required iss claim. Empty disables the check.
	Issuer string

	// Audience is the required aud claim. Empty disables the check.
	Audience string

	// JWKSURL locates the signing keys.
	JWKSURL string

	// SubjectClaim names the claim used as principal subject. Default "sub".
	SubjectClaim string

	// ScopeClaim names the scope claim, a space-separated string or a
	// string array. Default "scope".
	ScopeClaim string

	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration

	// CacheTTL bounds how long fetched keys are trusted. Default 1h.
	CacheTTL time.Duration

	// HTTPClient fetches the JWKS. Default has a 10s timeout.
	HTTPClient *http.Client
}

func (c *Config) setDefaults() {
	if c.SubjectClaim == "" {
		c.SubjectClaim = "sub"
	}
	if c.ScopeClaim == "" {
		c.ScopeClaim = "scope"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
}

// Authenticator validates bearer JWTs.
type Authenticator struct {
	cfg    Config
	keys   *keySet
	parser *jwtlib.Parser
}

// New creates an Authenticator.
func New(cfg Config) *Authenticator {
	cfg.setDefaults()

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwtlib.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwtlib.WithLeeway(cfg.Leeway))
	}

	return &Authenticator{
		cfg:    cfg,
		keys:   newKeySet(cfg.JWKSURL, cfg.CacheTTL, cfg.HTTPClient),
		parser: jwtlib.NewParser(opts...),
	}
}

// Authenticate abstains without a bearer token, accepts a valid JWT and
// rejects everything else.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.Verdict {
	raw, ok := auth.BearerToken(r)
	if !ok {
		return auth.Verdict{Vote: auth.Abstain}
	}
	if raw == "" {
		return auth.Verdict{Vote: auth.Reject, Err: fmt.Errorf("empty bearer token")}
	}

	claims := jwtlib.MapClaims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return a.keys.lookup(ctx, kid)
	})
	if err != nil {
		slog.Debug("jwt rejected", "error", err)
		return auth.Verdict{Vote: auth.Reject, Err: fmt.Errorf("invalid JWT: %w", err)}
	}

	subject, _ := claims[a.cfg.SubjectClaim].(string)
	if subject == "" {
		return auth.Verdict{Vote: auth.Reject, Err: fmt.Errorf("JWT has no %q claim", a.cfg.SubjectClaim)}
	}

	return auth.Verdict{
		Vote: auth.Accept,
		Principal: &auth.Principal{
			Subject: subject,
			Method:  "jwt",
			Scopes:  scopes(claims[a.cfg.ScopeClaim]),
		},
	}
}

func scopes(v any) []string {
	switch s := v.(type) {
	case string:
		if f := strings.Fields(s); len(f) > 0 {
			return f
		}
	case []any:
		var out []string
		for _, item := range s {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
