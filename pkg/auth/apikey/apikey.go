// Package apikey authenticates callers by static API keys, presented as a
// bearer token or in the X-API-Key header.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/echosyntax/echosyntax/pkg/auth"
)

// HeaderName is the alternative header for the key.
const HeaderName = "X-API-Key"

// Key binds a raw key to the subject it authenticates.
type Key struct {
	Key     string
	Subject string
}

type entry struct {
	hash    [sha256.Size]byte
	subject string
}

// Authenticator checks presented keys against a fixed set. Only key
// hashes are kept in memory.
type Authenticator struct {
	entries []entry
}

// New creates an Authenticator. Keys with an empty value are skipped; an
// empty subject defaults to "apikey-<n>".
func New(keys []Key) *Authenticator {
	a := &Authenticator{}
	for i, k := range keys {
		if k.Key == "" {
			continue
		}
		subject := k.Subject
		if subject == "" {
			subject = "apikey-" + strconv.Itoa(i+1)
		}
		a.entries = append(a.entries, entry{hash: sha256.Sum256([]byte(k.Key)), subject: subject})
	}
	return a
}

// Authenticate abstains when no key is presented, accepts a known key and
// rejects any other.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Verdict {
	presented := strings.TrimSpace(r.Header.Get(HeaderName))
	if presented == "" {
		token, ok := auth.BearerToken(r)
		if !ok {
			return auth.Verdict{Vote: auth.Abstain}
		}
		presented = token
	}
	if presented == "" {
		return auth.Verdict{Vote: auth.Reject, Err: auth.ErrInvalidCredentials}
	}

	sum := sha256.Sum256([]byte(presented))
	match := -1
	for i := range a.entries {
		// Compare against every entry so timing does not reveal the position.
		if subtle.ConstantTimeCompare(sum[:], a.entries[i].hash[:]) == 1 && match < 0 {
			match = i
		}
	}
	if match < 0 {
		return auth.Verdict{Vote: auth.Reject, Err: auth.ErrInvalidCredentials}
	}
	return auth.Verdict{
		Vote:      auth.Accept,
		Principal: &auth.Principal{Subject: a.entries[match].subject, Method: "apikey"},
	}
}
