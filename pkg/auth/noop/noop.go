// Package noop provides an authenticator that admits every request as
// the anonymous principal. It backs auth.type "none".
package noop

import (
	"context"
	"net/http"

	"github.com/echosyntax/echosyntax/pkg/auth"
)

// Authenticator accepts every request.
type Authenticator struct{}

// Authenticate always accepts.
func (Authenticator) Authenticate(_ context.Context, _ *http.Request) auth.Verdict {
	return auth.Verdict{Vote: auth.Accept, Principal: auth.Anonymous()}
}
