// Package auth guards the echosyntax endpoints with an optional
// authentication chain.
//
// Each Authenticator votes Accept, Reject or Abstain on a request. The
// Chain stops at the first non-abstaining vote; when every authenticator
// abstains, the chain accepts an anonymous principal only if configured
// to. Middleware turns the chain into HTTP middleware with a bypass list
// for probes and metrics scraping.
package auth
