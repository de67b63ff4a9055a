package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/echosyntax/echosyntax/pkg/observability"
)

func headerKeyAuth(key string) Authenticator {
	return AuthenticatorFunc(func(_ context.Context, r *http.Request) Verdict {
		got := r.Header.Get("X-Test-Key")
		switch {
		case got == "":
			return Verdict{Vote: Abstain}
		case got == key:
			return Verdict{Vote: Accept, Principal: &Principal{Subject: "tester", Method: "test"}}
		default:
			return Verdict{Vote: Reject, Err: ErrInvalidCredentials}
		}
	})
}

func TestMiddleware_BypassPath(t *testing.T) {
	called := false
	h := Middleware(NewChain(false), DefaultBypassPaths, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !called {
		t.Error("bypass path should reach the handler")
	}
}

func TestMiddleware_Rejects(t *testing.T) {
	before := testutil.ToFloat64(observability.AuthRejectedTotal)

	h := Middleware(NewChain(false, headerKeyAuth("k")), DefaultBypassPaths, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	for _, key := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, "/generate-code", nil)
		if key != "" {
			req.Header.Set("X-Test-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("key %q: status = %d, want 401", key, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "authentication required" {
			t.Errorf("key %q: body = %s", key, rec.Body.String())
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("key %q: missing WWW-Authenticate", key)
		}
	}

	if delta := testutil.ToFloat64(observability.AuthRejectedTotal) - before; delta != 2 {
		t.Errorf("rejections counted = %f, want 2", delta)
	}
}

func TestMiddleware_AcceptsAndInjectsPrincipal(t *testing.T) {
	var got *Principal
	h := Middleware(NewChain(false, headerKeyAuth("k")), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/execute-code", nil)
	req.Header.Set("X-Test-Key", "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.Subject != "tester" {
		t.Errorf("principal = %+v", got)
	}
}

func TestMiddleware_RejectsEmptySubject(t *testing.T) {
	bad := AuthenticatorFunc(func(context.Context, *http.Request) Verdict {
		return Verdict{Vote: Accept, Principal: &Principal{}}
	})
	h := Middleware(NewChain(false, bad), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-code", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
