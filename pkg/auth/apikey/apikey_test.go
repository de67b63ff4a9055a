package apikey

import (
	"context"
	"net/http"
	"testing"

	"github.com/echosyntax/echosyntax/pkg/auth"
)

func newTestAuth() *Authenticator {
	return New([]Key{
		{Key: "es-test-key-1", Subject: "web-client"},
		{Key: "es-test-key-2"},
		{Key: ""},
	})
}

func request(header, value string) *http.Request {
	r, _ := http.NewRequest(http.MethodPost, "/generate-code", nil)
	if header != "" {
		r.Header.Set(header, value)
	}
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		value       string
		wantVote    auth.Vote
		wantSubject string
	}{
		{"bearer key", "Authorization", "Bearer es-test-key-1", auth.Accept, "web-client"},
		{"lowercase scheme", "Authorization", "bearer es-test-key-1", auth.Accept, "web-client"},
		{"x-api-key header", HeaderName, "es-test-key-1", auth.Accept, "web-client"},
		{"default subject", "Authorization", "Bearer es-test-key-2", auth.Accept, "apikey-2"},
		{"unknown key", "Authorization", "Bearer es-wrong", auth.Reject, ""},
		{"unknown x-api-key", HeaderName, "es-wrong", auth.Reject, ""},
		{"empty bearer", "Authorization", "Bearer ", auth.Reject, ""},
		{"no header", "", "", auth.Abstain, ""},
		{"basic scheme", "Authorization", "Basic dXNlcjpwYXNz", auth.Abstain, ""},
	}

	a := newTestAuth()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := a.Authenticate(context.Background(), request(tt.header, tt.value))

			if v.Vote != tt.wantVote {
				t.Fatalf("Vote = %s, want %s", v.Vote, tt.wantVote)
			}
			if tt.wantVote == auth.Accept {
				if v.Principal.Subject != tt.wantSubject {
					t.Errorf("Subject = %q, want %q", v.Principal.Subject, tt.wantSubject)
				}
				if v.Principal.Method != "apikey" {
					t.Errorf("Method = %q, want apikey", v.Principal.Method)
				}
			}
			if tt.wantVote == auth.Reject && v.Err == nil {
				t.Error("rejected verdict carries no error")
			}
		})
	}
}

func TestEmptyKeyIsNeverAccepted(t *testing.T) {
	a := New([]Key{{Key: ""}})
	v := a.Authenticate(context.Background(), request(HeaderName, " "))
	if v.Vote == auth.Accept {
		t.Fatal("blank key must not authenticate")
	}
}
