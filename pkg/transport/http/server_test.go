package http

import (
	"context"
	"net"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/transport"
)

type slowGenerator struct {
	delay time.Duration
}

func (g *slowGenerator) Generate(ctx context.Context, _ *api.GenerationRequest) (*api.GenerationResult, error) {
	select {
	case <-time.After(g.delay):
		return api.NewGenerationResult("Go", "package main", "", ""), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestServerStartsAndAcceptsRequests(t *testing.T) {
	gen := &fakeGenerator{result: api.NewGenerationResult("Go", "", "", "")}
	srv := NewServer(gen, &fakeExecutor{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	go srv.ServeOn(ln)
	time.Sleep(50 * time.Millisecond)

	resp, err := gohttp.Post("http://"+addr+"/generate-code", "application/json", strings.NewReader(`{"userPrompt":"x"}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response is missing X-Request-ID")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("response is missing CORS header")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func TestServerGracefulShutdown(t *testing.T) {
	srv := NewServer(&slowGenerator{delay: 200 * time.Millisecond}, &fakeExecutor{},
		WithShutdownTimeout(5*time.Second),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	go srv.ServeOn(ln)
	time.Sleep(50 * time.Millisecond)

	responseCh := make(chan int, 1)
	go func() {
		resp, err := gohttp.Post("http://"+addr+"/generate-code", "application/json", strings.NewReader(`{"userPrompt":"x"}`))
		if err != nil {
			responseCh <- 0
			return
		}
		defer resp.Body.Close()
		responseCh <- resp.StatusCode
	}()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	status := <-responseCh
	if status != gohttp.StatusOK {
		t.Errorf("slow request status = %d, want %d", status, gohttp.StatusOK)
	}
}

func TestServerFunctionalOptions(t *testing.T) {
	srv := NewServer(&fakeGenerator{}, &fakeExecutor{},
		WithAddr(":9999"),
		WithMaxBodySize(1024),
		WithShutdownTimeout(10*time.Second),
		WithTimeouts(time.Second, 2*time.Second),
		WithCORSOrigin("https://app.example.com"),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("addr = %q, want %q", srv.config.Addr, ":9999")
	}
	if srv.config.MaxBodySize != 1024 {
		t.Errorf("max body size = %d, want %d", srv.config.MaxBodySize, 1024)
	}
	if srv.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", srv.config.ShutdownTimeout, 10*time.Second)
	}
	if srv.httpServer.ReadTimeout != time.Second || srv.httpServer.WriteTimeout != 2*time.Second {
		t.Errorf("timeouts = %v/%v", srv.httpServer.ReadTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.config.CORSOrigin != "https://app.example.com" {
		t.Errorf("cors origin = %q", srv.config.CORSOrigin)
	}
}

func TestServerPreflight(t *testing.T) {
	gen := &fakeGenerator{}
	srv := NewServer(gen, &fakeExecutor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodOptions, "/generate-code", nil))

	if rec.Code != gohttp.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if gen.calls != 0 {
		t.Error("preflight reached the generator")
	}
}

func TestServerMetricsRoute(t *testing.T) {
	srv := NewServer(&fakeGenerator{}, &fakeExecutor{}, WithMetrics(true))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/healthz", nil))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/metrics", nil))
	if rec.Code != gohttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "echosyntax_requests_total") {
		t.Error("metrics exposition is missing echosyntax_requests_total")
	}
}

func TestServerMetricsDisabled(t *testing.T) {
	srv := NewServer(&fakeGenerator{}, &fakeExecutor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/metrics", nil))
	if rec.Code != gohttp.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServerExtraMiddlewareAndRoutes(t *testing.T) {
	deny := func(next gohttp.Handler) gohttp.Handler {
		return gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
			if r.Header.Get("X-API-Key") != "k" {
				transport.WriteErrorResponse(w, "unauthorized", gohttp.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	extra := gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.Write([]byte("extra"))
	})

	srv := NewServer(&fakeGenerator{}, &fakeExecutor{},
		WithMiddleware(deny),
		WithRoute("GET /extra", extra),
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/extra", nil))
	if rec.Code != gohttp.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("rejected response is missing X-Request-ID")
	}

	req := httptest.NewRequest(gohttp.MethodGet, "/extra", nil)
	req.Header.Set("X-API-Key", "k")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Body.String() != "extra" {
		t.Errorf("body = %q, want extra", rec.Body.String())
	}
}
