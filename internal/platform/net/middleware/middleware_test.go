package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "addrcheck/internal/platform/errors"
	phttp "addrcheck/internal/platform/net/http"
	kit "addrcheck/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestRecoverJSON(t *testing.T) {
	t.Parallel()
	h := RequestID()(RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Code != perr.ErrorCodePanic || env.RequestID == "" {
		t.Fatalf("env = %+v", env)
	}
}

func TestRecoverJSON_RepanicsAbort(t *testing.T) {
	t.Parallel()
	h := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	kit.MustPanic(t, func() { h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)) })
}

func TestDefaults_StackServes(t *testing.T) {
	t.Parallel()
	m := chi.NewRouter()
	m.Use(Defaults()...)
	m.Use(CORS(CORSOptions{}))
	m.Get("/api/v1/chains", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("[]")) })

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Fatalf("heartbeat = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/chains/", nil))
	if rec.Code != 200 || rec.Body.String() != "[]" {
		t.Fatalf("stripped slash route = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatal("NoCache header missing")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/chains", nil)
	req.Header.Set("Origin", "https://example.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	m.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("preflight headers = %v", rec.Header())
	}
}
