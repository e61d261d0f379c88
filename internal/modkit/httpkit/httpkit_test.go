package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "addrcheck/internal/platform/errors"
	phttp "addrcheck/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Word string `json:"word" validate:"required"`
}

func TestMountAPIV1(t *testing.T) {
	t.Parallel()
	m := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(m), CommonStack(), func(api Router) {
		Get(api, "/things/{id}", func(r *http.Request) (any, error) {
			if Param(r, "id") == "0" {
				return nil, perr.NotFoundf("thing 0")
			}
			return Param(r, "id"), nil
		})
		PostJSON(api, "/echo", func(_ *http.Request, in echoIn) (any, error) {
			return Accepted(in.Word), nil
		})
	})

	cases := []struct {
		method, path, body string
		status             int
		data               string
	}{
		{"GET", "/api/v1/things/5", "", 200, "5"},
		{"GET", "/api/v1/things/0", "", 404, ""},
		{"POST", "/api/v1/echo", `{"word":"hey"}`, 202, "hey"},
		{"POST", "/api/v1/echo", `{}`, 400, ""},
		{"GET", "/things/5", "", 404, ""},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
		if rec.Code != c.status {
			t.Fatalf("%s %s = %d, want %d", c.method, c.path, rec.Code, c.status)
		}
		if c.data == "" {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatal(err)
		}
		if env.Data != c.data {
			t.Fatalf("data = %v, want %q", env.Data, c.data)
		}
	}
}
