package webd

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenAuthenticationMiddleware(t *testing.T) {
	d, teardown := newTestWebDaemon("")
	defer teardown()

	wrapped := d.tokenAuthenticationMiddleware(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	t.Setenv(d.Config.TokenEnvVar, "sesame")

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"header ok", "sesame", "", http.StatusOK},
		{"query ok", "", "?api_token=sesame", http.StatusOK},
		{"wrong token", "opensaysme", "", http.StatusForbidden},
		{"missing token", "", "", http.StatusForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "http://transect.example.org/populate"+c.query, nil)
			if c.header != "" {
				req.Header.Set("X-Transectd-Token", c.header)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)
			if w.Result().StatusCode != c.want {
				t.Errorf("got %d, want %d", w.Result().StatusCode, c.want)
			}
		})
	}

	t.Run("unset env allows all", func(t *testing.T) {
		t.Setenv(d.Config.TokenEnvVar, "")
		req := httptest.NewRequest("POST", "http://transect.example.org/populate", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("got %d, want 200", w.Result().StatusCode)
		}
	})
}
