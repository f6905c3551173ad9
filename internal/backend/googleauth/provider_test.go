package googleauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"taskflow/internal/backend/googleauth"
	"taskflow/internal/config"
)

// fakeGoogle serves a token endpoint and the userinfo endpoint.
func fakeGoogle(t *testing.T, wantVerifier string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		if got := r.Form.Get("code_verifier"); got != wantVerifier {
			t.Errorf("expected code_verifier %q, got %q", wantVerifier, got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "1234567890",
			"name":    "Ada Lovelace",
			"email":   "ada@example.com",
			"picture": "https://example.com/ada.png",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(srv *httptest.Server) *googleauth.Provider {
	return googleauth.New(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
		Scopes:       googleauth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, option.WithEndpoint(srv.URL+"/"))
}

func TestAuthCodeURL_CarriesStateAndChallenge(t *testing.T) {
	srv := fakeGoogle(t, "")
	p := newProvider(srv)

	raw := p.AuthCodeURL("state-abc", googleauth.NewVerifier())
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid url %q: %v", raw, err)
	}
	q := u.Query()

	if q.Get("state") != "state-abc" {
		t.Errorf("expected state state-abc, got %q", q.Get("state"))
	}
	if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != "S256" {
		t.Errorf("expected S256 code challenge, got %q", raw)
	}
	if q.Get("redirect_uri") != "http://localhost:5000/auth/google/callback" {
		t.Errorf("unexpected redirect_uri %q", q.Get("redirect_uri"))
	}
	if !strings.Contains(q.Get("scope"), "userinfo.email") {
		t.Errorf("expected email scope, got %q", q.Get("scope"))
	}
}

func TestExchange_ReturnsProfile(t *testing.T) {
	verifier := googleauth.NewVerifier()
	srv := fakeGoogle(t, verifier)
	p := newProvider(srv)

	profile, err := p.Exchange(context.Background(), "good-code", verifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Subject != "1234567890" {
		t.Errorf("expected subject 1234567890, got %q", profile.Subject)
	}
	if profile.Name != "Ada Lovelace" || profile.Email != "ada@example.com" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if profile.Avatar != "https://example.com/ada.png" {
		t.Errorf("expected avatar from picture, got %q", profile.Avatar)
	}
}

func TestExchange_BadCode(t *testing.T) {
	srv := fakeGoogle(t, "")
	p := newProvider(srv)

	_, err := p.Exchange(context.Background(), "bad-code", googleauth.NewVerifier())
	if err == nil {
		t.Fatal("expected error for rejected code")
	}
	if !strings.Contains(err.Error(), "authorization rejected") {
		t.Errorf("expected rejection message, got %v", err)
	}
}

func TestNewFromConfig_ClientFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauth_client.json")
	clientJSON := `{"web":{"client_id":"file-id","client_secret":"file-secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost:5000/auth/google/callback"]}}`
	if err := os.WriteFile(path, []byte(clientJSON), 0600); err != nil {
		t.Fatalf("failed to write client file: %v", err)
	}

	p, err := googleauth.NewFromConfig(config.OAuthConfig{
		ClientFile:  path,
		RedirectURL: "https://tasks.example.com/auth/google/callback",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(p.AuthCodeURL("s", googleauth.NewVerifier()))
	if err != nil {
		t.Fatalf("invalid url: %v", err)
	}
	if u.Query().Get("client_id") != "file-id" {
		t.Errorf("expected client id from file, got %q", u.Query().Get("client_id"))
	}
	if u.Query().Get("redirect_uri") != "https://tasks.example.com/auth/google/callback" {
		t.Errorf("expected configured redirect to win, got %q", u.Query().Get("redirect_uri"))
	}
}

func TestNewFromConfig_Errors(t *testing.T) {
	if _, err := googleauth.NewFromConfig(config.OAuthConfig{ClientID: "id"}); err == nil {
		t.Error("expected error without client secret")
	}
	if _, err := googleauth.NewFromConfig(config.OAuthConfig{ClientFile: filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Error("expected error for missing client file")
	}
}

func TestNewState_Unique(t *testing.T) {
	a, b := googleauth.NewState(), googleauth.NewState()
	if a == b || len(a) < 32 {
		t.Errorf("expected distinct random states, got %q and %q", a, b)
	}
}
