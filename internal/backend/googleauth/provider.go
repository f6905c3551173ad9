// Package googleauth implements the Google OAuth 2.0 login used to
// authenticate principals.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"taskflow/internal/config"
	"taskflow/internal/service"
)

const (
	// ExchangeTimeout bounds the code exchange and profile lookup.
	ExchangeTimeout = 30 * time.Second

	// APITimeout is the timeout for the userinfo call.
	APITimeout = 5 * time.Second
)

// Scopes requested from Google: basic profile and email.
var Scopes = []string{
	oauth2api.UserinfoProfileScope,
	oauth2api.UserinfoEmailScope,
}

// Provider performs the authorization-code flow with PKCE against Google.
type Provider struct {
	oauth      *oauth2.Config
	apiOptions []option.ClientOption
}

// New creates a Provider from an OAuth client config.
// apiOptions are passed to the userinfo client (for testing).
func New(oauthConfig *oauth2.Config, apiOptions ...option.ClientOption) *Provider {
	return &Provider{
		oauth:      oauthConfig,
		apiOptions: apiOptions,
	}
}

// NewFromConfig builds a Provider from the server configuration.
// A client file takes precedence over an explicit client id and secret.
func NewFromConfig(cfg config.OAuthConfig) (*Provider, error) {
	var oauthConfig *oauth2.Config

	if cfg.ClientFile != "" {
		clientJSON, err := os.ReadFile(cfg.ClientFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read oauth client file: %w", err)
		}
		oauthConfig, err = google.ConfigFromJSON(clientJSON, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid oauth client file: %w", err)
		}
	} else {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, errors.New("oauth client id and secret are required")
		}
		oauthConfig = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		}
	}

	if cfg.RedirectURL != "" {
		oauthConfig.RedirectURL = cfg.RedirectURL
	}

	return New(oauthConfig), nil
}

// AuthCodeURL returns the Google consent URL for state, carrying the
// S256 challenge derived from verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades an authorization code for a token and returns the
// profile of the user who granted it.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (service.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, ExchangeTimeout)
	defer cancel()

	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return service.Profile{}, wrapError(fmt.Errorf("failed to exchange code for token: %w", err))
	}

	return p.fetchProfile(ctx, p.oauth.TokenSource(ctx, token))
}

// fetchProfile reads the userinfo of the token's owner.
func (p *Provider) fetchProfile(ctx context.Context, ts oauth2.TokenSource) (service.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, p.apiOptions...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return service.Profile{}, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return service.Profile{}, wrapError(fmt.Errorf("failed to fetch profile: %w", err))
	}
	if info.Id == "" {
		return service.Profile{}, errors.New("profile has no id")
	}

	return service.Profile{
		Subject: info.Id,
		Name:    info.Name,
		Email:   info.Email,
		Avatar:  info.Picture,
	}, nil
}

// wrapError adds a short reason to provider errors.
func wrapError(err error) error {
	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out: %w", err)
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") || strings.Contains(errStr, "invalid_grant") {
		return fmt.Errorf("authorization rejected: %w", err)
	}
	return err
}
