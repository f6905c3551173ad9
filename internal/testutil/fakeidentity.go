package testutil

import (
	"context"
	"errors"
	"net/url"

	"taskflow/internal/service"
)

// ErrBadCode is returned by FakeIdentity for codes it does not know.
var ErrBadCode = errors.New("invalid authorization code")

// FakeIdentity is an identity provider that maps authorization codes to profiles.
type FakeIdentity struct {
	// Profiles maps an authorization code to the profile it yields.
	Profiles map[string]service.Profile

	// LastVerifier records the PKCE verifier passed to the last Exchange.
	LastVerifier string
}

// NewFakeIdentity creates a FakeIdentity with no known codes.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{Profiles: make(map[string]service.Profile)}
}

// AuthCodeURL returns a provider URL carrying state.
func (f *FakeIdentity) AuthCodeURL(state, verifier string) string {
	return "https://accounts.example.test/auth?state=" + url.QueryEscape(state)
}

// Exchange returns the profile registered for code.
func (f *FakeIdentity) Exchange(ctx context.Context, code, verifier string) (service.Profile, error) {
	f.LastVerifier = verifier
	p, ok := f.Profiles[code]
	if !ok {
		return service.Profile{}, ErrBadCode
	}
	return p, nil
}
