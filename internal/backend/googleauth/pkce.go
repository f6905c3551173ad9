package googleauth

import "golang.org/x/oauth2"

// NewVerifier returns a fresh PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// NewState returns a random, URL-safe value for the OAuth state parameter.
// It draws from the same 32-byte source as the PKCE verifier.
func NewState() string {
	return oauth2.GenerateVerifier()
}
