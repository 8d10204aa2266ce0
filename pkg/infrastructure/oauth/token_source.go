// Package oauth provides token management and an authenticating HTTP
// transport for the Strava API.
package oauth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// StravaTokenURL is the token exchange endpoint for the Strava API.
const StravaTokenURL = "https://www.strava.com/oauth/token"

// TokenSource returns a valid token.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(context.Context) (*oauth2.Token, error)
	ForceRefresh(context.Context) (*oauth2.Token, error)
}

// RefreshTokenSource exchanges a long-lived refresh token for short-lived
// access tokens, caching the current access token until it expires. The
// actual refresh-token grant is performed by golang.org/x/oauth2.
type RefreshTokenSource struct {
	conf         *oauth2.Config
	mu           sync.Mutex
	refreshToken string
	current      *oauth2.Token
}

func NewRefreshTokenSource(clientID, clientSecret, refreshToken, tokenURL string) *RefreshTokenSource {
	return &RefreshTokenSource{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
		refreshToken: refreshToken,
	}
}

// Token returns the cached token, refreshing it first if it is missing or
// expired (oauth2 applies an expiry leeway so tokens about to lapse refresh
// proactively).
func (s *RefreshTokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Valid() {
		return s.current, nil
	}
	return s.refresh(ctx)
}

// ForceRefresh discards the cached access token and performs the refresh
// grant regardless of expiry.
func (s *RefreshTokenSource) ForceRefresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	return s.refresh(ctx)
}

// refresh performs the exchange. Callers must hold s.mu.
func (s *RefreshTokenSource) refresh(ctx context.Context) (*oauth2.Token, error) {
	if s.refreshToken == "" {
		return nil, fmt.Errorf("oauth: missing refresh token")
	}

	tok, err := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("oauth: token refresh failed: %w", err)
	}

	// Strava rotates refresh tokens; keep the new one when the provider
	// returns it, otherwise preserve the original.
	if tok.RefreshToken != "" {
		s.refreshToken = tok.RefreshToken
	}
	s.current = tok
	return tok, nil
}
