package authenticator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type staticTokenSource struct {
	token string
}

// NewStaticTokenSource returns a source that always yields the given
// token. Used when the credential comes from configuration.
func NewStaticTokenSource(token string) *staticTokenSource {
	return &staticTokenSource{token: token}
}

func (s *staticTokenSource) AccessToken(context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no access token configured")
	}

	return s.token, nil
}

type refreshingTokenSource struct {
	refresh RefreshFunc
	leeway  time.Duration

	mutex     sync.Mutex
	token     string
	expiresAt time.Time
}

// NewRefreshingTokenSource caches the token returned by refresh and
// re-acquires it shortly before its exp claim passes. Tokens that do
// not parse as JWT are treated as non-expiring.
func NewRefreshingTokenSource(refresh RefreshFunc) *refreshingTokenSource {
	return &refreshingTokenSource{refresh: refresh, leeway: 30 * time.Second}
}

func (s *refreshingTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.token != "" {
		if s.expiresAt.IsZero() || time.Now().Add(s.leeway).Before(s.expiresAt) {
			return s.token, nil
		}
	}

	token, err := s.refresh(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = expiryOf(token)
	return s.token, nil
}

func expiryOf(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}

	if claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}
