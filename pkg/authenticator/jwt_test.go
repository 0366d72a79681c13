package authenticator

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestStaticTokenSource(t *testing.T) {
	token, err := NewStaticTokenSource("abc").AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	_, err = NewStaticTokenSource("").AccessToken(context.Background())
	require.Error(t, err)
}

func TestRefreshingTokenSourceCachesUntilExpiry(t *testing.T) {
	calls := 0
	source := NewRefreshingTokenSource(func(context.Context) (string, error) {
		calls++
		return signedToken(t, time.Hour), nil
	})

	first, err := source.AccessToken(context.Background())
	require.NoError(t, err)

	second, err := source.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestRefreshingTokenSourceRefreshesExpired(t *testing.T) {
	calls := 0
	source := NewRefreshingTokenSource(func(context.Context) (string, error) {
		calls++
		return signedToken(t, time.Second), nil
	})

	_, err := source.AccessToken(context.Background())
	require.NoError(t, err)

	// Within the 30s leeway of a 1s expiry, so the second call must
	// re-acquire.
	_, err = source.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestRefreshingTokenSourceOpaqueToken(t *testing.T) {
	calls := 0
	source := NewRefreshingTokenSource(func(context.Context) (string, error) {
		calls++
		return "opaque-token", nil
	})

	for i := 0; i < 3; i++ {
		token, err := source.AccessToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "opaque-token", token)
	}

	require.Equal(t, 1, calls)
}
