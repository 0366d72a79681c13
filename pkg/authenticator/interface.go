package authenticator

import "context"

// TokenSource yields the bearer credential attached to every workspace
// API call. Acquisition is asynchronous and may hit the auth
// collaborator, so it takes a context.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RefreshFunc fetches a fresh bearer token from the auth collaborator.
type RefreshFunc func(ctx context.Context) (string, error)
