package api

import "context"

// TokenSource supplies the bearer token sent with every request. Obtaining and
// refreshing the token is left to the implementation.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
// An empty StaticToken sends no Authorization header.
type StaticToken string

// Token returns the token unchanged
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
