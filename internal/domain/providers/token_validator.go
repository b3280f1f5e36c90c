package providers

import "context"

// TokenValidator turns a bearer credential into a subject identifier
type TokenValidator interface {
	Validate(ctx context.Context, token string) (subject string, err error)
}
