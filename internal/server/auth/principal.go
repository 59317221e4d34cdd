package auth

import (
	"context"

	"github.com/adithya/trackfolio/internal/common"
)

// Principal is the resolved identity for the current request. It is created
// once by the request authenticator, read by every downstream ownership
// check, and discarded when the request ends.
type Principal struct {
	UserID int64
	Email  string
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal attached to ctx, or nil when the
// request was never authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// CurrentPrincipal is the accessor services use: it returns the principal or
// common.ErrorUnauthorized when called outside an authenticated request.
func CurrentPrincipal(ctx context.Context) (*Principal, error) {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return nil, common.ErrorUnauthorized
	}
	return p, nil
}
