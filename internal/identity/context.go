package identity

import (
	"context"

	"revive/pkg/types"
)

type contextKey string

const contextKeyPrincipal contextKey = "principal"

func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, p)
}

func FromContext(ctx context.Context) (types.Principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(types.Principal)
	return p, ok
}
