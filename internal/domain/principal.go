package domain

import "context"

// Principal is the authenticated caller of an operation. PublicKey is the
// ed25519 key used to verify escrow signatures.
type Principal struct {
	ID        string
	PublicKey []byte
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.ID != ""
}
