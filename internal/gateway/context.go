package gateway

import "context"

type contextKey string

const tokenContextKey = contextKey("token")

// WithToken returns a context whose gateway calls are authorized with the given bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
