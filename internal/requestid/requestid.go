// Package requestid carries the correlation id of one request or tool call on
// a context. It has no HTTP dependency, so domain packages can use it.
package requestid

import "context"

type contextKey struct{}

// With stores id on ctx.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the id stored by With, or "".
func From(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Ensure returns ctx carrying an id, generating one with newID when absent.
func Ensure(ctx context.Context, newID func() string) (context.Context, string) {
	if id := From(ctx); id != "" {
		return ctx, id
	}
	id := newID()
	return With(ctx, id), id
}
