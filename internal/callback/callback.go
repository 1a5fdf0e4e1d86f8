package callback

import "context"

// Func receives a notification message.
type Func func(message string)

type ctxKey struct{}

// WithCallback returns a context carrying cb for the callable to pick up.
// A nil cb is stored as "no callback".
func WithCallback(ctx context.Context, cb Func) context.Context {
	return context.WithValue(ctx, ctxKey{}, cb)
}

// FromContext returns the callback carried by ctx, or nil.
func FromContext(ctx context.Context) Func {
	cb, _ := ctx.Value(ctxKey{}).(Func)
	return cb
}

// Deliver invokes cb with message if cb is non-nil and reports whether it
// did.
func Deliver(cb Func, message string) bool {
	if cb == nil {
		return false
	}
	cb(message)
	return true
}
