package ctxutil

import (
	"context"
)

var cancelkey = SimpleKey("cancel")

// CancelContext yields a cancelable context carrying its own
// cancel function, so that it can be canceled by anyone holding
// the context.
func CancelContext(ctx context.Context) context.Context {
	return cancelContext(context.WithCancel(ctx))
}

func cancelContext(ctx context.Context, cancel context.CancelFunc) context.Context {
	return context.WithValue(ctx, cancelkey, cancel)
}

func Cancel(ctx context.Context) {
	ctx.Value(cancelkey).(context.CancelFunc)()
}
