// Package notices carries informational progress messages through a context.
//
// Notices report what a view invocation is doing ("retrieving cached band
// data", "querying remote service").  They are never fatal and callers are
// free to drop them: emitting into a context with no sink installed is a
// no-op.
package notices

import (
	"context"
	"fmt"
)

type contextKey int

var sinkKey = contextKey(1)

// WithSink returns a context that delivers emitted notices to sink.
func WithSink(ctx context.Context, sink func(string)) context.Context {
	return context.WithValue(ctx, sinkKey, sink)
}

// Buffer returns a context that accumulates emitted notices, and the slice
// they accumulate into.
func Buffer(ctx context.Context) (context.Context, *[]string) {
	var messages []string
	return WithSink(ctx, func(message string) {
		messages = append(messages, message)
	}), &messages
}

// Emitf formats and delivers one notice to the sink installed in ctx, if
// any.
func Emitf(ctx context.Context, format string, args ...interface{}) {
	if sink, ok := ctx.Value(sinkKey).(func(string)); ok {
		sink(fmt.Sprintf(format, args...))
	}
}
