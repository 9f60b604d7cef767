package session

import (
	"context"
	"time"
)

type startTimeKey struct{}

// withStartTime stamps the context of a command as it is dispatched.
func withStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, startTimeKey{}, time.Now())
}

func elapsed(ctx context.Context) time.Duration {
	startTime, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return 0
	}

	return time.Since(startTime)
}
