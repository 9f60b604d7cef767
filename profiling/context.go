package profiling

import "context"

type profilerKey struct{}

// WithProfiler returns a context whose commands are reported to the given profiler.
func WithProfiler(ctx context.Context, profiler CmdProfiler) context.Context {
	return context.WithValue(ctx, profilerKey{}, profiler)
}

func Start(ctx context.Context, cmdType int) {
	fromContext(ctx).Start(cmdType)
}

func Stop(ctx context.Context, cmdType int) {
	fromContext(ctx).Stop(cmdType)
}

func fromContext(ctx context.Context) CmdProfiler {
	if profiler, ok := ctx.Value(profilerKey{}).(CmdProfiler); ok {
		return profiler
	}

	return &NullCmdProfiler{}
}
