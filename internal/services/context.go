package services

import "context"

// ctxKey is unexported so no other package can collide with these values.
type ctxKey int

const (
	videoIDKey ctxKey = iota
	stageKey
	requestIDKey
)

func lookup[T comparable](ctx context.Context, key ctxKey) (T, bool) {
	var zero T
	v, ok := ctx.Value(key).(T)
	if !ok || v == zero {
		return zero, false
	}
	return v, true
}

func withNonZero[T comparable](ctx context.Context, key ctxKey, v T) context.Context {
	var zero T
	if v == zero {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

// WithVideoID tags ctx with the lineage record a call is working on.
func WithVideoID(ctx context.Context, id int64) context.Context {
	return withNonZero(ctx, videoIDKey, id)
}

// VideoIDFromContext returns the lineage record id set by WithVideoID.
func VideoIDFromContext(ctx context.Context) (int64, bool) {
	return lookup[int64](ctx, videoIDKey)
}

// WithStage tags ctx with a pipeline stage name such as "trim".
func WithStage(ctx context.Context, stage string) context.Context {
	return withNonZero(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) {
	return lookup[string](ctx, stageKey)
}

// WithRequestID tags ctx with the correlation id of one CLI invocation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withNonZero(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return lookup[string](ctx, requestIDKey)
}
