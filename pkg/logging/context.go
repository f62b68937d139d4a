package logging

import "context"

type contextKey int

const modelIDKey contextKey = iota

// WithModelID annotates the context with the generation model identifier so
// log entries produced under it carry the model.
func WithModelID(ctx context.Context, modelID string) context.Context {
	return context.WithValue(ctx, modelIDKey, modelID)
}

// GetModelID retrieves the model identifier from the context, if any.
func GetModelID(ctx context.Context) (string, bool) {
	modelID, ok := ctx.Value(modelIDKey).(string)
	return modelID, ok
}
