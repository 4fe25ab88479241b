package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	fieldsKey    ctxKey = "log_fields"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields attaches fields that every FromCtx logger of the request will
// carry, e.g. the authenticated user.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	prev, _ := ctx.Value(fieldsKey).([]zap.Field)
	all := make([]zap.Field, 0, len(prev)+len(fields))
	all = append(all, prev...)
	all = append(all, fields...)
	return context.WithValue(ctx, fieldsKey, all)
}

// FromCtx returns the global logger with the request id and any fields
// attached to ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if fields, _ := ctx.Value(fieldsKey).([]zap.Field); len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}
