package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

// Context keys carried by a request. Their string values double as log field names.
const (
	TraceIDKey   contextKey = "trace_id"
	SpanIDKey    contextKey = "span_id"
	RequestIDKey contextKey = "request_id"
	QueryIDKey   contextKey = "query_id"
	ModelKey     contextKey = "model"
)

const (
	traceIDBytes = 16
	spanIDBytes  = 8
)

// loggedKeys are attached to every logger built by FromContext, in this order.
//
//nolint:gochecknoglobals // fixed field order
var loggedKeys = []contextKey{TraceIDKey, SpanIDKey, RequestIDKey, QueryIDKey, ModelKey}

func valueOf(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func WithSpanID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SpanIDKey, id)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithQueryID tags everything logged while answering one question.
func WithQueryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, QueryIDKey, id)
}

// WithModel records the model suite serving the query.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

func GetTraceID(ctx context.Context) string   { return valueOf(ctx, TraceIDKey) }
func GetSpanID(ctx context.Context) string    { return valueOf(ctx, SpanIDKey) }
func GetRequestID(ctx context.Context) string { return valueOf(ctx, RequestIDKey) }
func GetQueryID(ctx context.Context) string   { return valueOf(ctx, QueryIDKey) }
func GetModel(ctx context.Context) string     { return valueOf(ctx, ModelKey) }

// randomHex returns n random bytes hex-encoded. If the system source fails it
// falls back to a UUID so IDs keep their length.
func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id[:2*n]
}

// GenerateTraceID returns a W3C trace ID (32 hex chars).
func GenerateTraceID() string { return randomHex(traceIDBytes) }

// GenerateSpanID returns a W3C span ID (16 hex chars).
func GenerateSpanID() string { return randomHex(spanIDBytes) }

func GenerateRequestID() string { return uuid.New().String() }

func GenerateQueryID() string { return uuid.New().String() }
