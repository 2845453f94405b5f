package observability

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Event types published by the query pipeline.
const (
	EventCacheHit       = "cache.hit"
	EventCacheMiss      = "cache.miss"
	EventNodeExecuted   = "orchestrator.node"
	EventRewrite        = "orchestrator.rewrite"
	EventFallback       = "orchestrator.fallback"
	EventRecursionAbort = "orchestrator.recursion_abort"
	EventQueryFailed    = "query.failed"
	EventQueryCompleted = "query.completed"
)

// EventBus implements the EventPublisher interface.
type EventBus struct {
	metrics *Metrics
}

// NewEventBus creates a new event bus. Metrics may be nil.
func NewEventBus(metrics *Metrics) *EventBus {
	return &EventBus{
		metrics: metrics,
	}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.metrics != nil {
		e.metrics.observe(eventType, data)
	}

	// Sort keys so log lines are stable.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(data)+1)
	fields = append(fields, zap.String("event", eventType))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, data[k]))
	}

	FromContext(ctx).Debug("event published", fields...)
}
