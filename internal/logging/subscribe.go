package logging

import (
	"context"

	"github.com/rs/zerolog"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	events "github.com/hanpama/schoolgraph/internal/events"
	reqid "github.com/hanpama/schoolgraph/internal/reqid"
)

// Subscribe logs HTTP requests, GraphQL operations and gateway calls
// published on bus. Gateway calls log at debug level unless they fail.
func Subscribe(bus *eventbus.Bus) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(bus, func(ctx context.Context, e events.HTTPFinish) {
			withRequest(ctx, Info()).
				Str("method", e.Request.Method).
				Str("path", e.Request.URL.Path).
				Int("status", e.Status).
				Dur("duration", e.Duration).
				Msg("http request")
		}),
		eventbus.Subscribe(bus, func(ctx context.Context, e events.GraphQLFinish) {
			ev := Info()
			if len(e.Errors) > 0 {
				ev = Warn().Int("errors", len(e.Errors)).Err(e.Errors[0])
			}
			withRequest(ctx, ev).
				Str("operation", e.OperationName).
				Str("type", e.OperationType).
				Dur("duration", e.Duration).
				Msg("graphql operation")
		}),
		eventbus.Subscribe(bus, func(ctx context.Context, e events.ResolverBatch) {
			withRequest(ctx, Debug()).
				Int("tasks", e.Tasks).
				Int("calls", e.Calls).
				Dur("duration", e.Duration).
				Msg("resolver batch")
		}),
		eventbus.Subscribe(bus, func(ctx context.Context, e events.GatewayCallFinish) {
			ev := Debug()
			if e.Err != nil {
				ev = Warn().Err(e.Err).Str("kind", e.Kind)
			}
			withRequest(ctx, ev).
				Uint64("call", e.CallID).
				Str("entity", e.Entity).
				Str("op", e.Op).
				Dur("duration", e.Duration).
				Msg("gateway call")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func withRequest(ctx context.Context, ev *zerolog.Event) *zerolog.Event {
	if id, ok := reqid.FromContext(ctx); ok {
		ev = ev.Str("request_id", id)
	}
	return ev
}
