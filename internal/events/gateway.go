package events

import "time"

// GatewayCallStart is emitted before a persistence gateway call.
type GatewayCallStart struct {
	CallID uint64
	Entity string
	Op     string
}

// GatewayCallFinish is emitted after a persistence gateway call returns.
// Kind is the store error kind, empty on success.
type GatewayCallFinish struct {
	CallID   uint64
	Entity   string
	Op       string
	Err      error
	Kind     string
	Duration time.Duration
}
