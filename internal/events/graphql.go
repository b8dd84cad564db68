package events

import "time"

// GraphQLStart is emitted before executing a GraphQL operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after executing a GraphQL operation.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}

// ResolverBatch is emitted once per execution depth, after the resolver
// runtime has dispatched every relation and root task of that depth.
type ResolverBatch struct {
	Tasks int
	// Calls is the number of gateway round trips the batch needed. It is
	// lower than Tasks only when identical lookups were deduplicated.
	Calls    int
	Duration time.Duration
}
