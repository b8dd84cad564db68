// Package executor implements a breadth-first, batch-friendly GraphQL executor
// with explicit runtime hooks for synchronous resolution, depth-wise batching of
// asynchronous work, and leaf serialization.
//
// # Overview
//
// The executor follows a level-by-level (BFS) execution model designed to:
//   - Expand synchronous ("physical") fields immediately without adding batch depth.
//   - Collect asynchronous ("remote") fields encountered at the current depth and
//     resolve them in a single call to Runtime.BatchResolveAsync.
//   - Complete values (lists, leafs, objects) including Non-Null null-propagation.
//   - Accumulate located errors while allowing partial success.
//
// # Preparation
//
// Before execution, the executor:
//  1. Chooses the operation (by name or by uniqueness when unnamed).
//  2. Coerces variables against the operation's variable definitions,
//     including input objects and enums described by the registry.
//  3. Checks the selection set against the registry: every selected field
//     must exist on its parent type, every required argument must be
//     supplied, object fields need a sub-selection and leaf fields must not
//     have one. Any failure here is reported with no runtime call made.
//
// # Execution Model
//
// Sync fields (schema.Field.Async == false) are resolved via
// Runtime.ResolveSync and completed immediately. Async fields are queued and
// resolved in one Runtime.BatchResolveAsync call per depth. Object results
// produce the next depth's work.
//
// For a graph with asynchronous depth d, BatchResolveAsync is invoked exactly d
// times for a query. Purely synchronous descents do not increase d. Mutation
// root fields run serially, so a mutation with k root fields yields at least k
// batches, each containing exactly one root task.
//
// # Non-Null propagation
//
// A Non-Null violation at path p sets the nearest nullable ancestor to null and
// marks that ancestor path as a tombstone. Queued tasks under the tombstone are
// dropped before the next batch. When every ancestor up to the root field is
// Non-Null, the root field itself becomes null.
//
// # Output ordering
//
// ExecutionResult.Order records, for every object written, the response names
// in selection order. ExecutionResult.MarshalJSON uses it so the encoded
// response follows the query regardless of Go map ordering.
package executor
