package resolver

import (
	"context"
	"fmt"

	store "github.com/hanpama/schoolgraph/internal/store"
)

// binding is one field's resolver with its source type erased.
//
// Physical bindings (remote == false) read the parent value only. Remote
// bindings call the gateway and are dispatched from BatchResolveAsync.
type binding struct {
	remote  bool
	resolve func(ctx context.Context, gw store.Gateway, source any, args map[string]any) (any, error)
	// parentKey identifies the lookup a relation performs, so identical
	// lookups can share one gateway call. Nil for root operations.
	parentKey func(source any) (int, bool)
}

// fieldEntry resolves one field of an entity of type T.
type fieldEntry[T any] struct {
	remote   bool
	project  func(T) any
	relation func(ctx context.Context, gw store.Gateway, parent T) (any, error)
}

// fieldTable is the dispatch table of one entity type, keyed by field name.
type fieldTable[T any] map[string]fieldEntry[T]

// project declares a physical field read off the parent value.
func project[T any](fn func(T) any) fieldEntry[T] {
	return fieldEntry[T]{project: fn}
}

// relation declares a remote field resolved by a gateway lookup keyed on
// the parent.
func relation[T any](fn func(ctx context.Context, gw store.Gateway, parent T) (any, error)) fieldEntry[T] {
	return fieldEntry[T]{remote: true, relation: fn}
}

// erase converts the typed table into bindings. id extracts the parent key
// used for relation deduplication.
func (t fieldTable[T]) erase(typeName string, id func(T) int) map[string]binding {
	out := make(map[string]binding, len(t))
	for name, e := range t {
		parent := func(source any) (T, error) {
			v, ok := source.(T)
			if !ok {
				var zero T
				return zero, fmt.Errorf("%s.%s: unexpected source %T", typeName, name, source)
			}
			return v, nil
		}
		if !e.remote {
			out[name] = binding{
				resolve: func(_ context.Context, _ store.Gateway, source any, _ map[string]any) (any, error) {
					v, err := parent(source)
					if err != nil {
						return nil, err
					}
					return e.project(v), nil
				},
			}
			continue
		}
		out[name] = binding{
			remote: true,
			resolve: func(ctx context.Context, gw store.Gateway, source any, _ map[string]any) (any, error) {
				v, err := parent(source)
				if err != nil {
					return nil, err
				}
				return e.relation(ctx, gw, v)
			},
			parentKey: func(source any) (int, bool) {
				v, ok := source.(T)
				if !ok {
					return 0, false
				}
				return id(v), true
			},
		}
	}
	return out
}

// rootOperation resolves one Query or Mutation field from its arguments.
type rootOperation func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error)

type rootTable map[string]rootOperation

func (t rootTable) erase() map[string]binding {
	out := make(map[string]binding, len(t))
	for name, op := range t {
		out[name] = binding{
			remote: true,
			resolve: func(ctx context.Context, gw store.Gateway, _ any, args map[string]any) (any, error) {
				return op(ctx, gw, args)
			},
		}
	}
	return out
}

// opt converts an optional attribute into a resolver value; a nil pointer
// becomes a GraphQL null.
func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// many normalizes a gateway collection so that an empty result is an empty
// list rather than a null.
func many[T any](items []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// one returns an untyped nil for a missing row.
func one[T any](item *T, err error) (any, error) {
	if err != nil || item == nil {
		return nil, err
	}
	return item, nil
}
