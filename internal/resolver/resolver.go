// Package resolver implements the school schema on top of a store.Gateway.
//
// Every object type has a typed dispatch table with one entry per field.
// Tables are checked against the type registry when the runtime is built,
// so a declared field can never be left without a resolver.
//
// Relation fields are lazy: they issue a gateway lookup only when they are
// selected. Under PolicyPerField every relation task is its own round trip,
// so selecting N courses with their teacher costs N teacher lookups.
// PolicyDedupe shares one call between identical lookups of the same depth.
package resolver

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	events "github.com/hanpama/schoolgraph/internal/events"
	executor "github.com/hanpama/schoolgraph/internal/executor"
	schema "github.com/hanpama/schoolgraph/internal/schema"
	store "github.com/hanpama/schoolgraph/internal/store"
)

//go:embed schema.graphql
var sdl string

// SDL returns the schema served by this package.
func SDL() string { return sdl }

// LoadSchema builds the type registry from SDL.
func LoadSchema() (*schema.Schema, error) {
	return schema.BuildFromSDL("schema.graphql", sdl)
}

// Policy selects how relation lookups of one depth reach the gateway.
type Policy string

const (
	// PolicyPerField issues one gateway call per relation task.
	PolicyPerField Policy = "per-field"
	// PolicyDedupe issues one gateway call per distinct (type, field, parent).
	PolicyDedupe Policy = "dedupe"
)

type Option func(*Runtime)

func WithPolicy(p Policy) Option { return func(r *Runtime) { r.policy = p } }

// WithEventBus publishes events.ResolverBatch on bus after every depth.
func WithEventBus(bus *eventbus.Bus) Option { return func(r *Runtime) { r.bus = bus } }

// WithConcurrency bounds how many field groups of one depth run at once.
// Zero or less means unbounded.
func WithConcurrency(n int) Option { return func(r *Runtime) { r.limit = n } }

// Runtime implements executor.Runtime for the school schema.
// Invariants:
//   - ResolveSync never touches the gateway.
//   - BatchResolveAsync groups tasks by (objectType, field) and runs groups
//     concurrently; results are written by task index, so order is kept.
//   - Gateway errors are returned unchanged.
type Runtime struct {
	gw       store.Gateway
	bindings map[string]map[string]binding
	policy   Policy
	bus      *eventbus.Bus
	limit    int
}

var _ executor.Runtime = (*Runtime)(nil)

// New builds a runtime serving sch from gw. It fails when the resolver
// tables and the registry disagree.
func New(sch *schema.Schema, gw store.Gateway, opts ...Option) (*Runtime, error) {
	bindings := entityBindings()
	if sch.QueryType != "" {
		bindings[sch.QueryType] = queryOperations.erase()
	}
	if sch.MutationType != "" {
		bindings[sch.MutationType] = mutationOperations.erase()
	}
	return newRuntime(sch, gw, bindings, opts...)
}

func newRuntime(sch *schema.Schema, gw store.Gateway, bindings map[string]map[string]binding, opts ...Option) (*Runtime, error) {
	r := &Runtime{gw: gw, bindings: bindings, policy: PolicyPerField}
	for _, o := range opts {
		o(r)
	}
	if r.policy != PolicyPerField && r.policy != PolicyDedupe {
		return nil, fmt.Errorf("unknown relation policy %q", r.policy)
	}
	if problems := validate(sch, bindings); len(problems) > 0 {
		return nil, fmt.Errorf("resolver tables do not match the schema:\n  %s", strings.Join(problems, "\n  "))
	}
	return r, nil
}

// NewExecutor loads the registry and returns an executor backed by gw.
func NewExecutor(gw store.Gateway, opts ...Option) (*executor.Executor, error) {
	sch, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	rt, err := New(sch, gw, opts...)
	if err != nil {
		return nil, err
	}
	return executor.NewExecutor(rt, sch), nil
}

// validate lists every disagreement between bindings and the registry.
func validate(sch *schema.Schema, bindings map[string]map[string]binding) []string {
	var problems []string
	leaves := map[string]bool{}
	for _, t := range sch.ObjectTypes() {
		table, ok := bindings[t.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("type %s has no resolver table", t.Name))
			continue
		}
		for _, f := range t.Fields {
			b, ok := table[f.Name]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("field %s.%s has no resolver", t.Name, f.Name))
			case b.remote && !f.Async:
				problems = append(problems, fmt.Sprintf("field %s.%s is physical but its resolver is remote", t.Name, f.Name))
			case !b.remote && f.Async:
				problems = append(problems, fmt.Sprintf("field %s.%s is remote but its resolver is physical", t.Name, f.Name))
			}
			named := sch.Types[f.Type.GetNamedType()]
			if named != nil && (named.Kind == schema.TypeKindScalar || named.Kind == schema.TypeKindEnum) {
				leaves[named.Name] = true
			}
		}
		for name := range table {
			if t.Field(name) == nil {
				problems = append(problems, fmt.Sprintf("resolver %s.%s has no field in the schema", t.Name, name))
			}
		}
	}
	for name := range bindings {
		if t := sch.Types[name]; t == nil || t.Kind != schema.TypeKindObject {
			problems = append(problems, fmt.Sprintf("resolver table %s has no object type in the schema", name))
		}
	}
	for name := range leaves {
		if _, ok := leafSerializers[name]; !ok {
			problems = append(problems, fmt.Sprintf("leaf type %s has no serializer", name))
		}
	}
	sort.Strings(problems)
	return problems
}

func (r *Runtime) lookup(objectType, field string) (binding, error) {
	b, ok := r.bindings[objectType][field]
	if !ok {
		return binding{}, fmt.Errorf("no resolver registered for %s.%s", objectType, field)
	}
	return b, nil
}

// ResolveSync reads a physical field off the parent value.
func (r *Runtime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	b, err := r.lookup(objectType, field)
	if err != nil {
		return nil, err
	}
	if b.remote {
		return nil, fmt.Errorf("%s.%s is a remote field", objectType, field)
	}
	return b.resolve(ctx, r.gw, source, args)
}

// BatchResolveAsync runs the root operations and relation lookups of one
// depth and publishes a ResolverBatch event.
func (r *Runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	start := time.Now()

	type groupKey struct {
		objectType string
		field      string
	}
	var groups [][]int
	idxByKey := map[groupKey]int{}
	for i, t := range tasks {
		k := groupKey{objectType: t.ObjectType, field: t.Field}
		if gi, ok := idxByKey[k]; ok {
			groups[gi] = append(groups[gi], i)
		} else {
			idxByKey[k] = len(groups)
			groups = append(groups, []int{i})
		}
	}

	var calls atomic.Int64
	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for _, idxs := range groups {
		g.Go(func() error {
			calls.Add(int64(r.runGroup(ctx, tasks, idxs, results)))
			return nil
		})
	}
	_ = g.Wait()

	eventbus.Publish(ctx, r.bus, events.ResolverBatch{
		Tasks:    len(tasks),
		Calls:    int(calls.Load()),
		Duration: time.Since(start),
	})
	return results
}

// runGroup resolves the tasks of one (objectType, field) group in task
// order and returns how many resolver calls it made.
func (r *Runtime) runGroup(ctx context.Context, tasks []executor.AsyncResolveTask, idxs []int, results []executor.AsyncResolveResult) int {
	first := tasks[idxs[0]]
	b, err := r.lookup(first.ObjectType, first.Field)
	if err == nil && !b.remote {
		err = fmt.Errorf("%s.%s is a physical field", first.ObjectType, first.Field)
	}
	if err != nil {
		for _, i := range idxs {
			results[i] = executor.AsyncResolveResult{Error: err}
		}
		return 0
	}

	var shared map[int]int
	if r.policy == PolicyDedupe && b.parentKey != nil {
		shared = make(map[int]int)
	}
	calls := 0
	for _, i := range idxs {
		t := tasks[i]
		if shared != nil {
			if key, ok := b.parentKey(t.Source); ok {
				if prev, seen := shared[key]; seen {
					results[i] = results[prev]
					continue
				}
				shared[key] = i
			}
		}
		v, err := b.resolve(ctx, r.gw, t.Source, t.Args)
		calls++
		results[i] = executor.AsyncResolveResult{Value: v, Error: err}
	}
	return calls
}

// SerializeLeafValue converts scalars and enums to JSON-safe values.
func (r *Runtime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	fn, ok := leafSerializers[typeName]
	if !ok {
		return nil, fmt.Errorf("no serializer for leaf type %s", typeName)
	}
	return fn(value)
}
