package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	events "github.com/hanpama/schoolgraph/internal/events"
	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
	memstore "github.com/hanpama/schoolgraph/internal/store/memstore"
)

func TestInstrument_PublishesStartAndFinish(t *testing.T) {
	bus := eventbus.New()
	var mu sync.Mutex
	var started []string
	var finished []events.GatewayCallFinish
	eventbus.Subscribe(bus, func(ctx context.Context, e events.GatewayCallStart) {
		mu.Lock()
		started = append(started, e.Entity+"."+e.Op)
		mu.Unlock()
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.GatewayCallFinish) {
		mu.Lock()
		finished = append(finished, e)
		mu.Unlock()
	})

	g := store.Instrument(memstore.New().Gateway(), bus)
	ctx := context.Background()

	_, err := g.Students.Create(ctx, model.StudentCreate{Email: "a@x.com", FullName: "A", DeptID: 5})
	require.Error(t, err)
	_, err = g.Departments.FindMany(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"student.create", "department.find_many"}, started); diff != "" {
		t.Fatalf("started mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, finished, 2)
	require.Equal(t, uint64(1), finished[0].CallID)
	require.Equal(t, "REFERENTIAL", finished[0].Kind)
	require.Error(t, finished[0].Err)
	require.Equal(t, uint64(2), finished[1].CallID)
	require.Empty(t, finished[1].Kind)
}
