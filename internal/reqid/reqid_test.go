package reqid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	if !ok || got != id {
		t.Fatalf("expected %s from context, got %s ok=%v", id, got, ok)
	}
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("unexpected id in empty context")
	}
}

func TestWithID(t *testing.T) {
	ctx, id := WithID(context.Background(), "upstream-1")
	require.Equal(t, "upstream-1", id)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "upstream-1", got)

	_, generated := WithID(context.Background(), "")
	require.NotEmpty(t, generated)
}
