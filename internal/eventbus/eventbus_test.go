package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type ping struct{ n int }
type pong struct{}

func TestPublish_DeliversByType(t *testing.T) {
	b := New()
	var got []int
	Subscribe(b, func(ctx context.Context, e ping) { got = append(got, e.n) })
	Subscribe(b, func(ctx context.Context, e pong) { t.Fatal("pong handler called for ping") })

	Publish(context.Background(), b, ping{n: 1})
	Publish(context.Background(), b, ping{n: 2})

	require.Equal(t, []int{1, 2}, got)
}

func TestUnsubscribe_RemovesOnlyThatHandler(t *testing.T) {
	b := New()
	var a, c int
	handler := func(dst *int) Handler[ping] {
		return func(ctx context.Context, e ping) { *dst += e.n }
	}
	unsubA := Subscribe(b, handler(&a))
	Subscribe(b, handler(&c))

	Publish(context.Background(), b, ping{n: 1})
	unsubA()
	Publish(context.Background(), b, ping{n: 10})

	require.Equal(t, 1, a)
	require.Equal(t, 11, c)
}

func TestNilBus_IsNoop(t *testing.T) {
	var b *Bus
	unsub := Subscribe(b, func(ctx context.Context, e ping) {})
	unsub()
	Publish(context.Background(), b, ping{})
}
