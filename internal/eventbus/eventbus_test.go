package eventbus

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collected struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collected) handler(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collected) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, ev := range c.events {
		out = append(out, ev.EventType)
	}
	return out
}

func TestMemoryBus_DeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(16)
	var all, edits collected

	_, err := bus.Subscribe(context.Background(), Filter{}, all.handler)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{BlockBroken, BlockPlaced}}, edits.handler)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 1, vec.New(0, 0, 0))))
	require.NoError(t, bus.Publish(ctx, NewEnvelope(BlockBroken, 2, vec.New(1, 2, 3))))
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkEvicted, 3, vec.New(9, 0, 0))))

	bus.Close()

	assert.Equal(t, []string{ChunkGenerated, BlockBroken, ChunkEvicted}, all.types())
	assert.Equal(t, []string{BlockBroken}, edits.types())

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(4), stats.Consumed)
	assert.Equal(t, 0, stats.InFlight)

	assert.ErrorIs(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 4, vec.Vec3{})), ErrClosed)
	_, err = bus.Subscribe(ctx, Filter{}, all.handler)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	var got collected

	sub, err := bus.Subscribe(context.Background(), Filter{}, got.handler)
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))
	bus.Close()

	assert.Empty(t, got.types())
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	started := make(chan struct{}, 1)

	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))
	<-started // первое событие в обработчике, буфер пуст
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 2, vec.Vec3{})))
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 3, vec.Vec3{})))

	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	close(block)
	bus.Close()
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestMemoryBus_HandlersCalledInSubscriptionOrder(t *testing.T) {
	bus := NewMemoryBus(8)
	var (
		mu    sync.Mutex
		order []int
	)
	subs := make([]Subscription, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		sub, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	subs[4].Unsubscribe()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkEvicted, 1, vec.Vec3{})))
	bus.Close()

	once := []int{0, 1, 2, 3, 5, 6, 7, 8, 9}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, append(append([]int{}, once...), once...), order)
}

func TestMemoryBus_PublishFromHandlerDoesNotBlock(t *testing.T) {
	bus := NewMemoryBus(1)
	var (
		mu   sync.Mutex
		errs []error
		seen []uint64
	)
	handled := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		mu.Lock()
		seen = append(seen, ev.Frame)
		mu.Unlock()
		if ev.Frame != 1 {
			return
		}
		// буфер пуст: первое событие помещается, второе уже нет
		for frame := uint64(2); frame <= 3; frame++ {
			next := NewEnvelope(BlockPlaced, frame, vec.Vec3{})
			next.Priority = 9
			err := bus.Publish(ctx, next)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
		close(handled)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("обработчик заблокирован на публикации")
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrBufferFull)
	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, uint64(1), bus.Metrics().Dropped)
}

func TestMemoryBus_CloseReleasesBlockedPublisher(t *testing.T) {
	bus := NewMemoryBus(1)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))
	<-started
	require.NoError(t, bus.Publish(ctx, NewEnvelope(ChunkGenerated, 2, vec.Vec3{})))

	published := make(chan error, 1)
	go func() {
		ev := NewEnvelope(BlockBroken, 3, vec.Vec3{})
		ev.Priority = 9
		published <- bus.Publish(ctx, ev)
	}()

	closed := make(chan struct{})
	go func() {
		bus.Close()
		close(closed)
	}()

	select {
	case err := <-published:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("публикация не освобождена при закрытии шины")
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close не завершился")
	}
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestStatsCollector(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewStatsCollector(bus)))

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope(ChunkGenerated, 1, vec.Vec3{})))
	bus.Close()

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				values[f.GetName()] = m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				values[f.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["eventbus_messages_published_total"])
	assert.Equal(t, 0.0, values["eventbus_messages_inflight"])
}

func TestLoggingListener(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLoggerWithWriter("events", &buf)
	log.SetLevels(logging.DEBUG, logging.DEBUG)

	bus := NewMemoryBus(4)
	_, err := StartLoggingListener(bus, log)
	require.NoError(t, err)

	ev := NewEnvelope(BlockPlaced, 7, vec.New(1, 16, 0))
	ev.Player = "p1"
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	assert.Contains(t, buf.String(), "block.placed")
	assert.Contains(t, buf.String(), "игрок=p1")
}
