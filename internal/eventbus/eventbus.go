package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/google/uuid"
)

// Типы событий мира
const (
	ChunkGenerated = "chunk.generated"
	ChunkEvicted   = "chunk.evicted"
	BlockBroken    = "block.broken"
	BlockPlaced    = "block.placed"
)

var (
	// ErrClosed возвращается при публикации в закрытую шину
	ErrClosed = errors.New("eventbus: шина закрыта")
	// ErrBufferFull возвращается обработчику, который публикует в заполненную шину
	ErrBufferFull = errors.New("eventbus: буфер заполнен")
)

// Envelope описывает событие мира.
type Envelope struct {
	ID        string        // UUID события
	Timestamp time.Time     // время создания (UTC)
	Frame     uint64        // кадр, в котором произошло событие
	EventType string        // одна из констант выше
	Coords    vec.Vec3      // координаты чанка или блока, в зависимости от типа
	Player    string        // инициатор правки, пусто для событий жизненного цикла
	Block     block.BlockID // установленный блок для BlockPlaced
	Priority  int           // 0=Low … 9=Critical (для backpressure)
}

// NewEnvelope создаёт событие с новым ID и текущим временем
func NewEnvelope(eventType string, frame uint64, coords vec.Vec3) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Frame:     frame,
		EventType: eventType,
		Coords:    coords,
	}
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types []string // Если пусто, подходят все типы.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий мира.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close()
}

//================ In-Memory implementation =================//

type memoryBus struct {
	subsMu      sync.RWMutex
	subscribers []subscriber // в порядке подписки
	nextID      int

	statsMu sync.Mutex
	stats   Stats

	// closeMu защищает closed и запись в buffer
	closeMu   sync.RWMutex
	closed    bool
	buffer    chan *Envelope
	quit      chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

type subscriber struct {
	id      int
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// dispatchKey помечает контекст, который получает обработчик
type dispatchKey struct{}

// NewMemoryBus создаёт in-memory шину с указанным буфером.
// Подписчики получают события в порядке публикации и в порядке подписки.
// Публикация из обработчика (с его контекстом) никогда не блокируется:
// при заполненном буфере она возвращает ErrBufferFull.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		buffer: make(chan *Envelope, capacity),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	mb.closeMu.RLock()
	defer mb.closeMu.RUnlock()
	if mb.closed {
		return ErrClosed
	}

	select {
	case mb.buffer <- ev:
		mb.countPublished()
		return nil
	default:
		// Буфер заполнен: дропаём низкий приоритет (<5)
		if ev.Priority < 5 {
			mb.countDropped()
			return nil
		}
		// диспетчер занят этим же обработчиком, ждать нельзя
		if ctx.Value(dispatchKey{}) != nil {
			mb.countDropped()
			return ErrBufferFull
		}
		select {
		case mb.buffer <- ev:
			mb.countPublished()
			return nil
		case <-mb.quit:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (mb *memoryBus) countPublished() {
	mb.statsMu.Lock()
	mb.stats.Published++
	mb.statsMu.Unlock()
}

func (mb *memoryBus) countDropped() {
	mb.statsMu.Lock()
	mb.stats.Dropped++
	mb.statsMu.Unlock()
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.closeMu.RLock()
	closed := mb.closed
	mb.closeMu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	mb.subsMu.Lock()
	defer mb.subsMu.Unlock()

	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(context.WithValue(ctx, dispatchKey{}, true))
	mb.subscribers = append(mb.subscribers, subscriber{id: id, filter: f, handler: h, ctx: cctx, cancel: cancel})

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.statsMu.Lock()
	defer mb.statsMu.Unlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// Close прекращает приём событий и дожидается доставки уже принятых.
// Публикации, ждущие места в буфере, получают ErrClosed.
func (mb *memoryBus) Close() {
	mb.closeOnce.Do(func() { close(mb.quit) })
	mb.closeMu.Lock()
	if mb.closed {
		mb.closeMu.Unlock()
		return
	}
	mb.closed = true
	close(mb.buffer)
	mb.closeMu.Unlock()
	<-mb.done
}

// dispatchLoop рассылает события подписчикам.
func (mb *memoryBus) dispatchLoop() {
	defer close(mb.done)
	for ev := range mb.buffer {
		mb.subsMu.RLock()
		subs := append([]subscriber(nil), mb.subscribers...)
		mb.subsMu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) || sub.ctx.Err() != nil {
				continue
			}
			sub.handler(sub.ctx, ev)
			mb.statsMu.Lock()
			mb.stats.Consumed++
			mb.statsMu.Unlock()
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == ev.EventType {
			return true
		}
	}
	return false
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.subsMu.Lock()
	defer s.bus.subsMu.Unlock()
	for i, sub := range s.bus.subscribers {
		if sub.id == s.id {
			sub.cancel()
			s.bus.subscribers = append(s.bus.subscribers[:i:i], s.bus.subscribers[i+1:]...)
			return
		}
	}
}
