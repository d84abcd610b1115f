package sim

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/voxel-core/internal/eventbus"
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/metrics"
	"github.com/annel0/voxel-core/internal/observability"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/annel0/voxel-core/internal/world/mesh"
	"github.com/annel0/voxel-core/internal/world/raycast"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Фазы кадра в порядке выполнения
const (
	PhaseGenerate  = "generate"
	PhaseEdit      = "edit"
	PhasePropagate = "propagate"
	PhaseEvict     = "evict"
	PhaseLook      = "look"
	PhaseMesh      = "mesh"
)

// Options - параметры движка
type Options struct {
	Lifecycle        world.Lifecycle
	RemeshBudget     int
	InteractionRange float32
	Atlas            *block.Atlas
	// Metrics может быть nil
	Metrics *metrics.WorldMetrics
	// Tracer по умолчанию берётся из глобального провайдера
	Tracer trace.Tracer
	// Events получает события мира после каждого кадра, может быть nil
	Events eventbus.EventBus
}

// Result - итог одного кадра
type Result struct {
	Frame     uint64
	Generated []vec.Vec3
	Evicted   []vec.Vec3
	Remeshed  []vec.Vec3
	Edits     int
	// Targets - блок, на который смотрит игрок в конце кадра
	Targets map[string]raycast.LookedAt
}

// Engine выполняет кадры над миром. Frame вызывается из одной горутины;
// Snapshot и Mesh безопасны для конкурентного чтения.
type Engine struct {
	world     *world.World
	lifecycle world.Lifecycle
	scheduler *mesh.Scheduler
	rayLength float32
	metrics   *metrics.WorldMetrics
	tracer    trace.Tracer
	events    eventbus.EventBus

	frame   uint64
	pending []*eventbus.Envelope
	targets map[string]raycast.LookedAt

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewEngine создаёт движок над миром w
func NewEngine(w *world.World, opts Options) *Engine {
	if opts.Lifecycle.GenerateRadius <= 0 {
		opts.Lifecycle = world.DefaultLifecycle()
	}
	if opts.InteractionRange <= 0 {
		opts.InteractionRange = raycast.DefaultRange
	}
	if opts.Tracer == nil {
		opts.Tracer = observability.Tracer()
	}

	e := &Engine{
		world:     w,
		lifecycle: opts.Lifecycle,
		scheduler: mesh.NewScheduler(mesh.NewBuilder(opts.Atlas), mesh.NewCache(), opts.RemeshBudget),
		rayLength: opts.InteractionRange,
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
		events:    opts.Events,
		targets:   make(map[string]raycast.LookedAt),
	}
	e.snapshot = e.takeSnapshot(nil)
	return e
}

// World возвращает мир движка. Изменять его можно только между вызовами Frame.
func (e *Engine) World() *world.World {
	return e.world
}

// Mesh возвращает последнюю построенную сетку чанка
func (e *Engine) Mesh(coords vec.Vec3) ([]mesh.Vertex, bool) {
	return e.scheduler.Cache.Get(coords)
}

// Frame выполняет один шаг симуляции:
// генерация, правки, соседи, выгрузка, луч взгляда, сетки.
// Правки применяются к цели, найденной в предыдущем кадре.
func (e *Engine) Frame(ctx context.Context, in Input) Result {
	e.frame++
	res := Result{Frame: e.frame}

	ctx, span := e.tracer.Start(ctx, "frame",
		trace.WithAttributes(
			attribute.Int64("voxel.frame", int64(e.frame)),
			attribute.Int("voxel.players", len(in.Players)),
		),
	)
	defer span.End()

	playerChunks := make([]vec.Vec3, 0, len(in.Players))
	for _, p := range in.Players {
		playerChunks = append(playerChunks, vec.ChunkOf(p.Position))
	}

	e.phase(ctx, PhaseGenerate, func() int {
		res.Generated = e.lifecycle.Generate(e.world, playerChunks)
		return len(res.Generated)
	})

	e.phase(ctx, PhaseEdit, func() int {
		res.Edits = e.applyEdits(in.Players)
		return res.Edits
	})

	e.phase(ctx, PhasePropagate, func() int {
		return e.world.PropagateNeighbors()
	})

	e.phase(ctx, PhaseEvict, func() int {
		res.Evicted = e.lifecycle.Evict(e.world, playerChunks)
		for _, coords := range res.Evicted {
			e.scheduler.Cache.Drop(coords)
		}
		return len(res.Evicted)
	})

	e.phase(ctx, PhaseLook, func() int {
		e.targets = e.look(in.Players)
		return len(e.targets)
	})
	res.Targets = make(map[string]raycast.LookedAt, len(e.targets))
	for id, t := range e.targets {
		res.Targets[id] = t
	}

	e.phase(ctx, PhaseMesh, func() int {
		res.Remeshed = e.scheduler.Run(e.world)
		return len(res.Remeshed)
	})

	snap := e.takeSnapshot(in.Players)
	e.mu.Lock()
	e.snapshot = snap
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.AddGenerated(len(res.Generated))
		e.metrics.AddEvicted(len(res.Evicted))
		e.metrics.AddRemeshed(len(res.Remeshed))
		e.metrics.SetWorldState(snap.LoadedChunks, snap.DirtyChunks, snap.TotalVertices)
	}

	e.publish(ctx, res)

	if len(res.Generated) > 0 || len(res.Evicted) > 0 {
		logging.Debug("кадр %d: +%d/-%d чанков, сеток перестроено %d",
			e.frame, len(res.Generated), len(res.Evicted), len(res.Remeshed))
	}
	return res
}

func (e *Engine) phase(ctx context.Context, name string, fn func() int) {
	_, span := observability.StartPhase(ctx, e.tracer, name, e.frame)
	start := time.Now()
	n := fn()
	span.SetAttributes(attribute.Int("voxel.count", n))
	span.End()

	if e.metrics != nil {
		e.metrics.ObservePhase(name, time.Since(start).Seconds())
	}
}

func (e *Engine) applyEdits(players []PlayerInput) int {
	edits := 0
	for _, p := range players {
		target, ok := e.targets[p.ID]
		if !ok {
			continue
		}
		if p.Break && e.world.BreakBlock(target.Coords) {
			edits++
			e.recordEdit("break")
			e.queueEdit(eventbus.BlockBroken, p.ID, target.Coords, block.EmptyBlockID)
		}
		if p.Place {
			id := p.PlaceBlock
			if id.IsEmpty() {
				id = block.StoneBlockID
			}
			if e.world.PlaceBlock(target.Adjacent(), id) {
				edits++
				e.recordEdit("place")
				e.queueEdit(eventbus.BlockPlaced, p.ID, target.Adjacent(), id)
			}
		}
	}
	return edits
}

func (e *Engine) recordEdit(kind string) {
	if e.metrics != nil {
		e.metrics.BlockEdit(kind)
	}
}

func (e *Engine) queueEdit(eventType, player string, coords vec.Vec3, id block.BlockID) {
	if e.events == nil {
		return
	}
	ev := eventbus.NewEnvelope(eventType, e.frame, coords)
	ev.Player = player
	ev.Block = id
	ev.Priority = 5
	e.pending = append(e.pending, ev)
}

// publish отправляет события кадра после фазы обновления
func (e *Engine) publish(ctx context.Context, res Result) {
	if e.events == nil {
		return
	}
	// порядок событий совпадает с порядком фаз
	out := make([]*eventbus.Envelope, 0, len(res.Generated)+len(e.pending)+len(res.Evicted))
	for _, coords := range res.Generated {
		out = append(out, eventbus.NewEnvelope(eventbus.ChunkGenerated, res.Frame, coords))
	}
	out = append(out, e.pending...)
	for _, coords := range res.Evicted {
		out = append(out, eventbus.NewEnvelope(eventbus.ChunkEvicted, res.Frame, coords))
	}
	e.pending = e.pending[:0]

	for _, ev := range out {
		if err := e.events.Publish(ctx, ev); err != nil {
			logging.Warn("событие %s не опубликовано: %v", ev.EventType, err)
			return
		}
	}
}

func (e *Engine) look(players []PlayerInput) map[string]raycast.LookedAt {
	targets := make(map[string]raycast.LookedAt, len(players))
	for _, p := range players {
		if p.Look.Len() == 0 {
			continue
		}
		ray := p.Look.Normalize().Mul(e.rayLength)
		hit, ok := raycast.Cast(e.world, p.Position, ray)
		if e.metrics != nil {
			e.metrics.Raycast(ok)
		}
		if ok {
			targets[p.ID] = hit
		}
	}
	return targets
}
