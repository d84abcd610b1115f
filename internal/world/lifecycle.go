package world

import (
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/vec"
)

// Радиусы по умолчанию (в чанках). Радиус выгрузки больше радиуса генерации,
// чтобы чанки на границе не пересоздавались каждый кадр.
const (
	DefaultGenerateRadius = 6
	DefaultEvictRadius    = 8
)

// Lifecycle решает, когда чанки генерируются и выгружаются
type Lifecycle struct {
	GenerateRadius int
	EvictRadius    int
}

// DefaultLifecycle возвращает политику с радиусами по умолчанию
func DefaultLifecycle() Lifecycle {
	return Lifecycle{
		GenerateRadius: DefaultGenerateRadius,
		EvictRadius:    DefaultEvictRadius,
	}
}

// Generate создаёт недостающие чанки вокруг игроков.
// players - координаты чанков игроков; генерация столбцовая, Y всегда 0.
// Возвращает координаты созданных чанков.
func (l Lifecycle) Generate(w *World, players []vec.Vec3) []vec.Vec3 {
	var created []vec.Vec3
	r := l.GenerateRadius

	for _, player := range players {
		p := player.WithY(0)
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				coords := vec.Vec3{X: p.X + x, Y: 0, Z: p.Z + z}
				if coords.HorizontalDistance2(p) >= r*r {
					continue
				}
				if _, exists := w.chunks.Get(coords); exists {
					continue
				}

				chunk := w.generator.Generate(coords)
				chunk.MarkFullyDirty()
				w.Insert(chunk)
				created = append(created, coords)
				logging.Debug("генерация чанка %v", coords)
			}
		}
	}
	return created
}

// Evict выгружает чанки, которые дальше EvictRadius от всех игроков.
// Загруженные соседи выгруженного чанка помечаются dirty: их граничные грани снова видны.
func (l Lifecycle) Evict(w *World, players []vec.Vec3) []vec.Vec3 {
	var evicted []vec.Vec3
	limit := l.EvictRadius * l.EvictRadius

	for _, coords := range w.chunks.Coords() {
		keep := false
		for _, player := range players {
			if coords.HorizontalDistance2(player) <= limit {
				keep = true
				break
			}
		}
		if keep {
			continue
		}

		w.Remove(coords)
		evicted = append(evicted, coords)
		logging.Debug("выгрузка чанка %v", coords)
	}

	for _, coords := range evicted {
		for _, d := range vec.Dirs {
			if n, ok := w.Neighbor(coords, d); ok {
				n.MarkDirty()
			}
		}
	}
	return evicted
}

// PropagateNeighbors помечает dirty соседей, затронутых правками на границах чанков,
// и очищает флаги соседей. Возвращает количество помеченных чанков.
func (w *World) PropagateNeighbors() int {
	var toUpdate []*Chunk

	for _, coords := range w.chunks.Coords() {
		c, ok := w.Chunk(coords)
		if !ok || !c.HasNeighborUpdates() {
			continue
		}
		flags := c.NeighborDirty()
		for _, d := range vec.Dirs {
			if !flags[d] {
				continue
			}
			if n, ok := w.Neighbor(coords, d); ok {
				toUpdate = append(toUpdate, n)
			}
		}
		c.ClearNeighborDirty()
	}

	for _, c := range toUpdate {
		c.MarkDirty()
	}
	return len(toUpdate)
}
