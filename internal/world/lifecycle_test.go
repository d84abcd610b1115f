package world

import (
	"testing"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_GenerateAroundPlayer(t *testing.T) {
	w := NewWorld(FlatGenerator{Block: block.GrassBlockID})
	l := DefaultLifecycle()

	created := l.Generate(w, []vec.Vec3{vec.New(0, 3, 0)})
	require.NotEmpty(t, created)
	assert.Equal(t, len(created), w.Len())

	r := l.GenerateRadius
	for _, coords := range w.Coords() {
		assert.Equal(t, 0, coords.Y, "генерация столбцовая, Y всегда 0")
		assert.Less(t, coords.HorizontalDistance2(vec.New(0, 0, 0)), r*r)

		c, _ := w.Chunk(coords)
		assert.True(t, c.Dirty(), "новый чанк требует построения меша")
		for _, d := range vec.Dirs {
			assert.True(t, c.NeighborDirty()[d])
		}
	}

	_, ok := w.Chunk(vec.New(r, 0, 0))
	assert.False(t, ok, "чанк на расстоянии ровно R не генерируется")
	_, ok = w.Chunk(vec.New(r-1, 0, 0))
	assert.True(t, ok)

	// повторный вызов ничего не создаёт
	assert.Empty(t, l.Generate(w, []vec.Vec3{vec.New(0, 0, 0)}))
}

func TestLifecycle_GenerateDoesNotOverwrite(t *testing.T) {
	w := NewWorld(FlatGenerator{Block: block.GrassBlockID})
	existing := NewChunk(vec.New(0, 0, 0))
	w.Insert(existing)

	DefaultLifecycle().Generate(w, []vec.Vec3{vec.New(0, 0, 0)})

	c, _ := w.Chunk(vec.New(0, 0, 0))
	assert.Same(t, existing, c, "существующий чанк не должен пересоздаваться")
	assert.True(t, c.IsEmpty())
}

func TestLifecycle_EvictionHysteresis(t *testing.T) {
	w := NewWorld(FlatGenerator{Block: block.StoneBlockID})
	l := DefaultLifecycle()

	l.Generate(w, []vec.Vec3{vec.New(0, 0, 0)})
	target := vec.New(5, 0, 0)
	_, ok := w.Chunk(target)
	require.True(t, ok)

	// игрок отошёл: расстояние 7 > R, но ≤ R_evict
	player := vec.New(-2, 0, 0)
	assert.Empty(t, containing(l.Evict(w, []vec.Vec3{player}), target))
	_, ok = w.Chunk(target)
	assert.True(t, ok, "чанк в зоне гистерезиса не выгружается")

	// ровно R_evict - ещё держим
	player = vec.New(-3, 0, 0)
	l.Evict(w, []vec.Vec3{player})
	_, ok = w.Chunk(target)
	assert.True(t, ok)

	// дальше R_evict - выгружаем
	player = vec.New(-4, 0, 0)
	evicted := l.Evict(w, []vec.Vec3{player})
	assert.NotEmpty(t, containing(evicted, target))
	_, ok = w.Chunk(target)
	assert.False(t, ok)
}

func TestLifecycle_EvictionMarksNeighbors(t *testing.T) {
	w := NewWorld(nil)
	near := NewChunk(vec.New(8, 0, 0))
	far := NewChunk(vec.New(9, 0, 0))
	w.Insert(near)
	w.Insert(far)

	evicted := DefaultLifecycle().Evict(w, []vec.Vec3{vec.New(0, 0, 0)})

	assert.Equal(t, []vec.Vec3{vec.New(9, 0, 0)}, evicted)
	assert.True(t, near.Dirty(), "сосед выгруженного чанка должен перестроить границу")
}

func TestLifecycle_EvictWithoutPlayers(t *testing.T) {
	w := NewWorld(nil)
	w.Insert(NewChunk(vec.New(0, 0, 0)))

	assert.Len(t, DefaultLifecycle().Evict(w, nil), 1)
	assert.Equal(t, 0, w.Len())
}

func TestPropagateNeighbors(t *testing.T) {
	w := NewWorld(nil)
	center := NewChunk(vec.New(0, 0, 0))
	west := NewChunk(vec.New(-1, 0, 0))
	east := NewChunk(vec.New(1, 0, 0))
	w.Insert(center)
	w.Insert(west)
	w.Insert(east)

	// правка на западной грани; сверху соседа нет
	center.SetBlock(vec.Local{X: 0, Y: 15, Z: 4}, block.StoneBlockID)

	marked := w.PropagateNeighbors()

	assert.Equal(t, 1, marked)
	assert.True(t, west.Dirty())
	assert.False(t, east.Dirty())
	assert.False(t, center.HasNeighborUpdates(), "флаги соседей очищаются")

	assert.Equal(t, 0, w.PropagateNeighbors())
}

func containing(list []vec.Vec3, v vec.Vec3) []vec.Vec3 {
	var out []vec.Vec3
	for _, c := range list {
		if c == v {
			out = append(out, c)
		}
	}
	return out
}
