package world

import (
	"testing"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	coords := vec.New(5, 0, -3)
	chunk := NewChunk(coords)

	assert.Equal(t, coords, chunk.Coords, "координаты чанка должны сохраниться")
	assert.True(t, chunk.IsEmpty(), "новый чанк должен быть пустым")
	assert.False(t, chunk.Dirty(), "новый чанк не должен требовать перестроения")

	pos := vec.Local{X: 3, Y: 4, Z: 5}
	assert.Equal(t, block.EmptyBlockID, chunk.GetBlock(pos))

	assert.True(t, chunk.SetBlock(pos, block.StoneBlockID))
	assert.Equal(t, block.StoneBlockID, chunk.GetBlock(pos))
	assert.Equal(t, 1, chunk.SolidCount())
}

func TestChunkSetBlock_InteriorFlags(t *testing.T) {
	chunk := NewChunk(vec.New(0, 0, 0))

	chunk.SetBlock(vec.Local{X: 7, Y: 7, Z: 7}, block.DirtBlockID)

	assert.True(t, chunk.Dirty(), "изменение блока должно помечать чанк")
	assert.False(t, chunk.HasNeighborUpdates(), "внутренняя правка не затрагивает соседей")
}

func TestChunkSetBlock_BoundaryFlags(t *testing.T) {
	chunk := NewChunk(vec.New(0, 0, 0))

	// угол (0, 15, 0): западная, верхняя и южная грани
	chunk.SetBlock(vec.Local{X: 0, Y: 15, Z: 0}, block.DirtBlockID)

	flags := chunk.NeighborDirty()
	assert.True(t, flags[vec.West])
	assert.True(t, flags[vec.Up])
	assert.True(t, flags[vec.South])
	assert.False(t, flags[vec.East])
	assert.False(t, flags[vec.Down])
	assert.False(t, flags[vec.North])

	chunk.ClearNeighborDirty()
	assert.False(t, chunk.HasNeighborUpdates())

	chunk.SetBlock(vec.Local{X: 15, Y: 3, Z: 15}, block.DirtBlockID)
	flags = chunk.NeighborDirty()
	assert.True(t, flags[vec.East])
	assert.True(t, flags[vec.North])
	assert.False(t, flags[vec.West])
}

func TestChunkSetBlock_SameValueIsNoop(t *testing.T) {
	chunk := NewChunk(vec.New(0, 0, 0))
	pos := vec.Local{X: 0, Y: 0, Z: 0}

	assert.False(t, chunk.SetBlock(pos, block.EmptyBlockID), "запись того же значения не меняет чанк")
	assert.False(t, chunk.Dirty())
	assert.False(t, chunk.HasNeighborUpdates())

	chunk.SetBlock(pos, block.SandBlockID)
	chunk.ClearDirty()
	chunk.ClearNeighborDirty()

	assert.False(t, chunk.SetBlock(pos, block.SandBlockID))
	assert.False(t, chunk.Dirty(), "повторная запись не должна помечать чанк")
	assert.False(t, chunk.HasNeighborUpdates())
}

func TestChunkFillAndMarkFullyDirty(t *testing.T) {
	chunk := NewChunk(vec.New(1, 0, 1))
	chunk.Fill(block.GrassBlockID)

	assert.Equal(t, ChunkVolume, chunk.SolidCount())
	assert.False(t, chunk.Dirty(), "Fill не трогает флаги")

	chunk.MarkFullyDirty()
	assert.True(t, chunk.Dirty())
	for _, d := range vec.Dirs {
		assert.True(t, chunk.NeighborDirty()[d], "сосед %v должен быть помечен", d)
	}
}

func TestArenaHandlesAreNotReused(t *testing.T) {
	arena := NewArena()

	h1 := arena.Alloc(NewChunk(vec.New(0, 0, 0)))
	h2 := arena.Alloc(NewChunk(vec.New(1, 0, 0)))
	assert.NotEqual(t, InvalidHandle, h1)
	assert.NotEqual(t, h1, h2)

	arena.Free(h1)
	_, ok := arena.Get(h1)
	assert.False(t, ok, "освобождённый handle ничего не находит")

	h3 := arena.Alloc(NewChunk(vec.New(2, 0, 0)))
	assert.NotEqual(t, h1, h3, "handle не переиспользуется")
	assert.Equal(t, 2, arena.Len())
}

func TestChunkMap(t *testing.T) {
	m := NewChunkMap()

	_, ok := m.Get(vec.New(0, 0, 0))
	assert.False(t, ok)

	m.Insert(vec.New(0, 0, 0), 1)
	m.Insert(vec.New(0, 0, 1), 2)
	m.Insert(vec.New(-1, 0, 0), 3)

	h, ok := m.Neighbor(vec.New(0, 0, 0), vec.North)
	assert.True(t, ok)
	assert.Equal(t, Handle(2), h)

	_, ok = m.Neighbor(vec.New(0, 0, 0), vec.Up)
	assert.False(t, ok)

	// перезапись без предупреждения
	m.Insert(vec.New(0, 0, 0), 7)
	h, _ = m.Get(vec.New(0, 0, 0))
	assert.Equal(t, Handle(7), h)

	h, ok = m.GetFromBlock(vec.New(-1, 5, 3))
	assert.True(t, ok)
	assert.Equal(t, Handle(3), h)

	assert.Equal(t, []vec.Vec3{vec.New(-1, 0, 0), vec.New(0, 0, 0), vec.New(0, 0, 1)}, m.Coords())

	m.Remove(vec.New(0, 0, 1))
	assert.Equal(t, 2, m.Len())
}
