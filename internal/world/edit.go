package world

import (
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// BreakBlock удаляет блок по мировым координатам.
// Возвращает false, если чанк не загружен или блок уже пуст.
func (w *World) BreakBlock(coords vec.Vec3) bool {
	return w.SetBlock(coords, block.EmptyBlockID)
}

// PlaceBlock ставит блок по мировым координатам.
// Если чанка ещё нет, создаётся пустой чанк и блок ставится в него.
func (w *World) PlaceBlock(coords vec.Vec3, id block.BlockID) bool {
	chunkCoords, local := coords.ChunkAndLocal()
	if c, ok := w.Chunk(chunkCoords); ok {
		return c.SetBlock(local, id)
	}

	c := NewChunk(chunkCoords)
	changed := c.SetBlock(local, id)
	w.Insert(c)
	return changed
}
