package world

import (
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// World объединяет арену чанков и пространственный индекс.
// Не потокобезопасен: все изменения выполняются в фазе обновления кадра.
type World struct {
	arena     *Arena
	chunks    *ChunkMap
	generator Generator
}

// NewWorld создаёт пустой мир с указанным генератором
func NewWorld(generator Generator) *World {
	if generator == nil {
		generator = FlatGenerator{Block: block.GrassBlockID}
	}
	return &World{
		arena:     NewArena(),
		chunks:    NewChunkMap(),
		generator: generator,
	}
}

// Map возвращает пространственный индекс
func (w *World) Map() *ChunkMap {
	return w.chunks
}

// Arena возвращает хранилище чанков
func (w *World) Arena() *Arena {
	return w.arena
}

// Generator возвращает генератор новых чанков
func (w *World) Generator() Generator {
	return w.generator
}

// Chunk возвращает загруженный чанк по координатам чанка
func (w *World) Chunk(coords vec.Vec3) (*Chunk, bool) {
	h, ok := w.chunks.Get(coords)
	if !ok {
		return nil, false
	}
	return w.arena.Get(h)
}

// Neighbor возвращает загруженного соседа чанка в направлении d
func (w *World) Neighbor(coords vec.Vec3, d vec.Dir) (*Chunk, bool) {
	h, ok := w.chunks.Neighbor(coords, d)
	if !ok {
		return nil, false
	}
	return w.arena.Get(h)
}

// Insert добавляет чанк в мир. Существующий чанк с теми же координатами уничтожается.
func (w *World) Insert(c *Chunk) Handle {
	if old, ok := w.chunks.Get(c.Coords); ok {
		w.arena.Free(old)
	}
	h := w.arena.Alloc(c)
	w.chunks.Insert(c.Coords, h)
	return h
}

// Remove выгружает чанк. Возвращает false, если чанка не было.
func (w *World) Remove(coords vec.Vec3) bool {
	h, ok := w.chunks.Get(coords)
	if !ok {
		return false
	}
	w.chunks.Remove(coords)
	w.arena.Free(h)
	return true
}

// Block возвращает блок по мировым координатам; для незагруженных чанков - Empty
func (w *World) Block(coords vec.Vec3) block.BlockID {
	chunkCoords, local := coords.ChunkAndLocal()
	c, ok := w.Chunk(chunkCoords)
	if !ok {
		return block.EmptyBlockID
	}
	return c.GetBlock(local)
}

// SetBlock устанавливает блок по мировым координатам.
// Возвращает false, если чанк не загружен или значение не изменилось.
func (w *World) SetBlock(coords vec.Vec3, id block.BlockID) bool {
	chunkCoords, local := coords.ChunkAndLocal()
	c, ok := w.Chunk(chunkCoords)
	if !ok {
		return false
	}
	return c.SetBlock(local, id)
}

// Len возвращает количество загруженных чанков
func (w *World) Len() int {
	return w.chunks.Len()
}

// Coords возвращает координаты всех загруженных чанков в детерминированном порядке
func (w *World) Coords() []vec.Vec3 {
	return w.chunks.Coords()
}

// DirtyCoords возвращает координаты чанков, ожидающих перестроения меша
func (w *World) DirtyCoords() []vec.Vec3 {
	var dirty []vec.Vec3
	for _, coords := range w.chunks.Coords() {
		if c, ok := w.Chunk(coords); ok && c.Dirty() {
			dirty = append(dirty, coords)
		}
	}
	return dirty
}
