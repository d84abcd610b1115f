package world

import (
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// ChunkVolume - количество ячеек в чанке
const ChunkVolume = vec.ChunkSize * vec.ChunkSize * vec.ChunkSize

// Chunk представляет кубический участок мира 16x16x16 блоков.
// Чанком владеет Arena; снаружи на него ссылаются по координатам.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка (в чанках, не в блоках)

	blocks [ChunkVolume]block.BlockID // плоский массив, индекс x*S*S + y*S + z

	dirty         bool               // меш нужно перестроить
	neighborDirty [vec.DirCount]bool // соседи, которых нужно пометить dirty
}

// NewChunk создаёт пустой чанк с указанными координатами
func NewChunk(coords vec.Vec3) *Chunk {
	return &Chunk{Coords: coords}
}

// GetBlock возвращает тип блока по локальным координатам
func (c *Chunk) GetBlock(local vec.Local) block.BlockID {
	return c.blocks[local.Index()]
}

// SetBlock устанавливает блок по локальным координатам.
// Если значение не изменилось, флаги не трогаются. Возвращает true при изменении.
func (c *Chunk) SetBlock(local vec.Local, id block.BlockID) bool {
	i := local.Index()
	if c.blocks[i] == id {
		return false
	}

	c.blocks[i] = id
	c.dirty = true
	for _, d := range vec.Dirs {
		if local.OnBoundary(d) {
			c.neighborDirty[d] = true
		}
	}
	return true
}

// Fill заполняет весь чанк одним типом блока без учёта флагов (для генерации)
func (c *Chunk) Fill(id block.BlockID) {
	for i := range c.blocks {
		c.blocks[i] = id
	}
}

// MarkFullyDirty помечает чанк и всех его соседей для перестроения меша
func (c *Chunk) MarkFullyDirty() {
	c.dirty = true
	for i := range c.neighborDirty {
		c.neighborDirty[i] = true
	}
}

// Dirty возвращает true, если меш чанка нужно перестроить
func (c *Chunk) Dirty() bool {
	return c.dirty
}

// MarkDirty помечает чанк для перестроения меша
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// ClearDirty снимает флаг перестроения
func (c *Chunk) ClearDirty() {
	c.dirty = false
}

// NeighborDirty возвращает флаги соседей, индексированные по vec.Dir
func (c *Chunk) NeighborDirty() [vec.DirCount]bool {
	return c.neighborDirty
}

// HasNeighborUpdates сообщает, есть ли хотя бы один помеченный сосед
func (c *Chunk) HasNeighborUpdates() bool {
	for _, flagged := range c.neighborDirty {
		if flagged {
			return true
		}
	}
	return false
}

// ClearNeighborDirty очищает флаги соседей
func (c *Chunk) ClearNeighborDirty() {
	c.neighborDirty = [vec.DirCount]bool{}
}

// SolidCount возвращает количество непустых ячеек
func (c *Chunk) SolidCount() int {
	n := 0
	for _, id := range c.blocks {
		if !id.IsEmpty() {
			n++
		}
	}
	return n
}

// IsEmpty возвращает true, если в чанке нет ни одного блока
func (c *Chunk) IsEmpty() bool {
	return c.SolidCount() == 0
}
