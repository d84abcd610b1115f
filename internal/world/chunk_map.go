package world

import (
	"sort"

	"github.com/annel0/voxel-core/internal/vec"
)

// ChunkMap - пространственный индекс: координаты чанка → handle.
// Отсутствие ключа означает "не сгенерирован", а не "пустой".
type ChunkMap struct {
	chunks map[vec.Vec3]Handle
}

// NewChunkMap создаёт пустую карту
func NewChunkMap() *ChunkMap {
	return &ChunkMap{chunks: make(map[vec.Vec3]Handle)}
}

// Get возвращает handle чанка по его координатам
func (m *ChunkMap) Get(coords vec.Vec3) (Handle, bool) {
	h, ok := m.chunks[coords]
	return h, ok
}

// GetFromBlock возвращает handle чанка, содержащего блок с мировыми координатами
func (m *ChunkMap) GetFromBlock(blockCoords vec.Vec3) (Handle, bool) {
	return m.Get(blockCoords.ToChunkCoords())
}

// Insert записывает handle; занятый ключ перезаписывается
func (m *ChunkMap) Insert(coords vec.Vec3, h Handle) {
	m.chunks[coords] = h
}

// Remove удаляет запись
func (m *ChunkMap) Remove(coords vec.Vec3) {
	delete(m.chunks, coords)
}

// Neighbor возвращает handle соседа в направлении d
func (m *ChunkMap) Neighbor(coords vec.Vec3, d vec.Dir) (Handle, bool) {
	return m.Get(coords.Add(d.Offset()))
}

// Len возвращает количество записей
func (m *ChunkMap) Len() int {
	return len(m.chunks)
}

// Coords возвращает все ключи, отсортированные по (x, y, z)
func (m *ChunkMap) Coords() []vec.Vec3 {
	coords := make([]vec.Vec3, 0, len(m.chunks))
	for c := range m.chunks {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}
