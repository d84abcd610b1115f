package mesh

import (
	"sync"

	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
)

// DefaultBudget - сколько чанков перестраивается за кадр
const DefaultBudget = 6

// Cache хранит последние построенные сетки. Слайс вершин после Put не изменяется,
// поэтому читатели могут держать его без блокировки.
type Cache struct {
	mu     sync.RWMutex
	meshes map[vec.Vec3][]Vertex
}

// NewCache создаёт пустой кэш сеток
func NewCache() *Cache {
	return &Cache{meshes: make(map[vec.Vec3][]Vertex)}
}

// Get возвращает сетку чанка
func (c *Cache) Get(coords vec.Vec3) ([]Vertex, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.meshes[coords]
	return m, ok
}

// Put заменяет сетку чанка
func (c *Cache) Put(coords vec.Vec3, vertices []Vertex) {
	c.mu.Lock()
	c.meshes[coords] = vertices
	c.mu.Unlock()
}

// Drop удаляет сетку выгруженного чанка
func (c *Cache) Drop(coords vec.Vec3) {
	c.mu.Lock()
	delete(c.meshes, coords)
	c.mu.Unlock()
}

// Len возвращает количество сеток в кэше
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meshes)
}

// TotalVertices возвращает суммарное число вершин во всех сетках
func (c *Cache) TotalVertices() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, m := range c.meshes {
		total += len(m)
	}
	return total
}

// Scheduler перестраивает грязные чанки с ограничением на кадр
type Scheduler struct {
	Builder *Builder
	Cache   *Cache
	Budget  int
}

// NewScheduler создаёт планировщик. budget <= 0 означает DefaultBudget,
// nil builder и cache заменяются значениями по умолчанию.
func NewScheduler(builder *Builder, cache *Cache, budget int) *Scheduler {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if builder == nil {
		builder = NewBuilder(nil)
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Scheduler{Builder: builder, Cache: cache, Budget: budget}
}

// Run перестраивает до Budget грязных чанков в детерминированном порядке
// и снимает с них флаг dirty. Остальные ждут следующего кадра.
func (s *Scheduler) Run(w *world.World) []vec.Vec3 {
	dirty := w.DirtyCoords()
	if len(dirty) > s.Budget {
		dirty = dirty[:s.Budget]
	}

	for _, coords := range dirty {
		c, ok := w.Chunk(coords)
		if !ok {
			continue
		}
		vertices := s.Builder.Build(w, c)
		s.Cache.Put(coords, vertices)
		c.ClearDirty()
		logging.Trace("Сетка чанка %v перестроена: %d вершин", coords, len(vertices))
	}
	return dirty
}

// Pending возвращает количество чанков, ожидающих перестроения
func (s *Scheduler) Pending(w *world.World) int {
	return len(w.DirtyCoords())
}
