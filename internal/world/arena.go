package world

// Handle - стабильный идентификатор чанка в Arena.
// Выдаётся по возрастанию и никогда не переиспользуется.
type Handle uint64

// InvalidHandle не указывает ни на один чанк
const InvalidHandle Handle = 0

// Arena владеет всеми загруженными чанками
type Arena struct {
	chunks     map[Handle]*Chunk
	nextHandle Handle
}

// NewArena создаёт пустую арену
func NewArena() *Arena {
	return &Arena{
		chunks:     make(map[Handle]*Chunk),
		nextHandle: 1,
	}
}

// Alloc помещает чанк в арену и возвращает его handle
func (a *Arena) Alloc(c *Chunk) Handle {
	h := a.nextHandle
	a.nextHandle++
	a.chunks[h] = c
	return h
}

// Get возвращает чанк по handle; после Free handle больше ничего не находит
func (a *Arena) Get(h Handle) (*Chunk, bool) {
	c, ok := a.chunks[h]
	return c, ok
}

// Free уничтожает чанк
func (a *Arena) Free(h Handle) {
	delete(a.chunks, h)
}

// Len возвращает количество живых чанков
func (a *Arena) Len() int {
	return len(a.chunks)
}
