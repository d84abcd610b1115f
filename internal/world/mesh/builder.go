package mesh

import (
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/annel0/voxel-core/internal/world/block"
)

// VerticesPerFace - грань выводится двумя треугольниками
const VerticesPerFace = 6

// corner - вершина шаблона грани: смещение от угла блока и номер угла UV (TL, TR, BL, BR)
type corner struct {
	dx, dy, dz uint8
	uv         uint8
}

// faceCorners задаёт порядок вершин для каждой грани, индексируется vec.Dir
var faceCorners = [vec.DirCount][VerticesPerFace]corner{
	vec.North: {{0, 0, 1, 2}, {1, 0, 1, 3}, {1, 1, 1, 1}, {0, 0, 1, 2}, {1, 1, 1, 1}, {0, 1, 1, 0}},
	vec.South: {{0, 0, 0, 2}, {1, 1, 0, 1}, {1, 0, 0, 3}, {0, 0, 0, 2}, {0, 1, 0, 0}, {1, 1, 0, 1}},
	vec.East:  {{1, 0, 0, 2}, {1, 1, 1, 1}, {1, 0, 1, 3}, {1, 0, 0, 2}, {1, 1, 0, 0}, {1, 1, 1, 1}},
	vec.West:  {{0, 0, 0, 2}, {0, 0, 1, 3}, {0, 1, 1, 1}, {0, 0, 0, 2}, {0, 1, 1, 1}, {0, 1, 0, 0}},
	vec.Up:    {{0, 1, 0, 0}, {1, 1, 1, 3}, {1, 1, 0, 2}, {0, 1, 0, 0}, {0, 1, 1, 1}, {1, 1, 1, 3}},
	vec.Down:  {{0, 0, 0, 0}, {1, 0, 0, 2}, {1, 0, 1, 3}, {0, 0, 0, 0}, {1, 0, 1, 3}, {0, 0, 1, 1}},
}

// FaceOf возвращает класс текстуры для грани в направлении d
func FaceOf(d vec.Dir) block.Face {
	switch d {
	case vec.Up:
		return block.FaceTop
	case vec.Down:
		return block.FaceBase
	default:
		return block.FaceSide
	}
}

// Builder строит сетку видимых граней чанка
type Builder struct {
	atlas *block.Atlas
}

// NewBuilder создаёт построитель с указанным атласом. nil - атлас по умолчанию.
func NewBuilder(atlas *block.Atlas) *Builder {
	if atlas == nil {
		atlas = block.DefaultAtlas()
	}
	return &Builder{atlas: atlas}
}

// Atlas возвращает атлас построителя
func (b *Builder) Atlas() *block.Atlas {
	return b.atlas
}

// Build выводит вершины всех видимых граней чанка.
// Порядок: x, затем y, затем z, внутри ячейки - направления по порядку vec.Dir.
// Грань на границе чанка видима, если соседний чанк не загружен.
func (b *Builder) Build(w *world.World, c *world.Chunk) []Vertex {
	var neighbors [vec.DirCount]*world.Chunk
	for _, d := range vec.Dirs {
		if n, ok := w.Neighbor(c.Coords, d); ok {
			neighbors[d] = n
		}
	}

	var out []Vertex
	for i := 0; i < world.ChunkVolume; i++ {
		local := vec.LocalFromIndex(i)
		id := c.GetBlock(local)
		if id.IsEmpty() {
			continue
		}
		for _, d := range vec.Dirs {
			if !faceVisible(c, &neighbors, local, d) {
				continue
			}
			out = b.appendFace(out, local, id, d)
		}
	}
	return out
}

func faceVisible(c *world.Chunk, neighbors *[vec.DirCount]*world.Chunk, local vec.Local, d vec.Dir) bool {
	if !local.OnBoundary(d) {
		return c.GetBlock(local.Step(d)).IsEmpty()
	}
	n := neighbors[d]
	if n == nil {
		return true
	}
	return n.GetBlock(local.Mirror(d)).IsEmpty()
}

func (b *Builder) appendFace(out []Vertex, local vec.Local, id block.BlockID, d vec.Dir) []Vertex {
	uvs := b.atlas.UVQuad(id, FaceOf(d))
	for _, cr := range faceCorners[d] {
		out = append(out, Pack(local.X+cr.dx, local.Y+cr.dy, local.Z+cr.dz, d, uvs[cr.uv]))
	}
	return out
}
