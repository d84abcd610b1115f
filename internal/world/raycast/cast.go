package raycast

import (
	"math"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRange - дальность взаимодействия в мировых единицах
const DefaultRange = 5

// LookedAt - результат луча за текущий кадр
type LookedAt struct {
	Intersection mgl32.Vec3 `json:"intersection"`
	Coords       vec.Vec3   `json:"coords"`
	Dir          vec.Dir    `json:"dir"`
}

// Adjacent возвращает ячейку перед гранью, куда ставится новый блок
func (l LookedAt) Adjacent() vec.Vec3 {
	return l.Coords.Add(l.Dir.Offset())
}

// Cast ищет ближайший блок, пересекаемый лучом.
// ray - направление, умноженное на дальность. Проверяется куб ячеек
// [origin-len, origin+len] по каждой оси, где len = ceil(|ray|).
func Cast(w *world.World, origin, ray mgl32.Vec3) (LookedAt, bool) {
	n := int(math.Ceil(float64(ray.Len())))
	center := vec.FloorToBlock(origin)

	var (
		nearest LookedAt
		found   bool
		best    float32
	)
	for x := center.X - n; x <= center.X+n; x++ {
		for y := center.Y - n; y <= center.Y+n; y++ {
			for z := center.Z - n; z <= center.Z+n; z++ {
				coords := vec.New(x, y, z)
				chunkCoords, local := coords.ChunkAndLocal()
				c, ok := w.Chunk(chunkCoords)
				if !ok || c.GetBlock(local).IsEmpty() {
					continue
				}

				corner := coords.ToFloat()
				rel := origin.Sub(corner)
				for _, ft := range blockTriangles {
					p, ok := IntersectTriangle(rel, ray, ft.Triangle)
					if !ok {
						continue
					}
					p = p.Add(corner)
					d := p.Sub(origin)
					dist := d.Dot(d)
					if !found || dist < best {
						nearest = LookedAt{Intersection: p, Coords: coords, Dir: ft.Dir}
						best = dist
						found = true
					}
				}
			}
		}
	}
	return nearest, found
}
