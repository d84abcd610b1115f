package raycast

import (
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon - порог для определителя и параметра t
const Epsilon = 1e-7

// Triangle - треугольник в координатах относительно угла блока
type Triangle struct {
	P0, P1, P2 mgl32.Vec3
}

// FaceTriangle - треугольник грани куба вместе с её направлением
type FaceTriangle struct {
	Triangle
	Dir vec.Dir
}

var blockTriangles = [12]FaceTriangle{
	{Triangle{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{1, 1, 1}}, vec.North},
	{Triangle{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 1}}, vec.North},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{1, 0, 0}}, vec.South},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0}}, vec.South},
	{Triangle{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 1}}, vec.East},
	{Triangle{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{1, 1, 1}}, vec.East},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 1}}, vec.West},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 1}, mgl32.Vec3{0, 1, 0}}, vec.West},
	{Triangle{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 0}}, vec.Up},
	{Triangle{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 1}, mgl32.Vec3{1, 1, 1}}, vec.Up},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 0, 1}}, vec.Down},
	{Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 0, 1}}, vec.Down},
}

// BlockTriangles возвращает 12 треугольников единичного куба, по два на грань
func BlockTriangles() [12]FaceTriangle {
	return blockTriangles
}

// IntersectTriangle - пересечение луча с треугольником (Möller-Trumbore).
// Возвращает точку пересечения, если она лежит впереди начала луча.
func IntersectTriangle(origin, ray mgl32.Vec3, tri Triangle) (mgl32.Vec3, bool) {
	edge1 := tri.P1.Sub(tri.P0)
	edge2 := tri.P2.Sub(tri.P0)

	h := ray.Cross(edge2)
	a := edge1.Dot(h)
	if a > -Epsilon && a < Epsilon {
		// луч параллелен плоскости
		return mgl32.Vec3{}, false
	}

	f := 1 / a
	s := origin.Sub(tri.P0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return mgl32.Vec3{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Dot(q)
	if v < 0 || u+v > 1 {
		return mgl32.Vec3{}, false
	}

	t := f * edge2.Dot(q)
	if t <= Epsilon {
		return mgl32.Vec3{}, false
	}
	return origin.Add(ray.Mul(t)), true
}
