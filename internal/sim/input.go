package sim

import (
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// PlayerInput - состояние игрока за один кадр
type PlayerInput struct {
	ID       string
	Position mgl32.Vec3
	// Look - направление взгляда; длина не важна, нулевой вектор - игрок никуда не смотрит
	Look  mgl32.Vec3
	Break bool
	Place bool
	// PlaceBlock - блок для установки, Empty означает камень
	PlaceBlock block.BlockID
}

// Input - всё, что драйвер передаёт в кадр
type Input struct {
	Players   []PlayerInput
	DeltaTime float32
}

// LookVector возвращает единичный вектор взгляда.
// yaw - поворот вокруг оси Y, pitch - наклон вверх; (0, 0) смотрит вдоль +X.
func LookVector(yaw, pitch float32) mgl32.Vec3 {
	q := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{0, 0, 1}))
	return q.Rotate(mgl32.Vec3{1, 0, 0})
}
