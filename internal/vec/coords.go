package vec

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize - длина стороны чанка в блоках
const ChunkSize = 16

// Local - координаты блока внутри чанка, каждая в [0, ChunkSize)
type Local struct {
	X, Y, Z uint8
}

// Index возвращает индекс ячейки в плоском массиве чанка (x*S*S + y*S + z)
func (l Local) Index() int {
	return int(l.X)*ChunkSize*ChunkSize + int(l.Y)*ChunkSize + int(l.Z)
}

// LocalFromIndex - обратное преобразование к Index
func LocalFromIndex(i int) Local {
	return Local{
		X: uint8(i / (ChunkSize * ChunkSize)),
		Y: uint8(i / ChunkSize % ChunkSize),
		Z: uint8(i % ChunkSize),
	}
}

// OnBoundary сообщает, лежит ли ячейка на грани чанка, обращённой в направлении d
func (l Local) OnBoundary(d Dir) bool {
	switch d {
	case North:
		return l.Z == ChunkSize-1
	case South:
		return l.Z == 0
	case East:
		return l.X == ChunkSize-1
	case West:
		return l.X == 0
	case Up:
		return l.Y == ChunkSize-1
	case Down:
		return l.Y == 0
	}
	return false
}

// Mirror возвращает ячейку соседнего чанка, прилегающую к l через грань d
func (l Local) Mirror(d Dir) Local {
	switch d {
	case North, South:
		l.Z = ChunkSize - 1 - l.Z
	case East, West:
		l.X = ChunkSize - 1 - l.X
	case Up, Down:
		l.Y = ChunkSize - 1 - l.Y
	}
	return l
}

// Step возвращает соседнюю ячейку того же чанка.
// Вызывать только если !l.OnBoundary(d).
func (l Local) Step(d Dir) Local {
	o := d.Offset()
	return Local{
		X: uint8(int(l.X) + o.X),
		Y: uint8(int(l.Y) + o.Y),
		Z: uint8(int(l.Z) + o.Z),
	}
}

// FloorToBlock переводит мировую позицию в координаты блока.
// Округление к минус бесконечности: -10.5 → -11, -0.0 → 0.
func FloorToBlock(p mgl32.Vec3) Vec3 {
	return Vec3{
		X: int(math.Floor(float64(p[0]))),
		Y: int(math.Floor(float64(p[1]))),
		Z: int(math.Floor(float64(p[2]))),
	}
}

// ToChunkCoords переводит координаты блока в координаты чанка (деление с округлением вниз)
func (v Vec3) ToChunkCoords() Vec3 {
	return Vec3{X: floorDiv(v.X), Y: floorDiv(v.Y), Z: floorDiv(v.Z)}
}

// LocalInChunk возвращает локальные координаты блока внутри его чанка
func (v Vec3) LocalInChunk() Local {
	return Local{X: floorMod(v.X), Y: floorMod(v.Y), Z: floorMod(v.Z)}
}

// ChunkAndLocal возвращает координаты чанка и локальные координаты блока.
// Для любого v: chunk*ChunkSize + local == v.
func (v Vec3) ChunkAndLocal() (Vec3, Local) {
	return v.ToChunkCoords(), v.LocalInChunk()
}

// FromChunkAndLocal собирает мировые координаты блока обратно
func FromChunkAndLocal(chunk Vec3, local Local) Vec3 {
	return Vec3{
		X: chunk.X*ChunkSize + int(local.X),
		Y: chunk.Y*ChunkSize + int(local.Y),
		Z: chunk.Z*ChunkSize + int(local.Z),
	}
}

// ChunkOf - координаты чанка для мировой позиции с плавающей точкой
func ChunkOf(p mgl32.Vec3) Vec3 {
	return FloorToBlock(p).ToChunkCoords()
}

func floorDiv(a int) int {
	q := a / ChunkSize
	if a%ChunkSize != 0 && a < 0 {
		q--
	}
	return q
}

func floorMod(a int) uint8 {
	r := a % ChunkSize
	if r < 0 {
		r += ChunkSize
	}
	return uint8(r)
}
