package vec

import "fmt"

// Dir - одно из шести осевых направлений.
// Порядковые номера стабильны: они упаковываются в вершины и индексируют массивы соседей.
type Dir uint8

const (
	North Dir = iota // +Z
	South            // -Z
	East             // +X
	West             // -X
	Up               // +Y
	Down             // -Y
)

// DirCount - количество направлений
const DirCount = 6

// Dirs перечисляет направления в порядке их номеров
var Dirs = [DirCount]Dir{North, South, East, West, Up, Down}

var dirOffsets = [DirCount]Vec3{
	North: {X: 0, Y: 0, Z: 1},
	South: {X: 0, Y: 0, Z: -1},
	East:  {X: 1, Y: 0, Z: 0},
	West:  {X: -1, Y: 0, Z: 0},
	Up:    {X: 0, Y: 1, Z: 0},
	Down:  {X: 0, Y: -1, Z: 0},
}

var dirNames = [DirCount]string{"north", "south", "east", "west", "up", "down"}

// DirFromUint8 восстанавливает направление из порядкового номера.
// Неизвестный номер - ошибка данных, поэтому паника.
func DirFromUint8(n uint8) Dir {
	if n >= DirCount {
		panic(fmt.Sprintf("vec: invalid direction ordinal %d", n))
	}
	return Dir(n)
}

// Offset возвращает единичный вектор направления
func (d Dir) Offset() Vec3 {
	return dirOffsets[d]
}

// Opposite возвращает противоположное направление
func (d Dir) Opposite() Dir {
	// пары идут подряд: North/South, East/West, Up/Down
	return d ^ 1
}

func (d Dir) String() string {
	if d >= DirCount {
		return fmt.Sprintf("dir(%d)", uint8(d))
	}
	return dirNames[d]
}

// MarshalText позволяет отдавать направление в JSON строкой
func (d Dir) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText разбирает имя направления
func (d *Dir) UnmarshalText(text []byte) error {
	for i, name := range dirNames {
		if name == string(text) {
			*d = Dir(i)
			return nil
		}
	}
	return fmt.Errorf("vec: unknown direction %q", text)
}
