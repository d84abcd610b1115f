package block

import "fmt"

var registry = make(map[BlockID]BlockBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	return id < blockCount
}

// BlockID представляет тип блока. Хранится плотно, по одному байту на ячейку.
type BlockID uint8

// Константы ID блоков. EmptyBlockID всегда 0.
const (
	EmptyBlockID BlockID = iota // 0 - нет геометрии, прозрачен для луча
	DirtBlockID                 // 1
	StoneBlockID                // 2
	SandBlockID                 // 3
	WaterBlockID                // 4
	GrassBlockID                // 5

	blockCount
)

// All перечисляет все типы блоков в порядке ID
func All() []BlockID {
	ids := make([]BlockID, 0, blockCount)
	for id := BlockID(0); id < blockCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// FromUint32 восстанавливает тип блока из числового тега.
// Неизвестный тег означает испорченные данные: паникуем сразу.
func FromUint32(n uint32) BlockID {
	if n >= uint32(blockCount) {
		panic(fmt.Sprintf("conversion from uint32 (%d) to BlockID failed", n))
	}
	return BlockID(n)
}

// IsEmpty сообщает, является ли блок пустым
func (id BlockID) IsEmpty() bool {
	return id == EmptyBlockID
}

func (id BlockID) String() string {
	if behavior, ok := Get(id); ok {
		return behavior.Name()
	}
	return fmt.Sprintf("block(%d)", uint8(id))
}
