package block

// Face - класс грани блока при выборе текстуры
type Face uint8

const (
	FaceBase Face = iota // низ блока
	FaceSide             // четыре боковые грани
	FaceTop              // верх блока
)

// Textures - имена текстур атласа для граней блока.
// Пустые Side/Top означают "как Base".
type Textures struct {
	Base string
	Side string
	Top  string
}

// For возвращает имя текстуры для класса грани
func (t Textures) For(face Face) string {
	switch face {
	case FaceSide:
		if t.Side != "" {
			return t.Side
		}
	case FaceTop:
		if t.Top != "" {
			return t.Top
		}
	}
	return t.Base
}

// BlockBehavior определяет свойства типа блока
type BlockBehavior interface {
	ID() BlockID
	Name() string
	Textures() Textures
}

// basicBehavior - блок без особого поведения, описываемый только именем и текстурами
type basicBehavior struct {
	id       BlockID
	name     string
	textures Textures
}

func (b *basicBehavior) ID() BlockID        { return b.id }
func (b *basicBehavior) Name() string       { return b.name }
func (b *basicBehavior) Textures() Textures { return b.textures }

// NewBasic создаёт поведение для простого блока
func NewBasic(id BlockID, name string, textures Textures) BlockBehavior {
	return &basicBehavior{id: id, name: name, textures: textures}
}

// Регистрируем все типы блоков при импорте пакета
func init() {
	Register(EmptyBlockID, NewBasic(EmptyBlockID, "empty", Textures{}))
	Register(DirtBlockID, NewBasic(DirtBlockID, "dirt", Textures{Base: "dirt"}))
	Register(StoneBlockID, NewBasic(StoneBlockID, "stone", Textures{Base: "stone"}))
	Register(SandBlockID, NewBasic(SandBlockID, "sand", Textures{Base: "sand"}))
	Register(WaterBlockID, NewBasic(WaterBlockID, "water", Textures{Base: "water"}))
	// У травы низ - земля, отдельные текстуры для верха и боков
	Register(GrassBlockID, NewBasic(GrassBlockID, "grass", Textures{Base: "dirt", Side: "grass_side", Top: "grass_top"}))
}
