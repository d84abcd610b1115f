package block

import (
	"encoding/json"
	"fmt"
	"os"
)

// MaxUVIndex - наибольший индекс угла, помещающийся в 11 бит упакованной вершины
const MaxUVIndex = 1<<11 - 1

// UVRect - прямоугольник текстуры в нормированных координатах атласа
type UVRect struct {
	TopLeftX   float32 `json:"top_left_x"`
	TopLeftY   float32 `json:"top_left_y"`
	DownRightX float32 `json:"down_right_x"`
	DownRightY float32 `json:"down_right_y"`
}

// Texture - запись карты атласа
type Texture struct {
	Name string `json:"name"`
	Rect UVRect `json:"rect"`
}

// Atlas - таблица углов текстур для всех типов блоков.
// Для каждого блока подряд лежат три четвёрки углов: base, side, top.
type Atlas struct {
	uvs     [][2]float32
	indices map[BlockID]uint16
}

// NewAtlas строит таблицу UV по списку текстур атласа
func NewAtlas(textures []Texture) (*Atlas, error) {
	byName := make(map[string]int, len(textures))
	for i, t := range textures {
		byName[t.Name] = i
	}

	atlas := &Atlas{indices: make(map[BlockID]uint16)}
	for _, id := range All() {
		if id.IsEmpty() {
			continue
		}
		behavior, ok := Get(id)
		if !ok {
			return nil, fmt.Errorf("блок %d не зарегистрирован", id)
		}

		atlas.indices[id] = uint16(len(atlas.uvs))
		tex := behavior.Textures()
		for _, face := range []Face{FaceBase, FaceSide, FaceTop} {
			name := tex.For(face)
			i, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("текстура %q для блока %s не найдена в атласе", name, behavior.Name())
			}
			r := textures[i].Rect
			atlas.uvs = append(atlas.uvs,
				[2]float32{r.TopLeftX, r.TopLeftY},
				[2]float32{r.DownRightX, r.TopLeftY},
				[2]float32{r.TopLeftX, r.DownRightY},
				[2]float32{r.DownRightX, r.DownRightY},
			)
		}
	}

	if len(atlas.uvs)-1 > MaxUVIndex {
		return nil, fmt.Errorf("атлас содержит %d углов, максимум %d", len(atlas.uvs), MaxUVIndex+1)
	}
	return atlas, nil
}

// LoadAtlas читает карту атласа (JSON-массив текстур) из файла
func LoadAtlas(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения карты атласа: %w", err)
	}

	var textures []Texture
	if err := json.Unmarshal(data, &textures); err != nil {
		return nil, fmt.Errorf("ошибка разбора карты атласа %s: %w", path, err)
	}
	return NewAtlas(textures)
}

// DefaultTextures - текстуры одинаковой высоты, уложенные столбиком
var DefaultTextures = []string{"dirt", "stone", "sand", "water", "grass_top", "grass_side"}

// DefaultAtlas строит атлас для встроенной раскладки DefaultTextures
func DefaultAtlas() *Atlas {
	step := 1 / float32(len(DefaultTextures))
	textures := make([]Texture, len(DefaultTextures))
	for i, name := range DefaultTextures {
		textures[i] = Texture{
			Name: name,
			Rect: UVRect{TopLeftX: 0, TopLeftY: step * float32(i), DownRightX: 1, DownRightY: step * float32(i+1)},
		}
	}

	atlas, err := NewAtlas(textures)
	if err != nil {
		panic(err)
	}
	return atlas
}

// UVQuad возвращает индексы четырёх углов (TL, TR, BL, BR) для грани блока
func (a *Atlas) UVQuad(id BlockID, face Face) [4]uint16 {
	base := a.indices[id] + uint16(face)*4
	return [4]uint16{base, base + 1, base + 2, base + 3}
}

// UVs возвращает плоский список углов, индексируемый значениями из UVQuad
func (a *Atlas) UVs() [][2]float32 {
	return a.uvs
}
