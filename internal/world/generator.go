package world

import (
	"github.com/annel0/voxel-core/internal/util"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// Generator создаёт содержимое нового чанка
type Generator interface {
	Generate(coords vec.Vec3) *Chunk
}

// FlatGenerator заполняет чанк целиком одним типом блока
type FlatGenerator struct {
	Block block.BlockID
}

// Generate создаёт сплошной чанк
func (g FlatGenerator) Generate(coords vec.Vec3) *Chunk {
	chunk := NewChunk(coords)
	chunk.Fill(g.Block)
	return chunk
}

// Константы рельефа по умолчанию (в блоках)
const (
	DefaultBaseHeight = 2
	DefaultAmplitude  = 12
	DefaultSeaLevel   = 5
	dirtDepth         = 3
)

// PerlinGenerator строит рельеф по карте высот из шума Перлина
type PerlinGenerator struct {
	NoiseScale float64 // Масштаб шума (сглаженность ландшафта)
	BaseHeight int     // Минимальная высота поверхности
	Amplitude  int     // Разброс высот над BaseHeight
	SeaLevel   int     // Ниже этой высоты пустые ячейки заполняются водой

	noise *util.Noise
}

// NewPerlinGenerator создаёт генератор рельефа
func NewPerlinGenerator(seed int64) *PerlinGenerator {
	return &PerlinGenerator{
		NoiseScale: 0.05,
		BaseHeight: DefaultBaseHeight,
		Amplitude:  DefaultAmplitude,
		SeaLevel:   DefaultSeaLevel,
		noise:      util.NewNoise(seed),
	}
}

// HeightAt возвращает высоту поверхности для столбца (x, z) в мировых координатах
func (g *PerlinGenerator) HeightAt(x, z int) int {
	n := g.noise.Noise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale)
	return g.BaseHeight + int(n*float64(g.Amplitude))
}

// Generate заполняет чанк по карте высот
func (g *PerlinGenerator) Generate(coords vec.Vec3) *Chunk {
	chunk := NewChunk(coords)
	origin := coords.Scale(vec.ChunkSize)

	for x := 0; x < vec.ChunkSize; x++ {
		for z := 0; z < vec.ChunkSize; z++ {
			height := g.HeightAt(origin.X+x, origin.Z+z)
			for y := 0; y < vec.ChunkSize; y++ {
				id := g.blockAt(origin.Y+y, height)
				if id.IsEmpty() {
					continue
				}
				chunk.blocks[vec.Local{X: uint8(x), Y: uint8(y), Z: uint8(z)}.Index()] = id
			}
		}
	}
	return chunk
}

// blockAt выбирает блок для высоты y в столбце с поверхностью height
func (g *PerlinGenerator) blockAt(y, height int) block.BlockID {
	beach := height <= g.SeaLevel+1

	switch {
	case y > height:
		if y <= g.SeaLevel {
			return block.WaterBlockID
		}
		return block.EmptyBlockID
	case y == height:
		if beach {
			return block.SandBlockID
		}
		return block.GrassBlockID
	case y > height-dirtDepth:
		if beach {
			return block.SandBlockID
		}
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}
