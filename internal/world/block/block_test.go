package block

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIDs(t *testing.T) {
	assert.Equal(t, BlockID(0), EmptyBlockID, "Empty всегда имеет значение 0")
	assert.True(t, EmptyBlockID.IsEmpty())
	assert.False(t, StoneBlockID.IsEmpty())

	for _, id := range All() {
		_, ok := Get(id)
		assert.True(t, ok, "блок %d должен быть зарегистрирован", id)
		assert.True(t, IsValidBlockID(id))
	}
	assert.False(t, IsValidBlockID(BlockID(200)))
}

func TestFromUint32(t *testing.T) {
	assert.Equal(t, GrassBlockID, FromUint32(5))
	assert.Equal(t, EmptyBlockID, FromUint32(0))
	assert.Panics(t, func() { FromUint32(6) }, "неизвестный тег должен приводить к панике")
}

func TestTexturesFor(t *testing.T) {
	grass, ok := Get(GrassBlockID)
	require.True(t, ok)

	tex := grass.Textures()
	assert.Equal(t, "dirt", tex.For(FaceBase))
	assert.Equal(t, "grass_side", tex.For(FaceSide))
	assert.Equal(t, "grass_top", tex.For(FaceTop))

	stone, _ := Get(StoneBlockID)
	assert.Equal(t, "stone", stone.Textures().For(FaceTop))
}

func TestDefaultAtlas(t *testing.T) {
	atlas := DefaultAtlas()

	// пять непустых блоков по три четвёрки углов
	assert.Len(t, atlas.UVs(), 5*12)

	dirt := atlas.UVQuad(DirtBlockID, FaceBase)
	assert.Equal(t, [4]uint16{0, 1, 2, 3}, dirt)

	grassTop := atlas.UVQuad(GrassBlockID, FaceTop)
	grassSide := atlas.UVQuad(GrassBlockID, FaceSide)
	assert.Equal(t, grassSide[0]+4, grassTop[0])

	// верх травы ссылается на прямоугольник grass_top (пятая текстура)
	uvs := atlas.UVs()
	step := float32(1) / float32(len(DefaultTextures))
	assert.InDelta(t, step*4, uvs[grassTop[0]][1], 1e-6)
	assert.InDelta(t, step*5, uvs[grassTop[3]][1], 1e-6)
}

func TestLoadAtlas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	content := `[
		{"name": "dirt", "rect": {"top_left_x": 0, "top_left_y": 0, "down_right_x": 1, "down_right_y": 0.25}},
		{"name": "stone", "rect": {"top_left_x": 0, "top_left_y": 0.25, "down_right_x": 1, "down_right_y": 0.5}},
		{"name": "sand", "rect": {"top_left_x": 0, "top_left_y": 0.5, "down_right_x": 1, "down_right_y": 0.75}},
		{"name": "water", "rect": {"top_left_x": 0, "top_left_y": 0.75, "down_right_x": 1, "down_right_y": 1}},
		{"name": "grass_top", "rect": {"top_left_x": 0, "top_left_y": 0, "down_right_x": 0.5, "down_right_y": 0.5}},
		{"name": "grass_side", "rect": {"top_left_x": 0.5, "top_left_y": 0, "down_right_x": 1, "down_right_y": 0.5}}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	atlas, err := LoadAtlas(path)
	require.NoError(t, err)

	stone := atlas.UVQuad(StoneBlockID, FaceSide)
	uvs := atlas.UVs()
	assert.Equal(t, [2]float32{0, 0.25}, uvs[stone[0]])
	assert.Equal(t, [2]float32{1, 0.5}, uvs[stone[3]])
}

func TestNewAtlas_MissingTexture(t *testing.T) {
	_, err := NewAtlas([]Texture{{Name: "dirt"}})
	assert.Error(t, err, "атлас без нужных текстур должен возвращать ошибку")
}
