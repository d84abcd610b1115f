package api

import (
	"net/http"
	"strconv"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/mesh"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
)

// Заголовки ответа /api/chunks/mesh
const (
	MeshContentType   = "application/zstd"
	VertexCountHeader = "X-Vertex-Count"
)

// meshEncoder сжимает упакованные вершины. EncodeAll безопасен для конкурентного вызова.
type meshEncoder struct {
	enc *zstd.Encoder
}

func newMeshEncoder() (*meshEncoder, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &meshEncoder{enc: enc}, nil
}

func (m *meshEncoder) Encode(vertices []mesh.Vertex) []byte {
	raw := mesh.AppendBytes(make([]byte, 0, len(vertices)*mesh.VertexSize), vertices)
	return m.enc.EncodeAll(raw, nil)
}

func (m *meshEncoder) Close() {
	m.enc.Close()
}

// DecodeMesh распаковывает тело ответа /api/chunks/mesh
func DecodeMesh(body []byte) ([]mesh.Vertex, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(body, nil)
	if err != nil {
		return nil, err
	}
	return mesh.FromBytes(raw)
}

// handleChunkMesh отдаёт последнюю построенную сетку чанка
func (rs *RestServer) handleChunkMesh(c *gin.Context) {
	coords, ok := parseChunkCoords(c)
	if !ok {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Параметры x, y, z должны быть целыми числами",
		})
		return
	}

	vertices, ok := rs.source.Mesh(coords)
	if !ok {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: "Сетка чанка " + coords.String() + " не построена",
		})
		return
	}

	c.Header(VertexCountHeader, strconv.Itoa(len(vertices)))
	c.Data(http.StatusOK, MeshContentType, rs.encoder.Encode(vertices))
}

func parseChunkCoords(c *gin.Context) (vec.Vec3, bool) {
	var out [3]int
	for i, key := range []string{"x", "y", "z"} {
		n, err := strconv.Atoi(c.Query(key))
		if err != nil {
			return vec.Vec3{}, false
		}
		out[i] = n
	}
	return vec.New(out[0], out[1], out[2]), true
}
