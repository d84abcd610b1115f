package mesh

import (
	"encoding/binary"
	"fmt"

	"github.com/annel0/voxel-core/internal/vec"
)

// Vertex - упакованная вершина чанка:
//
//	биты  0-10  индекс угла UV в атласе
//	биты 11-13  нормаль (vec.Dir)
//	биты 14-19  z
//	биты 20-25  y
//	биты 26-31  x
//
// Координаты занимают 6 бит: угол грани может лежать на координате ChunkSize.
type Vertex uint32

const (
	uvBits   = 11
	dirShift = 11
	zShift   = 14
	yShift   = 20
	xShift   = 26

	uvMask  = 1<<uvBits - 1
	dirMask = 0b111
	posMask = 0b111111
)

// Pack упаковывает вершину
func Pack(x, y, z uint8, normal vec.Dir, uv uint16) Vertex {
	var v uint32
	v |= uint32(uv) & uvMask
	v |= uint32(normal) << dirShift
	v |= uint32(z) << zShift
	v |= uint32(y) << yShift
	v |= uint32(x) << xShift
	return Vertex(v)
}

// Position возвращает локальную позицию вершины
func (v Vertex) Position() (x, y, z uint8) {
	return uint8(uint32(v) >> xShift & posMask),
		uint8(uint32(v) >> yShift & posMask),
		uint8(uint32(v) >> zShift & posMask)
}

// Normal возвращает направление нормали
func (v Vertex) Normal() vec.Dir {
	return vec.DirFromUint8(uint8(uint32(v) >> dirShift & dirMask))
}

// UV возвращает индекс угла в атласе
func (v Vertex) UV() uint16 {
	return uint16(uint32(v) & uvMask)
}

// VertexSize - размер вершины в байтах при передаче
const VertexSize = 4

// AppendBytes дописывает вершины в dst в порядке little-endian
func AppendBytes(dst []byte, vertices []Vertex) []byte {
	for _, v := range vertices {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
	return dst
}

// FromBytes разбирает буфер, записанный AppendBytes
func FromBytes(data []byte) ([]Vertex, error) {
	if len(data)%VertexSize != 0 {
		return nil, fmt.Errorf("длина буфера %d не кратна размеру вершины", len(data))
	}
	vertices := make([]Vertex, 0, len(data)/VertexSize)
	for i := 0; i < len(data); i += VertexSize {
		vertices = append(vertices, Vertex(binary.LittleEndian.Uint32(data[i:])))
	}
	return vertices, nil
}
