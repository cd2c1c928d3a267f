package glcore

import "github.com/go-gl/gl/v4.1-core/gl"

// Interleaved position (xyz) and colour (rgb) for the four corners of the
// full-screen quad.
var quadVertices = []float32{
	1.0, 1.0, 0.0, 1.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 0.0, 0.0, 1.0,
	-1.0, -1.0, 0.0, 0.0, 0.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 1.0, 0.0,
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const floatSize = 4

// Quad is the indexed full-screen quad every frame is drawn with.
type Quad struct {
	vao uint32
	vbo uint32
	ebo uint32
}

// NewQuad uploads the quad. Attribute 0 is the position, attribute 1 the colour.
func NewQuad() *Quad {
	q := &Quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.GenBuffers(1, &q.ebo)

	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*floatSize, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	stride := int32(6 * floatSize)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*floatSize))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return q
}

func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (q *Quad) Delete() {
	gl.DeleteVertexArrays(1, &q.vao)
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteBuffers(1, &q.ebo)
}
