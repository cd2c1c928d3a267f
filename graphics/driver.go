package graphics

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "VERTEX"
	case FragmentStage:
		return "FRAGMENT"
	default:
		return "UNKNOWN"
	}
}

// MaxInfoLog bounds the length of compiler and linker logs returned by a Driver.
const MaxInfoLog = 1024

// Driver is the subset of OpenGL the viewer issues. Every method must be
// called on the thread that owns the current context.
type Driver interface {
	CreateShader(stage ShaderStage) uint32
	// CompileShader submits source verbatim and compiles it. It reports
	// whether compilation succeeded.
	CompileShader(shader uint32, source string) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	// LinkProgram links program and reports whether linking succeeded.
	LinkProgram(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// UniformLocation returns -1 when name is not an active uniform.
	UniformLocation(program uint32, name string) int32
	ProgramUniform1i(program uint32, location int32, v int32)
	ProgramUniform1f(program uint32, location int32, v float32)
	ProgramUniform3f(program uint32, location int32, x, y, z float32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	// ReadPixels reads the current read framebuffer as tightly packed RGBA
	// rows, bottom row first.
	ReadPixels(width, height int) []byte
}

// Mesh is static geometry that can draw itself with the bound program.
type Mesh interface {
	Draw()
	Delete()
}
