// Package glcore implements graphics.Driver on top of the OpenGL 4.1 core
// profile bindings.
package glcore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadercam/graphics"
)

var glInitOnce sync.Once

var _ graphics.Driver = (*Driver)(nil)

// Driver issues OpenGL calls against the context current on the calling thread.
type Driver struct{}

// Init loads the OpenGL function pointers. The context must already be current.
func Init() (*Driver, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Driver{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Driver) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Driver) CreateShader(stage graphics.ShaderStage) uint32 {
	switch stage {
	case graphics.FragmentStage:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	default:
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
}

func (d *Driver) CompileShader(shader uint32, source string) bool {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Driver) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	logLength = clampLog(logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return trimLog(logText)
}

func (d *Driver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *Driver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Driver) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Driver) LinkProgram(program uint32) bool {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	logLength = clampLog(logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return trimLog(logText)
}

func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) ProgramUniform1i(program uint32, location int32, v int32) {
	gl.ProgramUniform1i(program, location, v)
}

func (d *Driver) ProgramUniform1f(program uint32, location int32, v float32) {
	gl.ProgramUniform1f(program, location, v)
}

func (d *Driver) ProgramUniform3f(program uint32, location int32, x, y, z float32) {
	gl.ProgramUniform3f(program, location, x, y, z)
}

func (d *Driver) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Driver) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Driver) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func clampLog(n int32) int32 {
	if n > graphics.MaxInfoLog {
		return graphics.MaxInfoLog
	}
	if n < 0 {
		return 0
	}
	return n
}

func trimLog(s string) string {
	return strings.TrimRight(s, "\x00\n ")
}
