package shader

import (
	"errors"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadercam/graphics"
)

// Source is a vertex/fragment pair as read from disk.
type Source struct {
	Vertex   string
	Fragment string
}

// LoadSource reads both stage files. It fails with a *FileReadError naming the
// first path that could not be read.
func LoadSource(vertexPath, fragmentPath string) (Source, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return Source{}, &FileReadError{Path: vertexPath, Err: err}
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return Source{}, &FileReadError{Path: fragmentPath, Err: err}
	}
	return Source{Vertex: string(vs), Fragment: string(fs)}, nil
}

// Program is a linked vertex/fragment program. A program whose stages failed
// to compile or link is still returned; Err reports why, and drawing with it
// produces no useful output.
type Program struct {
	driver graphics.Driver
	handle uint32
	linked bool
	diags  []error
}

// Load reads the stage files and builds a program from them. Only a
// *FileReadError is returned as an error; compile and link failures are logged
// and reported by Program.Err.
func Load(driver graphics.Driver, vertexPath, fragmentPath string) (*Program, error) {
	src, err := LoadSource(vertexPath, fragmentPath)
	if err != nil {
		log.Printf("shader: %v", err)
		return nil, err
	}
	return New(driver, src), nil
}

// New compiles and links src. Both stage objects are deleted once the link
// attempt returns, whatever its outcome.
func New(driver graphics.Driver, src Source) *Program {
	p := &Program{driver: driver}

	vertex := p.compile(graphics.VertexStage, src.Vertex)
	fragment := p.compile(graphics.FragmentStage, src.Fragment)
	defer driver.DeleteShader(vertex)
	defer driver.DeleteShader(fragment)

	p.handle = driver.CreateProgram()
	driver.AttachShader(p.handle, vertex)
	driver.AttachShader(p.handle, fragment)
	p.linked = driver.LinkProgram(p.handle)
	if !p.linked {
		err := &LinkError{Log: driver.ProgramInfoLog(p.handle)}
		log.Printf("shader: %v", err)
		p.diags = append(p.diags, err)
	}
	return p
}

func (p *Program) compile(stage graphics.ShaderStage, source string) uint32 {
	h := p.driver.CreateShader(stage)
	if !p.driver.CompileShader(h, source) {
		err := &CompileError{Stage: stage, Log: p.driver.ShaderInfoLog(h)}
		log.Printf("shader: %v", err)
		p.diags = append(p.diags, err)
	}
	return h
}

// Err returns the compile and link failures recorded while building the
// program, or nil if it linked cleanly.
func (p *Program) Err() error {
	return errors.Join(p.diags...)
}

// Linked reports whether the link step succeeded.
func (p *Program) Linked() bool {
	return p.linked
}

// Handle returns the GPU program object.
func (p *Program) Handle() uint32 {
	return p.handle
}

// Use makes p the program for subsequent draw calls.
func (p *Program) Use() {
	p.driver.UseProgram(p.handle)
}

// Delete releases the GPU program object.
func (p *Program) Delete() {
	p.driver.DeleteProgram(p.handle)
}

// The setters look the location up on every call and do nothing when the
// uniform is not active in the program, which is the case for uniforms the
// shader declares but never reads.

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.driver.UniformLocation(p.handle, name); loc != -1 {
		p.driver.ProgramUniform1i(p.handle, loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.driver.UniformLocation(p.handle, name); loc != -1 {
		p.driver.ProgramUniform1f(p.handle, loc, v)
	}
}

func (p *Program) SetVec3(name string, x, y, z float32) {
	if loc := p.driver.UniformLocation(p.handle, name); loc != -1 {
		p.driver.ProgramUniform3f(p.handle, loc, x, y, z)
	}
}

func (p *Program) SetVec3v(name string, v mgl32.Vec3) {
	p.SetVec3(name, v[0], v[1], v[2])
}
