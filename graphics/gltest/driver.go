// Package gltest provides an in-memory graphics.Driver for tests that must
// run without a GPU.
//
// The fake "compiles" a stage when its source contains a main function and no
// "#error" directive, and links a program when every attached stage compiled.
// Active uniforms are the ones declared with a `uniform <type> <name>;`
// statement in any attached stage.
package gltest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richinsley/goshadercam/graphics"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)

type Shader struct {
	Stage    graphics.ShaderStage
	Source   string
	Compiled bool
	Deleted  bool
	log      string
}

type Program struct {
	Shaders []uint32
	Linked  bool
	Deleted bool
	// Uniforms maps a location to the last value written there.
	Uniforms  map[int32]any
	locations map[string]int32
	log       string
}

var _ graphics.Driver = (*Driver)(nil)

// Driver records every call made through graphics.Driver.
type Driver struct {
	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	// Current is the program bound by the last UseProgram call.
	Current    uint32
	Clears     int
	ViewportWH [2]int32
	// InfoLog, when set, replaces the generated compile log.
	InfoLog string
	next    uint32
}

func New() *Driver {
	return &Driver{
		Shaders:  make(map[uint32]*Shader),
		Programs: make(map[uint32]*Program),
	}
}

func (d *Driver) handle() uint32 {
	d.next++
	return d.next
}

func (d *Driver) CreateShader(stage graphics.ShaderStage) uint32 {
	h := d.handle()
	d.Shaders[h] = &Shader{Stage: stage}
	return h
}

func (d *Driver) CompileShader(shader uint32, source string) bool {
	s := d.Shaders[shader]
	s.Source = source
	switch {
	case strings.Contains(source, "#error"):
		s.log = fmt.Sprintf("0:1(1): error: #error directive in %s shader", strings.ToLower(s.Stage.String()))
	case !strings.Contains(source, "void main"):
		s.log = "0:1(1): error: no function with name 'main'"
	default:
		s.Compiled = true
		return true
	}
	if d.InfoLog != "" {
		s.log = d.InfoLog
	}
	return false
}

func (d *Driver) ShaderInfoLog(shader uint32) string {
	return truncate(d.Shaders[shader].log)
}

func (d *Driver) DeleteShader(shader uint32) {
	if s, ok := d.Shaders[shader]; ok {
		s.Deleted = true
	}
}

func (d *Driver) CreateProgram() uint32 {
	h := d.handle()
	d.Programs[h] = &Program{
		Uniforms:  make(map[int32]any),
		locations: make(map[string]int32),
	}
	return h
}

func (d *Driver) AttachShader(program, shader uint32) {
	p := d.Programs[program]
	p.Shaders = append(p.Shaders, shader)
}

func (d *Driver) LinkProgram(program uint32) bool {
	p := d.Programs[program]
	for _, h := range p.Shaders {
		if s := d.Shaders[h]; !s.Compiled {
			p.log = fmt.Sprintf("error: %s shader not compiled", strings.ToLower(s.Stage.String()))
			return false
		}
	}
	p.Linked = true
	var loc int32
	for _, h := range p.Shaders {
		for _, m := range uniformDecl.FindAllStringSubmatch(d.Shaders[h].Source, -1) {
			if _, ok := p.locations[m[1]]; !ok {
				p.locations[m[1]] = loc
				loc++
			}
		}
	}
	return true
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	return truncate(d.Programs[program].log)
}

func (d *Driver) UseProgram(program uint32) {
	d.Current = program
}

func (d *Driver) DeleteProgram(program uint32) {
	if p, ok := d.Programs[program]; ok {
		p.Deleted = true
	}
	if d.Current == program {
		d.Current = 0
	}
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	p, ok := d.Programs[program]
	if !ok || !p.Linked {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *Driver) set(program uint32, location int32, v any) {
	p, ok := d.Programs[program]
	if !ok || location < 0 {
		panic(fmt.Sprintf("gltest: uniform write to program %d location %d", program, location))
	}
	p.Uniforms[location] = v
}

func (d *Driver) ProgramUniform1i(program uint32, location int32, v int32) {
	d.set(program, location, v)
}

func (d *Driver) ProgramUniform1f(program uint32, location int32, v float32) {
	d.set(program, location, v)
}

func (d *Driver) ProgramUniform3f(program uint32, location int32, x, y, z float32) {
	d.set(program, location, [3]float32{x, y, z})
}

func (d *Driver) Viewport(x, y, width, height int32) {
	d.ViewportWH = [2]int32{width, height}
}

func (d *Driver) ClearColor(r, g, b, a float32) {}

func (d *Driver) Clear() {
	d.Clears++
}

func (d *Driver) ReadPixels(width, height int) []byte {
	return make([]byte, width*height*4)
}

// Uniform returns the last value written to the named uniform of program.
func (d *Driver) Uniform(program uint32, name string) (any, bool) {
	loc := d.UniformLocation(program, name)
	if loc < 0 {
		return nil, false
	}
	v, ok := d.Programs[program].Uniforms[loc]
	return v, ok
}

func truncate(s string) string {
	if len(s) > graphics.MaxInfoLog {
		return s[:graphics.MaxInfoLog]
	}
	return s
}

// Mesh counts draws.
type Mesh struct {
	Draws   int
	Deleted bool
}

func (m *Mesh) Draw()   { m.Draws++ }
func (m *Mesh) Delete() { m.Deleted = true }
