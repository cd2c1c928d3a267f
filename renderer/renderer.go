package renderer

import (
	"log"

	"github.com/richinsley/goshadercam/camera"
	"github.com/richinsley/goshadercam/graphics"
	"github.com/richinsley/goshadercam/input"
	"github.com/richinsley/goshadercam/shader"
)

// Uniform names the fragment stage reads.
const (
	ResolutionUniform = "iResolution"
	TimeUniform       = "iTime"
	PositionUniform   = "iPosition"
	RotationUniform   = "iRotation"
)

var clearColor = [4]float32{0.2, 0.3, 0.3, 1.0}

// Renderer drives one shader program over a static mesh. All methods must be
// called on the thread that owns the context.
type Renderer struct {
	context graphics.Context
	driver  graphics.Driver
	mesh    graphics.Mesh
	camera  *camera.Controller
	program *shader.Program

	vertexPath   string
	fragmentPath string
	reload       <-chan struct{}

	// fixed render size while recording; zero means follow the framebuffer
	width  int
	height int
}

// NewRenderer loads the shader pair. An unreadable source is logged and the
// renderer runs without a program, clearing every frame, until a reload
// succeeds.
func NewRenderer(ctx graphics.Context, driver graphics.Driver, mesh graphics.Mesh, cam *camera.Controller, vertexPath, fragmentPath string) *Renderer {
	r := &Renderer{
		context:      ctx,
		driver:       driver,
		mesh:         mesh,
		camera:       cam,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
	}
	program, err := shader.Load(driver, vertexPath, fragmentPath)
	if err != nil {
		log.Printf("Starting without a shader program: %v", err)
	} else {
		r.program = program
	}
	return r
}

// Program returns the current program, or nil if none could be loaded.
func (r *Renderer) Program() *shader.Program {
	return r.program
}

// WatchReload makes the render loop rebuild the program whenever ch fires.
func (r *Renderer) WatchReload(ch <-chan struct{}) {
	r.reload = ch
}

// Reload rebuilds the program from disk. A replacement that cannot be read or
// fails to link is dropped and the current program kept.
func (r *Renderer) Reload() {
	program, err := shader.Load(r.driver, r.vertexPath, r.fragmentPath)
	if err != nil {
		log.Printf("Reload failed, keeping current program: %v", err)
		return
	}
	if !program.Linked() && r.program != nil {
		log.Printf("Reload failed to link, keeping current program")
		program.Delete()
		return
	}
	if r.program != nil {
		r.program.Delete()
	}
	r.program = program
	log.Printf("Reloaded %s and %s", r.vertexPath, r.fragmentPath)
}

func (r *Renderer) pollReload() {
	if r.reload == nil {
		return
	}
	select {
	case <-r.reload:
		r.Reload()
	default:
	}
}

func (r *Renderer) renderSize() (int, int) {
	if r.width > 0 && r.height > 0 {
		return r.width, r.height
	}
	return r.context.GetFramebufferSize()
}

// RenderFrame draws one frame. Uniforms carry the pose from before this
// frame's input is applied. t is seconds since start and dt seconds since the
// previous frame.
func (r *Renderer) RenderFrame(t, dt float64, in input.Snapshot) {
	width, height := r.renderSize()
	r.driver.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	r.driver.Clear()

	if r.program != nil {
		pose := r.camera.Pose()
		r.program.Use()
		r.program.SetVec3(ResolutionUniform, 1, float32(width), float32(height))
		r.program.SetFloat(TimeUniform, float32(t))
		r.program.SetVec3v(PositionUniform, pose.Position)
		r.program.SetVec3v(RotationUniform, pose.Rotation)
	}

	r.camera.Update(in, dt)

	if r.program != nil {
		r.mesh.Draw()
	}
}

// Run renders until the context is asked to close.
func (r *Renderer) Run() {
	startTime := r.context.Time()
	var last float64
	var frameCount int64

	for !r.context.ShouldClose() {
		r.pollReload()
		now := r.context.Time() - startTime
		r.RenderFrame(now, now-last, r.context.Input())
		last = now
		r.context.EndFrame()
		frameCount++
	}
	log.Printf("Render loop finished after %d frames", frameCount)
}

// Shutdown releases the program and the mesh. The context itself is shut
// down by its owner.
func (r *Renderer) Shutdown() {
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
	r.mesh.Delete()
}
