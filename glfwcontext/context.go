package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadercam/input"
)

// Context owns the GLFW window and resolves the keymap against it.
type Context struct {
	window *glfw.Window
	keymap input.Keymap
	keys   map[string]glfw.Key
	// onResize is called from the framebuffer size callback.
	onResize func(width, height int)
}

// New creates the window and makes its context current on the calling thread.
func New(width, height int, title string, keymap input.Keymap) (*Context, error) {
	keys := make(map[string]glfw.Key, len(keymap))
	for _, name := range keymap.Keys() {
		k, ok := KeyByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q in keymap", name)
		}
		keys[name] = k
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	c := &Context{
		window: win,
		keymap: keymap,
		keys:   keys,
	}
	win.MakeContextCurrent()
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	return c, nil
}

// OnResize registers f to run whenever the framebuffer is resized.
func (c *Context) OnResize(f func(width, height int)) {
	c.onResize = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

// Input polls the held state of every bound key.
func (c *Context) Input() input.Snapshot {
	return c.keymap.Capture(func(name string) bool {
		return c.window.GetKey(c.keys[name]) == glfw.Press
	})
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
