package graphics

import "github.com/richinsley/goshadercam/input"

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// Input returns the logical actions held at the last event poll.
	Input() input.Snapshot
}
