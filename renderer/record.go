package renderer

import (
	"fmt"
	"log"
	"math"
)

// FrameSink consumes rendered frames as tightly packed RGBA rows, bottom row
// first.
type FrameSink interface {
	WriteFrame(pixels []byte) error
}

// RunRecording renders duration seconds at fps frames per second with a
// fixed width x height viewport and hands every frame to sink. Time advances
// by exactly 1/fps per frame. It stops early if the context is asked to close.
func (r *Renderer) RunRecording(sink FrameSink, width, height, fps int, duration float64) (int, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("invalid frame rate %d", fps)
	}
	r.width, r.height = width, height
	defer func() { r.width, r.height = 0, 0 }()

	total := int(math.Ceil(duration * float64(fps)))
	dt := 1.0 / float64(fps)
	r.driver.Viewport(0, 0, int32(width), int32(height))

	frame := 0
	for ; frame < total && !r.context.ShouldClose(); frame++ {
		r.pollReload()
		r.RenderFrame(float64(frame)*dt, dt, r.context.Input())
		if err := sink.WriteFrame(r.driver.ReadPixels(width, height)); err != nil {
			return frame, fmt.Errorf("failed to write frame %d: %w", frame, err)
		}
		r.context.EndFrame()
	}
	log.Printf("Recorded %d of %d frames", frame, total)
	return frame, nil
}
