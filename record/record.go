// Package record encodes rendered frames to a video file with ffmpeg.
package record

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const queuedFrames = 3

type Config struct {
	Output string
	Width  int
	Height int
	FPS    int
	// Codec is "h264" or "hevc".
	Codec      string
	FFmpegPath string
	// Frames is the expected frame count, used for progress only.
	Frames int
	// Progress receives the progress bar; nil means stderr.
	Progress io.Writer
}

// Recorder pipes raw RGBA frames into an ffmpeg process. WriteFrame is called
// from the render thread; encoding runs in the background.
type Recorder struct {
	frameSize  int
	frames     chan []byte
	encodeDone chan error
	ffmpegDone chan error
	bar        *progressbar.ProgressBar

	mu  sync.Mutex
	err error
}

func getArgs(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}

	// glReadPixels returns the bottom row first
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	if cfg.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(cfg.Output, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

func stream(cfg Config, in io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(cfg)
	s := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Output, outputArgs).
		OverWriteOutput().WithInput(in).ErrorToStdOut()
	if cfg.FFmpegPath != "" {
		s = s.SetFfmpegPath(cfg.FFmpegPath)
	}
	return s
}

// Start launches ffmpeg writing to cfg.Output.
func Start(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}
	if cfg.Output == "" {
		return nil, errors.New("no output file")
	}
	progress := cfg.Progress
	if progress == nil {
		progress = os.Stderr
	}

	pipeReader, pipeWriter := io.Pipe()
	r := &Recorder{
		frameSize:  cfg.Width * cfg.Height * 4,
		frames:     make(chan []byte, queuedFrames),
		encodeDone: make(chan error, 1),
		ffmpegDone: make(chan error, 1),
		bar: progressbar.NewOptions(cfg.Frames,
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("recording "+cfg.Output),
			progressbar.OptionShowCount(),
		),
	}

	cmd := stream(cfg, pipeReader)
	log.Printf("Recording %dx%d@%d to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.Output)
	go func() {
		err := cmd.Run()
		if err != nil {
			err = fmt.Errorf("ffmpeg failed: %w", err)
		}
		// unblock the encoder if ffmpeg went away early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		r.ffmpegDone <- err
	}()
	go r.encode(pipeWriter)
	return r, nil
}

func (r *Recorder) encode(w *io.PipeWriter) {
	var err error
	for pixels := range r.frames {
		if err != nil {
			continue
		}
		if _, err = w.Write(pixels); err != nil {
			err = fmt.Errorf("failed to write frame to ffmpeg: %w", err)
			r.setErr(err)
			continue
		}
		r.bar.Add(1)
	}
	w.Close()
	r.encodeDone <- err
}

func (r *Recorder) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first encoding error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// WriteFrame queues one frame. It blocks while the queue is full and fails
// once the encoder has failed.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if len(pixels) != r.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), r.frameSize)
	}
	if err := r.Err(); err != nil {
		return err
	}
	r.frames <- pixels
	return nil
}

// Close flushes queued frames and waits for ffmpeg to exit.
func (r *Recorder) Close() error {
	close(r.frames)
	encodeErr := <-r.encodeDone
	runErr := <-r.ffmpegDone
	r.bar.Finish()
	return errors.Join(encodeErr, runErr)
}
