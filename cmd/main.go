package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"

	"github.com/richinsley/goshadercam/camera"
	"github.com/richinsley/goshadercam/glfwcontext"
	"github.com/richinsley/goshadercam/graphics/glcore"
	"github.com/richinsley/goshadercam/input"
	"github.com/richinsley/goshadercam/options"
	"github.com/richinsley/goshadercam/record"
	"github.com/richinsley/goshadercam/renderer"
	"github.com/richinsley/goshadercam/shader"
	"github.com/richinsley/goshadercam/watch"
)

func run(opts *options.Options, keymap input.Keymap) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts.Width, opts.Height, opts.Title, keymap)
	if err != nil {
		return err
	}
	defer ctx.Shutdown()

	driver, err := glcore.Init()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version %s", driver.Version())
	ctx.OnResize(func(width, height int) {
		driver.Viewport(0, 0, int32(width), int32(height))
	})

	cam := camera.New(opts.StartPose(), opts.Camera)
	r := renderer.NewRenderer(ctx, driver, glcore.NewQuad(), cam, opts.VertexShader, opts.FragmentShader)
	defer r.Shutdown()

	if opts.Watch {
		w, err := watch.New(opts.VertexShader, opts.FragmentShader)
		if err != nil {
			return err
		}
		defer w.Close()
		r.WatchReload(w.Changed())
		log.Printf("Watching %s and %s for changes", opts.VertexShader, opts.FragmentShader)
	}

	if opts.Record == "" {
		log.Println("Starting interactive render loop...")
		r.Run()
		return nil
	}

	width, height := ctx.GetFramebufferSize()
	frames := int(math.Ceil(opts.Duration * float64(opts.FPS)))
	rec, err := record.Start(record.Config{
		Output:     opts.Record,
		Width:      width,
		Height:     height,
		FPS:        opts.FPS,
		Codec:      opts.Codec,
		FFmpegPath: opts.FFmpegPath,
		Frames:     frames,
	})
	if err != nil {
		return err
	}
	_, renderErr := r.RunRecording(rec, width, height, opts.FPS, opts.Duration)
	if err := rec.Close(); err != nil {
		return err
	}
	return renderErr
}

func init() {
	runtime.LockOSThread()
}

func main() {
	var configFile = flag.String("config", "", "YAML or TOML config file")
	var help = flag.Bool("help", false, "Show help message")
	var initShaders = flag.Bool("init", false, "Write the built-in shaders to the shader paths if they do not exist")

	defaults := options.Default()
	var width = flag.Int("width", defaults.Width, "Window width")
	var height = flag.Int("height", defaults.Height, "Window height")
	var vertexShader = flag.String("vertex", defaults.VertexShader, "Vertex shader source file")
	var fragmentShader = flag.String("fragment", defaults.FragmentShader, "Fragment shader source file")
	var watchShaders = flag.Bool("watch", false, "Reload the shaders when their files change")
	var scaleByDelta = flag.Bool("delta", false, "Scale camera movement by frame time instead of per frame")

	// Recording flags
	var recordFile = flag.String("record", "", "Record to this video file instead of running interactively")
	var fps = flag.Int("fps", defaults.FPS, "Frames per second for recording")
	var duration = flag.Float64("duration", defaults.Duration, "Duration to record in seconds")
	var codec = flag.String("codec", defaults.Codec, "Video codec for recording (h264, hevc)")
	var ffmpegPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")

	flag.Parse()

	if *help {
		fmt.Println("Shader Camera Viewer")
		flag.PrintDefaults()
		return
	}

	opts := defaults
	if *configFile != "" {
		var err error
		opts, err = options.Load(*configFile)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			opts.Width = *width
		case "height":
			opts.Height = *height
		case "vertex":
			opts.VertexShader = *vertexShader
		case "fragment":
			opts.FragmentShader = *fragmentShader
		case "watch":
			opts.Watch = *watchShaders
		case "delta":
			opts.Camera.ScaleByDelta = *scaleByDelta
		case "record":
			opts.Record = *recordFile
		case "fps":
			opts.FPS = *fps
		case "duration":
			opts.Duration = *duration
		case "codec":
			opts.Codec = *codec
		case "ffmpeg":
			opts.FFmpegPath = *ffmpegPath
		}
	})

	keymap, err := opts.Validate()
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if *initShaders {
		if err := shader.WriteDefaults(opts.VertexShader, opts.FragmentShader); err != nil {
			log.Fatalf("Failed to write shaders: %v", err)
		}
	}

	if err := run(opts, keymap); err != nil {
		log.Fatalf("Renderer failed: %v", err)
	}
}
