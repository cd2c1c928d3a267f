// Package options holds the run configuration of the viewer.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goshadercam/camera"
	"github.com/richinsley/goshadercam/input"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`

	VertexShader   string `yaml:"vertex_shader" toml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader" toml:"fragment_shader"`
	// Watch rebuilds the program when either shader file changes.
	Watch bool `yaml:"watch" toml:"watch"`

	Camera   camera.Settings `yaml:"camera" toml:"camera"`
	Position [3]float32      `yaml:"position" toml:"position"`
	Rotation [3]float32      `yaml:"rotation" toml:"rotation"`
	// Keys maps action names (see input.ParseAction) to key names.
	Keys map[string]string `yaml:"keys" toml:"keys"`

	Record     string  `yaml:"record" toml:"record"` // output file; empty disables recording
	FPS        int     `yaml:"fps" toml:"fps"`
	Duration   float64 `yaml:"duration" toml:"duration"`
	Codec      string  `yaml:"codec" toml:"codec"`
	FFmpegPath string  `yaml:"ffmpeg" toml:"ffmpeg"`
}

func Default() *Options {
	return &Options{
		Width:          300,
		Height:         300,
		Title:          "goshadercam",
		VertexShader:   "vertShader.glsl",
		FragmentShader: "fragShader.glsl",
		Camera:         camera.DefaultSettings(),
		Position:       [3]float32{0, 0, -3},
		FPS:            60,
		Duration:       10,
		Codec:          "h264",
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (*Options, error) {
	opts := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return opts, nil
}

// Validate checks ranges, expands ~ in file paths and resolves the keymap.
func (o *Options) Validate() (input.Keymap, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	if o.Camera.SpeedFactor <= 0 {
		return nil, fmt.Errorf("speed factor must be positive, got %g", o.Camera.SpeedFactor)
	}
	if o.Camera.ScaleByDelta && o.Camera.ReferenceRate <= 0 {
		return nil, fmt.Errorf("reference rate must be positive, got %g", o.Camera.ReferenceRate)
	}
	if o.Record != "" {
		if o.FPS <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", o.FPS)
		}
		if o.Duration <= 0 {
			return nil, fmt.Errorf("duration must be positive, got %g", o.Duration)
		}
	}
	for _, p := range []*string{&o.VertexShader, &o.FragmentShader, &o.Record} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}
	return input.ParseKeymap(o.Keys)
}

// StartPose returns the configured initial camera pose.
func (o *Options) StartPose() camera.Pose {
	return camera.Pose{Position: o.Position, Rotation: o.Rotation}
}
