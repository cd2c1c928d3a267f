package record

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("%s not in %v", flag, args)
	return ""
}

func TestStreamArgs(t *testing.T) {
	cfg := Config{Output: "out.mp4", Width: 640, Height: 360, FPS: 30, Codec: "h264"}
	args := stream(cfg, bytes.NewReader(nil)).GetArgs()

	assert.Equal(t, "rawvideo", argAfter(t, args, "-f"))
	assert.Equal(t, "640x360", argAfter(t, args, "-s"))
	assert.Equal(t, "30", argAfter(t, args, "-r"))
	assert.Equal(t, "pipe:", argAfter(t, args, "-i"))
	assert.Equal(t, "libx264", argAfter(t, args, "-c:v"))
	assert.Equal(t, "vflip", argAfter(t, args, "-vf"))
	assert.Contains(t, args, "out.mp4")
	assert.Contains(t, args, "-y")
}

func TestHEVCArgs(t *testing.T) {
	_, out := getArgs(Config{Output: "clip.mp4", Codec: "hevc"})
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	_, out = getArgs(Config{Output: "clip.mkv", Codec: "hevc"})
	assert.NotContains(t, out, "tag:v")
}

func TestStartValidates(t *testing.T) {
	_, err := Start(Config{Output: "out.mp4", Width: 0, Height: 10, FPS: 30})
	assert.Error(t, err)
	_, err = Start(Config{Output: "out.mp4", Width: 10, Height: 10})
	assert.Error(t, err)
	_, err = Start(Config{Width: 10, Height: 10, FPS: 30})
	assert.Error(t, err)
}

func TestMissingFFmpegSurfacesOnClose(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	r, err := Start(Config{
		Output:     filepath.Join(t.TempDir(), "out.mp4"),
		Width:      4,
		Height:     2,
		FPS:        30,
		Frames:     1,
		FFmpegPath: filepath.Join(t.TempDir(), "no-ffmpeg"),
		Progress:   io.Discard,
	})
	require.NoError(t, err)

	assert.Error(t, r.WriteFrame(make([]byte, 3)), "short frame")
	assert.Error(t, r.Close())
}
