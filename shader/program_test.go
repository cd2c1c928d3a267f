package shader

import (
	"bytes"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadercam/graphics"
	"github.com/richinsley/goshadercam/graphics/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenFragment = `#version 410 core
out vec4 frag_color;
#error missing colour
`

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func writeSources(t *testing.T, src Source) (string, string) {
	t.Helper()
	dir := t.TempDir()
	vp := filepath.Join(dir, "vertShader.glsl")
	fp := filepath.Join(dir, "fragShader.glsl")
	require.NoError(t, os.WriteFile(vp, []byte(src.Vertex), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte(src.Fragment), 0o644))
	return vp, fp
}

func TestLoadValidProgram(t *testing.T) {
	captureLog(t)
	d := gltest.New()
	vp, fp := writeSources(t, DefaultSource())

	p, err := Load(d, vp, fp)
	require.NoError(t, err)
	require.NoError(t, p.Err())
	assert.NotZero(t, p.Handle())
	assert.True(t, d.Programs[p.Handle()].Linked)

	for _, s := range d.Shaders {
		assert.True(t, s.Deleted, "%s stage not released", s.Stage)
	}

	p.Use()
	assert.Equal(t, p.Handle(), d.Current)
	p.Use()
	assert.Equal(t, p.Handle(), d.Current)
}

func TestLoadMissingFile(t *testing.T) {
	buf := captureLog(t)
	d := gltest.New()
	vp, _ := writeSources(t, DefaultSource())
	missing := filepath.Join(t.TempDir(), "nope.glsl")

	p, err := Load(d, vp, missing)
	assert.Nil(t, p)
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	assert.Equal(t, missing, fre.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, buf.String(), missing)
	assert.Empty(t, d.Programs, "no GPU work for unreadable sources")
}

func TestMalformedFragmentDegrades(t *testing.T) {
	buf := captureLog(t)
	d := gltest.New()
	src := DefaultSource()
	src.Fragment = brokenFragment

	var p *Program
	require.NotPanics(t, func() { p = New(d, src) })
	require.NotNil(t, p)

	assert.Contains(t, buf.String(), "FRAGMENT")
	assert.NotContains(t, buf.String(), "VERTEX")

	var ce *CompileError
	require.ErrorAs(t, p.Err(), &ce)
	assert.Equal(t, graphics.FragmentStage, ce.Stage)
	assert.Contains(t, ce.Log, "#error")

	var le *LinkError
	assert.ErrorAs(t, p.Err(), &le)

	for _, s := range d.Shaders {
		assert.True(t, s.Deleted, "%s stage not released after failed link", s.Stage)
	}

	assert.NotPanics(t, func() {
		p.Use()
		p.SetFloat("iTime", 1)
		p.SetVec3("iPosition", 1, 2, 3)
	})
	assert.Equal(t, p.Handle(), d.Current)
	assert.Empty(t, d.Programs[p.Handle()].Uniforms)
}

func TestMalformedVertexTagged(t *testing.T) {
	buf := captureLog(t)
	src := DefaultSource()
	src.Vertex = "#version 410 core\n"

	p := New(gltest.New(), src)
	var ce *CompileError
	require.ErrorAs(t, p.Err(), &ce)
	assert.Equal(t, graphics.VertexStage, ce.Stage)
	assert.Contains(t, buf.String(), "VERTEX shader failed to compile")
}

func TestInfoLogIsTruncated(t *testing.T) {
	captureLog(t)
	d := gltest.New()
	d.InfoLog = strings.Repeat("x", 4*graphics.MaxInfoLog)
	src := DefaultSource()
	src.Fragment = brokenFragment

	p := New(d, src)
	var ce *CompileError
	require.ErrorAs(t, p.Err(), &ce)
	assert.Len(t, ce.Log, graphics.MaxInfoLog)
}

func TestUnknownUniformIsNoOp(t *testing.T) {
	d := gltest.New()
	p := New(d, DefaultSource())
	require.NoError(t, p.Err())
	p.Use()

	assert.NotPanics(t, func() {
		p.SetBool("iMissing", true)
		p.SetInt("iMissing", 3)
		p.SetFloat("iMissing", 1.5)
		p.SetVec3("iMissing", 1, 2, 3)
	})
	assert.Empty(t, d.Programs[p.Handle()].Uniforms)
}

func TestSetters(t *testing.T) {
	d := gltest.New()
	src := DefaultSource()
	src.Fragment = strings.Replace(src.Fragment, "uniform float iTime;",
		"uniform float iTime;\nuniform int iFrame;\nuniform bool iPaused;", 1)
	p := New(d, src)
	require.NoError(t, p.Err())

	p.SetFloat("iTime", 2.5)
	p.SetInt("iFrame", 7)
	p.SetBool("iPaused", true)
	p.SetVec3v("iPosition", mgl32.Vec3{0, 0, -3})

	get := func(name string) any {
		v, ok := d.Uniform(p.Handle(), name)
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, float32(2.5), get("iTime"))
	assert.Equal(t, int32(7), get("iFrame"))
	assert.Equal(t, int32(1), get("iPaused"))
	assert.Equal(t, [3]float32{0, 0, -3}, get("iPosition"))
}

func TestProgramsAreIndependent(t *testing.T) {
	d := gltest.New()
	vp, fp := writeSources(t, DefaultSource())
	a, err := Load(d, vp, fp)
	require.NoError(t, err)
	b, err := Load(d, vp, fp)
	require.NoError(t, err)
	require.NotEqual(t, a.Handle(), b.Handle())

	a.Use()
	a.SetFloat("iTime", 1)
	b.Use()
	b.SetFloat("iTime", 2)
	// writing to b while a is bound still only touches b
	a.Use()
	b.SetFloat("iTime", 3)

	va, _ := d.Uniform(a.Handle(), "iTime")
	vb, _ := d.Uniform(b.Handle(), "iTime")
	assert.Equal(t, float32(1), va)
	assert.Equal(t, float32(3), vb)

	b.Delete()
	assert.True(t, d.Programs[b.Handle()].Deleted)
	assert.False(t, d.Programs[a.Handle()].Deleted)
}

func TestWriteDefaults(t *testing.T) {
	captureLog(t)
	dir := t.TempDir()
	vp := filepath.Join(dir, "shaders", "vertShader.glsl")
	fp := filepath.Join(dir, "shaders", "fragShader.glsl")
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0o755))
	require.NoError(t, os.WriteFile(fp, []byte("keep me"), 0o644))

	require.NoError(t, WriteDefaults(vp, fp))

	src, err := LoadSource(vp, fp)
	require.NoError(t, err)
	assert.Equal(t, DefaultSource().Vertex, src.Vertex)
	assert.Equal(t, "keep me", src.Fragment)

	_, err = LoadSource(filepath.Join(dir, "missing"), fp)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
