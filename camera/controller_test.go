package camera

import (
	"bytes"
	"log"
	"math"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadercam/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func quietLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func TestForwardAccumulatesAlongZAtZeroYaw(t *testing.T) {
	s := DefaultSettings()
	c := New(Pose{}, s)
	const k = 50
	for i := 0; i < k; i++ {
		c.Update(input.Of(input.Forward), 1.0/60)
	}
	assertVec(t, mgl32.Vec3{0, 0, k * s.MovementSpeed}, c.Pose().Position)
}

func TestBackUndoesForward(t *testing.T) {
	c := New(Pose{Rotation: mgl32.Vec3{0, 0, 0.7}}, DefaultSettings())
	c.Update(input.Of(input.Forward), 0)
	c.Update(input.Of(input.Back), 0)
	assertVec(t, mgl32.Vec3{}, c.Pose().Position)
}

func TestDiagonalIsNotNormalized(t *testing.T) {
	s := DefaultSettings()
	c := New(Pose{}, s)
	c.Update(input.Of(input.Forward, input.Left), 0)
	sp := s.MovementSpeed
	assertVec(t, mgl32.Vec3{-sp, 0, sp}, c.Pose().Position)
}

func TestMovementFollowsYaw(t *testing.T) {
	s := DefaultSettings()
	s.MovementSpeed = 1
	c := New(Pose{Rotation: mgl32.Vec3{0, 0, math.Pi / 2}}, s)

	c.Update(input.Of(input.Forward), 0)
	assertVec(t, mgl32.Vec3{1, 0, 0}, c.Pose().Position)

	c.Update(input.Of(input.Right), 0)
	assertVec(t, mgl32.Vec3{1, 0, -1}, c.Pose().Position)
}

func TestMovementUsesYawFromFrameStart(t *testing.T) {
	s := DefaultSettings()
	s.MovementSpeed = 1
	s.RotationSpeed = math.Pi / 2
	c := New(Pose{}, s)

	p := c.Update(input.Of(input.Forward, input.YawRight), 0)
	assertVec(t, mgl32.Vec3{0, 0, 1}, p.Position)
	assert.InDelta(t, math.Pi/2, p.Rotation[2], eps)
}

func TestVerticalIgnoresYaw(t *testing.T) {
	s := DefaultSettings()
	c := New(Pose{Rotation: mgl32.Vec3{0, 0, 1.3}}, s)
	c.Update(input.Of(input.Up), 0)
	c.Update(input.Of(input.Up), 0)
	c.Update(input.Of(input.Down), 0)
	assertVec(t, mgl32.Vec3{0, s.MovementSpeed, 0}, c.Pose().Position)
}

func TestRotation(t *testing.T) {
	s := DefaultSettings()
	c := New(Pose{}, s)
	for i := 0; i < 3; i++ {
		c.Update(input.Of(input.YawLeft, input.PitchUp), 0)
	}
	c.Update(input.Of(input.PitchDown), 0)
	r := c.Pose().Rotation
	assert.InDelta(t, -3*s.RotationSpeed, r[2], eps)
	assert.InDelta(t, 2*s.RotationSpeed, r[1], eps)
	assert.Zero(t, r[0])
}

func TestSpeedScalesMultiplicativelyWithoutClamp(t *testing.T) {
	buf := quietLog(t)
	s := DefaultSettings()
	c := New(Pose{}, s)

	prev := c.Speed()
	for k := 1; k <= 25; k++ {
		c.Update(input.Of(input.SpeedUp), 0)
		want := float64(s.MovementSpeed) * math.Pow(1.2, float64(k))
		assert.InEpsilon(t, want, c.Speed(), 1e-4)
		assert.Greater(t, c.Speed(), prev)
		prev = c.Speed()
	}
	assert.Contains(t, buf.String(), "Movement speed increased")

	c.Reset()
	prev = c.Speed()
	for k := 1; k <= 25; k++ {
		c.Update(input.Of(input.SpeedDown), 0)
		want := float64(s.MovementSpeed) / math.Pow(1.2, float64(k))
		assert.InEpsilon(t, want, c.Speed(), 1e-4)
		assert.Less(t, c.Speed(), prev)
		prev = c.Speed()
	}
	assert.Contains(t, buf.String(), "Movement speed reduced")
}

func TestSpeedChangeAppliesFromNextFrame(t *testing.T) {
	quietLog(t)
	s := DefaultSettings()
	s.MovementSpeed = 1
	s.SpeedFactor = 2
	c := New(Pose{}, s)

	c.Update(input.Of(input.Forward, input.SpeedUp), 0)
	assertVec(t, mgl32.Vec3{0, 0, 1}, c.Pose().Position)
	c.Update(input.Of(input.Forward), 0)
	assertVec(t, mgl32.Vec3{0, 0, 3}, c.Pose().Position)
}

func TestFrameCoupledIgnoresDelta(t *testing.T) {
	s := DefaultSettings()
	a, b := New(Pose{}, s), New(Pose{}, s)
	a.Update(input.Of(input.Forward, input.YawRight), 1.0/30)
	b.Update(input.Of(input.Forward, input.YawRight), 1.0/144)
	assert.Equal(t, a.Pose(), b.Pose())
}

func TestScaleByDelta(t *testing.T) {
	s := DefaultSettings()
	s.ScaleByDelta = true
	s.MovementSpeed = 1
	c := New(Pose{}, s)

	c.Update(input.Of(input.Forward, input.YawRight), 1.0/30)
	p := c.Pose()
	assert.InDelta(t, 2, p.Position[2], eps)
	assert.InDelta(t, 2*s.RotationSpeed, p.Rotation[2], eps)
}

func TestAllKeysHeld(t *testing.T) {
	quietLog(t)
	c := New(Pose{Position: mgl32.Vec3{1, 2, 3}}, DefaultSettings())
	var all input.Snapshot
	for _, a := range input.Actions() {
		if a != input.Reset {
			all = all.With(a)
		}
	}
	speed := c.Speed()
	require.NotPanics(t, func() { c.Update(all, 0) })

	// opposing movement and rotation cancel, the speed keys cancel too
	assertVec(t, mgl32.Vec3{1, 2, 3}, c.Pose().Position)
	assertVec(t, mgl32.Vec3{}, c.Pose().Rotation)
	assert.InEpsilon(t, speed, c.Speed(), 1e-6)
}

func TestReset(t *testing.T) {
	quietLog(t)
	start := Pose{Position: mgl32.Vec3{0, 0, -3}}
	c := New(start, DefaultSettings())
	c.Update(input.Of(input.Forward, input.YawLeft, input.SpeedUp), 0)
	require.NotEqual(t, start, c.Pose())

	p := c.Update(input.Of(input.Reset, input.Forward), 0)
	assert.Equal(t, start, p)
	assert.Equal(t, DefaultSettings().MovementSpeed, c.Speed())
}
