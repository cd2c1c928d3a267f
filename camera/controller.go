// Package camera integrates a free-flying camera pose from held input actions.
package camera

import (
	"log"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadercam/input"
)

// Pose is the camera state pushed to the shader each frame. Rotation is in
// radians: Z is yaw and Y is pitch.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// Settings are the tuning constants of a Controller.
type Settings struct {
	// MovementSpeed is the distance travelled per step.
	MovementSpeed float32 `yaml:"movement_speed" toml:"movement_speed"`
	// RotationSpeed is the angle turned per step, in radians.
	RotationSpeed float32 `yaml:"rotation_speed" toml:"rotation_speed"`
	// SpeedFactor scales MovementSpeed up or down for every frame a speed key is held.
	SpeedFactor float32 `yaml:"speed_factor" toml:"speed_factor"`
	// ScaleByDelta multiplies movement and rotation steps by dt*ReferenceRate
	// instead of applying one fixed step per frame.
	ScaleByDelta  bool    `yaml:"scale_by_delta" toml:"scale_by_delta"`
	ReferenceRate float64 `yaml:"reference_rate" toml:"reference_rate"`
}

func DefaultSettings() Settings {
	return Settings{
		MovementSpeed: 0.002,
		RotationSpeed: 0.02,
		SpeedFactor:   1.2,
		ReferenceRate: 60,
	}
}

// Controller owns a Pose and advances it once per frame.
type Controller struct {
	settings Settings
	start    Pose
	pose     Pose
	speed    float32
}

func New(start Pose, settings Settings) *Controller {
	return &Controller{
		settings: settings,
		start:    start,
		pose:     start,
		speed:    settings.MovementSpeed,
	}
}

func (c *Controller) Pose() Pose {
	return c.pose
}

// Speed returns the current movement speed.
func (c *Controller) Speed() float32 {
	return c.speed
}

// Reset restores the start pose and the initial movement speed.
func (c *Controller) Reset() {
	c.pose = c.start
	c.speed = c.settings.MovementSpeed
}

// frame carries the per-update values every rule reads.
type frame struct {
	move    float32
	turn    float32
	forward mgl32.Vec3
	right   mgl32.Vec3
}

type rule struct {
	action input.Action
	apply  func(c *Controller, f *frame)
}

// rules run in order. Movement reads the yaw captured before any rotation
// rule of the same update fires.
var rules = []rule{
	{input.Forward, func(c *Controller, f *frame) { c.translate(f.forward.Mul(f.move)) }},
	{input.Back, func(c *Controller, f *frame) { c.translate(f.forward.Mul(-f.move)) }},
	{input.Left, func(c *Controller, f *frame) { c.translate(f.right.Mul(-f.move)) }},
	{input.Right, func(c *Controller, f *frame) { c.translate(f.right.Mul(f.move)) }},
	{input.Up, func(c *Controller, f *frame) { c.pose.Position[1] += f.move }},
	{input.Down, func(c *Controller, f *frame) { c.pose.Position[1] -= f.move }},
	{input.YawLeft, func(c *Controller, f *frame) { c.pose.Rotation[2] -= f.turn }},
	{input.YawRight, func(c *Controller, f *frame) { c.pose.Rotation[2] += f.turn }},
	{input.PitchUp, func(c *Controller, f *frame) { c.pose.Rotation[1] += f.turn }},
	{input.PitchDown, func(c *Controller, f *frame) { c.pose.Rotation[1] -= f.turn }},
	{input.SpeedUp, func(c *Controller, f *frame) {
		c.speed *= c.settings.SpeedFactor
		log.Printf("Movement speed increased: %g", c.speed)
	}},
	{input.SpeedDown, func(c *Controller, f *frame) {
		c.speed /= c.settings.SpeedFactor
		log.Printf("Movement speed reduced: %g", c.speed)
	}},
}

func (c *Controller) translate(d mgl32.Vec3) {
	c.pose.Position = c.pose.Position.Add(d)
}

// Update applies every rule whose action is held in in and returns the new
// pose. dt is the time since the previous frame in seconds; it is ignored
// unless Settings.ScaleByDelta is set. Diagonal movement is not normalized.
func (c *Controller) Update(in input.Snapshot, dt float64) Pose {
	if in.Held(input.Reset) {
		c.Reset()
		return c.pose
	}

	step := float32(1)
	if c.settings.ScaleByDelta {
		step = float32(dt * c.settings.ReferenceRate)
	}
	yaw := c.pose.Rotation[2]
	sin, cos := math32.Sin(yaw), math32.Cos(yaw)
	f := &frame{
		move:    c.speed * step,
		turn:    c.settings.RotationSpeed * step,
		forward: mgl32.Vec3{sin, 0, cos},
		right:   mgl32.Vec3{cos, 0, -sin},
	}
	for _, r := range rules {
		if in.Held(r.action) {
			r.apply(c, f)
		}
	}
	return c.pose
}
