// Package input maps held keys to the logical actions that drive the camera.
package input

import (
	"fmt"
	"strings"
)

// Action is a logical camera control.
type Action int

const (
	Forward Action = iota
	Back
	Left
	Right
	Up
	Down
	YawLeft
	YawRight
	PitchUp
	PitchDown
	SpeedUp
	SpeedDown
	Reset

	numActions
)

var actionNames = [numActions]string{
	Forward:   "forward",
	Back:      "back",
	Left:      "left",
	Right:     "right",
	Up:        "up",
	Down:      "down",
	YawLeft:   "yaw-left",
	YawRight:  "yaw-right",
	PitchUp:   "pitch-up",
	PitchDown: "pitch-down",
	SpeedUp:   "speed-up",
	SpeedDown: "speed-down",
	Reset:     "reset",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	all := make([]Action, numActions)
	for i := range all {
		all[i] = Action(i)
	}
	return all
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves a configuration name such as "yaw-left". Underscores
// and case are ignored.
func ParseAction(name string) (Action, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, s := range actionNames {
		if s == n {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Snapshot is the set of actions held during one frame.
type Snapshot uint32

// Of builds a snapshot with the given actions held.
func Of(actions ...Action) Snapshot {
	var s Snapshot
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (s Snapshot) Held(a Action) bool {
	return s&(1<<uint(a)) != 0
}

func (s Snapshot) With(a Action) Snapshot {
	return s | 1<<uint(a)
}

func (s Snapshot) String() string {
	var held []string
	for _, a := range Actions() {
		if s.Held(a) {
			held = append(held, a.String())
		}
	}
	return "[" + strings.Join(held, " ") + "]"
}
