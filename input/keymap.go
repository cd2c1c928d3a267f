package input

import (
	"fmt"
	"sort"
)

// Keymap binds each action to a key name understood by the windowing layer
// (for example "W", "Space", "LeftControl", "Up").
type Keymap map[Action]string

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Forward:   "W",
		Back:      "S",
		Left:      "A",
		Right:     "D",
		Up:        "Space",
		Down:      "LeftControl",
		YawLeft:   "Q",
		YawRight:  "E",
		PitchUp:   "R",
		PitchDown: "F",
		SpeedUp:   "Up",
		SpeedDown: "Down",
		Reset:     "Backspace",
	}
}

// ParseKeymap converts an action-name → key-name table, as found in a config
// file, and lays it over the defaults.
func ParseKeymap(names map[string]string) (Keymap, error) {
	km := DefaultKeymap()
	for name, key := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, fmt.Errorf("action %s: empty key", a)
		}
		km[a] = key
	}
	return km, nil
}

// Keys returns the distinct key names used by km, sorted.
func (km Keymap) Keys() []string {
	seen := make(map[string]bool, len(km))
	keys := make([]string, 0, len(km))
	for _, k := range km {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Capture builds the snapshot for one frame. pressed reports whether the
// named key is currently held.
func (km Keymap) Capture(pressed func(key string) bool) Snapshot {
	var s Snapshot
	for a, key := range km {
		if pressed(key) {
			s = s.With(a)
		}
	}
	return s
}
