package glfwcontext

import (
	"strings"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

var namedKeys = map[string]glfw.Key{
	"space":        glfw.KeySpace,
	"apostrophe":   glfw.KeyApostrophe,
	"comma":        glfw.KeyComma,
	"minus":        glfw.KeyMinus,
	"period":       glfw.KeyPeriod,
	"slash":        glfw.KeySlash,
	"semicolon":    glfw.KeySemicolon,
	"equal":        glfw.KeyEqual,
	"leftbracket":  glfw.KeyLeftBracket,
	"backslash":    glfw.KeyBackslash,
	"rightbracket": glfw.KeyRightBracket,
	"graveaccent":  glfw.KeyGraveAccent,
	"enter":        glfw.KeyEnter,
	"tab":          glfw.KeyTab,
	"backspace":    glfw.KeyBackspace,
	"insert":       glfw.KeyInsert,
	"delete":       glfw.KeyDelete,
	"right":        glfw.KeyRight,
	"left":         glfw.KeyLeft,
	"down":         glfw.KeyDown,
	"up":           glfw.KeyUp,
	"pageup":       glfw.KeyPageUp,
	"pagedown":     glfw.KeyPageDown,
	"home":         glfw.KeyHome,
	"end":          glfw.KeyEnd,
	"leftshift":    glfw.KeyLeftShift,
	"leftcontrol":  glfw.KeyLeftControl,
	"leftalt":      glfw.KeyLeftAlt,
	"rightshift":   glfw.KeyRightShift,
	"rightcontrol": glfw.KeyRightControl,
	"rightalt":     glfw.KeyRightAlt,
	"kpadd":        glfw.KeyKPAdd,
	"kpsubtract":   glfw.KeyKPSubtract,
}

// KeyByName resolves a keymap key name. Letters and digits are their own
// names ("W", "7"); other keys use the GLFW name without the Key prefix
// ("Space", "LeftControl"). Matching ignores case.
func KeyByName(name string) (glfw.Key, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) == 1 {
		switch ch := n[0]; {
		case ch >= 'a' && ch <= 'z':
			return glfw.KeyA + glfw.Key(ch-'a'), true
		case ch >= '0' && ch <= '9':
			return glfw.Key0 + glfw.Key(ch-'0'), true
		}
	}
	k, ok := namedKeys[n]
	return k, ok
}
