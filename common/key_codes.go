package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace     = 32  // Spacebar (ASCII)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyEnter     = 257 // Enter key (GLFW)
	KeyTab       = 258 // Tab key (GLFW)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyDelete    = 261 // Delete key (GLFW)
	KeyRight     = 262 // Right arrow (GLFW)
	KeyLeft      = 263 // Left arrow (GLFW)
	KeyDown      = 264 // Down arrow (GLFW)
	KeyUp        = 265 // Up arrow (GLFW)

	KeyF1 = 290 // F1 (GLFW)
	KeyF5 = 294 // F5 (GLFW)
	KeyF9 = 298 // F9 (GLFW)
)

// ModifierKey is a bitmask of held modifier keys, matching glfw.ModifierKey bits.
type ModifierKey uint32

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

// Has reports whether all bits of k are set in m.
func (m ModifierKey) Has(k ModifierKey) bool {
	return m&k == k
}
