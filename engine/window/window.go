// Package window wraps the GLFW window that hosts the badge: the surface the renderer draws
// to, keyboard and pointer input, the title bar status line and the clipboard.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-badge/common"
)

// ErrNotInitialized is returned by operations that need the platform window after it was closed
// or before it was created.
var ErrNotInitialized = errors.New("window is not initialized")

// DefaultPostQueueSize bounds the number of pending main-thread tasks.
const DefaultPostQueueSize = 64

// Window provides platform windowing and input event handling.
// All callbacks run on the main thread inside ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code and the held modifiers
	SetKeyDownCallback(callback func(keyCode uint32, mods common.ModifierKey))

	// SetKeyUpCallback sets the callback for key release events.
	SetKeyUpCallback(callback func(keyCode uint32, mods common.ModifierKey))

	// SetCharCallback sets the callback for text input, one Unicode code point at a time.
	//
	// Parameters:
	//   - callback: function receiving the typed rune
	SetCharCallback(callback func(r rune))

	// SetDragCallback sets the callback for pointer movement while the left button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in pixels since the last event
	SetDragCallback(callback func(dx, dy float64))

	// SetTitle replaces the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Title returns the current title bar text.
	Title() string

	// SetClipboardText writes text to the system clipboard. Must be called on the main thread;
	// use Post from other goroutines.
	//
	// Parameters:
	//   - text: the text to copy
	//
	// Returns:
	//   - error: error if the platform rejected the write
	SetClipboardText(text string) error

	// Post queues fn to run on the main thread at the start of the next loop iteration.
	// Safe to call from any goroutine.
	//
	// Parameters:
	//   - fn: the task to run
	//
	// Returns:
	//   - bool: false if the queue is full or the window has stopped
	Post(fn func()) bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Runs posted tasks, then the update callback, each iteration.
	ProcessMessages()

	Width() int
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	posted  chan func()
	stopped bool

	// drag tracking for the left mouse button
	dragging      bool
	lastX, lastY  float64
	cursorTracked bool
	closeOnEscape bool

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(keyCode uint32, mods common.ModifierKey)
	onKeyUp   func(keyCode uint32, mods common.ModifierKey)
	onChar    func(r rune)
	onDrag    func(dx, dy float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order, then creates the platform window.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

// newEngineWindow applies defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "oxy-badge",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      480,
		minHeight:     360,
		width:         1280,
		height:        720,
		posted:        make(chan func(), DefaultPostQueueSize),
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32, mods common.ModifierKey)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32, mods common.ModifierKey)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetCharCallback(callback func(r rune)) {
	w.onChar = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float64)) {
	w.onDrag = callback
}

func (w *engineWindow) SetTitle(title string) {
	if title == w.title {
		return
	}
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SetClipboardText(text string) error {
	return platformSetClipboard(w, text)
}

func (w *engineWindow) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case w.posted <- fn:
		return true
	default:
		return false
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return !w.stopped && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.stopped = true
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	w.stopped = true
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		w.runPosted()
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
	w.runPosted()
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// runPosted drains the post queue without blocking.
func (w *engineWindow) runPosted() {
	for {
		select {
		case fn := <-w.posted:
			fn()
		default:
			return
		}
	}
}

// dispatchKey routes a key event. Escape closes the window when enabled.
func (w *engineWindow) dispatchKey(key uint32, pressed bool, mods common.ModifierKey) {
	if pressed && key == common.KeyEsc && w.closeOnEscape {
		w.RequestClose()
		return
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(key, mods)
		}
		return
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key, mods)
	}
}

func (w *engineWindow) dispatchChar(r rune) {
	if w.onChar != nil {
		w.onChar(r)
	}
}

// dispatchLeftButton starts or ends a drag at the given cursor position.
func (w *engineWindow) dispatchLeftButton(pressed bool, x, y float64) {
	w.dragging = pressed
	w.lastX, w.lastY = x, y
	w.cursorTracked = true
}

// dispatchCursor reports the delta since the previous cursor event while dragging.
func (w *engineWindow) dispatchCursor(x, y float64) {
	dx, dy := x-w.lastX, y-w.lastY
	tracked := w.cursorTracked
	w.lastX, w.lastY = x, y
	w.cursorTracked = true
	if !w.dragging || !tracked || (dx == 0 && dy == 0) {
		return
	}
	if w.onDrag != nil {
		w.onDrag(dx, dy)
	}
}

func (w *engineWindow) dispatchResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
