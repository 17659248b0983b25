package window

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowError struct {
	msg string
	err error
}

func (e *WindowError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *WindowError) Unwrap() error {
	return e.err
}

// Window is a desktop GLFW window with a current OpenGL 4.1 core context.
// Input is latched by callbacks and read back by polling, so callers never
// see GLFW types outside this package except the key codes.
type Window struct {
	win *glfw.Window

	lastKey    glfw.Key
	lastAction glfw.Action

	focused   bool
	iconified bool
	resized   bool
}

// NewWindow initialises GLFW and opens a window. Must be called from the main
// thread, which must stay locked for the life of the window.
func NewWindow(title string, width, height int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &WindowError{"failed to initialise GLFW", err}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, &WindowError{"failed to create window", err}
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &Window{win: win, focused: true}
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.lastKey = key
		w.lastAction = action
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.focused = focused
	})
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		w.iconified = iconified
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		w.resized = true
	})

	return w, nil
}

// GetSize returns the framebuffer size in pixels.
func (w *Window) GetSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) Close() {
	w.win.SetShouldClose(true)
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// WaitEvents blocks until an event arrives or timeout passes. Wake counts as
// an event.
func (w *Window) WaitEvents(timeout time.Duration) {
	if timeout <= 0 {
		glfw.PollEvents()
		return
	}
	glfw.WaitEventsTimeout(timeout.Seconds())
}

// Wake unblocks WaitEvents. Safe to call from any goroutine.
func (w *Window) Wake() {
	glfw.PostEmptyEvent()
}

func (w *Window) Focused() bool {
	return w.focused
}

func (w *Window) Iconified() bool {
	return w.iconified
}

// TakeResize reports whether the framebuffer changed size since the last call.
func (w *Window) TakeResize() bool {
	r := w.resized
	w.resized = false
	return r
}

// GetLastKey returns the most recent key event, if one is pending.
func (w *Window) GetLastKey() (glfw.Key, glfw.Action, bool) {
	return w.lastKey, w.lastAction, w.lastKey != glfw.KeyUnknown && w.lastKey != 0
}

func (w *Window) ClearLastKey() {
	w.lastKey = 0
}

func (w *Window) Destroy() {
	if w.win != nil {
		w.win.Destroy()
	}
	glfw.Terminate()
}
