// Package glfwinput feeds GLFW window input into a gizmo.TransformControls.
package glfwinput

import (
	"github.com/gekko3d/gizmo"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Snap steps applied while Shift is held.
const (
	ShiftTranslationSnap = 1
	ShiftRotationSnap    = 15 // degrees
	ShiftScaleSnap       = 0.25
)

// Binding owns the callbacks installed on a window. Callbacks that were installed before Bind
// keep running after the controls have seen the event.
type Binding struct {
	window   *glfw.Window
	controls *gizmo.TransformControls
	x, y     float32

	prevCursor glfw.CursorPosCallback
	prevButton glfw.MouseButtonCallback
	prevKey    glfw.KeyCallback
	prevSize   glfw.SizeCallback
}

// Bind routes cursor, button, key and resize events of w to c. Must be called from the main
// thread, like every other GLFW call.
func Bind(w *glfw.Window, c *gizmo.TransformControls) *Binding {
	b := &Binding{window: w, controls: c}
	width, height := w.GetSize()
	c.SetViewport(gizmo.Viewport{Width: float32(width), Height: float32(height)})

	b.prevCursor = w.SetCursorPosCallback(b.onCursor)
	b.prevButton = w.SetMouseButtonCallback(b.onButton)
	b.prevKey = w.SetKeyCallback(b.onKey)
	b.prevSize = w.SetSizeCallback(b.onSize)
	return b
}

// Unbind restores the callbacks that were installed before Bind.
func (b *Binding) Unbind() {
	b.window.SetCursorPosCallback(b.prevCursor)
	b.window.SetMouseButtonCallback(b.prevButton)
	b.window.SetKeyCallback(b.prevKey)
	b.window.SetSizeCallback(b.prevSize)
}

func (b *Binding) locked() bool {
	return b.window.GetInputMode(glfw.CursorMode) == glfw.CursorDisabled
}

func (b *Binding) onCursor(w *glfw.Window, xpos, ypos float64) {
	b.x, b.y = float32(xpos), float32(ypos)
	b.controls.HandleDevice(gizmo.DeviceEvent{
		Action:  gizmo.DeviceMove,
		X:       b.x,
		Y:       b.y,
		Button:  gizmo.ButtonNone,
		Pointer: gizmo.PointerMouse,
		Locked:  b.locked(),
	})
	if b.prevCursor != nil {
		b.prevCursor(w, xpos, ypos)
	}
}

func (b *Binding) onButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if act, ok := DeviceAction(action); ok {
		b.controls.HandleDevice(gizmo.DeviceEvent{
			Action:  act,
			X:       b.x,
			Y:       b.y,
			Button:  Button(button),
			Pointer: gizmo.PointerMouse,
			Locked:  b.locked(),
		})
	}
	if b.prevButton != nil {
		b.prevButton(w, button, action, mods)
	}
}

func (b *Binding) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	ApplyKey(b.controls, key, action)
	if b.prevKey != nil {
		b.prevKey(w, key, scancode, action, mods)
	}
}

func (b *Binding) onSize(w *glfw.Window, width, height int) {
	b.controls.SetViewport(gizmo.Viewport{Width: float32(width), Height: float32(height)})
	if b.prevSize != nil {
		b.prevSize(w, width, height)
	}
}

// Button maps a GLFW mouse button to the gizmo button numbering.
func Button(b glfw.MouseButton) int {
	switch b {
	case glfw.MouseButtonLeft:
		return gizmo.ButtonPrimary
	case glfw.MouseButtonMiddle:
		return gizmo.ButtonMiddle
	case glfw.MouseButtonRight:
		return gizmo.ButtonSecondary
	}
	return int(b)
}

// DeviceAction maps press and release; key repeat has no pointer meaning.
func DeviceAction(a glfw.Action) (gizmo.DeviceAction, bool) {
	switch a {
	case glfw.Press:
		return gizmo.DeviceDown, true
	case glfw.Release:
		return gizmo.DeviceUp, true
	}
	return 0, false
}

// ApplyKey implements the editor shortcuts: W/E/R pick the mode, Q toggles the space,
// X/Y/Z toggle the axes, Space toggles the controls, +/- resize them and Shift snaps while
// held.
func ApplyKey(c *gizmo.TransformControls, key glfw.Key, action glfw.Action) {
	if key == glfw.KeyLeftShift || key == glfw.KeyRightShift {
		switch action {
		case glfw.Press:
			c.SetTranslationSnap(ShiftTranslationSnap)
			c.SetRotationSnap(mgl32.DegToRad(ShiftRotationSnap))
			c.SetScaleSnap(ShiftScaleSnap)
		case glfw.Release:
			c.SetTranslationSnap(0)
			c.SetRotationSnap(0)
			c.SetScaleSnap(0)
		}
		return
	}
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	switch key {
	case glfw.KeyW:
		_ = c.SetMode(gizmo.ModeTranslate)
	case glfw.KeyE:
		_ = c.SetMode(gizmo.ModeRotate)
	case glfw.KeyR:
		_ = c.SetMode(gizmo.ModeScale)
	case glfw.KeyQ:
		if c.Space() == gizmo.SpaceWorld {
			_ = c.SetSpace(gizmo.SpaceLocal)
		} else {
			_ = c.SetSpace(gizmo.SpaceWorld)
		}
	case glfw.KeyX:
		c.SetShowX(!c.ShowX())
	case glfw.KeyY:
		c.SetShowY(!c.ShowY())
	case glfw.KeyZ:
		c.SetShowZ(!c.ShowZ())
	case glfw.KeySpace:
		c.SetEnabled(!c.Enabled())
	case glfw.KeyEqual, glfw.KeyKPAdd:
		c.SetSize(c.Size() + 0.1)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		c.SetSize(max(c.Size()-0.1, 0.1))
	}
}
