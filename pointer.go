package gizmo

// Viewport is the screen rectangle the camera renders into, in client pixels.
type Viewport struct {
	Left, Top     float32
	Width, Height float32
}

type PointerType int

const (
	PointerMouse PointerType = iota
	PointerPen
	PointerTouch
)

type DeviceAction int

const (
	DeviceMove DeviceAction = iota
	DeviceDown
	DeviceUp
)

// DeviceEvent is a raw pointer sample in client pixels, as delivered by a windowing layer.
type DeviceEvent struct {
	Action  DeviceAction
	X, Y    float32
	Button  int
	Pointer PointerType
	// Locked is set while the pointer is captured by the window (relative mouse mode).
	Locked bool
}

// ToPointer converts client pixels to normalized device coordinates. A locked pointer
// always maps to the viewport centre.
func (v Viewport) ToPointer(e DeviceEvent) PointerEvent {
	p := PointerEvent{Button: e.Button}
	if e.Locked || v.Width <= 0 || v.Height <= 0 {
		return p
	}
	p.X = (e.X-v.Left)/v.Width*2 - 1
	p.Y = -(e.Y-v.Top)/v.Height*2 + 1
	return p
}

// HandleDevice routes a device event through hover, down, move and up. Input is ignored
// while the controls are disabled.
func (c *TransformControls) HandleDevice(e DeviceEvent) {
	if !c.enabled {
		return
	}
	p := c.viewport.ToPointer(e)
	switch e.Action {
	case DeviceMove:
		if e.Pointer == PointerMouse || e.Pointer == PointerPen {
			c.Hover(p)
		}
		if c.drag != nil {
			p.Button = ButtonNone
			c.PointerMove(p)
		}
	case DeviceDown:
		// touch has no hover phase, so pick the axis under the finger first
		c.Hover(p)
		c.PointerDown(p)
	case DeviceUp:
		c.PointerUp(p)
	}
}
