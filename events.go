package gizmo

import "github.com/google/uuid"

type EventKind int

const (
	// EventChange asks the host to redraw.
	EventChange EventKind = iota
	// EventProperty reports a changed setting or state field; Property names it.
	EventProperty
	EventDragStart
	EventDragEnd
	// EventTransformChanged follows every write to the attached node.
	EventTransformChanged
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventProperty:
		return "property"
	case EventDragStart:
		return "dragStart"
	case EventDragEnd:
		return "dragEnd"
	case EventTransformChanged:
		return "transformChanged"
	}
	return "unknown"
}

// Property names carried by EventProperty.
const (
	PropMode            = "mode"
	PropSpace           = "space"
	PropAxis            = "axis"
	PropDragging        = "dragging"
	PropEnabled         = "enabled"
	PropSize            = "size"
	PropTranslationSnap = "translationSnap"
	PropRotationSnap    = "rotationSnap"
	PropScaleSnap       = "scaleSnap"
	PropShowX           = "showX"
	PropShowY           = "showY"
	PropShowZ           = "showZ"
	PropCamera          = "camera"
	PropObject          = "object"
)

type Event struct {
	Kind     EventKind
	Mode     Mode
	Property string
	Value    any
}

type ListenerID string

type listener struct {
	id   ListenerID
	kind EventKind
	fn   func(Event)
}

// On registers fn for events of kind and returns the id to remove it with.
func (c *TransformControls) On(kind EventKind, fn func(Event)) ListenerID {
	id := ListenerID(uuid.NewString())
	c.listeners = append(c.listeners, listener{id: id, kind: kind, fn: fn})
	return id
}

// Off removes a listener. Unknown ids are ignored.
func (c *TransformControls) Off(id ListenerID) bool {
	for i, l := range c.listeners {
		if l.id == id {
			c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (c *TransformControls) emit(e Event) {
	e.Mode = c.mode
	// listeners may unsubscribe while being called
	snapshot := c.listeners
	for _, l := range snapshot {
		if l.kind == e.Kind {
			l.fn(e)
		}
	}
}

func (c *TransformControls) emitProperty(name string, value any) {
	c.emit(Event{Kind: EventProperty, Property: name, Value: value})
}

// changed raises the redraw notification together with a property notification.
func (c *TransformControls) changed(name string, value any) {
	c.emit(Event{Kind: EventChange})
	c.emitProperty(name, value)
}

func (c *TransformControls) emitTransform() {
	c.emit(Event{Kind: EventChange})
	c.emit(Event{Kind: EventTransformChanged})
}
