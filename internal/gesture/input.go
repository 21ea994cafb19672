package gesture

import (
	"time"

	"github.com/example/emojiart/internal/geom"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// MousePointer is the pointer id used for the left mouse button. Touch
// sequence ids start at zero so they never collide with it.
const MousePointer int64 = -1

// FromTouch converts a touch event into a pointer sample.
func FromTouch(e touch.Event, at time.Time) Pointer {
	p := Pointer{ID: int64(e.Sequence), Pos: geom.Pt(e.X, e.Y), Time: at}
	switch e.Type {
	case touch.TypeBegin:
		p.Kind = Press
	case touch.TypeEnd:
		p.Kind = Release
	default:
		p.Kind = Move
	}
	return p
}

// FromMouse converts a mouse event into a pointer sample. Only the left
// button and plain motion are reported; ok is false for anything else.
func FromMouse(e mouse.Event, at time.Time) (p Pointer, ok bool) {
	p = Pointer{ID: MousePointer, Pos: geom.Pt(e.X, e.Y), Time: at}
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		p.Kind = Press
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		p.Kind = Release
	case e.Direction == mouse.DirNone:
		p.Kind = Move
	default:
		return Pointer{}, false
	}
	return p, true
}

// WheelSteps returns the zoom steps for a mouse wheel event: +1 for wheel up,
// -1 for wheel down and 0 otherwise.
func WheelSteps(e mouse.Event) int {
	if e.Direction != mouse.DirStep && e.Direction != mouse.DirPress {
		return 0
	}
	switch e.Button {
	case mouse.ButtonWheelUp:
		return 1
	case mouse.ButtonWheelDown:
		return -1
	}
	return 0
}
