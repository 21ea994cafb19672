/*
Package gesture classifies raw pointer input into taps, drags and pinches.

The Classifier is fed Pointer events from touch sequences or the mouse and
returns the higher level Events they complete. It never consults a platform
recogniser: a press becomes a drag once it travels further than Slop,
otherwise its release is a tap, and a second pointer turns the interaction
into a pinch.
*/
package gesture

import (
	"time"

	"github.com/example/emojiart/internal/geom"
)

// Slop is how far a pointer may travel before a press stops being a tap.
const Slop = 3

// TapTimeout is the longest press that still counts as a tap.
const TapTimeout = 300 * time.Millisecond

// DoubleTapWindow is the longest gap between two taps of a double tap.
const DoubleTapWindow = 300 * time.Millisecond

// DoubleTapSlop is how far apart two taps of a double tap may land.
const DoubleTapSlop = 20

// WheelFactor is the pinch scale produced by one wheel step.
const WheelFactor = 1.1

// PointerKind describes what happened to a pointer.
type PointerKind uint8

const (
	Press PointerKind = iota
	Move
	Release
	Cancel
)

// Pointer is a single low level input sample.
type Pointer struct {
	ID   int64
	Kind PointerKind
	Pos  geom.Point
	Time time.Time
}

// Kind identifies a classified gesture event.
type Kind uint8

const (
	// KindTap is reported on release of a short, still press.
	KindTap Kind = iota
	// KindDragStart is reported once a press has travelled beyond Slop.
	KindDragStart
	// KindDragChange reports the cumulative translation of a drag.
	KindDragChange
	// KindDragEnd reports the final cumulative translation.
	KindDragEnd
	// KindDragCancel is reported when a drag is interrupted, usually by a
	// second finger.
	KindDragCancel
	// KindPinchStart is reported when a second pointer goes down.
	KindPinchStart
	// KindPinchChange reports the cumulative scale since the pinch began.
	KindPinchChange
	// KindPinchEnd reports the final cumulative scale.
	KindPinchEnd
	// KindPinchCancel is reported when a pinch is abandoned.
	KindPinchCancel
)

// Event is a classified gesture.
type Event struct {
	Kind Kind
	// Start is where the gesture began, in screen coordinates. For pinches
	// it is the midpoint between both pointers.
	Start geom.Point
	// Pos is the current position of the primary pointer.
	Pos geom.Point
	// Translation is the cumulative movement for drag events.
	Translation geom.Point
	// Scale is the cumulative factor for pinch events.
	Scale float32
	// Count is 1 for a single tap and 2 for the second tap of a double tap.
	Count int
}

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "Tap"
	case KindDragStart:
		return "DragStart"
	case KindDragChange:
		return "DragChange"
	case KindDragEnd:
		return "DragEnd"
	case KindDragCancel:
		return "DragCancel"
	case KindPinchStart:
		return "PinchStart"
	case KindPinchChange:
		return "PinchChange"
	case KindPinchEnd:
		return "PinchEnd"
	case KindPinchCancel:
		return "PinchCancel"
	default:
		panic("invalid gesture Kind")
	}
}
