package gesture

import (
	"time"

	"github.com/example/emojiart/internal/geom"
)

type state uint8

const (
	stateIdle state = iota
	statePressed
	stateDragging
	statePinching
	// stateSpent waits for the last pointer of an interrupted gesture to lift
	// without producing a tap.
	stateSpent
)

type contact struct {
	id  int64
	pos geom.Point
}

// Classifier turns Pointer samples into Events. The zero value is ready to
// use. It is not safe for concurrent use.
type Classifier struct {
	state    state
	contacts []contact

	start     geom.Point
	pressedAt time.Time

	pinchDist  float32
	pinchScale float32

	lastTapAt  time.Time
	lastTapPos geom.Point
	tapCount   int
}

// Active reports whether a gesture is in progress.
func (c *Classifier) Active() bool { return c.state != stateIdle }

// Reset abandons any gesture in progress. A running drag or pinch reports its
// cancellation.
func (c *Classifier) Reset() []Event {
	var out []Event
	switch c.state {
	case stateDragging:
		out = append(out, c.dragEvent(KindDragCancel))
	case statePinching:
		out = append(out, Event{Kind: KindPinchCancel, Start: c.start, Scale: c.pinchScale})
	}
	c.state = stateIdle
	c.contacts = c.contacts[:0]
	return out
}

// Feed processes one pointer sample.
func (c *Classifier) Feed(p Pointer) []Event {
	switch p.Kind {
	case Press:
		return c.press(p)
	case Move:
		return c.move(p)
	case Release:
		return c.release(p)
	case Cancel:
		return c.Reset()
	}
	return nil
}

// Wheel produces a complete discrete pinch around pos for the given number of
// wheel steps. Positive steps zoom in.
func (c *Classifier) Wheel(pos geom.Point, steps int) []Event {
	if steps == 0 || c.state != stateIdle {
		return nil
	}
	scale := float32(1)
	for i := 0; i < steps; i++ {
		scale *= WheelFactor
	}
	for i := 0; i > steps; i-- {
		scale /= WheelFactor
	}
	return []Event{
		{Kind: KindPinchStart, Start: pos, Pos: pos, Scale: 1},
		{Kind: KindPinchChange, Start: pos, Pos: pos, Scale: scale},
		{Kind: KindPinchEnd, Start: pos, Pos: pos, Scale: scale},
	}
}

func (c *Classifier) press(p Pointer) []Event {
	if c.find(p.ID) >= 0 {
		return nil
	}
	c.contacts = append(c.contacts, contact{id: p.ID, pos: p.Pos})
	switch c.state {
	case stateIdle:
		c.state = statePressed
		c.start = p.Pos
		c.pressedAt = p.Time
		return nil
	case statePressed, stateDragging:
		if len(c.contacts) < 2 {
			return nil
		}
		var out []Event
		if c.state == stateDragging {
			out = append(out, c.dragEvent(KindDragCancel))
		}
		c.state = statePinching
		a, b := c.contacts[0].pos, c.contacts[1].pos
		c.pinchDist = a.Dist(b)
		c.pinchScale = 1
		c.start = midpoint(a, b)
		out = append(out, Event{Kind: KindPinchStart, Start: c.start, Pos: c.start, Scale: 1})
		return out
	}
	return nil
}

func (c *Classifier) move(p Pointer) []Event {
	i := c.find(p.ID)
	if i < 0 {
		return nil
	}
	c.contacts[i].pos = p.Pos
	switch c.state {
	case statePressed:
		if i != 0 || p.Pos.Dist(c.start) <= Slop {
			return nil
		}
		c.state = stateDragging
		return []Event{
			{Kind: KindDragStart, Start: c.start, Pos: c.start},
			c.dragEvent(KindDragChange),
		}
	case stateDragging:
		if i != 0 {
			return nil
		}
		return []Event{c.dragEvent(KindDragChange)}
	case statePinching:
		if i > 1 || c.pinchDist == 0 {
			return nil
		}
		a, b := c.contacts[0].pos, c.contacts[1].pos
		c.pinchScale = a.Dist(b) / c.pinchDist
		return []Event{{Kind: KindPinchChange, Start: c.start, Pos: midpoint(a, b), Scale: c.pinchScale}}
	}
	return nil
}

func (c *Classifier) release(p Pointer) []Event {
	i := c.find(p.ID)
	if i < 0 {
		return nil
	}
	c.contacts[i].pos = p.Pos
	var out []Event
	switch c.state {
	case statePressed:
		if p.Time.Sub(c.pressedAt) <= TapTimeout && p.Pos.Dist(c.start) <= Slop {
			out = append(out, c.tap(p))
		}
	case stateDragging:
		out = append(out, c.dragEvent(KindDragEnd))
	case statePinching:
		if i <= 1 {
			out = append(out, Event{Kind: KindPinchEnd, Start: c.start, Pos: p.Pos, Scale: c.pinchScale})
		}
	}
	c.contacts = append(c.contacts[:i], c.contacts[i+1:]...)
	switch {
	case len(c.contacts) == 0:
		c.state = stateIdle
	case c.state != stateSpent && len(out) > 0:
		c.state = stateSpent
	case c.state == statePressed:
		c.state = stateSpent
	}
	return out
}

func (c *Classifier) tap(p Pointer) Event {
	if c.tapCount > 0 && p.Time.Sub(c.lastTapAt) <= DoubleTapWindow && p.Pos.Dist(c.lastTapPos) <= DoubleTapSlop {
		c.tapCount++
	} else {
		c.tapCount = 1
	}
	count := c.tapCount
	if c.tapCount >= 2 {
		c.tapCount = 0
	}
	c.lastTapAt = p.Time
	c.lastTapPos = p.Pos
	return Event{Kind: KindTap, Start: c.start, Pos: p.Pos, Count: count}
}

func (c *Classifier) dragEvent(k Kind) Event {
	pos := c.start
	if len(c.contacts) > 0 {
		pos = c.contacts[0].pos
	}
	return Event{Kind: k, Start: c.start, Pos: pos, Translation: pos.Sub(c.start)}
}

func (c *Classifier) find(id int64) int {
	for i := range c.contacts {
		if c.contacts[i].id == id {
			return i
		}
	}
	return -1
}

func midpoint(a, b geom.Point) geom.Point {
	return a.Add(b).Mul(0.5)
}
