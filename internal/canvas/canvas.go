// Package canvas routes classified gestures to the document and the view.
package canvas

import (
	"context"

	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/drop"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/gesture"
)

// HitPadding is added around each emoji glyph box when hit testing and
// drawing selection halos.
const HitPadding = 10

// Canvas is the interactive surface of the editor. It is driven from a
// single event loop goroutine.
type Canvas struct {
	doc  *document.Document
	size geom.Size

	View      View
	Selection Selection

	drag  dragState
	pinch pinchState
}

type dragState struct {
	active  bool
	panning bool
	targets []document.ID
	prev    geom.Point
}

type pinchState struct {
	active    bool
	selection []document.ID
	prev      float32
}

// New returns a canvas editing doc.
func New(doc *document.Document) *Canvas {
	return &Canvas{doc: doc, View: NewView()}
}

// Document returns the edited document.
func (c *Canvas) Document() *document.Document { return c.doc }

// SetSize records the on-screen size of the canvas.
func (c *Canvas) SetSize(s geom.Size) { c.size = s }

// Size returns the on-screen size of the canvas.
func (c *Canvas) Size() geom.Size { return c.size }

// Transform returns the current effective transform.
func (c *Canvas) Transform() Transform {
	return c.View.Transform(c.size, c.Selection.Empty())
}

// HitTest returns the top-most emoji whose padded box contains the screen
// point p.
func (c *Canvas) HitTest(p geom.Point) (document.ID, bool) {
	t := c.Transform()
	emojis := c.doc.Emojis()
	for i := len(emojis) - 1; i >= 0; i-- {
		e := emojis[i]
		centre := t.ToScreen(e.Location)
		half := e.Size*t.Zoom/2 + HitPadding
		d := p.Sub(centre)
		if d.X >= -half && d.X <= half && d.Y >= -half && d.Y <= half {
			return e.ID, true
		}
	}
	return 0, false
}

// ZoomToFit fits the background into the canvas. It reports false when there
// is no usable background.
func (c *Canvas) ZoomToFit() bool {
	bg := c.doc.Background()
	if bg == nil {
		return false
	}
	return c.View.ZoomToFit(geom.SizeOf(bg.Bounds()), c.size)
}

// ZoomBy applies factor as one complete pinch gesture centred on the canvas.
func (c *Canvas) ZoomBy(factor float32) {
	centre := c.size.Center()
	c.Handle(gesture.Event{Kind: gesture.KindPinchStart, Start: centre, Pos: centre, Scale: 1})
	c.Handle(gesture.Event{Kind: gesture.KindPinchChange, Start: centre, Pos: centre, Scale: factor})
	c.Handle(gesture.Event{Kind: gesture.KindPinchEnd, Start: centre, Pos: centre, Scale: factor})
}

// Drop resolves providers dropped at the screen point at.
func (c *Canvas) Drop(ctx context.Context, h *drop.Handler, providers []drop.Provider, at geom.Point) bool {
	return h.Handle(ctx, c.doc, providers, c.Transform().ToDocument(at))
}

// Handle applies one classified gesture event. It reports whether the view
// changed and needs a repaint. Document changes are announced through the
// document's own subscription.
func (c *Canvas) Handle(e gesture.Event) bool {
	switch e.Kind {
	case gesture.KindTap:
		return c.tap(e.Pos, e.Count)
	case gesture.KindDragStart:
		c.dragStart(e.Start)
		return false
	case gesture.KindDragChange:
		return c.dragChange(e.Translation)
	case gesture.KindDragEnd:
		changed := c.dragChange(e.Translation)
		if c.drag.panning {
			c.View.EndPan()
		}
		c.drag = dragState{}
		return changed
	case gesture.KindDragCancel:
		if c.drag.panning {
			c.View.CancelPan()
		}
		c.drag = dragState{}
		return true
	case gesture.KindPinchStart:
		c.pinch = pinchState{active: true, selection: c.Selection.IDs(), prev: 1}
		return false
	case gesture.KindPinchChange:
		return c.pinchChange(e.Scale)
	case gesture.KindPinchEnd:
		c.pinchChange(e.Scale)
		if len(c.pinch.selection) == 0 {
			c.View.EndZoom()
		}
		c.pinch = pinchState{}
		return true
	case gesture.KindPinchCancel:
		if len(c.pinch.selection) == 0 {
			c.View.CancelZoom()
		}
		c.pinch = pinchState{}
		return true
	}
	return false
}

func (c *Canvas) tap(p geom.Point, count int) bool {
	if id, ok := c.HitTest(p); ok {
		c.Selection.Toggle(id)
		return true
	}
	hadSelection := !c.Selection.Empty()
	c.Selection.Clear()
	if count >= 2 {
		return c.ZoomToFit() || hadSelection
	}
	return hadSelection
}

func (c *Canvas) dragStart(at geom.Point) {
	c.drag = dragState{active: true}
	id, ok := c.HitTest(at)
	switch {
	case !ok:
		c.drag.panning = true
	case c.Selection.Contains(id):
		c.drag.targets = c.Selection.IDs()
	default:
		c.drag.targets = []document.ID{id}
	}
}

func (c *Canvas) dragChange(translation geom.Point) bool {
	if !c.drag.active {
		return false
	}
	zoom := c.Transform().Zoom
	if c.drag.panning {
		c.View.GesturePan = translation.Div(zoom)
		return true
	}
	delta := translation.Sub(c.drag.prev)
	c.drag.prev = translation
	if delta == (geom.Point{}) {
		return false
	}
	by := delta.Div(zoom)
	for _, id := range c.drag.targets {
		c.doc.MoveEmoji(id, by)
	}
	return false
}

func (c *Canvas) pinchChange(scale float32) bool {
	if !c.pinch.active || scale <= 0 {
		return false
	}
	if len(c.pinch.selection) == 0 {
		c.View.GestureZoom = scale
		return true
	}
	factor := scale / c.pinch.prev
	c.pinch.prev = scale
	if factor == 1 {
		return false
	}
	for _, id := range c.pinch.selection {
		c.doc.ScaleEmoji(id, factor)
	}
	return false
}
