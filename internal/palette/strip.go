package palette

import (
	"github.com/chewxy/math32"
	"github.com/example/emojiart/internal/drop"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/gesture"
)

const (
	// GlyphSize is the font size glyphs are shown at in the strip.
	GlyphSize = 40
	// CellWidth is the horizontal space taken by one glyph.
	CellWidth = 52
	// Margin is the padding before the first and after the last glyph.
	Margin = 16
	// WheelStep is how far one wheel step scrolls.
	WheelStep = CellWidth
)

// Strip lays a palette out horizontally and scrolls it. Coordinates are
// relative to the strip's top-left corner.
type Strip struct {
	Palette Palette
	Width   float32
	Height  float32
	Offset  float32

	dragStartOffset float32
	mode            stripMode
	glyph           string
	pos             geom.Point
}

type stripMode uint8

const (
	modeIdle stripMode = iota
	modeScroll
	modeGlyph
)

// Drag is a glyph being dragged out of the strip.
type Drag struct {
	Glyph string
	// Pos is the current pointer position relative to the strip.
	Pos geom.Point
}

// Providers offers the dragged glyph as a text payload.
func (d Drag) Providers() []drop.Provider {
	return []drop.Provider{drop.Text(d.Glyph)}
}

// NewStrip returns a strip showing p.
func NewStrip(p Palette) *Strip {
	return &Strip{Palette: p}
}

// SetSize updates the visible area and keeps the offset in range.
func (s *Strip) SetSize(sz geom.Size) {
	s.Width, s.Height = sz.W, sz.H
	s.clamp()
}

// ContentWidth is the width of all glyph cells plus margins.
func (s *Strip) ContentWidth() float32 {
	return float32(s.Palette.Len())*CellWidth + 2*Margin
}

// MaxOffset is the largest valid scroll offset.
func (s *Strip) MaxOffset() float32 {
	return math32.Max(0, s.ContentWidth()-s.Width)
}

// ScrollBy moves the strip content left by dx and clamps the result.
func (s *Strip) ScrollBy(dx float32) {
	s.Offset += dx
	s.clamp()
}

func (s *Strip) clamp() {
	s.Offset = math32.Max(0, math32.Min(s.Offset, s.MaxOffset()))
}

// CellCenter returns the centre of glyph i on screen.
func (s *Strip) CellCenter(i int) geom.Point {
	x := Margin + float32(i)*CellWidth + CellWidth/2 - s.Offset
	return geom.Pt(x, s.Height/2)
}

// Visible returns the half-open range of glyph indices currently on screen.
func (s *Strip) Visible() (first, last int) {
	n := s.Palette.Len()
	first = int(math32.Floor((s.Offset - Margin) / CellWidth))
	last = int(math32.Ceil((s.Offset+s.Width-Margin)/CellWidth)) + 1
	if first < 0 {
		first = 0
	}
	if last > n {
		last = n
	}
	if first > last {
		first = last
	}
	return first, last
}

// GlyphAt returns the index of the glyph under x.
func (s *Strip) GlyphAt(x float32) (int, bool) {
	cx := x + s.Offset - Margin
	if cx < 0 {
		return 0, false
	}
	i := int(cx / CellWidth)
	if i >= s.Palette.Len() {
		return 0, false
	}
	return i, true
}

// Dragging reports the glyph currently dragged out of the strip.
func (s *Strip) Dragging() (Drag, bool) {
	if s.mode != modeGlyph {
		return Drag{}, false
	}
	return Drag{Glyph: s.glyph, Pos: s.pos}, true
}

// Handle applies a gesture that began on the strip. Mostly vertical drags that
// start on a glyph pull it out; other drags scroll. A completed glyph drag is
// returned so the caller can drop it.
func (s *Strip) Handle(e gesture.Event) (dropped *Drag, changed bool) {
	switch e.Kind {
	case gesture.KindDragStart:
		s.mode = modeIdle
		s.dragStartOffset = s.Offset
		return nil, false
	case gesture.KindDragChange:
		if s.mode == modeIdle {
			s.mode = modeScroll
			tr := e.Translation
			if i, ok := s.GlyphAt(e.Start.X); ok && math32.Abs(tr.Y) > math32.Abs(tr.X) {
				s.mode = modeGlyph
				s.glyph = s.Palette.Glyphs[i]
			}
		}
		switch s.mode {
		case modeScroll:
			s.Offset = s.dragStartOffset - e.Translation.X
			s.clamp()
		case modeGlyph:
			s.pos = e.Start.Add(e.Translation)
		}
		return nil, true
	case gesture.KindDragEnd:
		var out *Drag
		if s.mode == modeGlyph {
			out = &Drag{Glyph: s.glyph, Pos: e.Start.Add(e.Translation)}
		}
		s.mode = modeIdle
		return out, true
	case gesture.KindDragCancel:
		if s.mode == modeScroll {
			s.Offset = s.dragStartOffset
		}
		s.mode = modeIdle
		return nil, true
	}
	return nil, false
}

// Wheel scrolls by whole wheel steps. Positive steps move towards the start.
func (s *Strip) Wheel(steps int) {
	s.ScrollBy(-float32(steps) * WheelStep)
}
