package canvas

import (
	"context"
	"image"
	"net/url"
	"testing"

	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/drop"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCanvas(t *testing.T) (*Canvas, *document.Document) {
	t.Helper()
	doc := document.New(document.WithLoader(func(context.Context, *url.URL) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 200, 100)), nil
	}))
	c := New(doc)
	c.SetSize(geom.Sz(400, 300))
	return c, doc
}

func drag(c *Canvas, start geom.Point, translations ...geom.Point) {
	c.Handle(gesture.Event{Kind: gesture.KindDragStart, Start: start, Pos: start})
	for _, tr := range translations[:len(translations)-1] {
		c.Handle(gesture.Event{Kind: gesture.KindDragChange, Start: start, Translation: tr})
	}
	last := translations[len(translations)-1]
	c.Handle(gesture.Event{Kind: gesture.KindDragEnd, Start: start, Translation: last})
}

func TestTransformRoundTrip(t *testing.T) {
	v := View{SteadyPan: geom.Pt(10, -5), SteadyZoom: 2, GesturePan: geom.Pt(1, 1), GestureZoom: 1.5}
	tr := v.Transform(geom.Sz(400, 300), true)

	assert.Equal(t, float32(3), tr.Zoom)
	assert.Equal(t, geom.Pt(33, -12), tr.Pan)
	p := tr.ToScreen(geom.Pt(4, 6))
	assert.Equal(t, geom.Pt(4*3+200+33, 6*3+150-12), p)
	assert.Equal(t, geom.Pt(4, 6), tr.ToDocument(p))
}

func TestSelectionIgnoresGestureZoom(t *testing.T) {
	v := View{SteadyZoom: 2, GestureZoom: 3}
	assert.Equal(t, float32(6), v.Zoom(true))
	assert.Equal(t, float32(2), v.Zoom(false))
}

func TestZoomToFit(t *testing.T) {
	c, doc := newCanvas(t)
	c.View.SteadyPan = geom.Pt(40, 40)
	c.View.SteadyZoom = 0.5

	assert.False(t, c.ZoomToFit())
	require.NoError(t, doc.SetBackgroundURL(context.Background(), &url.URL{Scheme: "file", Path: "/bg.png"}))
	require.True(t, c.ZoomToFit())

	assert.Equal(t, float32(2), c.View.SteadyZoom)
	assert.Equal(t, geom.Point{}, c.View.SteadyPan)
	assert.Equal(t, geom.Point{}, c.View.GesturePan)
}

func TestZoomToFitEmptyImage(t *testing.T) {
	v := NewView()
	v.SteadyZoom = 3
	assert.False(t, v.ZoomToFit(geom.Sz(0, 100), geom.Sz(400, 300)))
	assert.Equal(t, float32(3), v.SteadyZoom)
}

func TestDoubleTapBackgroundFits(t *testing.T) {
	c, doc := newCanvas(t)
	doc.SetBackground(image.NewRGBA(image.Rect(0, 0, 200, 100)), nil)

	c.Handle(gesture.Event{Kind: gesture.KindTap, Pos: geom.Pt(5, 5), Count: 2})
	assert.Equal(t, float32(2), c.View.SteadyZoom)
}

func TestTapTogglesSelection(t *testing.T) {
	c, doc := newCanvas(t)
	e := doc.AddEmoji("😀", geom.Pt(0, 0), 40)
	centre := c.Transform().ToScreen(e.Location)

	c.Handle(gesture.Event{Kind: gesture.KindTap, Pos: centre, Count: 1})
	assert.True(t, c.Selection.Contains(e.ID))
	c.Handle(gesture.Event{Kind: gesture.KindTap, Pos: centre, Count: 1})
	assert.False(t, c.Selection.Contains(e.ID))
	assert.True(t, c.Selection.Empty())

	c.Handle(gesture.Event{Kind: gesture.KindTap, Pos: centre, Count: 1})
	c.Handle(gesture.Event{Kind: gesture.KindTap, Pos: geom.Pt(5, 5), Count: 1})
	assert.True(t, c.Selection.Empty())
}

func TestSelectionToggleIsInvolution(t *testing.T) {
	var s Selection
	s.Toggle(3)
	before := s.IDs()
	s.Toggle(7)
	s.Toggle(7)
	assert.Equal(t, before, s.IDs())
	assert.Equal(t, 1, s.Len())
}

func TestHitTestPicksTopMost(t *testing.T) {
	c, doc := newCanvas(t)
	doc.AddEmoji("a", geom.Pt(0, 0), 40)
	top := doc.AddEmoji("b", geom.Pt(5, 0), 40)
	tr := c.Transform()

	id, ok := c.HitTest(tr.ToScreen(geom.Pt(2, 0)))
	require.True(t, ok)
	assert.Equal(t, top.ID, id)

	// 20px half glyph plus padding.
	_, ok = c.HitTest(tr.ToScreen(geom.Pt(5+29, 0)))
	assert.True(t, ok)
	_, ok = c.HitTest(tr.ToScreen(geom.Pt(5+31, 0)))
	assert.False(t, ok)
}

func TestBackgroundDragPans(t *testing.T) {
	c, doc := newCanvas(t)
	c.View.SteadyZoom = 2
	e := doc.AddEmoji("😀", geom.Pt(0, 0), 40)
	c.Selection.Toggle(e.ID)

	start := geom.Pt(10, 10)
	c.Handle(gesture.Event{Kind: gesture.KindDragStart, Start: start})
	c.Handle(gesture.Event{Kind: gesture.KindDragChange, Start: start, Translation: geom.Pt(20, 10)})
	assert.Equal(t, geom.Pt(10, 5), c.View.GesturePan)
	c.Handle(gesture.Event{Kind: gesture.KindDragEnd, Start: start, Translation: geom.Pt(40, 10)})

	assert.Equal(t, geom.Pt(20, 5), c.View.SteadyPan)
	assert.Equal(t, geom.Point{}, c.View.GesturePan)
	got, _ := doc.Emoji(e.ID)
	assert.Equal(t, geom.Pt(0, 0), got.Location)
}

func TestCancelledPanIsDropped(t *testing.T) {
	c, _ := newCanvas(t)
	start := geom.Pt(10, 10)
	c.Handle(gesture.Event{Kind: gesture.KindDragStart, Start: start})
	c.Handle(gesture.Event{Kind: gesture.KindDragChange, Start: start, Translation: geom.Pt(20, 10)})
	c.Handle(gesture.Event{Kind: gesture.KindDragCancel, Start: start})

	assert.Equal(t, geom.Point{}, c.View.SteadyPan)
	assert.Equal(t, geom.Point{}, c.View.GesturePan)
}

func TestDragAppliesIncrementalDeltas(t *testing.T) {
	c, doc := newCanvas(t)
	e := doc.AddEmoji("😀", geom.Pt(0, 0), 40)
	other := doc.AddEmoji("🐶", geom.Pt(100, 100), 40)
	c.Selection.Toggle(other.ID)

	var moves []geom.Point
	last := geom.Pt(0, 0)
	revs, cancel := doc.Subscribe()
	defer cancel()

	start := c.Transform().ToScreen(e.Location)
	c.Handle(gesture.Event{Kind: gesture.KindDragStart, Start: start})
	for _, tr := range []geom.Point{geom.Pt(30, 0), geom.Pt(50, 0)} {
		c.Handle(gesture.Event{Kind: gesture.KindDragChange, Start: start, Translation: tr})
		<-revs
		got, _ := doc.Emoji(e.ID)
		moves = append(moves, got.Location.Sub(last))
		last = got.Location
	}
	c.Handle(gesture.Event{Kind: gesture.KindDragEnd, Start: start, Translation: geom.Pt(50, 0)})

	assert.Equal(t, []geom.Point{geom.Pt(30, 0), geom.Pt(20, 0)}, moves)
	got, _ := doc.Emoji(e.ID)
	assert.Equal(t, geom.Pt(50, 0), got.Location)
	untouched, _ := doc.Emoji(other.ID)
	assert.Equal(t, geom.Pt(100, 100), untouched.Location)
	assert.Equal(t, geom.Point{}, c.View.SteadyPan)
}

func TestDragSelectedMovesWholeSelection(t *testing.T) {
	c, doc := newCanvas(t)
	c.View.SteadyZoom = 2
	a := doc.AddEmoji("a", geom.Pt(0, 0), 20)
	b := doc.AddEmoji("b", geom.Pt(50, 50), 20)
	loner := doc.AddEmoji("c", geom.Pt(-60, -60), 20)
	c.Selection.Toggle(a.ID)
	c.Selection.Toggle(b.ID)

	drag(c, c.Transform().ToScreen(a.Location), geom.Pt(10, 0), geom.Pt(20, 4))

	gotA, _ := doc.Emoji(a.ID)
	gotB, _ := doc.Emoji(b.ID)
	gotC, _ := doc.Emoji(loner.ID)
	assert.Equal(t, geom.Pt(10, 2), gotA.Location)
	assert.Equal(t, geom.Pt(60, 52), gotB.Location)
	assert.Equal(t, geom.Pt(-60, -60), gotC.Location)
}

func TestPinchWithoutSelectionZoomsCanvas(t *testing.T) {
	c, _ := newCanvas(t)
	c.Handle(gesture.Event{Kind: gesture.KindPinchStart, Scale: 1})
	c.Handle(gesture.Event{Kind: gesture.KindPinchChange, Scale: 1.5})
	assert.Equal(t, float32(1.5), c.Transform().Zoom)
	c.Handle(gesture.Event{Kind: gesture.KindPinchEnd, Scale: 2})

	assert.Equal(t, float32(2), c.View.SteadyZoom)
	assert.Equal(t, float32(1), c.View.GestureZoom)

	c.Handle(gesture.Event{Kind: gesture.KindPinchStart, Scale: 1})
	c.Handle(gesture.Event{Kind: gesture.KindPinchChange, Scale: 3})
	c.Handle(gesture.Event{Kind: gesture.KindPinchCancel})
	assert.Equal(t, float32(2), c.View.SteadyZoom)
	assert.Equal(t, float32(1), c.View.GestureZoom)
}

func TestPinchWithSelectionScalesEmoji(t *testing.T) {
	c, doc := newCanvas(t)
	a := doc.AddEmoji("a", geom.Pt(0, 0), 40)
	b := doc.AddEmoji("b", geom.Pt(90, 0), 20)
	loner := doc.AddEmoji("c", geom.Pt(-90, 0), 30)
	c.Selection.Toggle(a.ID)
	c.Selection.Toggle(b.ID)

	c.Handle(gesture.Event{Kind: gesture.KindPinchStart, Scale: 1})
	c.Handle(gesture.Event{Kind: gesture.KindPinchChange, Scale: 1.5})
	gotA, _ := doc.Emoji(a.ID)
	assert.InDelta(t, 60, gotA.Size, 1e-4)
	assert.Equal(t, float32(1), c.Transform().Zoom)

	c.Handle(gesture.Event{Kind: gesture.KindPinchChange, Scale: 2})
	c.Handle(gesture.Event{Kind: gesture.KindPinchEnd, Scale: 2})

	gotA, _ = doc.Emoji(a.ID)
	gotB, _ := doc.Emoji(b.ID)
	gotC, _ := doc.Emoji(loner.ID)
	assert.InDelta(t, 80, gotA.Size, 1e-4)
	assert.InDelta(t, 40, gotB.Size, 1e-4)
	assert.Equal(t, float32(30), gotC.Size)
	assert.Equal(t, float32(1), c.View.SteadyZoom)
	assert.Equal(t, float32(1), c.View.GestureZoom)
}

func TestZoomBy(t *testing.T) {
	c, _ := newCanvas(t)
	c.ZoomBy(2)
	c.ZoomBy(1.5)
	assert.Equal(t, float32(3), c.View.SteadyZoom)
}

func TestDropAtScreenPoint(t *testing.T) {
	c, doc := newCanvas(t)
	c.View.SteadyZoom = 2
	h := &drop.Handler{Logf: func(string, ...any) {}}

	screen := c.Transform().ToScreen(geom.Pt(10, 20))
	require.True(t, c.Drop(context.Background(), h, []drop.Provider{drop.Text("😀")}, screen))

	emojis := doc.Emojis()
	require.Len(t, emojis, 1)
	assert.Equal(t, geom.Pt(10, 20), emojis[0].Location)
	assert.Equal(t, float32(drop.DefaultEmojiSize), emojis[0].Size)
}
