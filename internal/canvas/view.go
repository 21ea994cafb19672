package canvas

import (
	"github.com/chewxy/math32"
	"github.com/example/emojiart/internal/geom"
)

// View holds the committed pan and zoom of the canvas together with the
// delta of the gesture currently in flight. Pans are in document units.
type View struct {
	SteadyPan   geom.Point
	SteadyZoom  float32
	GesturePan  geom.Point
	GestureZoom float32
}

// NewView returns an untransformed view.
func NewView() View {
	return View{SteadyZoom: 1, GestureZoom: 1}
}

// Zoom returns the effective zoom. A pinch on a selection scales emoji rather
// than the canvas, so the gesture zoom only applies while nothing is selected.
func (v View) Zoom(selectionEmpty bool) float32 {
	if selectionEmpty {
		return v.SteadyZoom * v.GestureZoom
	}
	return v.SteadyZoom
}

// PanOffset returns the effective pan in screen units.
func (v View) PanOffset(selectionEmpty bool) geom.Point {
	return v.SteadyPan.Add(v.GesturePan).Mul(v.Zoom(selectionEmpty))
}

// Transform resolves the view for a canvas of the given size.
func (v View) Transform(canvas geom.Size, selectionEmpty bool) Transform {
	return Transform{
		Zoom:   v.Zoom(selectionEmpty),
		Center: canvas.Center(),
		Pan:    v.PanOffset(selectionEmpty),
	}
}

// ZoomToFit makes an image of size img fill a canvas of size canvas and
// recentres it. It reports false and leaves the view alone when either size
// is empty.
func (v *View) ZoomToFit(img, canvas geom.Size) bool {
	if img.Empty() || canvas.Empty() {
		return false
	}
	v.SteadyPan = geom.Point{}
	v.GesturePan = geom.Point{}
	v.SteadyZoom = math32.Min(canvas.W/img.W, canvas.H/img.H)
	v.GestureZoom = 1
	return true
}

// EndPan folds the gesture pan into the steady pan.
func (v *View) EndPan() {
	v.SteadyPan = v.SteadyPan.Add(v.GesturePan)
	v.GesturePan = geom.Point{}
}

// CancelPan drops the gesture pan.
func (v *View) CancelPan() { v.GesturePan = geom.Point{} }

// EndZoom folds the gesture zoom into the steady zoom.
func (v *View) EndZoom() {
	v.SteadyZoom *= v.GestureZoom
	v.GestureZoom = 1
}

// CancelZoom drops the gesture zoom.
func (v *View) CancelZoom() { v.GestureZoom = 1 }

// Transform maps between document space and screen space.
type Transform struct {
	Zoom   float32
	Center geom.Point
	Pan    geom.Point
}

// Origin is the screen position of the document origin.
func (t Transform) Origin() geom.Point { return t.Center.Add(t.Pan) }

// ToScreen converts a document location to screen coordinates.
func (t Transform) ToScreen(loc geom.Point) geom.Point {
	return loc.Mul(t.Zoom).Add(t.Origin())
}

// ToDocument converts a screen point to a document location.
func (t Transform) ToDocument(p geom.Point) geom.Point {
	return p.Sub(t.Origin()).Div(t.Zoom)
}
