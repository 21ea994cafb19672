package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// HaloStyle configures the selection halo drawn behind an emoji.
type HaloStyle struct {
	Shade     color.Color
	Ring      color.Color
	ShadeFrac float64
	OuterFrac float64
	Stroke    float64
}

// DefaultHaloStyle matches the editor's selection look: a 40% black disc,
// a white ring on the glyph frame and a clipped outer white ring.
func DefaultHaloStyle() HaloStyle {
	return HaloStyle{
		Shade:     color.NRGBA{A: 102},
		Ring:      color.White,
		ShadeFrac: 1.66,
		OuterFrac: 1.18,
		Stroke:    2,
	}
}

// DrawHalo draws a selection halo for the glyph frame. The radius is half the
// smaller frame side. The shade and inner ring may spill outside frame; the
// outer ring is clipped to it.
func DrawHalo(dst draw.Image, frame image.Rectangle, style HaloStyle) {
	if frame.Empty() {
		return
	}
	cx := float64(frame.Min.X+frame.Max.X) / 2
	cy := float64(frame.Min.Y+frame.Max.Y) / 2
	r := float64(min(frame.Dx(), frame.Dy())) / 2
	half := style.Stroke / 2

	if style.ShadeFrac > 0 {
		FillCircle(dst, dst.Bounds(), cx, cy, r*style.ShadeFrac, 0, style.Shade)
	}
	FillCircle(dst, dst.Bounds(), cx, cy, r+half, r-half, style.Ring)
	if style.OuterFrac > 0 {
		outer := r * style.OuterFrac
		FillCircle(dst, frame, cx, cy, outer+half, outer-half, style.Ring)
	}
}

// FillCircle fills the annulus between outer and inner radius around (cx, cy)
// with col, limited to clip. An inner radius of zero fills a disc.
func FillCircle(dst draw.Image, clip image.Rectangle, cx, cy, outer, inner float64, col color.Color) {
	if outer <= 0 || col == nil {
		return
	}
	box := image.Rect(
		int(math.Floor(cx-outer)), int(math.Floor(cy-outer)),
		int(math.Ceil(cx+outer)), int(math.Ceil(cy+outer)),
	)
	target := box.Intersect(clip).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	z := vector.NewRasterizer(target.Dx(), target.Dy())
	ox, oy := cx-float64(target.Min.X), cy-float64(target.Min.Y)
	circlePath(z, ox, oy, outer, false)
	if inner > 0 {
		circlePath(z, ox, oy, inner, true)
	}
	mask := image.NewAlpha(image.Rect(0, 0, target.Dx(), target.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, target, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// circlePath adds a circle to z. Reversed circles subtract from earlier ones.
func circlePath(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	k := r * kappa
	f := func(v float64) float32 { return float32(v) }
	sign := 1.0
	if reverse {
		sign = -1
	}
	z.MoveTo(f(cx+r), f(cy))
	z.CubeTo(f(cx+r), f(cy+sign*k), f(cx+k), f(cy+sign*r), f(cx), f(cy+sign*r))
	z.CubeTo(f(cx-k), f(cy+sign*r), f(cx-r), f(cy+sign*k), f(cx-r), f(cy))
	z.CubeTo(f(cx-r), f(cy-sign*k), f(cx-k), f(cy-sign*r), f(cx), f(cy-sign*r))
	z.CubeTo(f(cx+k), f(cy-sign*r), f(cx+r), f(cy-sign*k), f(cx+r), f(cy))
	z.ClosePath()
}
