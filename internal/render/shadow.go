package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// ShadowOptions configures the drop shadow under a dragged glyph.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image including the blurred shadow.
	Image *image.RGBA
	// Offset reports where the original content's top-left corner ended up
	// inside Image.
	Offset image.Point
}

// DefaultShadowOptions returns the shadow used for glyphs lifted out of the
// palette.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 5),
		Opacity: 0.45,
	}
}

// ApplyShadow composites img over a blurred copy of its alpha. The result
// always has a zero origin.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadowBounds := padded.Add(opts.Offset)
	composite := src.Union(shadowBounds)
	origin := composite.Min

	mask := image.NewRGBA(padded.Sub(padded.Min))
	shade := uint8(opacity*255 + 0.5)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetRGBA(x-padded.Min.X, y-padded.Min.Y, color.RGBA{A: uint8(uint16(a) * uint16(shade) / 255)})
		}
	}
	blurred := mask
	if radius > 0 {
		blurred = blur.Box(mask, float64(radius))
	}

	dst := image.NewRGBA(composite.Sub(origin))
	draw.Draw(dst, blurred.Bounds().Add(shadowBounds.Min.Sub(origin)), blurred, image.Point{}, draw.Over)
	draw.Draw(dst, src.Sub(origin), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(origin)}
}
