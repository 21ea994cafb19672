package emojiview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/render"
)

// Padding surrounds every glyph box. Halos and hit tests use the padded frame.
const Padding = 10

// View is one emoji as drawn on screen.
type View struct {
	Text     string
	Size     float32
	Selected bool
	Color    color.Color
	Halo     render.HaloStyle
}

// New returns a view with the default colours.
func New(text string, size float32, selected bool) View {
	return View{Text: text, Size: size, Selected: selected, Color: color.Black, Halo: render.DefaultHaloStyle()}
}

// Frame is the padded square around the glyph centred on c.
func (v View) Frame(c geom.Point) image.Rectangle {
	half := v.Size/2 + Padding
	return image.Rectangle{
		Min: c.Sub(geom.Pt(half, half)).Image(),
		Max: c.Add(geom.Pt(half, half)).Image(),
	}
}

// Draw renders the view centred on c, halo first.
func (v View) Draw(dst draw.Image, fonts *Fonts, c geom.Point) error {
	if v.Selected {
		render.DrawHalo(dst, v.Frame(c), v.Halo)
	}
	if v.Size < 1 {
		return nil
	}
	col := v.Color
	if col == nil {
		col = color.Black
	}
	return fonts.DrawCentered(dst, v.Text, v.Size, c.Image(), col)
}

// Sprite renders the glyph alone on a transparent square sized to its frame.
// Drag previews use it with a drop shadow.
func (v View) Sprite(fonts *Fonts) (*image.RGBA, error) {
	side := int(v.Size) + 2*Padding
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	plain := v
	plain.Selected = false
	if err := plain.Draw(img, fonts, geom.Pt(float32(side)/2, float32(side)/2)); err != nil {
		return nil, err
	}
	return img, nil
}
