package appstate

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/example/emojiart/internal/canvas"
	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/emojiview"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/render"
	"github.com/example/emojiart/internal/theme"
	"github.com/mitchellh/go-homedir"
	xdraw "golang.org/x/image/draw"
)

// scene is an immutable snapshot of everything drawn in the canvas area. The
// event loop builds it and the paint goroutine draws it.
type scene struct {
	background image.Image
	emojis     []document.Emoji
	selected   map[document.ID]bool
	transform  canvas.Transform
	scaler     xdraw.Scaler
}

func newScene(doc *document.Document, view canvas.View, sel canvas.Selection, size geom.Size) scene {
	sc := scene{
		background: doc.Background(),
		emojis:     doc.Emojis(),
		selected:   make(map[document.ID]bool, sel.Len()),
		transform:  view.Transform(size, sel.Empty()),
		scaler:     xdraw.NearestNeighbor,
	}
	for _, id := range sel.IDs() {
		sc.selected[id] = true
	}
	return sc
}

// backgroundRect is where the background lands relative to the canvas area.
// The background is centred on the document origin.
func (sc scene) backgroundRect() image.Rectangle {
	if sc.background == nil {
		return image.Rectangle{}
	}
	half := geom.SizeOf(sc.background.Bounds()).Center()
	return image.Rectangle{
		Min: sc.transform.ToScreen(half.Mul(-1)).Image(),
		Max: sc.transform.ToScreen(half).Image(),
	}
}

func (sc scene) view(e document.Emoji, th *theme.Theme) emojiview.View {
	v := emojiview.New(e.Text, e.Size*sc.transform.Zoom, sc.selected[e.ID])
	v.Color = th.Glyph
	v.Halo.Shade = th.HaloShade
	v.Halo.Ring = th.HaloRing
	return v
}

// draw renders the scene into area of dst. It stops early when ctx is
// cancelled and returns the first glyph error.
func (sc scene) draw(ctx context.Context, dst *image.RGBA, area image.Rectangle, th *theme.Theme, fonts *emojiview.Fonts) error {
	sub, ok := dst.SubImage(area).(*image.RGBA)
	if !ok || sub.Bounds().Empty() {
		return nil
	}
	draw.Draw(sub, area, &image.Uniform{th.Canvas}, image.Point{}, draw.Src)
	if sc.background != nil {
		r := sc.backgroundRect().Add(area.Min)
		if r.Overlaps(area) {
			sc.scaler.Scale(sub, r, sc.background, sc.background.Bounds(), draw.Over, nil)
		}
	}
	var firstErr error
	for _, e := range sc.emojis {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		v := sc.view(e, th)
		c := sc.transform.ToScreen(e.Location).Add(geom.FromImage(area.Min))
		if f := v.Frame(c); !f.Inset(-f.Dx()).Overlaps(area) {
			continue
		}
		if err := v.Draw(sub, fonts, c); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("draw %q: %w", e.Text, err)
		}
	}
	return firstErr
}

// RenderDocument flattens the composition as seen through view into a new
// image of the given size. Selected emoji keep their halos; pass an empty
// selection for a clean export.
func RenderDocument(doc *document.Document, view canvas.View, sel canvas.Selection, size geom.Size, th *theme.Theme, fonts *emojiview.Fonts) (*image.RGBA, error) {
	if size.Empty() {
		return nil, fmt.Errorf("render: empty size %v", size)
	}
	if th == nil {
		th = theme.Default()
	}
	if fonts == nil {
		var err error
		if fonts, err = emojiview.LoadFonts(""); err != nil {
			return nil, err
		}
	}
	sc := newScene(doc, view, sel, size)
	sc.scaler = xdraw.CatmullRom
	img := image.NewRGBA(image.Rect(0, 0, int(size.W+0.5), int(size.H+0.5)))
	err := sc.draw(context.Background(), img, img.Bounds(), th, fonts)
	return img, err
}

// SavePNG writes img to path, creating parent directories. It returns the
// expanded path.
func SavePNG(path string, img image.Image) (string, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			return "", fmt.Errorf("%w (closing file: %v)", err, cerr)
		}
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return path, nil
}

// shadowedSprite renders a glyph lifted out of the palette.
func shadowedSprite(glyph string, size float32, th *theme.Theme, fonts *emojiview.Fonts) (render.ShadowResult, error) {
	v := emojiview.New(glyph, size, false)
	v.Color = th.Glyph
	img, err := v.Sprite(fonts)
	if err != nil {
		return render.ShadowResult{}, err
	}
	return render.ApplyShadow(img, render.DefaultShadowOptions()), nil
}
