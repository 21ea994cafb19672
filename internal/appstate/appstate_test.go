package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/emojiart/internal/canvas"
	"github.com/example/emojiart/internal/clipboard"
	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/emojiview"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/gesture"
	"github.com/example/emojiart/internal/palette"
	"github.com/example/emojiart/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
)

func testEditor(t *testing.T, glyphs string) (*editor, *document.Document) {
	t.Helper()
	doc := document.New()
	a := New(WithDocument(doc), WithPalette(palette.New("test", glyphs)))
	return a.newEditor(context.Background()), doc
}

func testFonts(t *testing.T) *emojiview.Fonts {
	t.Helper()
	fonts, err := emojiview.LoadFonts("")
	require.NoError(t, err)
	return fonts
}

// press feeds a complete mouse press, optional moves and release.
func press(ed *editor, at time.Time, points ...geom.Point) {
	ed.pointer(gesture.Pointer{ID: gesture.MousePointer, Kind: gesture.Press, Pos: points[0], Time: at})
	for _, p := range points[1 : len(points)-1] {
		ed.pointer(gesture.Pointer{ID: gesture.MousePointer, Kind: gesture.Move, Pos: p, Time: at})
	}
	last := points[len(points)-1]
	ed.pointer(gesture.Pointer{ID: gesture.MousePointer, Kind: gesture.Release, Pos: last, Time: at.Add(50 * time.Millisecond)})
}

func TestShortcutForNormalisesKeys(t *testing.T) {
	assert.Equal(t, KeyShortcut{Rune: 'v', Modifiers: key.ModControl},
		shortcutFor(key.Event{Rune: 0x16, Code: key.CodeV, Modifiers: key.ModControl}))
	assert.Equal(t, KeyShortcut{Rune: 'q'}, shortcutFor(key.Event{Rune: 'Q', Modifiers: key.ModShift}))
	assert.Equal(t, KeyShortcut{Rune: '+'}, shortcutFor(key.Event{Rune: '+', Modifiers: key.ModShift}))
	assert.Equal(t, KeyShortcut{Code: key.CodeEscape}, shortcutFor(key.Event{Rune: -1, Code: key.CodeEscape}))
}

func TestLayoutRegions(t *testing.T) {
	l := newLayout(400, 300)
	assert.Equal(t, regionStrip, l.regionAt(geom.Pt(10, 10)))
	assert.Equal(t, regionCanvas, l.regionAt(geom.Pt(10, 100)))
	assert.Equal(t, regionBar, l.regionAt(geom.Pt(10, 290)))
	assert.Equal(t, geom.Pt(10, 44), l.toCanvas(geom.Pt(10, 100)))
	assert.Equal(t, image.Rect(0, stripHeight, 400, 300-bottomHeight), l.canvas)
}

func TestPaletteDragDropsGlyphOnCanvas(t *testing.T) {
	ed, doc := testEditor(t, "AB")
	start := ed.strip.CellCenter(0)
	end := geom.Pt(start.X, 300)
	press(ed, time.Unix(100, 0), start, geom.Pt(start.X, 120), end)

	emojis := doc.Emojis()
	require.Len(t, emojis, 1)
	assert.Equal(t, "A", emojis[0].Text)
	want := ed.canvas.Transform().ToDocument(ed.layout.toCanvas(end))
	assert.Equal(t, want, emojis[0].Location)
	assert.EqualValues(t, ed.app.EmojiSize, emojis[0].Size)
}

func TestPaletteDragReleasedOnStripDropsNothing(t *testing.T) {
	ed, doc := testEditor(t, "AB")
	start := ed.strip.CellCenter(0)
	press(ed, time.Unix(100, 0), start, geom.Pt(start.X+1, 50), geom.Pt(start.X+1, 40))
	assert.Empty(t, doc.Emojis())
}

func TestCanvasTapSelectsEmoji(t *testing.T) {
	ed, doc := testEditor(t, "AB")
	e := doc.AddEmoji("A", geom.Pt(0, 0), 40)
	centre := ed.canvas.Size().Center().Add(geom.FromImage(ed.layout.canvas.Min))

	press(ed, time.Unix(100, 0), centre, centre)
	assert.True(t, ed.canvas.Selection.Contains(e.ID))

	require.True(t, ed.handleKey(key.Event{Code: key.CodeEscape, Rune: -1, Direction: key.DirPress}))
	assert.True(t, ed.canvas.Selection.Empty())
}

func TestZoomKeysUsePinchPath(t *testing.T) {
	ed, _ := testEditor(t, "A")
	require.True(t, ed.handleKey(key.Event{Rune: '+', Direction: key.DirPress}))
	assert.InDelta(t, zoomStep, ed.canvas.View.SteadyZoom, 1e-5)
	require.True(t, ed.handleKey(key.Event{Rune: '-', Direction: key.DirPress}))
	assert.InDelta(t, 1, ed.canvas.View.SteadyZoom, 1e-5)
	assert.False(t, ed.handleKey(key.Event{Rune: '+', Direction: key.DirRelease}))
}

func TestFitWithoutBackgroundShowsMessage(t *testing.T) {
	ed, _ := testEditor(t, "A")
	require.True(t, ed.handleKey(key.Event{Rune: '0', Direction: key.DirPress}))
	assert.Equal(t, "no background to fit", ed.message)
	assert.True(t, time.Now().Before(ed.messageUntil))
}

func TestShortcutBarTapTriggersAction(t *testing.T) {
	ed, _ := testEditor(t, "A")
	shortcuts := layoutShortcuts(ed.layout.bar, 1)
	var quit Shortcut
	for _, sc := range shortcuts {
		if sc.action == actionQuit {
			quit = sc
		}
	}
	c := geom.FromImage(quit.rect.Min.Add(quit.rect.Max).Div(2))
	press(ed, time.Unix(100, 0), c, c)
	assert.True(t, ed.quit)
}

func TestWheelScrollsStripAndZoomsCanvas(t *testing.T) {
	ed, _ := testEditor(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	require.True(t, ed.wheel(geom.Pt(100, 20), -1))
	assert.InDelta(t, palette.WheelStep, ed.strip.Offset, 1e-5)

	require.True(t, ed.wheel(geom.Pt(100, 200), 1))
	assert.InDelta(t, gesture.WheelFactor, ed.canvas.View.SteadyZoom, 1e-5)
}

func TestPaintStateCarriesDragInWindowCoordinates(t *testing.T) {
	ed, _ := testEditor(t, "AB")
	start := ed.strip.CellCenter(1)
	at := time.Unix(100, 0)
	ed.pointer(gesture.Pointer{ID: gesture.MousePointer, Kind: gesture.Press, Pos: start, Time: at})
	ed.pointer(gesture.Pointer{ID: gesture.MousePointer, Kind: gesture.Move, Pos: geom.Pt(start.X, 200), Time: at})

	st := ed.paintState()
	require.NotNil(t, st.drag)
	assert.Equal(t, "B", st.drag.Glyph)
	assert.Equal(t, geom.Pt(start.X, 200), st.drag.Pos)
}

func TestRenderDocumentScalesBackgroundToFit(t *testing.T) {
	doc := document.New()
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{255, 0, 0, 255}
	draw.Draw(bg, bg.Bounds(), &image.Uniform{red}, image.Point{}, draw.Src)
	doc.SetBackground(bg, nil)

	view := canvas.NewView()
	size := geom.Sz(100, 100)
	require.True(t, view.ZoomToFit(geom.SizeOf(bg.Bounds()), size))

	img, err := RenderDocument(doc, view, canvas.Selection{}, size, theme.Default(), testFonts(t))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	for _, p := range []image.Point{{1, 1}, {50, 50}, {98, 98}} {
		assert.Equal(t, red, img.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestRenderDocumentDrawsEmojiAndHalo(t *testing.T) {
	doc := document.New()
	e := doc.AddEmoji("A", geom.Pt(0, 0), 40)
	fonts := testFonts(t)
	size := geom.Sz(200, 200)
	th := theme.Default()

	plain, err := RenderDocument(doc, canvas.NewView(), canvas.Selection{}, size, th, fonts)
	require.NoError(t, err)
	dark := false
	for y := 85; y < 115 && !dark; y++ {
		for x := 85; x < 115; x++ {
			if plain.RGBAAt(x, y).R < 128 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "glyph ink near the centre")
	assert.Equal(t, th.Canvas, plain.RGBAAt(140, 100))

	var sel canvas.Selection
	sel.Toggle(e.ID)
	selected, err := RenderDocument(doc, canvas.NewView(), sel, size, th, fonts)
	require.NoError(t, err)
	// Outside the padded frame but inside the shade disc.
	assert.Less(t, selected.RGBAAt(140, 100).R, th.Canvas.R)
}

func TestRenderDocumentRejectsEmptySize(t *testing.T) {
	_, err := RenderDocument(document.New(), canvas.NewView(), canvas.Selection{}, geom.Size{}, nil, nil)
	assert.Error(t, err)
}

func TestSavePNGCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "art.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	got, err := SavePNG(path, img)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestPainterFrameDrawsChrome(t *testing.T) {
	ed, _ := testEditor(t, "A")
	ed.resize(400, 300)
	th := theme.Default()
	p := newPainter(th, testFonts(t))
	dst := image.NewRGBA(image.Rect(0, 0, 400, 300))

	require.True(t, p.frame(context.Background(), dst, ed.paintState()))
	assert.Equal(t, th.PaletteBackground, dst.RGBAAt(398, 2))
	assert.Equal(t, th.PaletteDivider, dst.RGBAAt(398, stripHeight-1))
	assert.Equal(t, th.Canvas, dst.RGBAAt(398, 150))
	assert.Equal(t, th.ShortcutBackground, dst.RGBAAt(398, 298))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, p.frame(ctx, dst, ed.paintState()))
}

func writeSolidPNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func backgroundColor(doc *document.Document) color.RGBA {
	bg := doc.Background()
	if bg == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(bg.At(0, 0)).(color.RGBA)
}

func TestWatchFollowsReplacedBackground(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.png")
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	green := color.RGBA{0, 255, 0, 255}
	writeSolidPNG(t, first, red)
	writeSolidPNG(t, second, blue)

	doc := document.New()
	u, err := document.ParseLocation(first)
	require.NoError(t, err)
	require.NoError(t, doc.SetBackgroundURL(context.Background(), u))

	a := New(WithDocument(doc), WithWatch(true))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.watchBackground(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// A drop replaces the background; the watch moves to the new file.
	u2, err := document.ParseLocation(second)
	require.NoError(t, err)
	require.NoError(t, doc.SetBackgroundURL(context.Background(), u2))
	assert.Equal(t, blue, backgroundColor(doc))
	time.Sleep(200 * time.Millisecond)

	writeSolidPNG(t, second, green)
	assert.Eventually(t, func() bool { return backgroundColor(doc) == green },
		3*time.Second, 20*time.Millisecond, "background not reloaded after the file changed")
}

func TestPasteSpillsImagesIntoSessionDir(t *testing.T) {
	ed, doc := testEditor(t, "A")
	t.Cleanup(ed.close)
	ed.readText = func() (string, error) { return "", clipboard.ErrEmpty }
	ed.readImage = func() (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
	}

	ed.paste()
	require.NotNil(t, doc.Background())
	assert.Equal(t, "pasted", ed.message)
	dir := ed.pasteDir
	require.NotEmpty(t, dir)
	path, err := document.FilePath(doc.BackgroundURL())
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), filepath.Dir(path))

	ed.paste()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	ed.close()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "paste dir left behind: %v", err)
	assert.Empty(t, ed.pasteDir)
}
