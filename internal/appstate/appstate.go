package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/example/emojiart/internal/emojiview"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/palette"
	"github.com/example/emojiart/internal/render"
	"github.com/example/emojiart/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
)

const (
	stripHeight  = 56
	bottomHeight = 24
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// messageDuration is how long transient messages stay up.
const messageDuration = 2 * time.Second

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// layout splits the window into the palette strip, the canvas and the
// shortcut bar.
type layout struct {
	strip, canvas, bar image.Rectangle
}

func newLayout(width, height int) layout {
	bottom := max(height-bottomHeight, stripHeight)
	return layout{
		strip:  image.Rect(0, 0, width, stripHeight),
		canvas: image.Rect(0, stripHeight, width, bottom),
		bar:    image.Rect(0, bottom, width, height),
	}
}

type region int

const (
	regionCanvas region = iota
	regionStrip
	regionBar
)

func (l layout) regionAt(p geom.Point) region {
	switch pt := p.Image(); {
	case pt.In(l.strip):
		return regionStrip
	case pt.In(l.bar):
		return regionBar
	}
	return regionCanvas
}

// toCanvas converts a window point to canvas coordinates.
func (l layout) toCanvas(p geom.Point) geom.Point {
	return p.Sub(geom.FromImage(l.canvas.Min))
}

// KeyShortcut describes a keyboard combination that triggers an action.
// Printable keys match on Rune, the rest on Code.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutFor normalises a key press for lookup. Shift is dropped because it
// is already reflected in the rune, and control characters are mapped back to
// their letters.
func shortcutFor(e key.Event) KeyShortcut {
	mods := e.Modifiers &^ key.ModShift
	r := e.Rune
	if mods&key.ModControl != 0 && r > 0 && r < 0x20 {
		r += 'a' - 1
	}
	if r > 0 {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return KeyShortcut{Rune: r, Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// Shortcut is a labelled button in the bottom bar that triggers a named
// action.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
	theme  *theme.Theme
	fire   func(string)
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	th := s.theme
	if th == nil {
		th = theme.Default()
	}
	col := th.ShortcutBackground
	switch state {
	case StateHover, StatePressed:
		col = th.ShortcutHover
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ShortcutBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ShortcutText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.fire != nil {
		s.fire(s.action)
	}
}

// layoutShortcuts places the bottom bar buttons. The event loop uses it for
// hit testing and the painter for drawing, so both always agree.
func layoutShortcuts(bar image.Rectangle, zoom float32) []Shortcut {
	shortcuts := []Shortcut{
		{label: "Esc:clear", action: actionClear},
		{label: "^V:paste", action: actionPaste},
		{label: "^C:copy", action: actionCopy},
		{label: "^S:save", action: actionSave},
		{label: "0:fit", action: actionFit},
		{label: fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), action: actionZoomIn},
		{label: "Q:quit", action: actionQuit},
	}
	x := bar.Min.X + 4
	y := bar.Min.Y + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		x = sc.rect.Max.X + 8
	}
	return shortcuts
}

func shortcutAt(shortcuts []Shortcut, p image.Point) int {
	for i, sc := range shortcuts {
		if p.In(sc.rect) {
			return i
		}
	}
	return -1
}

// paintState is what the event loop hands to the paint goroutine.
type paintState struct {
	width, height int
	scene         scene
	strip         palette.Strip
	drag          *palette.Drag
	message       string
	messageUntil  time.Time
	hoverShortcut int
}

// painter owns the caches used while drawing. Only the paint goroutine
// touches it.
type painter struct {
	theme *theme.Theme
	fonts *emojiview.Fonts

	buttons   map[string]*CacheButton
	ghostText string
	ghost     render.ShadowResult
}

// maxCachedButtons bounds the cache; the zoom label changes with every zoom.
const maxCachedButtons = 64

func newPainter(th *theme.Theme, fonts *emojiview.Fonts) *painter {
	return &painter{theme: th, fonts: fonts, buttons: make(map[string]*CacheButton)}
}

// frame draws st into dst. It returns false when ctx was cancelled before
// the frame completed.
func (p *painter) frame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	l := newLayout(st.width, st.height)
	draw.Draw(dst, dst.Bounds(), &image.Uniform{p.theme.Background}, image.Point{}, draw.Src)

	if err := st.scene.draw(ctx, dst, l.canvas, p.theme, p.fonts); err != nil {
		if ctx.Err() != nil {
			return false
		}
		log.Printf("paint: %v", err)
	}
	if ctx.Err() != nil {
		return false
	}

	p.drawStrip(dst, l.strip, &st.strip)
	p.drawShortcuts(dst, l.bar, st.scene.transform.Zoom, st.hoverShortcut)
	if ctx.Err() != nil {
		return false
	}

	if st.drag != nil {
		if pos := st.drag.Pos.Image(); pos.In(l.canvas) {
			drawDashedRect(dst, l.canvas.Inset(2), 6, 2, p.theme.DropTarget, p.theme.Canvas)
		}
		p.drawGhost(dst, st.drag)
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.drawMessage(dst, st.width, st.height, st.message)
	}
	return ctx.Err() == nil
}

func (p *painter) drawStrip(dst *image.RGBA, r image.Rectangle, s *palette.Strip) {
	draw.Draw(dst, r, &image.Uniform{p.theme.PaletteBackground}, image.Point{}, draw.Src)
	first, last := s.Visible()
	dragging, _ := s.Dragging()
	for i := first; i < last; i++ {
		c := s.CellCenter(i).Add(geom.FromImage(r.Min))
		glyph := s.Palette.Glyphs[i]
		if glyph == dragging.Glyph {
			cell := image.Rect(int(c.X-palette.CellWidth/2), r.Min.Y, int(c.X+palette.CellWidth/2), r.Max.Y)
			draw.Draw(dst, cell, &image.Uniform{p.theme.PaletteHover}, image.Point{}, draw.Src)
		}
		if err := p.fonts.DrawCentered(dst, glyph, palette.GlyphSize, c.Image(), p.theme.Glyph); err != nil {
			log.Printf("paint palette: %v", err)
		}
	}
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), &image.Uniform{p.theme.PaletteDivider}, image.Point{}, draw.Src)
}

func (p *painter) drawShortcuts(dst *image.RGBA, bar image.Rectangle, zoom float32, hover int) {
	draw.Draw(dst, bar, &image.Uniform{p.theme.ShortcutBackground}, image.Point{}, draw.Src)
	if len(p.buttons) > maxCachedButtons {
		clear(p.buttons)
	}
	for i, sc := range layoutShortcuts(bar, zoom) {
		cb, ok := p.buttons[sc.label]
		if !ok {
			sc.theme = p.theme
			cb = &CacheButton{Button: &sc}
			p.buttons[sc.label] = cb
		}
		cb.SetRect(sc.rect)
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

func (p *painter) drawGhost(dst *image.RGBA, d *palette.Drag) {
	if p.ghostText != d.Glyph || p.ghost.Image == nil {
		g, err := shadowedSprite(d.Glyph, palette.GlyphSize, p.theme, p.fonts)
		if err != nil {
			log.Printf("paint drag: %v", err)
			return
		}
		p.ghostText, p.ghost = d.Glyph, g
	}
	side := int(palette.GlyphSize) + 2*emojiview.Padding
	at := d.Pos.Image().Sub(image.Pt(side/2, side/2)).Sub(p.ghost.Offset)
	r := p.ghost.Image.Bounds().Sub(p.ghost.Image.Bounds().Min).Add(at)
	draw.Draw(dst, r, p.ghost.Image, p.ghost.Image.Bounds().Min, draw.Over)
}

func (p *painter) drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(p.theme.MessageText), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{p.theme.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, p.theme.Foreground, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// drawFrame renders one frame into a fresh buffer and publishes it unless
// the frame was cancelled.
func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, p *painter, st paintState) bool {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return false
	}
	defer b.Release()
	if !p.frame(ctx, b.RGBA(), st) {
		return false
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return true
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// drawDashedRect outlines rect with alternating dashes of c1 and c2.
func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thick int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 1
	}
	pick := func(i int) color.Color {
		if (i/dash)%2 == 0 {
			return c1
		}
		return c2
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		col := pick(x - rect.Min.X)
		for t := 0; t < thick; t++ {
			img.Set(x, rect.Min.Y+t, col)
			img.Set(x, rect.Max.Y-1-t, col)
		}
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		col := pick(y - rect.Min.Y)
		for t := 0; t < thick; t++ {
			img.Set(rect.Min.X+t, y, col)
			img.Set(rect.Max.X-1-t, y, col)
		}
	}
}
