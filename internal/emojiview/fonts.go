// Package emojiview draws emoji glyphs and their selection halo.
package emojiview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"sync"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontCandidates are tried in order when no emoji font is configured.
var FontCandidates = []string{
	"/usr/share/fonts/truetype/noto/NotoEmoji-Regular.ttf",
	"/usr/share/fonts/noto/NotoEmoji-Regular.ttf",
	"/usr/share/fonts/google-noto-emoji/NotoEmoji-Regular.ttf",
	"/usr/share/fonts/truetype/ancient-scripts/Symbola_hint.ttf",
	"/usr/share/fonts/TTF/Symbola.ttf",
	"~/.local/share/fonts/NotoEmoji-Regular.ttf",
}

var (
	fallbackOnce sync.Once
	fallbackFont *opentype.Font
	fallbackErr  error
)

func goRegular() (*opentype.Font, error) {
	fallbackOnce.Do(func() {
		fallbackFont, fallbackErr = opentype.Parse(goregular.TTF)
	})
	return fallbackFont, fallbackErr
}

// maxCachedFaces bounds the face cache. A pinch walks through many sizes, so
// the cache is dropped whole once it grows past this.
const maxCachedFaces = 32

type faceKey struct {
	font int
	size int
}

// Fonts renders glyph runs from an emoji font, using Go Regular for runes the
// emoji font lacks. Faces are cached per whole pixel size.
//
// opentype faces are not safe for concurrent use, so every measure or draw
// holds mu for its whole duration.
type Fonts struct {
	fonts []*opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
	buf   sfnt.Buffer
}

// LoadFonts opens the emoji font at path. An empty path tries FontCandidates
// and settles for Go Regular alone when none exists.
func LoadFonts(path string) (*Fonts, error) {
	base, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("parse fallback font: %w", err)
	}
	f := &Fonts{}
	if path != "" {
		emoji, err := parseFontFile(path)
		if err != nil {
			return nil, err
		}
		f.fonts = append(f.fonts, emoji)
	} else {
		for _, cand := range FontCandidates {
			if emoji, err := parseFontFile(cand); err == nil {
				f.fonts = append(f.fonts, emoji)
				break
			}
		}
	}
	f.fonts = append(f.fonts, base)
	return f, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if f, err := opentype.Parse(data); err == nil {
		return f, nil
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return coll.Font(0)
}

// HasEmojiFont reports whether a dedicated emoji font was loaded.
func (f *Fonts) HasEmojiFont() bool { return len(f.fonts) > 1 }

// face returns the cached face for font idx at size. f.mu must be held.
func (f *Fonts) face(idx int, size float32) (font.Face, error) {
	px := int(math.Round(float64(size)))
	if px < 1 {
		px = 1
	}
	key := faceKey{font: idx, size: px}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fonts[idx], &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	if f.faces == nil || len(f.faces) >= maxCachedFaces {
		f.faces = make(map[faceKey]font.Face)
	}
	f.faces[key] = face
	return face, nil
}

// fontFor returns the first font that has a glyph for r, or -1. f.mu must be
// held.
func (f *Fonts) fontFor(r rune) int {
	for i, fnt := range f.fonts {
		if gi, err := fnt.GlyphIndex(&f.buf, r); err == nil && gi != 0 {
			return i
		}
	}
	return -1
}

type run struct {
	face font.Face
	text string
}

// runs splits text into spans drawn with the same face. Runes no font knows,
// such as joiners and variation selectors, are dropped. f.mu must be held.
func (f *Fonts) runs(text string, size float32) ([]run, error) {
	var out []run
	cur := -1
	for _, r := range text {
		idx := f.fontFor(r)
		if idx < 0 {
			continue
		}
		if idx != cur || len(out) == 0 {
			face, err := f.face(idx, size)
			if err != nil {
				return nil, err
			}
			out = append(out, run{face: face})
			cur = idx
		}
		out[len(out)-1].text += string(r)
	}
	return out, nil
}

func measureRuns(runs []run) (width, ascent, descent fixed.Int26_6) {
	for _, r := range runs {
		width += font.MeasureString(r.face, r.text)
		m := r.face.Metrics()
		ascent = max(ascent, m.Ascent)
		descent = max(descent, m.Descent)
	}
	return width, ascent, descent
}

// Measure returns the advance width and the ascent and descent of text at
// size.
func (f *Fonts) Measure(text string, size float32) (width, ascent, descent fixed.Int26_6, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	runs, err := f.runs(text, size)
	if err != nil {
		return 0, 0, 0, err
	}
	width, ascent, descent = measureRuns(runs)
	return width, ascent, descent, nil
}

// DrawCentered draws text at size with its visual box centred on c.
func (f *Fonts) DrawCentered(dst draw.Image, text string, size float32, c image.Point, col color.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	runs, err := f.runs(text, size)
	if err != nil {
		return err
	}
	width, ascent, descent := measureRuns(runs)
	dot := fixed.Point26_6{
		X: fixed.I(c.X) - width/2,
		Y: fixed.I(c.Y) + (ascent-descent)/2,
	}
	src := image.NewUniform(col)
	for _, r := range runs {
		d := &font.Drawer{Dst: dst, Src: src, Face: r.face, Dot: dot}
		d.DrawString(r.text)
		dot = d.Dot
	}
	return nil
}
