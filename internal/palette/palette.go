// Package palette provides the emoji strip the user drags glyphs from.
package palette

import (
	"strings"

	"github.com/example/emojiart/assets"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Palette is an ordered set of distinct glyphs.
type Palette struct {
	Name   string
	Glyphs []string
}

// Split breaks s into grapheme clusters, dropping whitespace and repeats.
// Clusters are compared after NFC normalisation so precomposed and decomposed
// spellings count once; emoji sequences with variation selectors or joiners
// stay whole.
func Split(s string) []string {
	var out []string
	seen := map[string]bool{}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if strings.TrimSpace(cluster) == "" {
			continue
		}
		key := norm.NFC.String(cluster)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cluster)
	}
	return out
}

// New builds a palette from a glyph string.
func New(name, glyphs string) Palette {
	return Palette{Name: name, Glyphs: Split(glyphs)}
}

// Named returns an embedded palette.
func Named(name string) (Palette, error) {
	glyphs, err := assets.Palette(name)
	if err != nil {
		return Palette{}, err
	}
	return New(name, glyphs), nil
}

// Names lists the embedded palettes.
func Names() []string { return assets.PaletteNames() }

// Resolve returns the embedded palette called spec, or a palette made from the
// glyphs of spec itself. An empty spec selects the default palette.
func Resolve(spec string) Palette {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = assets.DefaultPalette
	}
	if p, err := Named(spec); err == nil {
		return p
	}
	return New("custom", spec)
}

// Len returns the number of glyphs.
func (p Palette) Len() int { return len(p.Glyphs) }

func (p Palette) String() string { return strings.Join(p.Glyphs, "") }
