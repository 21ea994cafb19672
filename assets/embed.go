// Package assets holds data embedded into the emojiart binary.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// DefaultPalette names the palette used when none is configured.
const DefaultPalette = "faces"

//go:embed palettes/*.txt
var embeddedPalettes embed.FS

var (
	loadPalettesOnce sync.Once
	loadPalettesErr  error

	palettes = map[string]string{}
)

func loadPalettes() {
	entries, err := fs.ReadDir(embeddedPalettes, "palettes")
	if err != nil {
		loadPalettesErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		data, err := embeddedPalettes.ReadFile(path.Join("palettes", name))
		if err != nil {
			loadPalettesErr = err
			return
		}
		palettes[strings.TrimSuffix(name, ".txt")] = strings.TrimSpace(string(data))
	}
}

func ensurePalettes() error {
	loadPalettesOnce.Do(loadPalettes)
	return loadPalettesErr
}

// Palette returns the raw glyph string of an embedded palette.
func Palette(name string) (string, error) {
	if err := ensurePalettes(); err != nil {
		return "", err
	}
	glyphs, ok := palettes[name]
	if !ok {
		return "", fmt.Errorf("palette %q not embedded", name)
	}
	return glyphs, nil
}

// PaletteNames lists the embedded palettes in alphabetical order.
func PaletteNames() []string {
	if err := ensurePalettes(); err != nil {
		return nil
	}
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
