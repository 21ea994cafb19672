package theme

import (
	"image/color"
)

// Theme defines the colours of the editor window and exported images.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background behind the strips
	Foreground color.RGBA // Text colour

	// Palette strip
	PaletteBackground color.RGBA
	PaletteHover      color.RGBA
	PaletteDivider    color.RGBA

	// Canvas
	Canvas     color.RGBA // Shown where the background image does not reach
	Glyph      color.RGBA // Ink for monochrome emoji fonts
	HaloShade  color.RGBA
	HaloRing   color.RGBA
	DropTarget color.RGBA // Outline while a glyph is dragged over the canvas

	// Shortcut bar
	ShortcutBackground color.RGBA
	ShortcutHover      color.RGBA
	ShortcutText       color.RGBA
	ShortcutBorder     color.RGBA

	// Transient messages
	MessageBackground color.RGBA
	MessageText       color.RGBA
}

// Default returns the hardcoded light theme used when nothing else loads.
func Default() *Theme {
	return &Theme{
		Name:               "Default",
		Background:         color.RGBA{220, 220, 220, 255},
		Foreground:         color.RGBA{0, 0, 0, 255},
		PaletteBackground:  color.RGBA{236, 236, 236, 255},
		PaletteHover:       color.RGBA{210, 210, 210, 255},
		PaletteDivider:     color.RGBA{180, 180, 180, 255},
		Canvas:             color.RGBA{255, 255, 255, 255},
		Glyph:              color.RGBA{0, 0, 0, 255},
		HaloShade:          color.RGBA{0, 0, 0, 102},
		HaloRing:           color.RGBA{255, 255, 255, 255},
		DropTarget:         color.RGBA{0, 120, 215, 255},
		ShortcutBackground: color.RGBA{220, 220, 220, 255},
		ShortcutHover:      color.RGBA{180, 180, 180, 255},
		ShortcutText:       color.RGBA{0, 0, 0, 255},
		ShortcutBorder:     color.RGBA{0, 0, 0, 255},
		MessageBackground:  color.RGBA{255, 255, 255, 230},
		MessageText:        color.RGBA{0, 0, 0, 255},
	}
}
