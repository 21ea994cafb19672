package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/emojiart/internal/theme"
)

// DefaultEmojiSize is the font size of emoji added by a drop.
const DefaultEmojiSize = 40

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Canvas holds editing defaults.
type Canvas struct {
	EmojiSize float64
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	Palette   string
	EmojiFont string
	Canvas    Canvas
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Empty allows fallback to env/default
		Canvas: Canvas{EmojiSize: DefaultEmojiSize},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := [][2]string{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"palette", c.Palette},
		{"emoji_font", c.EmojiFont},
	}
	for _, kv := range root {
		if kv[1] != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], quote(kv[1]))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "emoji_size = %g\n", c.Canvas.EmojiSize)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// quote wraps values that would otherwise lose surrounding spaces.
func quote(s string) string {
	if strings.TrimSpace(s) != s {
		return "\"" + s + "\""
	}
	return s
}
