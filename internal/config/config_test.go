package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/art
palette = 🍕🌮🍣
emoji_font = ~/fonts/NotoEmoji-Regular.ttf

[canvas]
emoji_size = 56

[notify]
export = true
copy = false

[theme.my_custom_theme]
Background = #111111
Canvas: #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/art" {
		t.Errorf("Expected save_dir '/tmp/art', got '%s'", cfg.SaveDir)
	}
	if cfg.Palette != "🍕🌮🍣" {
		t.Errorf("Expected glyph palette, got %q", cfg.Palette)
	}
	if cfg.EmojiFont != "~/fonts/NotoEmoji-Regular.ttf" {
		t.Errorf("Unexpected emoji_font %q", cfg.EmojiFont)
	}
	if cfg.Canvas.EmojiSize != 56 {
		t.Errorf("Expected emoji_size 56, got %v", cfg.Canvas.EmojiSize)
	}
	if !cfg.Notify.Export {
		t.Error("Expected notify.export to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[notify]\nexport = maybe\n",
		"[canvas]\nemoji_size = -3\n",
		"[theme.x]\nCanvas = red\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.EmojiSize != DefaultEmojiSize {
		t.Errorf("emoji size %v", cfg.Canvas.EmojiSize)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/art
palette = animals

[canvas]
emoji_size = 48

[notify]
export = true
copy = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
HaloShade = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Palette != cfg2.Palette {
		t.Errorf("Palette mismatch: %q vs %q", cfg.Palette, cfg2.Palette)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "emojiart.rc")
	l := NewLoader("v1.0.0", path)

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	cfg.Palette = "food"
	cfg.Notify.Copy = true

	saved, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != path {
		t.Errorf("saved to %s, want %s", saved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}

	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Palette != "food" || !loaded.Notify.Copy {
		t.Errorf("unexpected config %+v", loaded)
	}
}
