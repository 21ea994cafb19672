package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/emojiart/internal/config"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/palette"
	"github.com/example/emojiart/internal/theme"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	t.Setenv(theme.EnvVar, "")
	r := newRootWithConfig(config.New())
	out := &bytes.Buffer{}
	r.stdout = out
	r.stderr = &bytes.Buffer{}
	return r, out
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestParseDropSpec(t *testing.T) {
	cases := []struct {
		in      string
		payload string
		at      geom.Point
	}{
		{"😀@10,20", "😀", geom.Pt(10, 20)},
		{"me@home@1.5, 2", "me@home", geom.Pt(1.5, 2)},
		{"~/bg.png@0,0", "~/bg.png", geom.Pt(0, 0)},
	}
	for _, tc := range cases {
		got, err := parseDropSpec(tc.in)
		if err != nil {
			t.Fatalf("parseDropSpec(%q): %v", tc.in, err)
		}
		if got.payload != tc.payload || got.at != tc.at {
			t.Errorf("parseDropSpec(%q) = %q at %v, want %q at %v", tc.in, got.payload, got.at, tc.payload, tc.at)
		}
	}
	for _, bad := range []string{"nope", "@1,2", "x@1", "x@a,2", "x@1,b"} {
		if _, err := parseDropSpec(bad); err == nil {
			t.Errorf("parseDropSpec(%q) succeeded, want error", bad)
		}
	}
}

func TestComposeWritesPNG(t *testing.T) {
	r, _ := testRoot(t)
	path := filepath.Join(t.TempDir(), "out.png")
	err := r.Run([]string{"compose", "-output", path, "-width", "64", "-height", "32", "-fill", "red", "-drop", "A@32,16"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	img := decodePNG(t, path)
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 32) {
		t.Fatalf("bounds = %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("fill pixel = %v, want red", got)
	}
}

func TestComposeSizesToBackground(t *testing.T) {
	dir := t.TempDir()
	bgPath := filepath.Join(dir, "bg.png")
	bg := image.NewRGBA(image.Rect(0, 0, 20, 10))
	f, err := os.Create(bgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, bg); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, _ := testRoot(t)
	out := filepath.Join(dir, "out.png")
	if err := r.Run([]string{"compose", "-background", bgPath, "-fit", "-output", out}); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := decodePNG(t, out).Bounds(); got != image.Rect(0, 0, 20, 10) {
		t.Fatalf("bounds = %v, want background size", got)
	}
}

func TestComposeRequiresDestination(t *testing.T) {
	r, _ := testRoot(t)
	_, err := parseComposeCmd([]string{"-drop", "A@1,1"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if want := "-output or -to-clipboard is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestComposeMissingBackground(t *testing.T) {
	r, _ := testRoot(t)
	dir := t.TempDir()
	err := r.Run([]string{"compose", "-background", filepath.Join(dir, "missing.png"), "-output", filepath.Join(dir, "out.png")})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "failed to load background"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestEditRejectsBadEmojiSize(t *testing.T) {
	r, _ := testRoot(t)
	_, err := parseEditCmd([]string{"-emoji-size", "0"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "-emoji-size must be positive") || !strings.Contains(msg, "Usage: emojiart edit") {
		t.Fatalf("unexpected usage text: %s", msg)
	}
}

func TestPaletteListsBuiltins(t *testing.T) {
	r, out := testRoot(t)
	if err := r.Run([]string{"palette"}); err != nil {
		t.Fatalf("palette: %v", err)
	}
	for _, name := range palette.Names() {
		if !strings.Contains(out.String(), name) {
			t.Errorf("listing missing %q:\n%s", name, out.String())
		}
	}
}

func TestPalettePrintsGlyphs(t *testing.T) {
	r, out := testRoot(t)
	if err := r.Run([]string{"palette", "faces"}); err != nil {
		t.Fatalf("palette faces: %v", err)
	}
	want, err := palette.Named("faces")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != want.Len() {
		t.Fatalf("got %d glyphs, want %d", len(lines), want.Len())
	}
}

func TestConfigPrintAndSave(t *testing.T) {
	r, out := testRoot(t)
	if err := r.Run([]string{"config", "print"}); err != nil {
		t.Fatalf("config print: %v", err)
	}
	if !strings.Contains(out.String(), "[canvas]") {
		t.Fatalf("config print missing [canvas]:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	original := configPathOverride
	configPathOverride = path
	t.Cleanup(func() { configPathOverride = original })

	r, _ = testRoot(t)
	if err := r.Run([]string{"config", "save"}); err != nil {
		t.Fatalf("config save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if !strings.Contains(string(data), "emoji_size = 40") {
		t.Fatalf("saved config missing emoji_size:\n%s", data)
	}
}

func TestVersion(t *testing.T) {
	r, out := testRoot(t)
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if want := "emojiart version " + version; !strings.Contains(out.String(), want) {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestUnknownCommandShowsHelp(t *testing.T) {
	r, _ := testRoot(t)
	err := r.Run([]string{"frobnicate"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Commands:") {
		t.Fatalf("help text missing commands:\n%s", err.Error())
	}
}
