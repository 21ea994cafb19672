package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/emojiart/internal/appstate"
	"github.com/example/emojiart/internal/canvas"
	"github.com/example/emojiart/internal/clipboard"
	"github.com/example/emojiart/internal/drop"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/theme"
	"golang.org/x/image/colornames"
)

// defaultComposeSize is used when neither a size nor a background is given.
const defaultComposeSize = 512

// dropSpec is one PAYLOAD@X,Y argument.
type dropSpec struct {
	payload string
	at      geom.Point
}

func (d dropSpec) String() string {
	return fmt.Sprintf("%s@%g,%g", d.payload, d.at.X, d.at.Y)
}

func parseDropSpec(s string) (dropSpec, error) {
	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return dropSpec{}, fmt.Errorf("drop %q: want PAYLOAD@X,Y", s)
	}
	xs, ys, ok := strings.Cut(s[i+1:], ",")
	if !ok {
		return dropSpec{}, fmt.Errorf("drop %q: want PAYLOAD@X,Y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return dropSpec{}, fmt.Errorf("drop %q: bad x: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return dropSpec{}, fmt.Errorf("drop %q: bad y: %w", s, err)
	}
	return dropSpec{payload: s[:i], at: geom.Pt(float32(x), float32(y))}, nil
}

// dropList collects repeated -drop flags.
type dropList []dropSpec

func (l *dropList) String() string {
	parts := make([]string, len(*l))
	for i, d := range *l {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

func (l *dropList) Set(s string) error {
	d, err := parseDropSpec(s)
	if err != nil {
		return err
	}
	*l = append(*l, d)
	return nil
}

// parseFill accepts a CSS colour name or a #rrggbb[aa] value.
func parseFill(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	return theme.ParseColor(spec)
}

// composeCmd renders a composition without a window.
type composeCmd struct {
	output      string
	background  string
	drops       dropList
	width       int
	height      int
	fit         bool
	toClipboard bool
	fill        string
	font        string
	emojiSize   float64
	*root
	fs *flag.FlagSet
}

func (c *composeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *composeCmd) Program() string {
	return c.root.subcommand("compose")
}

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &composeCmd{root: r, fs: fs}
	fs.StringVar(&c.output, "output", "", "PNG file to write")
	fs.StringVar(&c.background, "background", "", "image file or file: URL to use as the background")
	fs.Var(&c.drops, "drop", "PAYLOAD@X,Y to drop; repeatable")
	fs.IntVar(&c.width, "width", 0, "canvas width (defaults to the background width)")
	fs.IntVar(&c.height, "height", 0, "canvas height (defaults to the background height)")
	fs.BoolVar(&c.fit, "fit", false, "zoom the background to fit the canvas")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&c.fill, "fill", "", "canvas colour behind the background (name or #rrggbb)")
	fs.StringVar(&c.font, "font", "", "emoji font file (TTF/OTF)")
	fs.Float64Var(&c.emojiSize, "emoji-size", r.config.Canvas.EmojiSize, "font size of dropped emoji")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c, msg: errMessage(err)}
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	if c.output == "" && !c.toClipboard {
		return nil, &UsageError{of: c, msg: "-output or -to-clipboard is required"}
	}
	if c.width < 0 || c.height < 0 {
		return nil, &UsageError{of: c, msg: "-width and -height must not be negative"}
	}
	if c.emojiSize <= 0 {
		return nil, &UsageError{of: c, msg: "-emoji-size must be positive"}
	}
	return c, nil
}

// size picks the canvas size: explicit flags, then the background, then a
// square default.
func (c *composeCmd) size(bg geom.Size) geom.Size {
	w, h := float32(c.width), float32(c.height)
	if w == 0 {
		w = bg.W
	}
	if h == 0 {
		h = bg.H
	}
	if w <= 0 {
		w = defaultComposeSize
	}
	if h <= 0 {
		h = defaultComposeSize
	}
	return geom.Sz(w, h)
}

func (c *composeCmd) Run() error {
	ctx := context.Background()
	doc, err := loadDocument(ctx, c.background)
	if err != nil {
		return err
	}
	var bgSize geom.Size
	if bg := doc.Background(); bg != nil {
		bgSize = geom.SizeOf(bg.Bounds())
	}

	cv := canvas.New(doc)
	cv.SetSize(c.size(bgSize))
	if c.fit && !cv.ZoomToFit() {
		fmt.Fprintln(c.root.stderr, "warning: -fit needs a background")
	}

	h := &drop.Handler{EmojiSize: float32(c.emojiSize)}
	for _, d := range c.drops {
		if !cv.Drop(ctx, h, []drop.Provider{drop.Arg(d.payload)}, d.at) {
			return fmt.Errorf("drop %q: nothing usable", d.payload)
		}
	}

	th := c.root.activeTheme
	if th == nil {
		th = theme.Default()
	}
	if c.fill != "" {
		fill, err := parseFill(c.fill)
		if err != nil {
			return fmt.Errorf("-fill: %w", err)
		}
		cp := *th
		cp.Canvas = fill
		th = &cp
	}
	fonts, err := c.root.fonts(c.font)
	if err != nil {
		return err
	}
	img, err := appstate.RenderDocument(doc, cv.View, canvas.Selection{}, cv.Size(), th, fonts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var errs []error
	if c.output != "" {
		path, err := appstate.SavePNG(c.output, img)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", c.output, err))
		} else {
			fmt.Fprintf(c.root.stderr, "saved %s\n", path)
			c.root.notifier.Export(path)
		}
	}
	if c.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			errs = append(errs, fmt.Errorf("failed to copy to clipboard: %w", err))
		} else {
			fmt.Fprintln(c.root.stderr, "copied to clipboard")
			c.root.notifier.Copy("", img)
		}
	}
	return errors.Join(errs...)
}
