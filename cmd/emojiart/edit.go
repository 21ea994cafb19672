package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/example/emojiart/internal/appstate"
	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/palette"
)

// editCmd opens the editor window.
type editCmd struct {
	background string
	palette    string
	output     string
	font       string
	emojiSize  float64
	watch      bool
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Program() string {
	return e.root.subcommand("edit")
}

// defaultOutput places the export file in the configured save directory.
func (r *root) defaultOutput() string {
	if r.config.SaveDir != "" {
		return filepath.Join(r.config.SaveDir, "emojiart.png")
	}
	return "emojiart.png"
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	e := &editCmd{root: r, fs: fs}
	fs.StringVar(&e.background, "background", "", "image file or file: URL to use as the background")
	fs.StringVar(&e.palette, "palette", r.config.Palette, "palette name or a string of glyphs")
	fs.StringVar(&e.output, "output", r.defaultOutput(), "file written by Ctrl+S")
	fs.StringVar(&e.font, "font", "", "emoji font file (TTF/OTF)")
	fs.Float64Var(&e.emojiSize, "emoji-size", r.config.Canvas.EmojiSize, "font size of dropped emoji")
	fs.BoolVar(&e.watch, "watch", false, "reload a file background when it changes")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: e, msg: errMessage(err)}
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e, msg: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	if e.emojiSize <= 0 {
		return nil, &UsageError{of: e, msg: "-emoji-size must be positive"}
	}
	return e, nil
}

// loadDocument creates a document, loading background when given.
func loadDocument(ctx context.Context, background string) (*document.Document, error) {
	doc := document.New()
	if background == "" {
		return doc, nil
	}
	u, err := document.ParseLocation(background)
	if err != nil {
		return nil, fmt.Errorf("background %q: %w", background, err)
	}
	if err := doc.SetBackgroundURL(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}
	return doc, nil
}

func (e *editCmd) Run() error {
	doc, err := loadDocument(context.Background(), e.background)
	if err != nil {
		return err
	}
	fonts, err := e.root.fonts(e.font)
	if err != nil {
		return err
	}
	st := appstate.New(
		appstate.WithDocument(doc),
		appstate.WithPalette(palette.Resolve(e.palette)),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithFonts(fonts),
		appstate.WithOutput(e.output),
		appstate.WithEmojiSize(float32(e.emojiSize)),
		appstate.WithWatch(e.watch),
		appstate.WithNotifier(e.root.notifier),
	)
	st.Run()
	return nil
}
