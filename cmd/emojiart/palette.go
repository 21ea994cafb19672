package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/example/emojiart/internal/palette"
)

// paletteCmd lists palettes or prints the glyphs of one.
type paletteCmd struct {
	name string
	*root
	fs *flag.FlagSet
}

func (p *paletteCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *paletteCmd) Program() string {
	return p.root.subcommand("palette")
}

func parsePaletteCmd(args []string, r *root) (*paletteCmd, error) {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p := &paletteCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: p, msg: errMessage(err)}
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: p, msg: "at most one palette name"}
	}
	p.name = strings.TrimSpace(fs.Arg(0))
	return p, nil
}

// previewLen is how many glyphs the listing shows per palette.
const previewLen = 8

func (p *paletteCmd) Run() error {
	if p.name == "" {
		for _, name := range palette.Names() {
			pal, err := palette.Named(name)
			if err != nil {
				return err
			}
			preview := pal.Glyphs[:min(previewLen, pal.Len())]
			fmt.Fprintf(p.root.stdout, "%-12s %3d  %s\n", name, pal.Len(), strings.Join(preview, ""))
		}
		return nil
	}
	pal := palette.Resolve(p.name)
	if pal.Len() == 0 {
		return fmt.Errorf("palette %q has no glyphs", p.name)
	}
	for _, g := range pal.Glyphs {
		fmt.Fprintln(p.root.stdout, g)
	}
	return nil
}
