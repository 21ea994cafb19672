package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/example/emojiart/internal/config"
)

type configCmd struct {
	action string
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Program() string {
	return c.root.subcommand("config")
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &configCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c, msg: errMessage(err)}
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.action = fs.Arg(0)
	switch c.action {
	case "print", "save":
	default:
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", c.action)}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch c.action {
	case "save":
		return c.runSave()
	default:
		_, err := fmt.Fprint(c.root.stdout, c.root.config.String())
		return err
	}
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, configPathOverride)
	if loader.OverridePath == "" {
		// Save over the file that was loaded, if any.
		loader.OverridePath = loader.GetConfigPath()
	}
	path, err := loader.Save(c.root.config)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.root.stderr, "Configuration saved to %s\n", path)
	return nil
}
