package main

import (
	"flag"
	"fmt"
	"io"
)

type versionCmd struct {
	*root
	fs *flag.FlagSet
}

func (v *versionCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func (v *versionCmd) Program() string {
	return v.root.subcommand("version")
}

func parseVersionCmd(args []string, r *root) (*versionCmd, error) {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	v := &versionCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: v, msg: errMessage(err)}
	}
	return v, nil
}

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.root.stdout, "%s version %s\n", v.root.program, version)
	if commit != "" {
		fmt.Fprintf(v.root.stdout, "commit %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(v.root.stdout, "built %s\n", date)
	}
	return nil
}
