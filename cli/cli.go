// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package cli handles command line parsing for the blackjack binary. It is
// the entry point after main(), and follows the teacher repository's own
// cli package: an arg.Config-driven parser over an Args struct holding one
// field per subcommand, with Version()/Description() methods and a Run
// method that dispatches to whichever subcommand was activated.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/blackjack3d/blackjack/util/errwrap"
)

// Data carries the values main() passes in, the same shape as the
// teacher's cliUtil.Data.
type Data struct {
	Program string
	Version string
	Copying string
	Tagline string
	Args    []string
}

// CLI parses data.Args and dispatches to whichever subcommand was given.
func CLI(ctx context.Context, data *Data) error {
	if data == nil || data.Program == "" || data.Version == "" {
		return fmt.Errorf("cli: was not run correctly")
	}

	args := Args{version: data.Version, description: data.Tagline}
	config := arg.Config{Program: data.Program}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		return errwrap.Wrapf(err, "cli config error")
	}

	argv := data.Args
	if len(argv) > 0 {
		argv = argv[1:] // argv[0] is the program name
	}
	if err := parser.Parse(argv); err != nil {
		if err == arg.ErrHelp {
			parser.WriteHelp(os.Stdout)
			return nil
		}
		if err == arg.ErrVersion {
			fmt.Printf("%s\n", data.Version)
			return nil
		}
		return errwrap.Wrapf(err, "cli parse error")
	}

	if args.License {
		fmt.Printf("%s", data.Copying)
		return nil
	}

	ok, err := args.Run(ctx)
	if err != nil {
		return err
	}
	if !ok {
		parser.WriteHelp(os.Stdout)
	}
	return nil
}

// Args is the top-level CLI parsing structure.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	EvalCmd *EvalArgs `arg:"subcommand:eval" help:"compile and run a graph document, exporting its result mesh"`

	version     string `arg:"-"`
	description string `arg:"-"`
}

// Version implements the version-string half of the go-arg API.
func (a *Args) Version() string { return a.version }

// Description implements the description half of the go-arg API.
func (a *Args) Description() string { return a.description }

// Run dispatches to whichever subcommand was activated. It reports ok=false
// if none was.
func (a *Args) Run(ctx context.Context) (bool, error) {
	if cmd := a.EvalCmd; cmd != nil {
		return true, cmd.Run(ctx)
	}
	return false, nil
}
