// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blackjack3d/blackjack/cli"
)

// version and program are set at compile time via -ldflags, the same
// convention the teacher repository's own main uses for its build metadata.
var (
	version = "dev"
	program = "blackjack"
)

const copying = `This program is free software: you can redistribute it and/or
modify it under the terms of the MIT license. See the LICENSE file in the
repository root for the full license text.
`

func main() {
	data := &cli.Data{
		Program: program,
		Version: version,
		Copying: copying,
		Tagline: "a procedural 3D modeling engine",
		Args:    os.Args,
	}
	if err := cli.CLI(context.Background(), data); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		os.Exit(1)
	}
}
