// Command qsim simulates quantum circuits and estimates zero-noise
// observables.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Subcommands report their own ExitErrors; anything else is a usage
	// error from flag or argument parsing.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
