// Package lister implements the load/interpret/print pipeline shared by
// the acpidump command and the integration tests.
package lister

import (
	"fmt"
	"io"
	"os"

	"goacpi/aml"
	"goacpi/common"
	"goacpi/printer"
)

// Config mirrors the command line arguments of acpidump.
type Config struct {
	// Input is the path of the AML table file, or "-" for stdin.
	Input string

	// OutputWriter receives the namespace dump; defaults to stdout.
	OutputWriter io.Writer

	// Logger receives decoder diagnostics; defaults to no-op.
	Logger common.Logger
}

// Run reads the table named by cfg, interprets it, and dumps the
// resulting namespace.
func Run(cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}

	data, err := readInput(cfg.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.Input, err)
	}

	table, err := aml.Interpret(data, cfg.Logger)
	if err != nil {
		return fmt.Errorf("interpreting %s: %w", cfg.Input, err)
	}

	return printer.WriteNamespace(w, table)
}

func readInput(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}
