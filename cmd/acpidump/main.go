// acpidump interprets a single AML table (DSDT/SSDT dump) and prints
// the resulting ACPI namespace.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"
	log "github.com/sirupsen/logrus"

	"goacpi/common"
	"goacpi/internal/lister"
)

func main() {
	fs := flag.NewFlagSet("acpidump", flag.ExitOnError)
	var (
		verbose = fs.Bool("v", false, "enable debug logging")
		quiet   = fs.Bool("q", false, "suppress warnings")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: acpidump [flags] <table.aml | ->\n\n")
		fs.PrintDefaults()
	}

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ACPIDUMP"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "acpidump: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *quiet {
		log.SetLevel(log.ErrorLevel)
	}

	cfg := lister.Config{
		Input:        fs.Arg(0),
		OutputWriter: os.Stdout,
		Logger:       common.NewLogrusLogger(nil),
	}
	if err := lister.Run(cfg); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
