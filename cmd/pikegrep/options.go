package main

import (
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

// Options holds the parsed command-line configuration for pikegrep.
type Options struct {
	Pattern      string
	Files        goflags.StringSlice
	Count        bool
	Invert       bool
	LineNumber   bool
	OnlyMatching bool
	Interactive  bool
	Verbose      bool
	Silent       bool
}

// ParseFlags builds the pikegrep flag set and parses os.Args, following the
// group/flag layout projectdiscovery tools use goflags for.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("pikegrep searches files for lines matching a pattern compiled by the pikevm regex engine.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.Pattern, "pattern", "e", "", "pattern to search for"),
		flagSet.StringSliceVarP(&opts.Files, "file", "f", nil, "files to search (default stdin)", goflags.FileCommaSeparatedStringSliceOptions),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Count, "count", "c", false, "print only a count of matching lines per file"),
		flagSet.BoolVarP(&opts.Invert, "invert", "v", false, "print lines that do not match"),
		flagSet.BoolVarP(&opts.LineNumber, "line-number", "n", false, "prefix each matching line with its line number"),
		flagSet.BoolVarP(&opts.OnlyMatching, "only-matching", "o", false, "print only the matched portion of each line"),
		flagSet.BoolVar(&opts.Verbose, "verbose", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
	)

	flagSet.CreateGroup("mode", "Mode",
		flagSet.BoolVarP(&opts.Interactive, "interactive", "i", false, "start an interactive pattern-testing REPL instead of searching files"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	if !opts.Interactive && opts.Pattern == "" {
		gologger.Fatal().Msgf("pikegrep: -pattern is required outside of -interactive mode")
	}

	return opts
}
