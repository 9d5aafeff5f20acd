// Command pikegrep is a line-oriented search tool built on the pikevm
// regex engine, in the shape of projectdiscovery's goflags/gologger-driven
// CLIs: parsed flags, a grouped help layout, and leveled logging for
// diagnostics distinct from the search results themselves.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/projectdiscovery/gologger"

	"github.com/pikevm/pikevm"
	"github.com/pikevm/pikevm/simd"
)

func main() {
	opts := ParseFlags()

	if opts.Verbose {
		caps := simd.DetectCapabilities()
		gologger.Verbose().Msgf("scanner capabilities: avx2=%v sse4.2=%v (portable SWAR in use)", caps.AVX2, caps.SSE42)
	}

	if opts.Interactive {
		if err := NewREPL(opts).Run(); err != nil {
			gologger.Fatal().Msgf("repl error: %s\n", err)
		}
		return
	}

	re, err := pikevm.Compile(opts.Pattern)
	if err != nil {
		gologger.Fatal().Msgf("invalid pattern %q: %s\n", opts.Pattern, err)
	}

	exitCode := 0
	if len(opts.Files) == 0 {
		if !searchReader(re, os.Stdin, "", opts) {
			exitCode = 1
		}
	} else {
		anyMatch := false
		for _, name := range opts.Files {
			f, err := os.Open(name)
			if err != nil {
				gologger.Error().Msgf("%s: %s\n", name, err)
				exitCode = 2
				continue
			}
			prefix := ""
			if len(opts.Files) > 1 {
				prefix = name
			}
			if searchReader(re, f, prefix, opts) {
				anyMatch = true
			}
			f.Close()
		}
		if !anyMatch && exitCode == 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// searchReader scans r line by line, reporting whether any line in it
// matched (after applying -invert).
func searchReader(re *pikevm.Regex, r *os.File, filePrefix string, opts *Options) bool {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	count := 0
	matched := false

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		isMatch := re.MatchString(line)
		if opts.Invert {
			isMatch = !isMatch
		}
		if !isMatch {
			continue
		}
		matched = true
		count++
		if opts.Count {
			continue
		}
		printLine(re, line, filePrefix, lineNo, opts)
	}
	if opts.Count {
		printCount(filePrefix, count)
	}
	return matched
}

func printLine(re *pikevm.Regex, line, filePrefix string, lineNo int, opts *Options) {
	var out string
	switch {
	case opts.OnlyMatching && !opts.Invert:
		out = re.FindString(line)
	default:
		out = line
	}

	if filePrefix != "" {
		out = filePrefix + ":" + out
	}
	if opts.LineNumber {
		out = strconv.Itoa(lineNo) + ":" + out
	}
	fmt.Println(out)
}

func printCount(filePrefix string, count int) {
	if filePrefix != "" {
		fmt.Printf("%s:%d\n", filePrefix, count)
		return
	}
	fmt.Println(count)
}
