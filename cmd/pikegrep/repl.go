package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/projectdiscovery/gologger"

	"github.com/pikevm/pikevm"
)

// REPL is an interactive loop for compiling a pattern once and testing it
// against a series of typed input lines, styled after cardinal's REPL: a
// compiled pattern stands in for cardinal's evaluator context, and each
// input line is "evaluated" against it instead of against an expression.
type REPL struct {
	pattern string
	re      *pikevm.Regex
	input   io.Reader
	output  io.Writer
	prompt  string
}

// NewREPL creates a REPL bound to stdin/stdout.
func NewREPL(opts *Options) *REPL {
	r := &REPL{
		pattern: opts.Pattern,
		input:   os.Stdin,
		output:  os.Stdout,
		prompt:  "pikegrep> ",
	}
	if r.pattern != "" {
		if re, err := pikevm.Compile(r.pattern); err == nil {
			r.re = re
		} else {
			gologger.Error().Msgf("initial pattern %q failed to compile: %s\n", r.pattern, err)
		}
	}
	return r
}

// isInteractive reports whether stdin is attached to a terminal.
func (r *REPL) isInteractive() bool {
	if r.input == os.Stdin {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return false
}

// Run dispatches to the readline-backed interactive loop when stdin is a
// terminal, and to a plain line scanner otherwise (e.g. piped input, tests).
func (r *REPL) Run() error {
	if r.isInteractive() {
		return r.runInteractive()
	}
	return r.runScanner()
}

func (r *REPL) runInteractive() error {
	rl := readline.NewInstance()
	rl.SetPrompt(r.currentPrompt())
	_, _ = fmt.Fprintln(r.output, "pikegrep interactive mode. Type :pattern <regex> to set a pattern, :quit to exit.")

	for {
		rl.SetPrompt(r.currentPrompt())
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		if r.handleLine(line) {
			return nil
		}
	}
}

func (r *REPL) runScanner() error {
	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		if r.handleLine(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

func (r *REPL) currentPrompt() string {
	if r.pattern == "" {
		return "pattern> "
	}
	return r.prompt
}

// handleLine processes one line of REPL input, returning true if the REPL
// should exit.
func (r *REPL) handleLine(line string) bool {
	switch {
	case line == ":quit", line == ":exit":
		_, _ = fmt.Fprintln(r.output, "Goodbye!")
		return true
	case line == ":help":
		r.printHelp()
		return false
	case strings.HasPrefix(line, ":pattern "):
		r.setPattern(strings.TrimPrefix(line, ":pattern "))
		return false
	}

	if r.re == nil {
		r.setPattern(line)
		return false
	}

	r.testLine(line)
	return false
}

func (r *REPL) setPattern(pattern string) {
	re, err := pikevm.Compile(pattern)
	if err != nil {
		_, _ = fmt.Fprintf(r.output, "compile error: %s\n", err)
		return
	}
	r.pattern = pattern
	r.re = re
	_, _ = fmt.Fprintf(r.output, "pattern set: %s\n", pattern)
}

func (r *REPL) testLine(line string) {
	idx := r.re.FindStringIndex(line)
	if idx == nil {
		_, _ = fmt.Fprintln(r.output, "no match")
		return
	}
	_, _ = fmt.Fprintf(r.output, "match: %q at [%d:%d]\n", line[idx[0]:idx[1]], idx[0], idx[1])

	groups := r.re.FindStringSubmatch(line)
	for i := 1; i < len(groups); i++ {
		_, _ = fmt.Fprintf(r.output, "  group %d: %q\n", i, groups[i])
	}
}

func (r *REPL) printHelp() {
	_, _ = fmt.Fprint(r.output, `
pikegrep interactive mode
=========================

Commands:
  :pattern <regex>   compile and use a new pattern
  :help              show this help message
  :quit, :exit       leave the REPL

Any other line is matched against the current pattern; while no pattern
is set, it is compiled as the pattern instead.
`)
}
