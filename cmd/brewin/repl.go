package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/interpreter"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/parser"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

const (
	historyFile = ".brewin_history"
	promptMain  = "brewin> "
	promptCont  = "   ...> "
)

// linerHost reads program input through a liner prompt so interactive runs
// get line editing.
type linerHost struct {
	ln    *liner.State
	out   io.Writer
	owned bool
}

func newLinerHost(out io.Writer) *linerHost {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	return &linerHost{ln: ln, out: out, owned: true}
}

func (h *linerHost) Output(text string) {
	fmt.Fprintln(h.out, text)
}

func (h *linerHost) GetInput() (string, error) {
	line, err := h.ln.Prompt("")
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}

func (h *linerHost) Close() {
	if h.owned {
		_ = h.ln.Close()
	}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0 && liner.TerminalSupported()
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	trace := fs.Bool("trace", false, "log statements, calls and scope changes to stderr")
	maxDepth := fs.Int("max-depth", 0, "maximum nested call depth (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Fprintf(os.Stdout, "%s  (:quit to exit, :vars to list bindings)\n", cliToolVersion)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	host := &linerHost{ln: ln, out: os.Stdout}
	session := interpreter.New(host, interpreterOptions(nil, *trace, *maxDepth)...).NewSession()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		trimmed := strings.TrimSpace(code)
		switch trimmed {
		case "":
			continue
		case ":quit", ":q":
			return 0
		case ":vars":
			fmt.Fprintln(os.Stdout, strings.Join(session.Bindings(), " "))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if err := evalReplInput(session, code); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func evalReplInput(session *interpreter.Session, code string) error {
	functions, stmts, err := parser.ParseFragment(code)
	if err != nil {
		return err
	}
	session.Define(functions)
	val, err := session.Exec(stmts)
	if err != nil {
		return err
	}
	if val != nil && val.Kind() != runtime.KindNil {
		fmt.Fprintf(os.Stdout, "=> %s\n", interpreter.ValueToString(val))
	}
	return nil
}

// readByParseProbe keeps prompting while the buffered input parses as
// incomplete.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, _, perr := parser.ParseFragment(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
