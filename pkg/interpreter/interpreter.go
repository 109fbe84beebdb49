package interpreter

import (
	"io"
	"log/slog"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/parser"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

// Interpreter evaluates Brewin programs. An Interpreter is not safe for
// concurrent use.
type Interpreter struct {
	host         Host
	logger       *slog.Logger
	maxCallDepth int

	functions *functionTable
	env       *runtime.Environment
	callDepth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger routes evaluation traces to logger. Records are emitted at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxCallDepth bounds the number of nested user-level calls. Zero means
// unlimited.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// New returns an interpreter that performs I/O through host.
func New(host Host, opts ...Option) *Interpreter {
	i := &Interpreter{
		host:      host,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		functions: newFunctionTable(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.env = runtime.NewEnvironment(i.logger)
	return i
}

// Run parses src and executes its main function.
func (i *Interpreter) Run(src string) error {
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	return i.RunProgram(prog)
}

// RunProgram executes an already parsed program. The function table is
// rebuilt from prog and the scope stack starts empty.
func (i *Interpreter) RunProgram(prog *ast.Program) error {
	i.functions = newFunctionTable()
	for _, fn := range prog.Functions {
		i.functions.add(fn)
	}
	i.env = runtime.NewEnvironment(i.logger)
	i.callDepth = 0

	main, err := i.functions.lookup("main", 0, nil)
	if err != nil {
		return nameErrorf(prog, "no main() function was found")
	}
	i.logger.Debug("run", slog.Int("functions", len(prog.Functions)))
	_, err = i.invoke(&callTarget{
		kind:   calleeFunction,
		name:   main.Name,
		params: main.Params,
		body:   main.Body,
	}, nil, main, nil)
	return err
}

// Session keeps one persistent frame alive across REPL inputs.
type Session struct {
	interp *Interpreter
}

// NewSession resets the interpreter and opens a session frame that
// statements executed through the session share.
func (i *Interpreter) NewSession() *Session {
	i.functions = newFunctionTable()
	i.env = runtime.NewEnvironment(i.logger)
	i.callDepth = 0
	i.env.Push()
	return &Session{interp: i}
}

// Define adds functions to the session's function table, replacing any
// definition with the same name and arity.
func (s *Session) Define(functions []*ast.FunctionDefinition) {
	for _, fn := range functions {
		s.interp.functions.add(fn)
	}
}

// Exec runs statements directly in the session frame so assignments stay
// visible to later inputs. A top-level return stops the remaining
// statements and yields its value.
func (s *Session) Exec(stmts []ast.Statement) (runtime.Value, error) {
	i := s.interp
	depth := i.env.Depth()
	defer func() {
		for i.env.Depth() > depth {
			i.env.Pop()
		}
	}()
	for _, stmt := range stmts {
		status, val, err := i.execStatement(stmt, nil)
		if err != nil {
			return nil, err
		}
		if status == statusReturn {
			return val, nil
		}
	}
	return runtime.Nil, nil
}

// Bindings returns the names visible in the session frame.
func (s *Session) Bindings() []string {
	return s.interp.env.Keys()
}
