package interpreter

import (
	"sort"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

// functionTable indexes top-level definitions by name and parameter count.
// A later definition with the same name and arity replaces the earlier one.
type functionTable struct {
	byName map[string]map[int]*ast.FunctionDefinition
}

func newFunctionTable() *functionTable {
	return &functionTable{byName: make(map[string]map[int]*ast.FunctionDefinition)}
}

func (t *functionTable) add(fn *ast.FunctionDefinition) {
	overloads, ok := t.byName[fn.Name]
	if !ok {
		overloads = make(map[int]*ast.FunctionDefinition)
		t.byName[fn.Name] = overloads
	}
	overloads[len(fn.Params)] = fn
}

func (t *functionTable) has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// lookup resolves an exact (name, arity) pair.
func (t *functionTable) lookup(name string, arity int, at ast.Node) (*ast.FunctionDefinition, error) {
	overloads, ok := t.byName[name]
	if !ok {
		return nil, nameErrorf(at, "function %s not found", name)
	}
	fn, ok := overloads[arity]
	if !ok {
		return nil, nameErrorf(at, "function %s taking %d params not found", name, arity)
	}
	return fn, nil
}

// value turns a bare function name into a first-class value. Overloaded
// names are ambiguous and rejected.
func (t *functionTable) value(name string, at ast.Node) (runtime.Value, error) {
	overloads := t.byName[name]
	if len(overloads) != 1 {
		return nil, nameErrorf(at, "function %s is overloaded (arities %v) and cannot be used as a value", name, arities(overloads))
	}
	for _, fn := range overloads {
		return &runtime.FunctionValue{Definition: fn}, nil
	}
	return nil, nameErrorf(at, "function %s not found", name)
}

func arities(overloads map[int]*ast.FunctionDefinition) []int {
	out := make([]int, 0, len(overloads))
	for n := range overloads {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
