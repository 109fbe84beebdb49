package runtime

import (
	"fmt"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindString
	KindFunction
	KindClosure
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindClosure:
		return "closure"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a named top-level function read as a value. Only names
// registered at a single arity can become values, so it always refers to
// exactly one definition.
type FunctionValue struct {
	Definition *ast.FunctionDefinition
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// ClosureValue pairs a lambda with the flat snapshot of the bindings that
// were visible when it was created. Captured is never mutated after
// construction; invocations activate a copy.
type ClosureValue struct {
	Lambda   *ast.LambdaExpression
	Captured map[string]Value
}

func (v *ClosureValue) Kind() Kind { return KindClosure }

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

var (
	Nil   Value = NilValue{}
	True  Value = BoolValue{Val: true}
	False Value = BoolValue{Val: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Equal compares two values structurally: kinds first, then payloads.
// Objects and closures only support identity; function values compare the
// definition they are bound to.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case IntValue:
		return av.Val == b.(IntValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case *FunctionValue:
		return av.Definition == b.(*FunctionValue).Definition
	case *ClosureValue:
		return av == b.(*ClosureValue)
	case *ObjectValue:
		return av == b.(*ObjectValue)
	default:
		return false
	}
}

// Truthy converts a condition value. Only bools and ints qualify.
func Truthy(v Value) (bool, bool) {
	switch tv := v.(type) {
	case BoolValue:
		return tv.Val, true
	case IntValue:
		return tv.Val != 0, true
	default:
		return false, false
	}
}
