package interpreter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

type calleeKind int

const (
	calleeFunction calleeKind = iota
	calleeClosure
)

func (k calleeKind) String() string {
	if k == calleeClosure {
		return "closure"
	}
	return "function"
}

// callTarget is a resolved callable: the code to run, the bindings its frame
// starts with and the receiver `this` refers to inside it.
type callTarget struct {
	kind     calleeKind
	name     string
	params   []*ast.FunctionParameter
	body     []ast.Statement
	snapshot map[string]runtime.Value
	receiver *runtime.ObjectValue
	// bound is set when the callable came from a value (variable or object
	// field) rather than the function table.
	bound bool
}

// refBinding ties a caller-side designator to the formal that aliases it.
type refBinding struct {
	designator string
	formal     string
	value      runtime.Value
}

const thisName = "this"

func (i *Interpreter) callFunction(call *ast.FunctionCall, recv *runtime.ObjectValue) (runtime.Value, error) {
	if !call.IsMethodCall() {
		switch call.Name {
		case "print":
			return i.callPrint(call, recv)
		case "inputi", "inputs":
			return i.callInput(call, recv)
		}
	}
	target, err := i.resolveCallable(call, recv)
	if err != nil {
		return nil, err
	}
	return i.invoke(target, call.Arguments, call, recv)
}

func (i *Interpreter) resolveCallable(call *ast.FunctionCall, recv *runtime.ObjectValue) (*callTarget, error) {
	if call.IsMethodCall() {
		obj, err := i.resolveObject(call.ObjRef, call, recv)
		if err != nil {
			return nil, err
		}
		// A closure or function value bound under the method's name wins over
		// the field; the object is still the receiver.
		if bound, ok := i.env.Get(call.Name); ok {
			if target, callable := targetFromValue(call.Name, bound, obj); callable {
				return target, nil
			}
		}
		field, err := obj.GetField(call.Name)
		if err != nil {
			return nil, nameErrorf(call, "%s is not a field of object %s: %v", call.Name, call.ObjRef, err)
		}
		target, ok := targetFromValue(call.Name, field, obj)
		if !ok {
			return nil, typeErrorf(call, "%s.%s is not a method (got %s)", call.ObjRef, call.Name, field.Kind())
		}
		return target, nil
	}

	if bound, ok := i.env.Get(call.Name); ok {
		target, callable := targetFromValue(call.Name, bound, recv)
		if !callable {
			return nil, typeErrorf(call, "invalid call: %s is a %s", call.Name, bound.Kind())
		}
		return target, nil
	}

	def, err := i.functions.lookup(call.Name, len(call.Arguments), call)
	if err != nil {
		return nil, err
	}
	return &callTarget{
		kind:     calleeFunction,
		name:     def.Name,
		params:   def.Params,
		body:     def.Body,
		receiver: recv,
	}, nil
}

func targetFromValue(name string, v runtime.Value, recv *runtime.ObjectValue) (*callTarget, bool) {
	switch fn := v.(type) {
	case *runtime.ClosureValue:
		return &callTarget{
			kind:     calleeClosure,
			name:     name,
			params:   fn.Lambda.Params,
			body:     fn.Lambda.Body,
			snapshot: fn.Captured,
			receiver: recv,
			bound:    true,
		}, true
	case *runtime.FunctionValue:
		return &callTarget{
			kind:     calleeFunction,
			name:     fn.Definition.Name,
			params:   fn.Definition.Params,
			body:     fn.Definition.Body,
			receiver: recv,
			bound:    true,
		}, true
	default:
		return nil, false
	}
}

// invoke evaluates the actuals in the caller's context, runs the target in
// its own frame and performs reference write-back once the frame is gone.
func (i *Interpreter) invoke(target *callTarget, args []ast.Expression, site ast.Node, callerRecv *runtime.ObjectValue) (runtime.Value, error) {
	if len(args) != len(target.params) {
		if target.bound {
			return nil, typeErrorf(site, "%s expects %d arguments, got %d", target.name, len(target.params), len(args))
		}
		return nil, nameErrorf(site, "function %s taking %d params not found", target.name, len(args))
	}
	if i.maxCallDepth > 0 && i.callDepth >= i.maxCallDepth {
		return nil, fmt.Errorf("%w: calling %s at depth %d", ErrCallDepthExceeded, target.name, i.callDepth)
	}

	actuals := make([]runtime.Value, len(args))
	var refs []refBinding
	for idx, arg := range args {
		val, err := i.evalExpression(arg, callerRecv)
		if err != nil {
			return nil, err
		}
		formal := target.params[idx]
		if !formal.ByRef {
			actuals[idx] = runtime.DeepCopy(val)
			continue
		}
		actuals[idx] = val
		if id, ok := arg.(*ast.Identifier); ok {
			refs = append(refs, refBinding{designator: id.Name, formal: formal.Name})
		}
	}

	i.logger.Debug("call",
		slog.String("callee", target.kind.String()),
		slog.String("name", target.name),
		slog.Int("arity", len(args)),
		slog.Int("refs", len(refs)),
		slog.Int("depth", i.callDepth+1))

	i.callDepth++
	result, err := i.runFrame(target, actuals, refs)
	i.callDepth--
	if err != nil {
		return nil, err
	}
	if err := i.writeBack(refs, site, callerRecv); err != nil {
		return nil, err
	}
	return result, nil
}

// runFrame pushes the callee frame, binds parameters, runs the body and
// captures the final value of every reference formal before the pop.
func (i *Interpreter) runFrame(target *callTarget, actuals []runtime.Value, refs []refBinding) (runtime.Value, error) {
	if target.kind == calleeClosure {
		i.env.PushScope(target.snapshot)
	} else {
		i.env.Push()
	}
	defer i.env.Pop()

	for idx, formal := range target.params {
		i.env.Create(formal.Name, actuals[idx])
	}
	status, val, err := i.execBlock(target.body, target.receiver)
	if err != nil {
		return nil, err
	}
	for idx := range refs {
		refs[idx].value, _ = i.env.Get(refs[idx].formal)
	}
	if status == statusReturn {
		return val, nil
	}
	return runtime.Nil, nil
}

func (i *Interpreter) writeBack(refs []refBinding, site ast.Node, recv *runtime.ObjectValue) error {
	for _, ref := range refs {
		if ref.value == nil {
			continue
		}
		i.logger.Debug("write back",
			slog.String("designator", ref.designator),
			slog.String("formal", ref.formal))
		base, field, dotted := strings.Cut(ref.designator, ".")
		if !dotted {
			i.env.Assign(ref.designator, ref.value)
			continue
		}
		obj, err := i.resolveObject(base, site, recv)
		if err != nil {
			return err
		}
		if err := setField(obj, field, ref.value, site); err != nil {
			return err
		}
	}
	return nil
}

// resolveObject maps an object reference (a variable name or `this`) to the
// object it names.
func (i *Interpreter) resolveObject(name string, at ast.Node, recv *runtime.ObjectValue) (*runtime.ObjectValue, error) {
	if name == thisName {
		if recv == nil {
			return nil, nameErrorf(at, "this is not bound outside a method call")
		}
		return recv, nil
	}
	v, ok := i.env.Get(name)
	if !ok {
		return nil, nameErrorf(at, "object %s not found", name)
	}
	obj, ok := v.(*runtime.ObjectValue)
	if !ok {
		return nil, typeErrorf(at, "%s is not an object (got %s)", name, v.Kind())
	}
	return obj, nil
}

func setField(obj *runtime.ObjectValue, field string, val runtime.Value, at ast.Node) error {
	if field == runtime.ProtoField {
		switch val.(type) {
		case *runtime.ObjectValue, runtime.NilValue:
		default:
			return typeErrorf(at, "proto must be an object or nil (got %s)", val.Kind())
		}
	}
	obj.SetField(field, val)
	return nil
}
