package interpreter

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

func (i *Interpreter) callPrint(call *ast.FunctionCall, recv *runtime.ObjectValue) (runtime.Value, error) {
	var b strings.Builder
	for _, arg := range call.Arguments {
		val, err := i.evalExpression(arg, recv)
		if err != nil {
			return nil, err
		}
		b.WriteString(ValueToString(val))
	}
	i.host.Output(b.String())
	return runtime.Nil, nil
}

// callInput serves inputi and inputs. An optional prompt is printed before
// the line is read.
func (i *Interpreter) callInput(call *ast.FunctionCall, recv *runtime.ObjectValue) (runtime.Value, error) {
	if len(call.Arguments) > 1 {
		return nil, nameErrorf(call, "no %s() function that takes more than one parameter", call.Name)
	}
	if len(call.Arguments) == 1 {
		prompt, err := i.evalExpression(call.Arguments[0], recv)
		if err != nil {
			return nil, err
		}
		i.host.Output(ValueToString(prompt))
	}
	line, err := i.host.GetInput()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, faultErrorf(call, "%s(): no more input", call.Name)
		}
		return nil, faultErrorf(call, "%s(): %v", call.Name, err)
	}
	if call.Name == "inputs" {
		return runtime.StringValue{Val: line}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return nil, typeErrorf(call, "inputi(): %q is not an integer", line)
	}
	return runtime.IntValue{Val: n}, nil
}
