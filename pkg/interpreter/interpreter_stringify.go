package interpreter

import (
	"fmt"
	"strconv"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/runtime"
)

// ValueToString renders a value the way print shows it.
func ValueToString(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.IntValue:
		return strconv.FormatInt(v.Val, 10)
	case runtime.NilValue:
		return "nil"
	case *runtime.FunctionValue:
		return fmt.Sprintf("<function %s>", v.Definition.Name)
	case *runtime.ClosureValue:
		return "<closure>"
	case *runtime.ObjectValue:
		return "<object>"
	default:
		if val == nil {
			return "<nil>"
		}
		return fmt.Sprintf("[%s]", val.Kind())
	}
}
