package runtime

import (
	"testing"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/ast"
)

func TestDeepCopyDetachesObjects(t *testing.T) {
	o := NewObject()
	o.SetField("x", IntValue{Val: 1})
	dup := DeepCopy(o).(*ObjectValue)
	if dup == o {
		t.Fatalf("DeepCopy returned the same object")
	}
	dup.SetField("x", IntValue{Val: 2})
	if got, _ := o.GetField("x"); !Equal(got, IntValue{Val: 1}) {
		t.Fatalf("original mutated: %#v", got)
	}
}

func TestDeepCopyPreservesAliasingAndCycles(t *testing.T) {
	shared := NewObject()
	root := NewObject()
	root.SetField("a", shared)
	root.SetField("b", shared)
	root.SetField("self", root)

	dup := DeepCopy(root).(*ObjectValue)
	a, _ := dup.GetField("a")
	b, _ := dup.GetField("b")
	self, _ := dup.GetField("self")
	if a != b {
		t.Fatalf("aliasing inside the copy was lost")
	}
	if a == Value(shared) {
		t.Fatalf("shared object should have been copied")
	}
	if self != Value(dup) {
		t.Fatalf("cycle should point at the copy")
	}
}

func TestDeepCopyKeepsInheritedMarks(t *testing.T) {
	parent := NewObject()
	parent.SetField("f", IntValue{Val: 1})
	child := NewObject()
	child.SetField(ProtoField, parent)

	dup := DeepCopy(child).(*ObjectValue)
	if !dup.IsInherited("f") {
		t.Fatalf("inherited mark lost in copy")
	}
	proto, _ := dup.GetField(ProtoField)
	if proto == Value(parent) {
		t.Fatalf("proto should be copied with the object")
	}
}

func TestDeepCopyClosureAndScalars(t *testing.T) {
	inner := NewObject()
	cl := &ClosureValue{Lambda: ast.Lambda(nil), Captured: map[string]Value{"o": inner}}
	dup := DeepCopy(cl).(*ClosureValue)
	if dup == cl || dup.Captured["o"] == Value(inner) {
		t.Fatalf("closure captures should be copied")
	}
	if dup.Lambda != cl.Lambda {
		t.Fatalf("lambda AST should be shared")
	}
	if v := DeepCopy(IntValue{Val: 4}); !Equal(v, IntValue{Val: 4}) {
		t.Fatalf("scalar copy = %#v", v)
	}
}

func TestEqualSemantics(t *testing.T) {
	o := NewObject()
	cases := []struct {
		a, b Value
		want bool
	}{
		{IntValue{Val: 1}, IntValue{Val: 1}, true},
		{IntValue{Val: 1}, StringValue{Val: "1"}, false},
		{Nil, Nil, true},
		{True, False, false},
		{o, o, true},
		{o, NewObject(), false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
