package runtime

import (
	"errors"
	"testing"
)

func mustField(t *testing.T, o *ObjectValue, name string) Value {
	t.Helper()
	v, err := o.GetField(name)
	if err != nil {
		t.Fatalf("GetField(%q): %v", name, err)
	}
	return v
}

func TestProtoAssignmentFlattensFields(t *testing.T) {
	parent := NewObject()
	parent.SetField("x", IntValue{Val: 1})
	parent.SetField("name", StringValue{Val: "p"})

	child := NewObject()
	child.SetField("name", StringValue{Val: "c"})
	child.SetField(ProtoField, parent)

	if !child.IsInherited("x") {
		t.Fatalf("expected x to be inherited")
	}
	if got := mustField(t, child, "x"); !Equal(got, IntValue{Val: 1}) {
		t.Fatalf("x = %#v", got)
	}
	if child.IsInherited("name") {
		t.Fatalf("own field name must not be marked inherited")
	}
	if got := mustField(t, child, "name"); !Equal(got, StringValue{Val: "c"}) {
		t.Fatalf("name = %#v, want own value", got)
	}
}

func TestFieldsAddedToProtoLaterResolveByDelegation(t *testing.T) {
	parent := NewObject()
	child := NewObject()
	child.SetField(ProtoField, parent)

	parent.SetField("g", IntValue{Val: 7})
	if child.HasOwnField("g") {
		t.Fatalf("g must not be copied after the proto assignment")
	}
	if got := mustField(t, child, "g"); !Equal(got, IntValue{Val: 7}) {
		t.Fatalf("g = %#v", got)
	}
}

func TestProtoNilDropsInheritedFields(t *testing.T) {
	parent := NewObject()
	parent.SetField("a", IntValue{Val: 1})
	parent.SetField("b", IntValue{Val: 2})

	child := NewObject()
	child.SetField("own", True)
	child.SetField(ProtoField, parent)
	child.SetField("b", IntValue{Val: 20})
	child.SetField(ProtoField, Nil)

	if _, err := child.GetField("a"); err == nil {
		t.Fatalf("expected a to be gone after proto = nil")
	}
	if got := mustField(t, child, "b"); !Equal(got, IntValue{Val: 20}) {
		t.Fatalf("explicitly written b should survive, got %#v", got)
	}
	if got := mustField(t, child, "own"); !Equal(got, True) {
		t.Fatalf("own = %#v", got)
	}
}

func TestProtoReassignmentReplacesSnapshot(t *testing.T) {
	first := NewObject()
	first.SetField("a", IntValue{Val: 1})
	second := NewObject()
	second.SetField("b", IntValue{Val: 2})

	child := NewObject()
	child.SetField(ProtoField, first)
	child.SetField(ProtoField, second)

	if child.HasOwnField("a") {
		t.Fatalf("stale inherited field a should be removed")
	}
	if _, err := child.GetField("a"); err == nil {
		t.Fatalf("a must no longer resolve")
	}
	if !child.IsInherited("b") {
		t.Fatalf("b should be inherited from the new proto")
	}
}

func TestProtoFieldIsNotFlattened(t *testing.T) {
	grand := NewObject()
	grand.SetField("deep", IntValue{Val: 3})
	parent := NewObject()
	parent.SetField(ProtoField, grand)
	child := NewObject()
	child.SetField(ProtoField, parent)

	proto := mustField(t, child, ProtoField)
	if proto != Value(parent) {
		t.Fatalf("child's proto should be its direct parent")
	}
	if got := mustField(t, child, "deep"); !Equal(got, IntValue{Val: 3}) {
		t.Fatalf("deep = %#v", got)
	}
}

func TestGetFieldErrors(t *testing.T) {
	o := NewObject()
	_, err := o.GetField("missing")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "missing" || fe.Reason != "" {
		t.Fatalf("unexpected error %v", err)
	}

	o.SetField(ProtoField, Nil)
	if _, err := o.GetField("missing"); err == nil {
		t.Fatalf("expected error for nil proto")
	}

	a, b := NewObject(), NewObject()
	a.SetField(ProtoField, b)
	b.SetField(ProtoField, a)
	_, err = a.GetField("nowhere")
	if !errors.As(err, &fe) || fe.Reason != "prototype chain is cyclic" {
		t.Fatalf("expected cyclic chain error, got %v", err)
	}
}

func TestSelfProtoIsRepresentable(t *testing.T) {
	o := NewObject()
	o.SetField("x", IntValue{Val: 1})
	o.SetField(ProtoField, o)
	if got := mustField(t, o, "x"); !Equal(got, IntValue{Val: 1}) {
		t.Fatalf("x = %#v", got)
	}
	if _, err := o.GetField("y"); err == nil {
		t.Fatalf("expected lookup of y to fail")
	}
}

func TestFieldNamesSorted(t *testing.T) {
	o := NewObject()
	o.SetField("b", Nil)
	o.SetField("a", Nil)
	names := o.FieldNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("FieldNames = %v", names)
	}
}
