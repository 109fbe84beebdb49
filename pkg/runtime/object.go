package runtime

import (
	"fmt"
	"sort"
)

// ProtoField is the reserved field that links an object to its prototype.
const ProtoField = "proto"

// FieldError reports a field that is missing from an object and every
// prototype reachable from it.
type FieldError struct {
	Field string
	// Reason is empty for a plain miss; otherwise it names what broke the
	// chain walk.
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %s not found: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %s not found", e.Field)
}

// ObjectValue is a prototype-based object: a field store plus the set of
// fields that were copied in from the prototype when it was assigned.
// Every inherited name is also a key of fields.
type ObjectValue struct {
	fields    map[string]Value
	inherited map[string]struct{}
}

func NewObject() *ObjectValue {
	return &ObjectValue{
		fields:    make(map[string]Value),
		inherited: make(map[string]struct{}),
	}
}

func (o *ObjectValue) Kind() Kind { return KindObject }

// GetField returns the value of name, falling back to live delegation
// through the "proto" field when name is not stored on o.
func (o *ObjectValue) GetField(name string) (Value, error) {
	seen := make(map[*ObjectValue]struct{})
	for cur := o; ; {
		if v, ok := cur.fields[name]; ok {
			return v, nil
		}
		seen[cur] = struct{}{}
		protoVal, ok := cur.fields[ProtoField]
		if !ok {
			return nil, &FieldError{Field: name}
		}
		proto, ok := protoVal.(*ObjectValue)
		if !ok {
			return nil, &FieldError{Field: name, Reason: "prototype is nil"}
		}
		if _, loop := seen[proto]; loop {
			return nil, &FieldError{Field: name, Reason: "prototype chain is cyclic"}
		}
		cur = proto
	}
}

// SetField writes name on o. Writing "proto" re-flattens the prototype: the
// previous snapshot of inherited fields is dropped and the new prototype's
// current fields are copied in, except where o has its own definition.
// Fields added to the prototype later are still reachable through GetField.
func (o *ObjectValue) SetField(name string, value Value) {
	if name == ProtoField {
		o.flatten(value)
	} else {
		delete(o.inherited, name)
	}
	o.fields[name] = value
}

func (o *ObjectValue) flatten(protoVal Value) {
	for field := range o.inherited {
		delete(o.fields, field)
	}
	o.inherited = make(map[string]struct{})

	proto, ok := protoVal.(*ObjectValue)
	if !ok {
		return
	}
	for field, v := range proto.fields {
		if field == ProtoField {
			continue
		}
		if _, own := o.fields[field]; own {
			continue
		}
		o.fields[field] = v
		o.inherited[field] = struct{}{}
	}
}

// HasOwnField reports whether name is stored directly on o (own or inherited).
func (o *ObjectValue) HasOwnField(name string) bool {
	_, ok := o.fields[name]
	return ok
}

// IsInherited reports whether name was copied in from the prototype.
func (o *ObjectValue) IsInherited(name string) bool {
	_, ok := o.inherited[name]
	return ok
}

// FieldNames returns the names stored on o in sorted order.
func (o *ObjectValue) FieldNames() []string {
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
