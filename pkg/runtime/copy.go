package runtime

// DeepCopy returns a value that shares no mutable state with v. Objects and
// closures reachable from v are copied once each, so aliasing and cycles
// inside the copied graph are preserved. Scalars and function values are
// immutable and returned as is.
func DeepCopy(v Value) Value {
	c := copier{
		objects:  make(map[*ObjectValue]*ObjectValue),
		closures: make(map[*ClosureValue]*ClosureValue),
	}
	return c.value(v)
}

type copier struct {
	objects  map[*ObjectValue]*ObjectValue
	closures map[*ClosureValue]*ClosureValue
}

func (c *copier) value(v Value) Value {
	switch tv := v.(type) {
	case *ObjectValue:
		return c.object(tv)
	case *ClosureValue:
		return c.closure(tv)
	default:
		return v
	}
}

func (c *copier) object(o *ObjectValue) *ObjectValue {
	if dup, ok := c.objects[o]; ok {
		return dup
	}
	dup := &ObjectValue{
		fields:    make(map[string]Value, len(o.fields)),
		inherited: make(map[string]struct{}, len(o.inherited)),
	}
	c.objects[o] = dup
	for name, field := range o.fields {
		dup.fields[name] = c.value(field)
	}
	for name := range o.inherited {
		dup.inherited[name] = struct{}{}
	}
	return dup
}

func (c *copier) closure(cl *ClosureValue) *ClosureValue {
	if dup, ok := c.closures[cl]; ok {
		return dup
	}
	dup := &ClosureValue{Lambda: cl.Lambda, Captured: make(map[string]Value, len(cl.Captured))}
	c.closures[cl] = dup
	for name, bound := range cl.Captured {
		dup.Captured[name] = c.value(bound)
	}
	return dup
}
