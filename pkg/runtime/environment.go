package runtime

import (
	"log/slog"
	"sort"
)

// scope is one frame of bindings on the stack.
type scope map[string]Value

// Environment is the scope stack for one run. Function, closure and block
// entry push a frame; lookups search from the innermost frame outward.
type Environment struct {
	frames []scope
	logger *slog.Logger
}

// NewEnvironment creates an empty stack. A nil logger disables tracing.
func NewEnvironment(logger *slog.Logger) *Environment {
	return &Environment{logger: logger}
}

// Depth returns the number of frames on the stack.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// Push opens a fresh, empty frame.
func (e *Environment) Push() {
	e.PushScope(nil)
}

// PushScope opens a frame pre-populated with a copy of bindings.
func (e *Environment) PushScope(bindings map[string]Value) {
	frame := make(scope, len(bindings))
	for k, v := range bindings {
		frame[k] = v
	}
	e.frames = append(e.frames, frame)
	if e.logger != nil {
		e.logger.Debug("push scope",
			slog.Int("depth", len(e.frames)),
			slog.Int("bindings", len(frame)))
	}
}

// Pop discards the innermost frame.
func (e *Environment) Pop() {
	if len(e.frames) == 0 {
		panic("runtime: pop on empty scope stack")
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
	if e.logger != nil {
		e.logger.Debug("pop scope", slog.Int("depth", len(e.frames)))
	}
}

// Create binds name in the innermost frame, shadowing outer bindings.
func (e *Environment) Create(name string, value Value) {
	if len(e.frames) == 0 {
		e.Push()
	}
	e.frames[len(e.frames)-1][name] = value
}

// Get retrieves the innermost binding of name.
func (e *Environment) Get(name string) (Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates the innermost existing binding of name. It never creates a
// binding and reports whether one was found.
func (e *Environment) Assign(name string, value Value) bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][name]; ok {
			e.frames[i][name] = value
			return true
		}
	}
	return false
}

// Set updates an existing binding or, when name is unbound, creates it in
// the innermost frame.
func (e *Environment) Set(name string, value Value) {
	if !e.Assign(name, value) {
		e.Create(name, value)
	}
}

// Flatten returns every visible binding as one map, inner frames shadowing
// outer ones. Closures capture their environment this way.
func (e *Environment) Flatten() map[string]Value {
	out := make(map[string]Value)
	for _, frame := range e.frames {
		for k, v := range frame {
			out[k] = v
		}
	}
	return out
}

// Keys returns the visible names in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	flat := e.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
