package runtime

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestEnvironmentShadowingAndAssign(t *testing.T) {
	env := NewEnvironment(nil)
	env.Push()
	env.Create("x", IntValue{Val: 1})
	env.Push()
	env.Create("x", IntValue{Val: 2})

	if v, _ := env.Get("x"); !Equal(v, IntValue{Val: 2}) {
		t.Fatalf("inner x = %#v", v)
	}
	if !env.Assign("x", IntValue{Val: 3}) {
		t.Fatalf("Assign should find x")
	}
	env.Pop()
	if v, _ := env.Get("x"); !Equal(v, IntValue{Val: 1}) {
		t.Fatalf("outer x should be untouched, got %#v", v)
	}
	if env.Assign("missing", Nil) {
		t.Fatalf("Assign must not create bindings")
	}
	if _, ok := env.Get("missing"); ok {
		t.Fatalf("missing should stay unbound")
	}
}

func TestEnvironmentSetCreatesInInnermostFrame(t *testing.T) {
	env := NewEnvironment(nil)
	env.Push()
	env.Create("outer", True)
	env.Push()
	env.Set("outer", False)
	env.Set("fresh", IntValue{Val: 9})
	env.Pop()

	if v, _ := env.Get("outer"); !Equal(v, False) {
		t.Fatalf("Set should update the existing binding, got %#v", v)
	}
	if _, ok := env.Get("fresh"); ok {
		t.Fatalf("fresh should have been created in the popped frame")
	}
}

func TestEnvironmentFlattenInnerWins(t *testing.T) {
	env := NewEnvironment(nil)
	env.PushScope(map[string]Value{"a": IntValue{Val: 1}, "b": IntValue{Val: 1}})
	env.PushScope(map[string]Value{"b": IntValue{Val: 2}})
	flat := env.Flatten()
	if !Equal(flat["a"], IntValue{Val: 1}) || !Equal(flat["b"], IntValue{Val: 2}) {
		t.Fatalf("Flatten = %#v", flat)
	}
	flat["a"] = Nil
	if v, _ := env.Get("a"); !Equal(v, IntValue{Val: 1}) {
		t.Fatalf("Flatten must return a copy")
	}
	if keys := env.Keys(); strings.Join(keys, ",") != "a,b" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestPushScopeCopiesBindings(t *testing.T) {
	snapshot := map[string]Value{"x": IntValue{Val: 1}}
	env := NewEnvironment(nil)
	env.PushScope(snapshot)
	env.Assign("x", IntValue{Val: 5})
	if !Equal(snapshot["x"], IntValue{Val: 1}) {
		t.Fatalf("snapshot was mutated: %#v", snapshot["x"])
	}
}

func TestEnvironmentTracesFrames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := NewEnvironment(logger)
	env.Push()
	env.Pop()
	out := buf.String()
	if !strings.Contains(out, "push scope") || !strings.Contains(out, "pop scope") {
		t.Fatalf("expected push/pop records, got %q", out)
	}
	if env.Depth() != 0 {
		t.Fatalf("depth = %d", env.Depth())
	}
}
