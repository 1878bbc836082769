package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("ENVUTIL_STR", "  value ")
	t.Setenv("ENVUTIL_INT", "oops")
	t.Setenv("ENVUTIL_BOOL", "Yes")
	t.Setenv("ENVUTIL_SECS", "30")
	t.Setenv("ENVUTIL_LIST", "a, ,b,")
	t.Setenv("ENVUTIL_FLOAT", "0.5")

	if got := String("ENVUTIL_STR", "def", nil); got != "value" {
		t.Fatalf("String: %q", got)
	}
	if got := String("ENVUTIL_MISSING", "def", nil); got != "def" {
		t.Fatalf("String default: %q", got)
	}
	if got := Int("ENVUTIL_INT", 4, nil); got != 4 {
		t.Fatalf("Int should fall back on parse errors, got %d", got)
	}
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	if got := Seconds("ENVUTIL_SECS", time.Second, nil); got != 30*time.Second {
		t.Fatalf("Seconds: %v", got)
	}
	if got := List("ENVUTIL_LIST", nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: %v", got)
	}
	if got := Float("ENVUTIL_FLOAT", 0.1, nil); got != 0.5 {
		t.Fatalf("Float: %v", got)
	}
}
