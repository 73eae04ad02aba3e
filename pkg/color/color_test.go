package color

import (
	"strings"
	"testing"
)

func TestDisabledColorIsPlain(t *testing.T) {
	EnableColor(false)
	defer EnableColor(false)

	if IsColorEnabled() {
		t.Fatal("expected color to be disabled")
	}
	if got := GreenText("ok"); got != "ok" {
		t.Errorf("expected plain text, got %q", got)
	}

	got := ErrorWithPosition(3, 7, "Unknown instruction `halt`", "halt")
	if got != "Error at 3:7: Unknown instruction `halt`\nhalt" {
		t.Errorf("unexpected diagnostic %q", got)
	}
}

func TestEnabledColorEmitsEscapes(t *testing.T) {
	EnableColor(true)
	defer EnableColor(false)

	if !IsColorEnabled() {
		t.Fatal("expected color to be enabled")
	}
	if got := YellowText("iadd"); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "iadd") {
		t.Errorf("expected ANSI escape around text, got %q", got)
	}
	if got := ErrorWithPosition(1, 1, "msg", "src"); !strings.Contains(got, "msg") || !strings.Contains(got, "\x1b[") {
		t.Errorf("unexpected colored diagnostic %q", got)
	}
}
