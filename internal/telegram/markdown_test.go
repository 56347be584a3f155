package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage(t *testing.T) {
	if parts := SplitMessage("short", 10); len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("short message split: %q", parts)
	}

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	parts := SplitMessage(text, 10)
	if len(parts) != 2 || parts[0] != strings.Repeat("a", 8)+"\n" || parts[1] != strings.Repeat("b", 8) {
		t.Fatalf("newline split = %q", parts)
	}

	long := strings.Repeat("ж", 25)
	parts = SplitMessage(long, 10)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	for _, p := range parts {
		if utf8.RuneCountInString(p) > 10 {
			t.Errorf("part %q longer than 10 runes", p)
		}
	}
	if strings.Join(parts, "") != long {
		t.Error("parts do not reassemble the message")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	got := EscapeMarkdown("my_name *bold* `code` [link]")
	want := "my\\_name \\*bold\\* \\`code\\` \\[link]"
	if got != want {
		t.Errorf("EscapeMarkdown = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 8); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}
