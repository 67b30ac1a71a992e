package rules

import (
	"testing"

	"tilewm/internal/wmwindow"
)

func win(exe, title, class string) wmwindow.Window {
	return wmwindow.Window{Executable: exe, Title: title, Class: class}
}

func TestLegacyCaseInsensitiveSubstring(t *testing.T) {
	r := Rule{Field: FieldExecutable, Pattern: "CHROME", Strategy: Legacy}
	if !r.Match(win("chrome.exe", "", "")) {
		t.Fatal("expected match")
	}
}

func TestEqualsExact(t *testing.T) {
	r := Rule{Field: FieldExecutable, Pattern: "chrome.exe", Strategy: Equals}
	if r.Match(win("chrome.exe.bak", "", "")) {
		t.Fatal("expected no match for non-exact value")
	}
	if !r.Match(win("chrome.exe", "", "")) {
		t.Fatal("expected match")
	}
}

func TestRegexInvalidPatternRejected(t *testing.T) {
	r := Rule{Field: FieldTitle, Pattern: "(unclosed", Strategy: Regex}
	if err := r.Compile(); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestRegexValid(t *testing.T) {
	r := Rule{Field: FieldTitle, Pattern: `^Mail.*`, Strategy: Regex}
	if err := r.Compile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Match(win("", "Mail - Inbox", "")) {
		t.Fatal("expected match")
	}
}

func TestSetFirstMatchWins(t *testing.T) {
	set := Set{
		{Field: FieldExecutable, Pattern: "foo.exe", Strategy: Equals},
		{Field: FieldExecutable, Pattern: "bar.exe", Strategy: Equals},
	}
	if idx := set.FirstMatch(win("bar.exe", "", "")); idx != 1 {
		t.Fatalf("idx = %d, want 1", idx)
	}
}

func TestCompileAllRejectsBatchOnFirstError(t *testing.T) {
	batch := []Rule{
		{Field: FieldTitle, Pattern: "ok", Strategy: Equals},
		{Field: FieldTitle, Pattern: "(bad", Strategy: Regex},
	}
	if err := CompileAll(batch); err == nil {
		t.Fatal("expected error")
	}
}
