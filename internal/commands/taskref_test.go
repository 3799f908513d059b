package commands

import (
	"errors"
	"testing"
)

func TestParseTaskNumber(t *testing.T) {
	n, err := ParseTaskNumber([]string{"12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12, got %d", n)
	}
}

func TestParseTaskNumber_Zero(t *testing.T) {
	// Range is checked later; zero still parses.
	n, err := ParseTaskNumber([]string{"0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestParseTaskNumber_Missing(t *testing.T) {
	_, err := ParseTaskNumber(nil)
	if !errors.Is(err, ErrTaskNumberRequired) {
		t.Errorf("expected ErrTaskNumberRequired, got %v", err)
	}
}

func TestParseTaskNumber_Invalid(t *testing.T) {
	cases := map[string][]string{
		"invalid task number: abc": {"abc"},
		"invalid task number: -1":  {"-1"},
		"invalid task number: 1 2": {"1", "2"},
		"invalid task number: 1.5": {"1.5"},
		"invalid task number: ３":   {"３"},
		"invalid task number: 2nd": {"2nd"},
	}
	for expected, args := range cases {
		_, err := ParseTaskNumber(args)
		if err == nil {
			t.Errorf("%v: expected error", args)
			continue
		}
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	}
}

func TestParseTaskNumber_Overflow(t *testing.T) {
	_, err := ParseTaskNumber([]string{"99999999999999999999999"})
	if err == nil {
		t.Fatal("expected error for overflowing number")
	}
}

func TestSplitMarkers(t *testing.T) {
	parts, err := splitMarkers([]string{"project", "meeting", "/FROM", "Mon", "2pm", "/to", "4pm"}, "/from", "/to")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"project meeting", "Mon 2pm", "4pm"}
	for i := range expected {
		if parts[i] != expected[i] {
			t.Errorf("part %d: expected %q, got %q", i, expected[i], parts[i])
		}
	}
}

func TestSplitMarkers_MissingMarker(t *testing.T) {
	parts, err := splitMarkers([]string{"return", "book"}, "/by")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts[0] != "return book" || parts[1] != "" {
		t.Errorf("unexpected parts %q", parts)
	}
}

func TestSplitMarkers_OutOfOrder(t *testing.T) {
	_, err := splitMarkers([]string{"x", "/to", "b", "/from", "a"}, "/from", "/to")
	if err == nil || err.Error() != "unexpected /from" {
		t.Errorf("expected %q, got %v", "unexpected /from", err)
	}
}

func TestSplitMarkers_Repeated(t *testing.T) {
	_, err := splitMarkers([]string{"x", "/by", "a", "/by", "b"}, "/by")
	if err == nil || err.Error() != "unexpected /by" {
		t.Errorf("expected %q, got %v", "unexpected /by", err)
	}
}
