package file

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"duke/internal/task"
	"duke/internal/tasklist"
)

func TestDecode_LineNumberInError(t *testing.T) {
	_, err := Decode(strings.NewReader("T | 0 | a\n\nT | x | b\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, task.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("expected error to start with line 3, got %q", err.Error())
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	list := tasklist.New(task.NewTodo("read book", true), task.NewDeadline("submit report", "Friday", false))

	if err := Encode(&buf, list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "T | 1 | read book\nD | 0 | submit report | Friday\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
