package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord is wrapped by every Parse error.
var ErrMalformedRecord = errors.New("malformed record")

// Parse decodes a line produced by FileString.
//
// The type code and status are read from the left and variant fields from
// the right, so a description that itself contains the separator survives
// a round trip.
func Parse(line string) (Task, error) {
	head := strings.SplitN(line, FieldSeparator, 3)
	if len(head) != 3 {
		return nil, fmt.Errorf("%w: expected at least 3 fields: %q", ErrMalformedRecord, line)
	}

	var done bool
	switch head[1] {
	case "1":
		done = true
	case "0":
		done = false
	default:
		return nil, fmt.Errorf("%w: invalid status %q", ErrMalformedRecord, head[1])
	}

	rest := head[2]
	switch Kind(head[0]) {
	case KindTodo:
		return NewTodo(rest, done), nil

	case KindDeadline:
		fields, err := splitTail(rest, 1)
		if err != nil {
			return nil, err
		}
		return NewDeadline(fields[0], fields[1], done), nil

	case KindEvent:
		fields, err := splitTail(rest, 2)
		if err != nil {
			return nil, err
		}
		return NewEvent(fields[0], fields[1], fields[2], done), nil

	default:
		return nil, fmt.Errorf("%w: unknown task type %q", ErrMalformedRecord, head[0])
	}
}

// splitTail splits n fields off the right of s. The first element of the
// result is whatever remains on the left.
func splitTail(s string, n int) ([]string, error) {
	out := make([]string, n+1)
	for i := n; i > 0; i-- {
		idx := strings.LastIndex(s, FieldSeparator)
		if idx < 0 {
			return nil, fmt.Errorf("%w: expected %d more field(s)", ErrMalformedRecord, i)
		}
		out[i] = s[idx+len(FieldSeparator):]
		if strings.TrimSpace(out[i]) == "" {
			return nil, fmt.Errorf("%w: empty field", ErrMalformedRecord)
		}
		s = s[:idx]
	}
	out[0] = s
	return out, nil
}
