package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pair is a parsed "X/Y" counter (e.g. seafarers/endorsements).
type Pair struct {
	A int
	B int
}

var ErrMalformedPair = errors.New("malformed pair counter")

// ParsePair parses a strict "X/Y" counter. Both halves must be integers;
// surrounding whitespace is tolerated. Callers decide what a malformed
// value means: display layers show zero, editors reject the input.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Pair{}, fmt.Errorf("%w: %q", ErrMalformedPair, s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q", ErrMalformedPair, s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q", ErrMalformedPair, s)
	}
	return Pair{A: a, B: b}, nil
}

func (p Pair) String() string {
	return fmt.Sprintf("%d/%d", p.A, p.B)
}
