package core

import (
	"errors"
	"testing"
)

func TestParsePair(t *testing.T) {
	cases := []struct {
		in   string
		want Pair
		ok   bool
	}{
		{"0/0", Pair{0, 0}, true},
		{"12/34", Pair{12, 34}, true},
		{" 7 / 9 ", Pair{7, 9}, true},
		{"-1/2", Pair{-1, 2}, true},
		{"", Pair{}, false},
		{"5", Pair{}, false},
		{"a/b", Pair{}, false},
		{"1/2/3", Pair{}, false},
		{"1/", Pair{}, false},
	}
	for i, tc := range cases {
		p, err := ParsePair(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d (%q): expected error", i, tc.in)
			}
			if !errors.Is(err, ErrMalformedPair) {
				t.Fatalf("case %d: error should wrap ErrMalformedPair, got %v", i, err)
			}
			continue
		}
		if p != tc.want {
			t.Fatalf("case %d (%q): got %v, want %v", i, tc.in, p, tc.want)
		}
	}
}

func TestPairString(t *testing.T) {
	if got := (Pair{3, 8}).String(); got != "3/8" {
		t.Fatalf("got %q", got)
	}
}
