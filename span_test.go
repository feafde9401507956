// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package gocontext

import "testing"

func TestSpan_Width(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if got := s.Width(); got != 3 {
		t.Errorf("Width() = %d, want 3", got)
	}
}

func TestSpan_Contains(t *testing.T) {
	s := Span{Start: 2, End: 5}
	cases := []struct {
		idx  TokenIndex
		want bool
	}{
		{1, false},
		{2, true},
		{4, true},
		{5, false},
	}
	for _, c := range cases {
		if got := s.Contains(c.idx); got != c.want {
			t.Errorf("Contains(%d) = %v, want %v", c.idx, got, c.want)
		}
	}
}

func TestSpan_Overlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Span
		want bool
	}{
		{"identical", Span{0, 3}, Span{0, 3}, true},
		{"partial", Span{0, 3}, Span{2, 5}, true},
		{"adjacent_no_overlap", Span{0, 3}, Span{3, 6}, false},
		{"disjoint", Span{0, 3}, Span{5, 8}, false},
		{"contained", Span{1, 2}, Span{0, 5}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Overlaps(c.b); got != c.want {
				t.Errorf("Overlaps(%+v, %+v) = %v, want %v", c.a, c.b, got, c.want)
			}
			if got := c.b.Overlaps(c.a); got != c.want {
				t.Errorf("Overlaps is not symmetric for %+v, %+v", c.a, c.b)
			}
		})
	}
}

func TestSpan_Before(t *testing.T) {
	if !(Span{0, 3}).Before(Span{3, 6}) {
		t.Error("adjacent spans should satisfy Before")
	}
	if (Span{0, 3}).Before(Span{2, 6}) {
		t.Error("overlapping spans should not satisfy Before")
	}
	if (Span{3, 6}).Before(Span{0, 3}) {
		t.Error("a later span should not be Before an earlier one")
	}
}
