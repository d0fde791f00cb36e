package raster

import "testing"

func TestRuleInside(t *testing.T) {
	cases := []struct {
		rule    Rule
		counter int32
		want    bool
	}{
		{NonZero, 0, false},
		{NonZero, 1, true},
		{NonZero, -1, true},
		{NonZero, 2, true},
		{EvenOdd, 0, false},
		{EvenOdd, 1, true},
		{EvenOdd, 2, false},
		{EvenOdd, -1, true},
	}
	for _, c := range cases {
		if got := c.rule.inside(c.counter); got != c.want {
			t.Errorf("rule %v inside(%d) = %v, want %v", c.rule, c.counter, got, c.want)
		}
	}
}

// TestWindingStateSimpleNonZero walks a sequence of crossings matching a
// simple rectangle boundary (down, up) and checks the inside/outside
// transitions the trapezoid loop relies on.
func TestWindingStateSimpleNonZero(t *testing.T) {
	w := newWindingState(NonZero, false, 0)
	w.reset()
	if inside := w.cross(dirDown, 0); !inside {
		t.Error("after crossing the first (down) edge, expected inside")
	}
	if inside := w.cross(dirUp, 0); inside {
		t.Error("after crossing the matching (up) edge, expected outside")
	}
}

// TestWindingStateDoubledContourNonZero mirrors two coincident rectangle
// boundaries: winding reaches +/-2 in the middle, still non-zero throughout.
func TestWindingStateDoubledContourNonZero(t *testing.T) {
	w := newWindingState(NonZero, false, 0)
	w.reset()
	w.cross(dirDown, 0)
	if inside := w.cross(dirDown, 0); !inside {
		t.Error("winding count 2 should still be inside under NonZero")
	}
	w.cross(dirUp, 0)
	if inside := w.cross(dirUp, 0); inside {
		t.Error("winding count 0 should be outside under NonZero")
	}
}

// TestWindingStateDoubledContourEvenOdd is the even-odd counterpart: the
// middle region (count 2) must read as outside.
func TestWindingStateDoubledContourEvenOdd(t *testing.T) {
	w := newWindingState(EvenOdd, false, 0)
	w.reset()
	w.cross(dirDown, 0)
	if inside := w.cross(dirDown, 0); inside {
		t.Error("winding count 2 should be outside under EvenOdd")
	}
}

// TestWindingStateSmartPerContour verifies that smart winding tracks
// parity per contour id and combines them, rather than sharing one counter.
func TestWindingStateSmartPerContour(t *testing.T) {
	w := newWindingState(NonZero, true, 2)
	w.reset()

	// Enter contour 0 only: combined parity should be inside.
	if inside := w.cross(dirDown, 0); !inside {
		t.Error("expected inside after entering contour 0")
	}
	// Enter contour 1 too: both parities are 1, combined parity (1 xor-like
	// sum of &1 bits) stays non-zero, still inside.
	if inside := w.cross(dirDown, 1); !inside {
		t.Error("expected inside after entering contour 1 on top of contour 0")
	}
	// Leave contour 0: contour 1 alone keeps it inside.
	if inside := w.cross(dirUp, 0); !inside {
		t.Error("expected inside while contour 1 is still active")
	}
	// Leave contour 1: back to fully outside.
	if inside := w.cross(dirUp, 1); inside {
		t.Error("expected outside once both contours are exited")
	}
}

// TestWindingStateSmartOppositeDirectionContoursCancel is the glyph
// outer-contour-plus-hole case smart winding exists for: two contours that
// are each independently odd but wound in opposite net directions must
// cancel to outside, not add to a non-zero combined count.
func TestWindingStateSmartOppositeDirectionContoursCancel(t *testing.T) {
	w := newWindingState(NonZero, true, 2)
	w.reset()

	if inside := w.cross(dirDown, 0); !inside {
		t.Error("expected inside after entering the outer contour alone")
	}
	if inside := w.cross(dirUp, 1); inside {
		t.Error("expected outside once the oppositely-wound hole contour cancels the outer contour")
	}
}

// TestWindingStateSmartEvenOddRoutesThroughRule checks that smart winding
// combined with EvenOdd actually consults the rule's parity test rather
// than only ever checking for non-zero.
func TestWindingStateSmartEvenOddRoutesThroughRule(t *testing.T) {
	w := newWindingState(EvenOdd, true, 2)
	w.reset()

	w.cross(dirDown, 0)
	if inside := w.cross(dirDown, 1); inside {
		t.Error("two same-direction odd contours combine to an even count, expected outside under EvenOdd")
	}
}

func TestWindingStateResetClearsCounters(t *testing.T) {
	w := newWindingState(NonZero, true, 1)
	w.cross(dirDown, 0)
	w.reset()
	if w.simple != 0 || w.inside != 0 {
		t.Fatalf("reset left stale state: simple=%d inside=%d", w.simple, w.inside)
	}
	for i, c := range w.perCtr {
		if c != 0 {
			t.Errorf("perCtr[%d] = %d, want 0 after reset", i, c)
		}
	}
}
