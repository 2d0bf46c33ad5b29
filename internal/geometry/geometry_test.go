package geometry

import "testing"

func TestRectContainsExcludesFarEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{14, 14}, true},
		{Point{15, 10}, false},
		{Point{10, 15}, false},
		{Point{9, 12}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 9, Y: 9, Width: 2, Height: 2}) {
		t.Fatalf("expected overlap at corner")
	}
	if a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Fatalf("adjacent rects must not intersect")
	}
}

func TestClampPrefersLowerBoundWhenInverted(t *testing.T) {
	if got := Clamp(50, 10, 5); got != 10 {
		t.Fatalf("Clamp(50, 10, 5) = %d, want 10", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("Clamp(-3, 0, 100) = %d, want 0", got)
	}
}
