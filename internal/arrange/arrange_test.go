package arrange

import (
	"testing"

	"github.com/1broseidon/panehost/internal/geometry"
)

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{4, 2, 2},
		{5, 2, 3},
		{7, 3, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("CalculateGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestTileFiveWindowsUniqueCellsWithinBounds(t *testing.T) {
	container := geometry.Rect{Width: 1000, Height: 800}
	cells := Tile(5, container)
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}

	seen := map[geometry.Point]bool{}
	total := 0
	for i, c := range cells {
		if seen[c.Origin()] {
			t.Fatalf("cell %d duplicates origin %+v", i, c.Origin())
		}
		seen[c.Origin()] = true
		if !container.ContainsRect(c) {
			t.Fatalf("cell %d %+v escapes container", i, c)
		}
		for j := 0; j < i; j++ {
			if c.Intersects(cells[j]) {
				t.Fatalf("cells %d and %d overlap", i, j)
			}
		}
		total += c.Area()
	}
	if total > container.Area() {
		t.Fatalf("tiled area %d exceeds container %d", total, container.Area())
	}
	// 1000/3 floors to 333, 800/2 to 400.
	if cells[4] != (geometry.Rect{X: 333, Y: 400, Width: 333, Height: 400}) {
		t.Fatalf("unexpected last cell %+v", cells[4])
	}
}

func TestTileWithGap(t *testing.T) {
	cells := TileWithGap(2, geometry.Rect{X: 0, Y: 0, Width: 210, Height: 100}, 10)
	// (210-30)/2 = 90 wide, (100-20)/1 = 80 tall.
	want := []geometry.Rect{
		{X: 10, Y: 10, Width: 90, Height: 80},
		{X: 110, Y: 10, Width: 90, Height: 80},
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("cell %d = %+v, want %+v", i, cells[i], want[i])
		}
	}
}

func TestCascade(t *testing.T) {
	got := Cascade(3, DefaultAnchor, DefaultStep)
	want := []geometry.Point{{X: 50, Y: 50}, {X: 80, Y: 80}, {X: 110, Y: 110}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if Cascade(0, DefaultAnchor, DefaultStep) != nil {
		t.Fatalf("expected nil for zero windows")
	}
}

func TestStaggerWraps(t *testing.T) {
	if p := Stagger(3, geometry.Point{}, 30, 10); p != (geometry.Point{X: 90, Y: 90}) {
		t.Fatalf("unexpected stagger %+v", p)
	}
	if p := Stagger(10, geometry.Point{}, 30, 10); p != (geometry.Point{}) {
		t.Fatalf("expected wrap to origin, got %+v", p)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("tile"); err != nil || m != ModeTile {
		t.Fatalf("ParseMode(tile) = %q, %v", m, err)
	}
	if _, err := ParseMode("spiral"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
