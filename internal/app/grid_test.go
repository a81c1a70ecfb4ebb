package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestImageGridMoveStopsAtEdges(t *testing.T) {
	g := imageGrid{}
	g.resize(gridCellWidth * 4)
	g.setCount(10)

	g.move(-1, 0)
	if g.cursor != 0 {
		t.Fatalf("expected cursor to stay at 0, got %d", g.cursor)
	}
	g.move(0, 1)
	if g.cursor != 4 {
		t.Fatalf("expected cursor 4 after moving down, got %d", g.cursor)
	}
	g.move(0, 1)
	g.move(0, 1)
	if g.cursor != 8 {
		t.Fatalf("expected moving past the last row to stop, got %d", g.cursor)
	}
	g.move(5, 0)
	if g.cursor != 9 {
		t.Fatalf("expected clamp to last image, got %d", g.cursor)
	}
}

func TestImageGridHit(t *testing.T) {
	g := imageGrid{}
	g.resize(gridCellWidth * 3)
	g.setCount(7)

	tests := []struct {
		x, y int
		idx  int
		ok   bool
	}{
		{x: 0, y: 0, idx: 0, ok: true},
		{x: gridCellWidth + 2, y: 1, idx: 4, ok: true},
		{x: 0, y: 2, idx: 6, ok: true},
		{x: gridCellWidth, y: 2, ok: false},
		{x: gridCellWidth * 3, y: 0, ok: false},
		{x: -1, y: 0, ok: false},
	}
	for _, tt := range tests {
		idx, ok := g.hit(tt.x, tt.y)
		if ok != tt.ok || (ok && idx != tt.idx) {
			t.Fatalf("hit(%d,%d) = %d,%v want %d,%v", tt.x, tt.y, idx, ok, tt.idx, tt.ok)
		}
	}
}

func TestImageGridRenderMarksSelection(t *testing.T) {
	g := imageGrid{}
	g.resize(gridCellWidth * 3)
	g.setCount(5)

	lines := g.render(func(idx int) bool { return idx == 4 })
	if len(lines) != 2 {
		t.Fatalf("expected two rows, got %d", len(lines))
	}
	second := xansi.Strip(lines[1])
	if !strings.Contains(second, "[ ]3") || !strings.Contains(second, "[x]4") {
		t.Fatalf("unexpected second row %q", second)
	}
	if w := xansi.StringWidth(lines[0]); w != gridCellWidth*3 {
		t.Fatalf("expected row width %d, got %d", gridCellWidth*3, w)
	}
}

func TestImageGridShrinkKeepsCursorInside(t *testing.T) {
	g := imageGrid{cursor: 9}
	g.setCount(4)
	if g.cursor != 3 {
		t.Fatalf("expected cursor 3, got %d", g.cursor)
	}
}
