package renderpool

import "testing"

func TestDirtyRegionMarkAndIsDirty(t *testing.T) {
	d := NewDirtyRegion(4, 4)
	if !d.IsEmpty() {
		t.Fatal("expected a fresh DirtyRegion to be empty")
	}
	d.Mark(2, 1)
	if !d.IsDirty(2, 1) {
		t.Fatal("expected (2,1) to be dirty after Mark")
	}
	if d.IsDirty(0, 0) {
		t.Fatal("expected (0,0) to remain clean")
	}
	if d.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", d.Count())
	}
}

func TestDirtyRegionMarkOutOfBoundsIsNoop(t *testing.T) {
	d := NewDirtyRegion(4, 4)
	d.Mark(-1, 0)
	d.Mark(100, 100)
	if !d.IsEmpty() {
		t.Fatal("expected out-of-bounds Mark calls to have no effect")
	}
}

func TestDirtyRegionMarkRectSpansMultipleTiles(t *testing.T) {
	d := NewDirtyRegion(4, 4)
	const ts = 64 // canvas.TileSize, avoiding an import cycle-prone dependency in the test
	d.MarkRect(ts-10, ts-10, 20, 20)
	if !d.IsDirty(0, 0) || !d.IsDirty(1, 1) {
		t.Fatal("expected a rect straddling a tile boundary to mark all overlapped tiles")
	}
	if d.IsDirty(3, 3) {
		t.Fatal("expected tile (3,3) to remain clean")
	}
}

func TestDirtyRegionMarkAllAndClear(t *testing.T) {
	d := NewDirtyRegion(10, 10)
	d.MarkAll()
	if d.Count() != 100 {
		t.Fatalf("Count() after MarkAll = %d, want 100", d.Count())
	}
	d.Clear()
	if !d.IsEmpty() {
		t.Fatal("expected DirtyRegion to be empty after Clear")
	}
}

func TestDirtyRegionGetAndClear(t *testing.T) {
	d := NewDirtyRegion(8, 8)
	d.Mark(1, 1)
	d.Mark(5, 5)

	got := d.GetAndClear()
	if len(got) != 2 {
		t.Fatalf("len(GetAndClear()) = %d, want 2", len(got))
	}
	if !d.IsEmpty() {
		t.Fatal("expected GetAndClear to clear the region")
	}
}

func TestDirtyRegionForEachDirtyDoesNotClear(t *testing.T) {
	d := NewDirtyRegion(4, 4)
	d.Mark(0, 0)
	d.Mark(2, 2)

	var visited [][2]int
	d.ForEachDirty(func(tx, ty int) { visited = append(visited, [2]int{tx, ty}) })
	if len(visited) != 2 {
		t.Fatalf("visited %d tiles, want 2", len(visited))
	}
	if d.Count() != 2 {
		t.Fatal("expected ForEachDirty to leave dirty flags intact")
	}
}

func TestNewDirtyRegionInvalidDimensions(t *testing.T) {
	if NewDirtyRegion(0, 4) != nil || NewDirtyRegion(4, -1) != nil {
		t.Fatal("expected NewDirtyRegion to return nil for non-positive dimensions")
	}
}

func TestDirtyRegionResizeMarksAllDirty(t *testing.T) {
	d := NewDirtyRegion(4, 4)
	resized := d.Resize(8, 8)
	if resized == nil {
		t.Fatal("expected Resize to return a non-nil region")
	}
	if resized.TotalTiles() != 64 || resized.Count() != 64 {
		t.Fatalf("resized region = %d tiles, %d dirty; want 64/64", resized.TotalTiles(), resized.Count())
	}
}
