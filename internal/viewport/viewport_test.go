package viewport

import "testing"

func TestAutoFollowWhenAtBottom(t *testing.T) {
	v := New(10)
	if !v.AtBottom() {
		t.Fatalf("new viewport should start at bottom")
	}
	v.OnContentGrew(5)
	if v.ScrollOffset() != 0 {
		t.Fatalf("want offset 0 while auto-following, got %d", v.ScrollOffset())
	}
}

func TestPreservesOffsetWhenScrolledUp(t *testing.T) {
	v := New(10)
	v.ScrollBy(5, 100)
	if v.AtBottom() {
		t.Fatalf("viewport should not be at bottom after scrolling up")
	}
	offsetBefore := v.ScrollOffset()
	v.OnContentGrew(3)
	if v.ScrollOffset() != offsetBefore+3 {
		t.Fatalf("want offset to advance by the number of new lines, got %d want %d", v.ScrollOffset(), offsetBefore+3)
	}
}

func TestHomeAndEnd(t *testing.T) {
	v := New(10)
	v.Home(100)
	start, end := v.VisibleRange(100)
	if start != 0 || end != 10 {
		t.Fatalf("want [0,10) at home, got [%d,%d)", start, end)
	}
	v.End()
	if !v.AtBottom() {
		t.Fatalf("End() should return to bottom")
	}
	start, end = v.VisibleRange(100)
	if end != 100 || start != 90 {
		t.Fatalf("want [90,100) at end, got [%d,%d)", start, end)
	}
}

func TestScrollOffsetClampedToContent(t *testing.T) {
	v := New(10)
	v.ScrollBy(1000, 20)
	if v.ScrollOffset() != 10 {
		t.Fatalf("want offset clamped to maxOffset=10, got %d", v.ScrollOffset())
	}
	v.ScrollBy(-1000, 20)
	if v.ScrollOffset() != 0 {
		t.Fatalf("want offset clamped to 0, got %d", v.ScrollOffset())
	}
}

func TestScrollMessageIntoView(t *testing.T) {
	v := New(5)
	offsets := []int{0, 3, 20, 40}
	v.ScrollMessageIntoView(50, offsets, 0)
	start, end := v.VisibleRange(50)
	if 0 < start || 0 >= end {
		t.Fatalf("line 0 not visible in [%d,%d)", start, end)
	}
}
