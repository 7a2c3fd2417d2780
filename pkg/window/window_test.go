package window_test

import (
	"testing"

	"github.com/tickwatch/tickwatch/pkg/window"
)

func TestWindow_RejectsBadCapacity(t *testing.T) {
	if _, err := window.New[int](0); err == nil {
		t.Error("Expected error for capacity 0")
	}
	if _, err := window.New[int](-5); err == nil {
		t.Error("Expected error for negative capacity")
	}
}

func TestWindow_EvictsOldest(t *testing.T) {
	w, err := window.New[int](3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w.Append(1)
	w.Append(2)
	w.Append(3)
	w.Append(4)

	got := w.All()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWindow_WrapAroundOrdering(t *testing.T) {
	// Many full cycles through the ring, checking oldest-first order
	// at every step once the head has wrapped.
	w, _ := window.New[int](3)

	for i := 1; i <= 20; i++ {
		w.Append(i)
		if i < 3 {
			continue
		}
		got := w.All()
		want := []int{i - 2, i - 1, i}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("After append %d: expected %v, got %v", i, want, got)
			}
		}
		if latest, ok := w.Latest(); !ok || latest != i {
			t.Fatalf("After append %d: Latest() = %v, %v", i, latest, ok)
		}
		recent := w.Recent(2)
		if len(recent) != 2 || recent[0] != i-1 || recent[1] != i {
			t.Fatalf("After append %d: Recent(2) = %v", i, recent)
		}
	}

	// Clear resets the ring; order must be clean on refill.
	w.Clear()
	w.Append(100)
	w.Append(200)
	got := w.All()
	if len(got) != 2 || got[0] != 100 || got[1] != 200 {
		t.Errorf("After Clear and refill, expected [100 200], got %v", got)
	}
}

func TestWindow_BoundedGrowth(t *testing.T) {
	w, _ := window.New[int](5)

	for i := 0; i < 100; i++ {
		w.Append(i)
		if w.Len() > 5 {
			t.Fatalf("Len %d exceeds capacity after append %d", w.Len(), i)
		}
	}

	if !w.IsFull() {
		t.Error("Window should be full after 100 appends")
	}

	// The retained elements are exactly the last 5, in insertion order.
	got := w.All()
	for i, v := range got {
		if v != 95+i {
			t.Errorf("Index %d: expected %d, got %d", i, 95+i, v)
		}
	}
}

func TestWindow_AppendAll(t *testing.T) {
	w, _ := window.New[string](2)
	w.AppendAll([]string{"a", "b", "c", "d"})

	got := w.All()
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("Expected [c d], got %v", got)
	}
}

func TestWindow_Recent(t *testing.T) {
	w, _ := window.New[int](10)
	w.AppendAll([]int{1, 2, 3, 4, 5})

	got := w.Recent(3)
	if len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Errorf("Expected [3 4 5], got %v", got)
	}

	if got := w.Recent(50); len(got) != 5 {
		t.Errorf("Recent should cap at Len, got %d elements", len(got))
	}

	if got := w.Recent(0); len(got) != 0 {
		t.Errorf("Recent(0) should be empty, got %v", got)
	}
	if got := w.Recent(-1); len(got) != 0 {
		t.Errorf("Recent(-1) should be empty, got %v", got)
	}
}

func TestWindow_Latest(t *testing.T) {
	w, _ := window.New[int](3)

	if _, ok := w.Latest(); ok {
		t.Error("Latest on empty window should report absent")
	}

	w.Append(7)
	w.Append(9)
	if v, ok := w.Latest(); !ok || v != 9 {
		t.Errorf("Expected latest 9, got %d (ok=%v)", v, ok)
	}
}

func TestWindow_AllReturnsCopy(t *testing.T) {
	w, _ := window.New[int](3)
	w.AppendAll([]int{1, 2, 3})

	got := w.All()
	got[0] = 99

	if w.All()[0] != 1 {
		t.Error("Mutating All() result leaked into the window")
	}
}

func TestWindow_Clear(t *testing.T) {
	w, _ := window.New[int](3)
	w.AppendAll([]int{1, 2, 3})
	w.Clear()

	if w.Len() != 0 {
		t.Errorf("Expected empty window after Clear, Len=%d", w.Len())
	}
	if w.Cap() != 3 {
		t.Errorf("Clear must not change capacity, got %d", w.Cap())
	}

	// Still usable after clearing.
	w.Append(42)
	if v, ok := w.Latest(); !ok || v != 42 {
		t.Error("Window unusable after Clear")
	}
}

func TestWindow_EmptyState(t *testing.T) {
	w, _ := window.New[int](3)

	if len(w.All()) != 0 {
		t.Error("Fresh window All() should be empty")
	}
	if w.Len() != 0 || w.IsFull() {
		t.Error("Fresh window should be empty and not full")
	}
}
