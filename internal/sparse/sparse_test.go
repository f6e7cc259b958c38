package sparse

import "testing"

func TestSparseSetBasic(t *testing.T) {
	s := NewSparseSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(5) {
		t.Error("empty set should not contain 5")
	}

	s.Insert(5)
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	s.Insert(5) // duplicate insert is a no-op
	if s.Size() != 1 {
		t.Errorf("size should be 1, got %d", s.Size())
	}

	s.Insert(10)
	s.Insert(3)
	if s.Size() != 3 {
		t.Errorf("size should be 3, got %d", s.Size())
	}

	s.Clear()
	if !s.IsEmpty() || s.Contains(5) {
		t.Error("set should be empty after Clear")
	}
}

func TestSparseSetInsertionOrderPreserved(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(2)
	s.Insert(8)

	want := []uint32{5, 2, 8}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestSparseSetRemove(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	s.Remove(2)
	if s.Contains(2) {
		t.Error("set should not contain 2 after Remove")
	}
	if !s.Contains(1) || !s.Contains(3) {
		t.Error("set should still contain 1 and 3")
	}
	if s.Size() != 2 {
		t.Errorf("size should be 2, got %d", s.Size())
	}

	s.Remove(99) // not present: no-op
	if s.Size() != 2 {
		t.Error("removing an absent value should not change size")
	}
}

func TestSparseSetStaleSparseEntriesDontLeak(t *testing.T) {
	// A value inserted, then removed by Clear, must not appear to still be
	// a member just because its old sparse[] slot happens to alias a
	// freshly-inserted value's dense index.
	s := NewSparseSet(10)
	s.Insert(5)
	s.Clear()
	s.Insert(3)

	if s.Contains(5) {
		t.Error("cleared set should not contain stale value 5")
	}
	if !s.Contains(3) {
		t.Error("set should contain freshly inserted 3")
	}
}

func TestSparseSetContainsOutOfBounds(t *testing.T) {
	s := NewSparseSet(10)
	if s.Contains(10) || s.Contains(1000) {
		t.Error("Contains must return false for values >= capacity")
	}
}

func TestSparseSetResizeGrowsAndClears(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(3)
	s.Insert(7)

	s.Resize(100)
	if s.Capacity() != 100 {
		t.Errorf("capacity should be 100, got %d", s.Capacity())
	}
	if !s.IsEmpty() {
		t.Error("Resize should start the set empty at its new capacity")
	}

	s.Insert(50)
	if !s.Contains(50) {
		t.Error("expected 50 to be containable after resize to 100")
	}

	s.Resize(20) // already sufficient: no-op
	if s.Capacity() != 100 {
		t.Error("Resize to a smaller capacity than current must be a no-op")
	}
}

func TestSparseSetIter(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(7)
	s.Insert(2)

	var collected []uint32
	s.Iter(func(v uint32) { collected = append(collected, v) })

	if len(collected) != 2 || collected[0] != 7 || collected[1] != 2 {
		t.Errorf("expected [7 2], got %v", collected)
	}
}
