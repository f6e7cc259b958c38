package charclass

import "testing"

func TestSetRangeBasic(t *testing.T) {
	s := New()
	s.SetRange('a', 'z')
	for b := 'a'; b <= 'z'; b++ {
		if !s.Test(byte(b)) {
			t.Fatalf("expected %q to be a member", b)
		}
	}
	if s.Test('A') || s.Test('0') {
		t.Fatal("unexpected members outside range")
	}
}

func TestSetRangeUpperBoundary(t *testing.T) {
	// A range touching 0xFF must not wrap the loop counter.
	s := New()
	s.SetRange(0xFE, 0xFF)
	if !s.Test(0xFE) || !s.Test(0xFF) {
		t.Fatal("expected both 0xFE and 0xFF to be members")
	}
	if s.Test(0xFD) {
		t.Fatal("0xFD should not be a member")
	}
}

func TestNegate(t *testing.T) {
	s := New()
	s.Set('x')
	s.Negate()
	if s.Test('x') {
		t.Fatal("expected 'x' to no longer be a member after negate")
	}
	if !s.Test('y') {
		t.Fatal("expected 'y' to be a member after negate")
	}
}

func TestEmpty(t *testing.T) {
	s := New()
	if !s.Empty() {
		t.Fatal("new set should be empty")
	}
	s.Set('a')
	if s.Empty() {
		t.Fatal("set should not be empty after Set")
	}
}

func TestCloneIndependent(t *testing.T) {
	s := New()
	s.Set('a')
	c := s.Clone()
	c.Set('b')
	if s.Test('b') {
		t.Fatal("clone mutation leaked into original")
	}
}

func TestTable(t *testing.T) {
	s := New()
	s.SetRange('0', '9')
	tbl := s.Table()
	for b := 0; b < 256; b++ {
		want := b >= '0' && b <= '9'
		if tbl[b] != want {
			t.Fatalf("table[%d] = %v, want %v", b, tbl[b], want)
		}
	}
}
