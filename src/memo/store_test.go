package memo

import "testing"

// keysOldestFirst walks the ring from the LRU end for test inspection.
func keysOldestFirst(s *lruStore) []any {
	var out []any
	for n := s.root.next; n != s.root; n = n.next {
		out = append(out, n.key)
	}
	return out
}

func TestStoreInsertAndGet(t *testing.T) {
	s := newLRUStore(3)

	if _, ok := s.getLocked("a"); ok {
		t.Fatal("empty store should miss")
	}

	s.insertLocked("a", 1)
	v, ok := s.getLocked("a")
	if !ok || v != 1 {
		t.Fatalf("expected hit with 1, got %v %v", v, ok)
	}
	if s.lenLocked() != 1 {
		t.Fatalf("expected size 1, got %d", s.lenLocked())
	}
}

func TestStoreEvictionOrder(t *testing.T) {
	s := newLRUStore(2)
	s.insertLocked("a", 1)
	s.insertLocked("b", 2)

	// Touch a so b becomes least recently used.
	if _, ok := s.getLocked("a"); !ok {
		t.Fatal("expected hit on a")
	}

	_, outcome := s.insertLocked("c", 3)
	if outcome != insertedReuse {
		t.Fatalf("expected reuse at capacity, got %v", outcome)
	}
	if _, ok := s.getLocked("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := s.getLocked("a"); !ok {
		t.Fatal("a should have survived")
	}
	if s.lenLocked() != 2 {
		t.Fatalf("size must stay at capacity, got %d", s.lenLocked())
	}
}

func TestStoreRaceLoserDiscarded(t *testing.T) {
	s := newLRUStore(2)
	s.insertLocked("a", 1)

	winner, outcome := s.insertLocked("a", 99)
	if outcome != discardedRace {
		t.Fatalf("expected discardedRace, got %v", outcome)
	}
	if winner != 1 {
		t.Fatalf("existing entry must win, got %v", winner)
	}
	if v, _ := s.getLocked("a"); v != 1 {
		t.Fatalf("stored value must be untouched, got %v", v)
	}
}

func TestStoreRingConsistency(t *testing.T) {
	s := newLRUStore(3)
	s.insertLocked("a", 1)
	s.insertLocked("b", 2)
	s.insertLocked("c", 3)
	s.getLocked("a") // order now: b, c, a

	got := keysOldestFirst(s)
	want := []any{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("ring has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ring order %v, want %v", got, want)
		}
	}

	// Every ring node must be reachable through the map and vice versa.
	for n := s.root.next; n != s.root; n = n.next {
		if s.entries[n.key] != n {
			t.Fatalf("ring node %v not in map", n.key)
		}
	}
	if len(s.entries) != len(got) {
		t.Fatalf("map has %d entries, ring has %d", len(s.entries), len(got))
	}
}

func TestStoreClear(t *testing.T) {
	s := newLRUStore(2)
	s.insertLocked("a", 1)
	s.insertLocked("b", 2)
	s.clearLocked()

	if s.lenLocked() != 0 {
		t.Fatalf("expected empty store, got %d", s.lenLocked())
	}
	if s.root.next != s.root || s.root.prev != s.root {
		t.Fatal("ring must collapse to the sentinel")
	}
	if _, ok := s.getLocked("a"); ok {
		t.Fatal("cleared key should miss")
	}

	// The store stays usable after a clear.
	s.insertLocked("c", 3)
	if v, ok := s.getLocked("c"); !ok || v != 3 {
		t.Fatalf("expected hit on c, got %v %v", v, ok)
	}
}

func TestStoreCapacityOne(t *testing.T) {
	s := newLRUStore(1)
	s.insertLocked("a", 1)
	s.insertLocked("b", 2)

	if _, ok := s.getLocked("a"); ok {
		t.Fatal("a should have been evicted")
	}
	if v, ok := s.getLocked("b"); !ok || v != 2 {
		t.Fatalf("expected hit on b, got %v %v", v, ok)
	}
	if s.lenLocked() != 1 {
		t.Fatalf("expected size 1, got %d", s.lenLocked())
	}
}
