package rbtree

import (
	"math/rand"
	"sort"
	"testing"
)

func intCmp(a, b any) int {
	x, y := a.(int), b.(int)

	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func TestInsertFindSize(t *testing.T) {
	tr := New(intCmp)
	values := []int{5, 3, 8, 1, 4, 7, 9, 2, 6, 0}

	for _, v := range values {
		if !tr.Insert(v) {
			t.Fatalf("Insert(%d) reported duplicate on first insert", v)
		}
	}

	if tr.Size() != len(values) {
		t.Fatalf("Size() = %d, want %d", tr.Size(), len(values))
	}

	for _, v := range values {
		got, ok := tr.Find(v)

		if !ok || got.(int) != v {
			t.Fatalf("Find(%d) = %v, %v", v, got, ok)
		}
	}

	if _, ok := tr.Find(42); ok {
		t.Fatalf("Find(42) unexpectedly found a value")
	}
}

func TestInsertDuplicateRejected(t *testing.T) {
	tr := New(intCmp)

	if !tr.Insert(1) {
		t.Fatalf("first insert should succeed")
	}

	if tr.Insert(1) {
		t.Fatalf("duplicate insert should be rejected")
	}

	if tr.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tr.Size())
	}
}

func TestMinMax(t *testing.T) {
	tr := New(intCmp)

	if _, ok := tr.Min(); ok {
		t.Fatalf("Min() on empty tree should return ok=false")
	}

	for _, v := range []int{5, 1, 9, 3, 7} {
		tr.Insert(v)
	}

	min, ok := tr.Min()

	if !ok || min.(int) != 1 {
		t.Fatalf("Min() = %v, want 1", min)
	}

	max, ok := tr.Max()

	if !ok || max.(int) != 9 {
		t.Fatalf("Max() = %v, want 9", max)
	}
}

func TestPopMinOrdersAscending(t *testing.T) {
	tr := New(intCmp)
	values := []int{9, 4, 1, 7, 3, 8, 2, 6, 5, 0}

	for _, v := range values {
		tr.Insert(v)
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	for _, want := range sorted {
		got, ok := tr.PopMin()

		if !ok || got.(int) != want {
			t.Fatalf("PopMin() = %v, want %d", got, want)
		}
	}

	if tr.Size() != 0 {
		t.Fatalf("tree should be empty after draining, size = %d", tr.Size())
	}
}

func TestEraseMaintainsOrder(t *testing.T) {
	tr := New(intCmp)
	values := []int{5, 3, 8, 1, 4, 7, 9, 2, 6, 0}

	for _, v := range values {
		tr.Insert(v)
	}

	for _, v := range []int{3, 7, 0} {
		if !tr.Erase(v) {
			t.Fatalf("Erase(%d) should succeed", v)
		}
	}

	if tr.Erase(100) {
		t.Fatalf("Erase(100) should fail, value never inserted")
	}

	var got []int
	tr.Walk(func(key any) bool {
		got = append(got, key.(int))
		return true
	})

	want := []int{1, 2, 4, 5, 6, 8, 9}

	if len(got) != len(want) {
		t.Fatalf("Walk() produced %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Walk() produced %v, want %v", got, want)
		}
	}
}

func TestNextPrevious(t *testing.T) {
	tr := New(intCmp)

	for _, v := range []int{10, 20, 30, 40, 50} {
		tr.Insert(v)
	}

	if v, ok := tr.Next(25); !ok || v.(int) != 30 {
		t.Fatalf("Next(25) = %v, %v, want 30, true", v, ok)
	}

	if v, ok := tr.Previous(25); !ok || v.(int) != 20 {
		t.Fatalf("Previous(25) = %v, %v, want 20, true", v, ok)
	}

	if _, ok := tr.Next(50); ok {
		t.Fatalf("Next(50) should have no successor")
	}

	if _, ok := tr.Previous(10); ok {
		t.Fatalf("Previous(10) should have no predecessor")
	}
}

func TestRandomizedAgainstSortSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New(intCmp)
	seen := map[int]bool{}
	var values []int

	for i := 0; i < 2000; i++ {
		v := rng.Intn(5000)

		if seen[v] {
			continue
		}

		seen[v] = true
		values = append(values, v)
		tr.Insert(v)
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	var walked []int
	tr.Walk(func(key any) bool {
		walked = append(walked, key.(int))
		return true
	})

	if len(walked) != len(sorted) {
		t.Fatalf("walked %d keys, want %d", len(walked), len(sorted))
	}

	for i := range sorted {
		if walked[i] != sorted[i] {
			t.Fatalf("walked[%d] = %d, want %d", i, walked[i], sorted[i])
		}
	}

	// remove every third value and confirm size + ordering still match
	for i := 0; i < len(values); i += 3 {
		if !tr.Erase(values[i]) {
			t.Fatalf("Erase(%d) should succeed", values[i])
		}
	}

	remaining := 0
	tr.Walk(func(key any) bool {
		remaining++
		return true
	})

	if remaining != tr.Size() {
		t.Fatalf("walk visited %d keys, Size() = %d", remaining, tr.Size())
	}
}
