package iterator

import "testing"

func TestSliceStringIteratorExhausts(t *testing.T) {
	it := NewSliceStringIterator([]string{"a", "b", "c"})

	var got []string

	for {
		s, ok, err := it.Next()

		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}

		if !ok {
			break
		}

		got = append(got, s)
	}

	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("got %v", got)
	}

	if _, ok, _ := it.Next(); ok {
		t.Fatalf("exhausted iterator should keep returning ok=false")
	}
}

func TestSliceRecordIteratorExhausts(t *testing.T) {
	it := NewSliceRecordIterator([]Record{
		{Bases: "ACGT", Qualities: "IIII"},
		{Bases: "TTTT", Qualities: "####"},
	})

	bases, quals, ok, err := it.Next()

	if err != nil || !ok || bases != "ACGT" || quals != "IIII" {
		t.Fatalf("first record = %q, %q, %v, %v", bases, quals, ok, err)
	}

	_, _, ok, _ = it.Next()

	if !ok {
		t.Fatalf("second record should be available")
	}

	_, _, ok, _ = it.Next()

	if ok {
		t.Fatalf("exhausted iterator should return ok=false")
	}
}
