package sampling

import (
	"bytes"
	"testing"
)

func TestRegularGetPage(t *testing.T) {
	s, err := NewRegular(10, 0)

	if err != nil {
		t.Fatalf("NewRegular failed: %v", err)
	}

	for i := uint64(10); i <= 50; i += 10 {
		if err := s.AddSample(i*100, i); err != nil {
			t.Fatalf("AddSample(%d) failed: %v", i, err)
		}
	}

	elem, pos, err := s.GetPage(23)

	if err != nil {
		t.Fatalf("GetPage(23) failed: %v", err)
	}

	if elem != 20 || pos != 2000 {
		t.Fatalf("GetPage(23) = %d, %d, want 20, 2000", elem, pos)
	}

	elem, pos, err = s.GetPage(0)

	if err != nil {
		t.Fatalf("GetPage(0) failed: %v", err)
	}

	if elem != 0 || pos != 0 {
		t.Fatalf("GetPage(0) = %d, %d, want 0, 0", elem, pos)
	}
}

func TestRegularRejectsMisalignedSample(t *testing.T) {
	s, _ := NewRegular(10, 0)

	if err := s.AddSample(100, 15); err == nil {
		t.Fatalf("AddSample with non-multiple element number should fail")
	}
}

func TestPageGetPageBinarySearch(t *testing.T) {
	s, err := NewPage(4, 0)

	if err != nil {
		t.Fatalf("NewPage failed: %v", err)
	}

	// Page-triggered samples land at irregular element numbers.
	elements := []uint64{7, 15, 22, 40, 41}
	positions := []uint64{4096, 8192, 12288, 16384, 20480}

	for i := range elements {
		if err := s.AddSample(positions[i], elements[i]); err != nil {
			t.Fatalf("AddSample failed: %v", err)
		}
	}

	cases := []struct {
		query    uint64
		wantElem uint64
		wantPos  uint64
	}{
		{0, 0, 0},
		{10, 7, 4096},
		{21, 15, 8192},
		{39, 22, 12288},
		{100, 41, 20480},
	}

	for _, c := range cases {
		elem, pos, err := s.GetPage(c.query)

		if err != nil {
			t.Fatalf("GetPage(%d) failed: %v", c.query, err)
		}

		if elem != c.wantElem || pos != c.wantPos {
			t.Fatalf("GetPage(%d) = %d, %d, want %d, %d", c.query, elem, pos, c.wantElem, c.wantPos)
		}
	}
}

func TestNextSampleWraps(t *testing.T) {
	s, _ := NewRegular(5, 0)
	s.AddSample(100, 5)
	s.AddSample(200, 10)

	s.GetPage(0)

	elem, pos, ok := s.NextSample()

	if !ok || elem != 5 || pos != 100 {
		t.Fatalf("NextSample() = %d, %d, %v, want 5, 100, true", elem, pos, ok)
	}

	elem, pos, ok = s.NextSample()

	if !ok || elem != 10 || pos != 200 {
		t.Fatalf("NextSample() = %d, %d, %v, want 10, 200, true", elem, pos, ok)
	}

	elem, pos, ok = s.NextSample()

	if ok || elem != 0 || pos != 0 {
		t.Fatalf("NextSample() wraparound = %d, %d, %v, want 0, 0, false", elem, pos, ok)
	}
}

func TestWriteReadRoundTripRegular(t *testing.T) {
	s, _ := NewRegular(8, 0)

	for i := uint64(8); i <= 40; i += 8 {
		s.AddSample(i*10, i)
	}

	var buf bytes.Buffer

	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(&buf)

	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.NumOfSamples() != s.NumOfSamples() || !got.IsRegular() || got.Rate() != s.Rate() {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, s)
	}

	elem, pos, err := got.GetPage(33)

	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	if elem != 32 || pos != 320 {
		t.Fatalf("GetPage(33) = %d, %d, want 32, 320", elem, pos)
	}
}

func TestWriteReadRoundTripPage(t *testing.T) {
	s, _ := NewPage(3, 0)
	s.AddSample(4096, 9)
	s.AddSample(8192, 19)

	var buf bytes.Buffer

	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(&buf)

	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.IsRegular() {
		t.Fatalf("expected Page mode after round trip")
	}

	elem, pos, err := got.GetPage(15)

	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	if elem != 9 || pos != 4096 {
		t.Fatalf("GetPage(15) = %d, %d, want 9, 4096", elem, pos)
	}
}

func TestReadDetectsCorruption(t *testing.T) {
	s, _ := NewRegular(4, 0)
	s.AddSample(40, 4)

	var buf bytes.Buffer

	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	corrupted := buf.Bytes()
	corrupted[0] ^= 0xFF

	if _, err := Read(bytes.NewReader(corrupted)); err == nil {
		t.Fatalf("Read should detect checksum mismatch on corrupted data")
	}
}

func TestIsNextElementSample(t *testing.T) {
	reg, _ := NewRegular(10, 0)

	if reg.IsNextElementSample(0, 9, 8, 0) {
		t.Fatalf("regular: 9 elements written should not yet trigger a sample at rate 10")
	}

	if !reg.IsNextElementSample(0, 10, 8, 0) {
		t.Fatalf("regular: 10 elements written should trigger a sample at rate 10")
	}

	pg, _ := NewPage(2, 0)

	if pg.IsNextElementSample(1, 0, 100, 50) {
		t.Fatalf("page: only 1 page written, rate 2, should not trigger")
	}

	if pg.IsNextElementSample(2, 0, 100, 150) {
		t.Fatalf("page: enough free space should not trigger")
	}

	if !pg.IsNextElementSample(2, 0, 100, 40) {
		t.Fatalf("page: too little free space should trigger")
	}
}
