package huffman

import "testing"

func TestCodeLengthsNonDecreasingWithFrequency(t *testing.T) {
	// Same distribution as the original unit test: frequencies are
	// strictly decreasing, so code lengths must be non-decreasing.
	dist := DenseDistribution{45, 16, 13, 12, 9, 5}

	huff, err := New(dist)

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var prevLen uint

	for i := 0; i < dist.Size(); i++ {
		code, err := huff.Encode(i)

		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", i, err)
		}

		if i > 0 && code.NumOfBits < prevLen {
			t.Fatalf("symbol %d has shorter code (%d bits) than symbol %d (%d bits)",
				i, code.NumOfBits, i-1, prevLen)
		}

		prevLen = code.NumOfBits
	}
}

func TestBitwiseDecoderRoundTrip(t *testing.T) {
	dist := DenseDistribution{45, 16, 13, 12, 9, 5}
	huff, err := New(dist)

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dec, err := NewBitwiseDecoder(huff)

	if err != nil {
		t.Fatalf("NewBitwiseDecoder failed: %v", err)
	}

	for sym := 0; sym < dist.Size(); sym++ {
		code, err := huff.Encode(sym)

		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", sym, err)
		}

		var got int
		var done bool

		for j := uint(0); j < code.NumOfBits; j++ {
			bit := (code.Bits>>(code.NumOfBits-1-j))&1 != 0
			got, done = dec.Next(bit)
		}

		if !done {
			t.Fatalf("symbol %d: decoder did not complete after %d bits", sym, code.NumOfBits)
		}

		if got != sym {
			t.Fatalf("decoded symbol %d, want %d", got, sym)
		}
	}
}

func TestBitwiseDecoderDegenerateSingleSymbol(t *testing.T) {
	dist := DenseDistribution{1}
	huff, err := New(dist)

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	code, err := huff.Encode(0)

	if err != nil {
		t.Fatalf("Encode(0) failed: %v", err)
	}

	if code.NumOfBits != 1 {
		t.Fatalf("single-symbol alphabet should get a 1-bit code, got %d", code.NumOfBits)
	}

	dec, err := NewBitwiseDecoder(huff)

	if err != nil {
		t.Fatalf("NewBitwiseDecoder failed: %v", err)
	}

	// The original implementation returns the symbol on the very
	// first call, without examining the bit, because the root is
	// itself a leaf.
	symbol, done := dec.Next(true)

	if !done || symbol != 0 {
		t.Fatalf("degenerate decoder Next(true) = %d, %v, want 0, true", symbol, done)
	}

	symbol, done = dec.Next(false)

	if !done || symbol != 0 {
		t.Fatalf("degenerate decoder Next(false) = %d, %v, want 0, true", symbol, done)
	}
}

func TestZeroFrequencySymbolsExcludedFromTree(t *testing.T) {
	dist := DenseDistribution{10, 0, 5, 0, 1}

	huff, err := New(dist)

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if huff.NumOfSymbols() != 3 {
		t.Fatalf("NumOfSymbols() = %d, want 3", huff.NumOfSymbols())
	}

	if huff.TotalNumOfSymbols() != 5 {
		t.Fatalf("TotalNumOfSymbols() = %d, want 5", huff.TotalNumOfSymbols())
	}

	code, err := huff.Encode(1)

	if err != nil {
		t.Fatalf("Encode(1) failed: %v", err)
	}

	if code.NumOfBits != 0 {
		t.Fatalf("zero-frequency symbol should have no assigned code, got %d bits", code.NumOfBits)
	}
}

func TestEmptyDistributionRejected(t *testing.T) {
	if _, err := New(DenseDistribution{}); err == nil {
		t.Fatalf("New() over an empty distribution should fail")
	}
}

type sliceSupplier struct {
	chunks [][2]any // {[]uint64 words, uint padBits}
	idx    int
}

func (this *sliceSupplier) NextChunk() ([]uint64, uint, bool, error) {
	if this.idx >= len(this.chunks) {
		return nil, 0, false, nil
	}

	c := this.chunks[this.idx]
	this.idx++
	return c[0].([]uint64), c[1].(uint), true, nil
}

func TestStreamDecoderAcrossChunks(t *testing.T) {
	dist := DenseDistribution{45, 16, 13, 12, 9, 5}
	huff, err := New(dist)

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Encode a short sequence of symbols by hand into a bitstream,
	// splitting across two single-word "chunks" to exercise the
	// cross-chunk resume path.
	seq := []int{
		0, 1, 2, 3, 4, 5, 0, 0, 1,
		0, 1, 2, 3, 4, 5, 0, 0, 1,
		0, 1, 2, 3, 4, 5, 0, 0, 1,
	}
	var bits []bool

	for _, sym := range seq {
		code, err := huff.Encode(sym)

		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", sym, err)
		}

		for j := uint(0); j < code.NumOfBits; j++ {
			bits = append(bits, (code.Bits>>(code.NumOfBits-1-j))&1 != 0)
		}
	}

	var words []uint64
	var word uint64
	count := uint(0)

	for _, b := range bits {
		word <<= 1

		if b {
			word |= 1
		}

		count++

		if count == 64 {
			words = append(words, word)
			word = 0
			count = 0
		}
	}

	pad := uint(0)

	if count > 0 {
		pad = 64 - count
		word <<= pad
		words = append(words, word)
	}

	var chunks [][2]any

	if len(words) >= 2 {
		mid := len(words) / 2
		chunks = [][2]any{
			{words[:mid], uint(0)},
			{words[mid:], pad},
		}
	} else {
		chunks = [][2]any{{words, pad}}
	}

	supplier := &sliceSupplier{chunks: chunks}

	dec, err := NewStreamDecoder(huff, supplier)

	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	out := make([]int, len(seq))
	n, _, err := dec.Next(out)

	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	if n != len(seq) {
		t.Fatalf("decoded %d symbols, want %d", n, len(seq))
	}

	for i, want := range seq {
		if out[i] != want {
			t.Fatalf("symbol %d = %d, want %d", i, out[i], want)
		}
	}
}
