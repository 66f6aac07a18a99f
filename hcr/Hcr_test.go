/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package hcr

import (
	"os"
	"testing"

	"github.com/genomepack/gtc/alphabet"
	"github.com/genomepack/gtc/iterator"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "hcr-*.bin")

	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}

	return f
}

// Scenario S1: two files, F1 has one read, F2 has two reads of a
// different (but internally consistent) length.
func TestRoundTripTwoFiles(t *testing.T) {
	files := [][]iterator.Record{
		{{Bases: "ACGTN", Qualities: "!!!!!"}},
		{
			{Bases: "ACGT", Qualities: "ABCD"},
			{Bases: "GGGG", Qualities: "DCBA"},
		},
	}

	dna := alphabet.NewDNA()

	m, err := Analyze(files, dna, nil, nil)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	fi := m.Files()

	if len(fi) != 2 || fi[0].CumulativeReads != 1 || fi[0].ReadLength != 5 ||
		fi[1].CumulativeReads != 3 || fi[1].ReadLength != 4 {
		t.Fatalf("Files() = %+v, want [(1,5),(3,4)]", fi)
	}

	if m.NumOfReads() != 3 {
		t.Fatalf("NumOfReads() = %d, want 3", m.NumOfReads())
	}

	f := tempFile(t)
	enc := NewEncoder(0, false)

	if err := enc.Encode(m, files, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f, dna)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if dec.NumOfReads() != 3 {
		t.Fatalf("NumOfReads() = %d, want 3", dec.NumOfReads())
	}

	bases, qualities, desc, err := dec.Decode(0)

	if err != nil {
		t.Fatalf("Decode(0) failed: %v", err)
	}

	if bases != "ACGTN" || qualities != "!!!!!" || desc != "" {
		t.Fatalf("Decode(0) = %q, %q, %q, want ACGTN, !!!!!, \"\"", bases, qualities, desc)
	}

	bases, qualities, desc, err = dec.Decode(2)

	if err != nil {
		t.Fatalf("Decode(2) failed: %v", err)
	}

	if bases != "GGGG" || qualities != "DCBA" || desc != "" {
		t.Fatalf("Decode(2) = %q, %q, %q, want GGGG, DCBA, \"\"", bases, qualities, desc)
	}
}

func TestRoundTripManyReadsWithSampling(t *testing.T) {
	records := make([]iterator.Record, 50)

	for i := range records {
		records[i] = iterator.Record{Bases: "ACGTACGT", Qualities: "IIIIIIII"}
	}

	files := [][]iterator.Record{records}
	dna := alphabet.NewDNA()

	m, err := Analyze(files, dna, nil, nil)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	f := tempFile(t)
	enc := NewEncoder(6, false)

	if err := enc.Encode(m, files, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f, dna)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got, err := dec.DecodeRange(0, len(records)-1)

	if err != nil {
		t.Fatalf("DecodeRange failed: %v", err)
	}

	for i, r := range got {
		if r.Bases != records[i].Bases || r.Qualities != records[i].Qualities {
			t.Fatalf("read %d = %q, %q, want %q, %q", i, r.Bases, r.Qualities, records[i].Bases, records[i].Qualities)
		}
	}
}

func TestRoundTripQualityClamp(t *testing.T) {
	qmin := byte('#')
	qmax := byte('I')

	files := [][]iterator.Record{
		{
			{Bases: "ACGT", Qualities: "!!!!"}, // below qmin, should clamp up
			{Bases: "ACGT", Qualities: "~~~~"}, // above qmax, should clamp down
		},
	}

	dna := alphabet.NewDNA()

	m, err := Analyze(files, dna, &qmin, &qmax)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	f := tempFile(t)
	enc := NewEncoder(0, false)

	if err := enc.Encode(m, files, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f, dna)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, qualities, _, err := dec.Decode(0)

	if err != nil {
		t.Fatalf("Decode(0) failed: %v", err)
	}

	for _, c := range qualities {
		if byte(c) != qmin {
			t.Fatalf("Decode(0) qualities = %q, want all %q (clamped)", qualities, string(qmin))
		}
	}

	_, qualities, _, err = dec.Decode(1)

	if err != nil {
		t.Fatalf("Decode(1) failed: %v", err)
	}

	for _, c := range qualities {
		if byte(c) != qmax {
			t.Fatalf("Decode(1) qualities = %q, want all %q (clamped)", qualities, string(qmax))
		}
	}
}

func TestAnalyzeRejectsEmptyFiles(t *testing.T) {
	dna := alphabet.NewDNA()

	if _, err := Analyze(nil, dna, nil, nil); err == nil {
		t.Fatalf("Analyze(nil) should fail")
	}

	if _, err := Analyze([][]iterator.Record{{}}, dna, nil, nil); err == nil {
		t.Fatalf("Analyze with an empty file should fail")
	}
}

func TestAnalyzeRejectsInconsistentReadLength(t *testing.T) {
	dna := alphabet.NewDNA()
	files := [][]iterator.Record{
		{
			{Bases: "ACGT", Qualities: "IIII"},
			{Bases: "ACG", Qualities: "III"},
		},
	}

	if _, err := Analyze(files, dna, nil, nil); err == nil {
		t.Fatalf("Analyze should reject a file with varying read lengths")
	}
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	dna := alphabet.NewDNA()
	files := [][]iterator.Record{{{Bases: "ACGT", Qualities: "IIII"}}}

	m, err := Analyze(files, dna, nil, nil)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	f := tempFile(t)
	enc := NewEncoder(0, false)

	if err := enc.Encode(m, files, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f, dna)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, _, _, err := dec.Decode(-1); err == nil {
		t.Fatalf("Decode(-1) should fail")
	}

	if _, _, _, err := dec.Decode(1); err == nil {
		t.Fatalf("Decode(1) should fail")
	}
}
