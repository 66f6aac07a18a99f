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

package encdesc

import (
	"os"
	"testing"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "encdesc-*.bin")

	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}

	return f
}

func roundTrip(t *testing.T, lines []string, samplingRate uint64, pageSampling bool) []string {
	t.Helper()

	ed, err := Analyze(lines)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	f := tempFile(t)

	enc := NewEncoder(samplingRate, pageSampling)

	if err := enc.Encode(ed, lines, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if dec.NumOfDescriptions() != len(lines) {
		t.Fatalf("NumOfDescriptions() = %d, want %d", dec.NumOfDescriptions(), len(lines))
	}

	got := make([]string, len(lines))

	for i := range lines {
		desc, err := dec.Decode(i)

		if err != nil {
			t.Fatalf("Decode(%d) failed: %v", i, err)
		}

		got[i] = desc
	}

	return got
}

func assertEqual(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// Scenario S2: a run id prefix constant across every description, plus
// a numeric suffix that increments by a constant delta.
func TestRoundTripConstantAndDelta(t *testing.T) {
	lines := []string{
		"run1.read=100",
		"run1.read=105",
		"run1.read=110",
		"run1.read=115",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

// Scenario S3: zero-padded numeric fields of a fixed width.
func TestRoundTripLeadingZeros(t *testing.T) {
	lines := []string{
		"seq.000001",
		"seq.000042",
		"seq.001000",
		"seq.099999",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

// Fixed-width zero padding: zero count must be recovered from the
// decoded value rather than transmitted, since the field length never
// varies.
func TestRoundTripFixedWidthZeroPadding(t *testing.T) {
	lines := []string{
		"id:000001",
		"id:000002",
		"id:000123",
		"id:099999",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

func TestRoundTripFreeText(t *testing.T) {
	lines := []string{
		"chr1_read_alpha",
		"chr2_read_beta",
		"chr1_read_gamma",
		"chrX_read_delta",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

func TestRoundTripVariableFieldCount(t *testing.T) {
	lines := []string{
		"run1.lane2.tile3",
		"run1.lane2",
		"run1.lane2.tile3.extra",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

func TestRoundTripWithRegularSampling(t *testing.T) {
	lines := make([]string, 40)

	for i := range lines {
		lines[i] = "run1.read=" + itoa(int64(1000+i*3))
	}

	got := roundTrip(t, lines, 8, false)
	assertEqual(t, got, lines)
}

func TestRoundTripWithPageSampling(t *testing.T) {
	lines := make([]string, 60)

	for i := range lines {
		lines[i] = "batch_" + itoa(int64(i)) + "_sample"
	}

	got := roundTrip(t, lines, 4, true)
	assertEqual(t, got, lines)
}

func TestRoundTripNegativeNumbers(t *testing.T) {
	lines := []string{
		"offset=-5",
		"offset=-2",
		"offset=0",
		"offset=3",
		"offset=10",
	}

	got := roundTrip(t, lines, 0, false)
	assertEqual(t, got, lines)
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	if _, err := Analyze(nil); err == nil {
		t.Fatalf("Analyze(nil) should fail")
	}
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	lines := []string{"run1.read=1", "run1.read=2"}

	ed, err := Analyze(lines)

	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	f := tempFile(t)
	enc := NewEncoder(0, false)

	if err := enc.Encode(ed, lines, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	dec, err := Open(f)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := dec.Decode(-1); err == nil {
		t.Fatalf("Decode(-1) should fail")
	}

	if _, err := dec.Decode(2); err == nil {
		t.Fatalf("Decode(2) should fail")
	}
}
