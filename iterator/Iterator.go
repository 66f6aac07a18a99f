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

// Package iterator provides the minimal StringIterator/RecordIterator
// sources encdesc and hcr are built against: plain in-memory slices.
// A streaming FASTA/FASTQ parser is an external collaborator per
// SPEC_FULL.md (spec.md's Non-goals exclude format parsing); these
// implementations exist so the encoders/decoders and their tests have
// something concrete to range over.
package iterator

import "github.com/genomepack/gtc"

// SliceStringIterator walks a fixed slice of strings, such as
// description lines pulled from a FASTA/FASTQ header already split by
// an external parser.
type SliceStringIterator struct {
	lines []string
	pos   int
}

// NewSliceStringIterator wraps lines for sequential iteration.
func NewSliceStringIterator(lines []string) *SliceStringIterator {
	return &SliceStringIterator{lines: lines}
}

// Next implements gtc.StringIterator.
func (this *SliceStringIterator) Next() (string, bool, error) {
	if this.pos >= len(this.lines) {
		return "", false, nil
	}

	s := this.lines[this.pos]
	this.pos++
	return s, true, nil
}

// Record is one FASTQ read: a base sequence and its quality string,
// equal length.
type Record struct {
	Bases     string
	Qualities string
}

// SliceRecordIterator walks a fixed slice of Records.
type SliceRecordIterator struct {
	records []Record
	pos     int
}

// NewSliceRecordIterator wraps records for sequential iteration.
func NewSliceRecordIterator(records []Record) *SliceRecordIterator {
	return &SliceRecordIterator{records: records}
}

// Next implements gtc.RecordIterator.
func (this *SliceRecordIterator) Next() (bases, qualities string, ok bool, err error) {
	if this.pos >= len(this.records) {
		return "", "", false, nil
	}

	r := this.records[this.pos]
	this.pos++
	return r.Bases, r.Qualities, true, nil
}

var _ gtc.StringIterator = (*SliceStringIterator)(nil)
var _ gtc.RecordIterator = (*SliceRecordIterator)(nil)
