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
	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
)

// genericFieldCount returns the number of non-empty separator-delimited
// fields in line, splitting on any byte in the fixed separator set,
// mirroring the first pass of encdesc_analyze_descs that hunts for the
// description with the maximum field count.
func genericFieldCount(line string) int {
	n := 0
	start := 0

	for i := 0; i <= len(line); i++ {
		if i == len(line) || isSeparator(line[i]) {
			if i-start > 0 {
				n++
			}

			start = i + 1
		}
	}

	return n
}

// splitByFieldSeps walks line using the separator each field learned
// from the longest description, stopping early if line has fewer
// fields than num_of_fields. Mirrors the inner loop of
// encdesc_analyze_descs / prepare_write_data_and_count_bits.
func splitByFieldSeps(line string, fields []*field) []string {
	out := make([]string, 0, len(fields))
	start := 0

	for _, f := range fields {
		idx := -1

		for i := start; i <= len(line); i++ {
			if i == len(line) || line[i] == f.sep {
				idx = i
				break
			}
		}

		if idx < 0 {
			break
		}

		out = append(out, line[start:idx])
		start = idx + 1

		if idx == len(line) {
			break
		}
	}

	return out
}

// Encdesc is the analyzed, field-modelled form of a set of description
// lines, ready to be driven by an Encoder or reloaded by a Decoder.
type Encdesc struct {
	fields           []*field
	numOfFieldsConst bool
	bitsPerField     uint
	numOfFieldsTab   []int
	numOfDescs       int
}

// Analyze scans every description twice — once to find the field
// layout of the longest line, once to gather per-field statistics —
// and builds the models an Encoder needs. Grounded on
// encdesc_analyze_descs.
func Analyze(lines []string) (*Encdesc, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(gtc.ErrEmptyInput, "encdesc: no descriptions to analyze")
	}

	maxFields := 0
	longest := ""

	for _, line := range lines {
		if n := genericFieldCount(line); n > maxFields {
			maxFields = n
			longest = line
		}
	}

	if maxFields == 0 {
		return nil, errors.Wrap(gtc.ErrEmptyInput, "encdesc: descriptions contain no fields")
	}

	fields := make([]*field, 0, maxFields)
	start := 0

	for i := 0; i <= len(longest) && len(fields) < maxFields; i++ {
		if i == len(longest) || isSeparator(longest[i]) {
			if i-start > 0 {
				sep := byte(0)

				if i < len(longest) {
					sep = longest[i]
				}

				fields = append(fields, newFieldFromSample(sep, longest[start:i]))
				start = i + 1
			}
		}
	}

	ed := &Encdesc{fields: fields, numOfFieldsConst: true, numOfDescs: len(lines)}

	for descIdx, line := range lines {
		parts := splitByFieldSeps(line, fields)

		for i, data := range parts {
			fields[i].observe(descIdx, data)
		}

		for i := len(parts); i < len(fields); i++ {
			fields[i].isConst = false
			fields[i].fieldLenConst = false
			fields[i].isNumeric = false
		}

		if len(parts) != len(fields) {
			ed.numOfFieldsConst = false
		}

		ed.numOfFieldsTab = append(ed.numOfFieldsTab, len(parts))
	}

	if ed.numOfFieldsConst {
		ed.numOfFieldsTab = nil
	}

	for _, f := range fields {
		if err := f.finalize(); err != nil {
			return nil, errors.Wrap(err, "encdesc: field analysis failed")
		}
	}

	ed.bitsPerField = digitsPerValue(int64(maxFields))
	return ed, nil
}

// NumOfDescriptions returns the number of descriptions this model was
// built from.
func (this *Encdesc) NumOfDescriptions() int {
	return this.numOfDescs
}

// NumOfFields returns the field count of the longest description seen.
func (this *Encdesc) NumOfFields() int {
	return len(this.fields)
}
