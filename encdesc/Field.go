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

// Package encdesc compresses structured description lines (FASTA/FASTQ
// headers) by splitting each line into separator-delimited fields and
// modelling each field independently: constant fields store nothing,
// numeric fields use delta coding against the previous value when that
// shrinks the range, and free-text fields Huffman-code each
// non-constant character position. Grounded on the original
// GenomeTools encdesc.c/encdesc_rep.h.
package encdesc

import (
	"strconv"

	"github.com/genomepack/gtc/huffman"
	"github.com/genomepack/gtc/internal"
)

// separators is the fixed delimiter set a description line is split
// on, matching GT_ENCDESC_SEPS.
var separators = []byte{'.', '_', ',', '=', ':', '/', '-', '|', ' '}

func isSeparator(b byte) bool {
	for _, s := range separators {
		if b == s {
			return true
		}
	}

	return false
}

// field holds the analysis accumulated over a full pass of the input,
// plus the derived huffman tables used for encoding.
type field struct {
	sep byte

	isConst        bool
	constData      string
	fieldLenConst  bool
	minLen, maxLen int
	bitsPerLen     uint

	isNumeric       bool
	hasZeroPadding  bool
	maxZero         int
	minValue        int64
	maxValue        int64
	isValueConst    bool
	minDelta        int64
	maxDelta        int64
	isDeltaConst    bool
	useDeltaCoding  bool
	useHC        bool
	bitsPerNum   uint
	bitsPerValue uint
	prevValue    int64

	// per-position constancy for non-numeric fields: charConst[i] is
	// true while every description seen so far agrees at position i.
	charConst []bool

	// distributions collected during analysis, consumed when building
	// huffman tables.
	charFreq      []map[byte]uint64
	valueFreq     map[int64]uint64 // raw value -> count
	deltaFreq     map[int64]uint64 // raw delta -> count
	zeroCountFreq map[int]uint64

	charHuffman      []*huffman.Huffman
	numHuffman       *huffman.Huffman
	zeroCountHuffman *huffman.Huffman
}

func newFieldFromSample(sep byte, data string) *field {
	f := &field{
		sep:             sep,
		constData:       data,
		isConst:         true,
		fieldLenConst:   true,
		minLen:        len(data),
		maxLen:        len(data),
		valueFreq:     map[int64]uint64{},
		deltaFreq:     map[int64]uint64{},
		zeroCountFreq: map[int]uint64{},
	}

	f.charConst = make([]bool, len(data))
	f.charFreq = make([]map[byte]uint64, len(data))

	for i := range data {
		f.charConst[i] = true
		f.charFreq[i] = map[byte]uint64{}
	}

	if v, err := strconv.ParseInt(data, 10, 64); err == nil {
		f.isNumeric = true
		f.minValue, f.maxValue = v, v
	}

	return f
}

// observe folds one more occurrence of this field into the analysis.
func (f *field) observe(descIdx int, data string) {
	if len(data) > f.maxLen {
		f.isConst = false
		f.fieldLenConst = false
		f.maxLen = len(data)

		for len(f.charConst) < f.maxLen {
			f.charConst = append(f.charConst, true)
			f.charFreq = append(f.charFreq, map[byte]uint64{})
		}
	} else if len(data) < f.minLen {
		f.isConst = false
		f.fieldLenConst = false
		f.minLen = len(data)
	}

	for i := 0; i < len(data); i++ {
		f.charFreq[i][data[i]]++
	}

	if f.isConst && data != f.constData {
		f.isConst = false
	}

	if !f.isConst {
		for i := range f.charConst {
			if i >= len(data) || i >= len(f.constData) || f.constData[i] != data[i] {
				f.charConst[i] = false
			}
		}
	}

	if f.isNumeric {
		v, err := strconv.ParseInt(data, 10, 64)

		if err != nil {
			f.isNumeric = false
		} else {
			zc := countLeadingZeros(data)

			if zc > 0 {
				f.hasZeroPadding = true
			}

			if zc > f.maxZero {
				f.maxZero = zc
			}

			f.zeroCountFreq[zc]++

			if descIdx == 0 {
				f.minValue, f.maxValue = v, v
				f.isValueConst = true
			} else {
				delta := v - f.prevValue

				if delta != 0 {
					f.isValueConst = false

					if v < f.minValue {
						f.minValue = v
					}

					if v > f.maxValue {
						f.maxValue = v
					}
				}

				if descIdx == 1 {
					f.minDelta, f.maxDelta = delta, delta
					f.isDeltaConst = true
				} else {
					if delta > f.maxDelta {
						f.isDeltaConst = false
						f.maxDelta = delta
					}

					if delta < f.minDelta {
						f.isDeltaConst = false
						f.minDelta = delta
					}
				}

				f.deltaFreq[delta]++
			}

			f.valueFreq[v]++
			f.prevValue = v
		}
	}
}

// countLeadingZeros counts leading '0' characters in number, never
// counting the final digit of an all-zero string, mirroring
// count_leading_zeros: "000156" -> 3, "x" -> 0, "0000" -> 3, "" -> 0.
func countLeadingZeros(number string) int {
	count := 0

	for count < len(number) && number[count] == '0' {
		count++
	}

	if count != 0 && count == len(number) {
		count--
	}

	return count
}

// digitsPerValue returns the number of bits needed to represent values
// in [0, value], mirroring encdesc_digits_per_value base 2.
func digitsPerValue(value int64) uint {
	if value <= 0 {
		return 1
	}

	if value > 0xFFFFFFFF {
		return uint(internal.Log2NoCheck(uint32(value>>32))) + 33
	}

	return uint(internal.Log2NoCheck(uint32(value))) + 1
}

// finalize derives the huffman tables and bit widths from the
// accumulated analysis, mirroring the post-loop sizing pass in
// encdesc_analyze_descs.
func (f *field) finalize() error {
	if !f.isNumeric {
		if !f.isConst {
			f.bitsPerLen = digitsPerValue(int64(f.maxLen - f.minLen))

			f.charHuffman = make([]*huffman.Huffman, len(f.charFreq))

			for i, freq := range f.charFreq {
				if f.charConst[i] {
					continue
				}

				dist := make(huffman.DenseDistribution, 256)

				for b, n := range freq {
					dist[b] = n
				}

				h, err := huffman.New(dist)

				if err != nil {
					return err
				}

				f.charHuffman[i] = h
			}
		}

		return nil
	}

	valueRange := abs64(f.maxValue - f.minValue)
	deltaRange := abs64(f.maxDelta - f.minDelta)

	if valueRange <= deltaRange || len(f.deltaFreq) == 0 {
		f.useDeltaCoding = false
		f.bitsPerNum = digitsPerValue(valueRange)
	} else {
		f.useDeltaCoding = true
		f.bitsPerNum = digitsPerValue(deltaRange)
	}

	f.bitsPerValue = digitsPerValue(valueRange)

	if !f.isConst {
		distinctCount := len(f.valueFreq)

		if f.useDeltaCoding {
			distinctCount = len(f.deltaFreq)
		}

		// Huffman only pays off with a small enough alphabet; beyond the
		// cap, fixed-width bits_per_num wins on header overhead alone.
		f.useHC = distinctCount <= 512

		// The huffman table is built over the normalized "to_store" value
		// (value-min_value, or delta-min_delta when delta coding wins),
		// the same quantity prepare_numeric_field actually encodes. It is
		// only ever consulted for mid-stream, non-sampled descriptions
		// when useHC is set; sampled/first descriptions always go out
		// verbatim in bits_per_value bits regardless of useHC.
		numDist := make(huffman.DenseDistribution, f.bitsPerNumRange()+1)

		if f.useDeltaCoding {
			for d, n := range f.deltaFreq {
				numDist[d-f.minDelta] += n
			}
		} else {
			for v, n := range f.valueFreq {
				numDist[v-f.minValue] += n
			}
		}

		h, err := huffman.New(numDist)

		if err != nil {
			return err
		}

		f.numHuffman = h

		if f.hasZeroPadding {
			zDist := make(huffman.DenseDistribution, f.maxZero+1)

			for zc, n := range f.zeroCountFreq {
				zDist[zc] = n
			}

			zh, err := huffman.New(zDist)

			if err != nil {
				return err
			}

			f.zeroCountHuffman = zh
		}
	}

	return nil
}

// bitsPerNumRange returns the size of the to_store value space: the
// range this field's numeric codes are drawn from, whichever coding
// (absolute or delta) finalize chose.
func (f *field) bitsPerNumRange() int64 {
	if f.useDeltaCoding {
		return abs64(f.maxDelta - f.minDelta)
	}

	return abs64(f.maxValue - f.minValue)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
