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
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/bitstream"
	"github.com/genomepack/gtc/sampling"
)

// writeTrailer appends the fixed 8-byte trailer that Decoder.Open uses
// to locate the sampling table without re-deriving bit-packed body
// length: the absolute byte offset the table starts at.
func writeTrailer(file *os.File, tableOffset uint64) error {
	return binary.Write(file, binary.LittleEndian, tableOffset)
}

// Encoder writes an analyzed Encdesc model plus the bit-packed
// per-description payload to a file, sampling periodically for random
// access. Grounded on GtEncdescEncoder / gt_encdesc_encoder_encode.
type Encoder struct {
	samplingRate uint64
	pageSampling bool
}

// NewEncoder creates an Encoder. samplingRate of 0 disables periodic
// resampling (only description 0 is ever a sample); pageSampling
// selects Page-mode sampling over Regular.
func NewEncoder(samplingRate uint64, pageSampling bool) *Encoder {
	return &Encoder{samplingRate: samplingRate, pageSampling: pageSampling}
}

type encodeState struct {
	prevValue []int64
}

// Encode writes ed's header, then the bit-packed encoding of lines
// (which must be the same descriptions ed.Analyze was built from, in
// the same order), to file.
func (this *Encoder) Encode(ed *Encdesc, lines []string, file *os.File) error {
	if len(lines) != ed.numOfDescs {
		return errors.Wrap(gtc.ErrInconsistent, "encdesc: lines does not match the analyzed description count")
	}

	if err := writeHeader(file, ed); err != nil {
		return errors.Wrap(err, "encdesc: write header failed")
	}

	bitOut, err := bitstream.NewBitOutStream(file)

	if err != nil {
		return err
	}

	startPos, err := bitOut.FlushAdvance()

	if err != nil {
		return errors.Wrap(err, "encdesc: align to page boundary failed")
	}

	rate := this.samplingRate

	if rate == 0 {
		rate = uint64(len(lines)) + 1
	}

	var samp *sampling.Sampling

	if this.pageSampling {
		samp, err = sampling.NewPage(rate, startPos/8)
	} else {
		samp, err = sampling.NewRegular(rate, startPos/8)
	}

	if err != nil {
		return err
	}

	state := &encodeState{prevValue: make([]int64, len(ed.fields))}
	pageBits := uint64(os.Getpagesize()) * 8
	bitsLeftInPage := pageBits
	pageCounter := uint64(0)
	elementsSinceSample := uint64(0)

	for descIdx, line := range lines {
		if descIdx != 0 {
			elementsSinceSample++
		}

		sample := descIdx != 0 && samp.IsNextElementSample(pageCounter, elementsSinceSample, 0, bitsLeftInPage)

		if sample {
			if _, err := bitOut.FlushAdvance(); err != nil {
				return err
			}

			pos, err := file.Seek(0, os.SEEK_CUR)

			if err != nil {
				return err
			}

			if err := samp.AddSample(uint64(pos), uint64(descIdx)); err != nil {
				return err
			}
		}

		before := bitOut.Written()

		parts := splitByFieldSeps(line, ed.fields)
		fieldCount := len(ed.fields)

		if !ed.numOfFieldsConst {
			fieldCount = ed.numOfFieldsTab[descIdx]
			this.encodeNumOfFields(bitOut, ed, fieldCount)
		}

		for i := 0; i < fieldCount; i++ {
			if err := this.encodeField(bitOut, ed.fields[i], i, parts[i], descIdx, sample, state); err != nil {
				return errors.Wrapf(err, "encdesc: description %d field %d", descIdx, i)
			}
		}

		bitsThisDesc := bitOut.Written() - before

		if sample {
			pageCounter = 0
			bitsLeftInPage = pageBits
			elementsSinceSample = 0
		} else {
			for bitsLeftInPage < bitsThisDesc {
				pageCounter++
				bitsThisDesc -= bitsLeftInPage
				bitsLeftInPage = pageBits
			}

			bitsLeftInPage -= bitsThisDesc

			if pageCounter == 0 {
				pageCounter++
			}
		}
	}

	if err := bitOut.Close(); err != nil {
		return err
	}

	tableOffset, err := file.Seek(0, os.SEEK_CUR)

	if err != nil {
		return err
	}

	if err := samp.Write(file); err != nil {
		return err
	}

	return writeTrailer(file, uint64(tableOffset))
}

func (this *Encoder) encodeNumOfFields(out *bitstream.BitOutStream, ed *Encdesc, n int) {
	out.WriteBits(uint64(n), uint(ed.bitsPerField))
}

func (this *Encoder) encodeField(out *bitstream.BitOutStream, f *field, fieldIdx int, data string, descIdx int, sample bool, state *encodeState) error {
	if f.isConst {
		return nil
	}

	if f.isNumeric {
		return this.encodeNumericField(out, f, fieldIdx, data, descIdx, sample, state)
	}

	if !f.fieldLenConst {
		out.WriteBits(uint64(len(data)-f.minLen), f.bitsPerLen)
	}

	for i := 0; i < len(data); i++ {
		if i < len(f.charConst) && f.charConst[i] {
			continue
		}

		h := f.charHuffman[i]
		code, err := h.Encode(int(data[i]))

		if err != nil {
			return errors.Wrapf(err, "encdesc: char code for position %d", i)
		}

		out.WriteBits(code.Bits, code.NumOfBits)
	}

	return nil
}

// encodeNumericField writes a numeric field's value. A sampled or
// first description always goes out verbatim, offset by min_value, in
// bits_per_value bits, per the sampling contract (a decoder starting
// from this description must never need the previous value). Every
// other description stores to_store (the delta- or absolute-coded
// value, offset so it starts at 0), either Huffman-coded or, when the
// field's alphabet is too large for that to pay off, as fixed-width
// bits_per_num bits.
func (this *Encoder) encodeNumericField(out *bitstream.BitOutStream, f *field, fieldIdx int, data string, descIdx int, sample bool, state *encodeState) error {
	value := parseInt64(data)

	if f.hasZeroPadding && !f.fieldLenConst {
		zc := countLeadingZeros(data)
		code, err := f.zeroCountHuffman.Encode(zc)

		if err != nil {
			return errors.Wrap(err, "encdesc: zero-count code")
		}

		out.WriteBits(code.Bits, code.NumOfBits)
	}

	if descIdx == 0 || sample {
		out.WriteBits(uint64(value-f.minValue), f.bitsPerValue)
		state.prevValue[fieldIdx] = value
		return nil
	}

	var toStore uint64

	if f.useDeltaCoding {
		toStore = uint64((value - state.prevValue[fieldIdx]) - f.minDelta)
	} else {
		toStore = uint64(value - f.minValue)
	}

	if f.useHC {
		code, err := f.numHuffman.Encode(int(toStore))

		if err != nil {
			return errors.Wrap(err, "encdesc: numeric code")
		}

		out.WriteBits(code.Bits, code.NumOfBits)
	} else {
		out.WriteBits(toStore, f.bitsPerNum)
	}

	state.prevValue[fieldIdx] = value
	return nil
}

func parseInt64(s string) int64 {
	neg := false
	i := 0

	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		i = 1
	}

	var v int64

	for ; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
	}

	if neg {
		v = -v
	}

	return v
}
