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
	"bytes"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/bitstream"
	"github.com/genomepack/gtc/huffman"
	"github.com/genomepack/gtc/sampling"
)

// Decoder loads an Encdesc model plus its sampling index from a file
// written by Encoder, and reconstructs individual descriptions by
// replaying bit-packed field codes from the nearest sample forward.
// Grounded on gt_encdesc_load / gt_encdesc_decode.
type Decoder struct {
	file *os.File
	ed   *Encdesc
	samp *sampling.Sampling
}

// Open reads the header and sampling table from file (which must
// already have everything Encoder wrote), leaving the Decoder ready
// to serve Decode calls. The sampling table's offset is recovered from
// the trailing 8 bytes Encoder writes after it.
func Open(file *os.File) (*Decoder, error) {
	ed, err := readHeader(file)

	if err != nil {
		return nil, errors.Wrap(err, "encdesc: read header failed")
	}

	size, err := file.Seek(0, os.SEEK_END)

	if err != nil {
		return nil, err
	}

	if _, err := file.Seek(size-8, os.SEEK_SET); err != nil {
		return nil, err
	}

	var tableOffset uint64

	if err := binary.Read(file, binary.LittleEndian, &tableOffset); err != nil {
		return nil, errors.Wrap(err, "encdesc: read trailer failed")
	}

	if _, err := file.Seek(int64(tableOffset), os.SEEK_SET); err != nil {
		return nil, err
	}

	samp, err := sampling.Read(file)

	if err != nil {
		return nil, errors.Wrap(err, "encdesc: read sampling table failed")
	}

	return &Decoder{file: file, ed: ed, samp: samp}, nil
}

// NumOfDescriptions returns the number of encoded descriptions.
func (this *Decoder) NumOfDescriptions() int {
	return this.ed.numOfDescs
}

// Decode reconstructs the description at index num, replaying from
// the nearest sample at or before num forward.
func (this *Decoder) Decode(num int) (string, error) {
	if num < 0 || num >= this.ed.numOfDescs {
		return "", errors.Wrap(gtc.ErrOutOfRange, "encdesc: description index out of range")
	}

	sampledElem, samplePos, err := this.samp.GetPage(uint64(num))

	if err != nil {
		return "", err
	}

	in, err := bitstream.NewBitInStream(this.file, int64(samplePos), 1)

	if err != nil {
		return "", err
	}

	defer in.Close()

	state := &encodeState{prevValue: make([]int64, len(this.ed.fields))}
	var result string

	for descIdx := int(sampledElem); descIdx <= num; descIdx++ {
		sample := descIdx == int(sampledElem)
		desc, err := this.decodeOne(in, descIdx, sample, state)

		if err != nil {
			return "", err
		}

		result = desc
	}

	return result, nil
}

func (this *Decoder) decodeOne(in *bitstream.BitInStream, descIdx int, sample bool, state *encodeState) (string, error) {
	fieldCount := len(this.ed.fields)

	if !this.ed.numOfFieldsConst {
		fieldCount = int(in.ReadBits(this.ed.bitsPerField))
	}

	var buf bytes.Buffer

	for i := 0; i < fieldCount; i++ {
		f := this.ed.fields[i]

		data, err := this.decodeField(in, f, i, descIdx, sample, state)

		if err != nil {
			return "", err
		}

		buf.WriteString(data)

		if i < fieldCount-1 {
			buf.WriteByte(f.sep)
		}
	}

	return buf.String(), nil
}

func (this *Decoder) decodeField(in *bitstream.BitInStream, f *field, fieldIdx, descIdx int, sample bool, state *encodeState) (string, error) {
	if f.isConst {
		return f.constData, nil
	}

	if f.isNumeric {
		return this.decodeNumericField(in, f, fieldIdx, descIdx, sample, state)
	}

	length := f.minLen

	if !f.fieldLenConst {
		length = f.minLen + int(in.ReadBits(f.bitsPerLen))
	}

	out := make([]byte, length)

	for i := 0; i < length; i++ {
		if i < len(f.charConst) && f.charConst[i] {
			out[i] = f.constData[i]
			continue
		}

		sym, err := decodeHuffmanSymbol(in, f.charHuffman[i])

		if err != nil {
			return "", err
		}

		out[i] = byte(sym)
	}

	return string(out), nil
}

func (this *Decoder) decodeNumericField(in *bitstream.BitInStream, f *field, fieldIdx, descIdx int, sample bool, state *encodeState) (string, error) {
	zc := 0

	if f.hasZeroPadding && !f.fieldLenConst {
		sym, err := decodeHuffmanSymbol(in, f.zeroCountHuffman)

		if err != nil {
			return "", err
		}

		zc = sym
	}

	var value int64

	if descIdx == 0 || sample {
		value = f.minValue + int64(in.ReadBits(f.bitsPerValue))
	} else {
		var toStore int64

		if f.useHC {
			sym, err := decodeHuffmanSymbol(in, f.numHuffman)

			if err != nil {
				return "", err
			}

			toStore = int64(sym)
		} else {
			toStore = int64(in.ReadBits(f.bitsPerNum))
		}

		if f.useDeltaCoding {
			value = state.prevValue[fieldIdx] + f.minDelta + toStore
		} else {
			value = f.minValue + toStore
		}
	}

	state.prevValue[fieldIdx] = value

	if f.hasZeroPadding && f.fieldLenConst {
		signLen := 0

		if value < 0 {
			signLen = 1
		}

		zc = f.minLen - signLen - digitCount(value)
	}

	return formatZeroPadded(value, zc), nil
}

// digitCount returns the number of decimal digit characters value's
// string form has, excluding any sign, used to recover a fixed-width
// zero-padded field's implicit leading-zero count.
func digitCount(value int64) int {
	if value < 0 {
		value = -value
	}

	if value == 0 {
		return 1
	}

	n := 0

	for v := value; v > 0; v /= 10 {
		n++
	}

	return n
}

func decodeHuffmanSymbol(in *bitstream.BitInStream, h *huffman.Huffman) (int, error) {
	dec, err := huffman.NewBitwiseDecoder(h)

	if err != nil {
		return 0, err
	}

	for {
		sym, done := dec.Next(in.ReadBit() != 0)

		if done {
			return sym, nil
		}
	}
}

func formatZeroPadded(value int64, zeroCount int) string {
	neg := value < 0

	if neg {
		value = -value
	}

	digits := itoa(value)

	for i := 0; i < zeroCount; i++ {
		digits = "0" + digits
	}

	if neg {
		digits = "-" + digits
	}

	return digits
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)

	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
