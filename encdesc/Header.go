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
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/huffman"
)

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}

	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32

	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}

	buf := make([]byte, n)

	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// writeSparseDist writes a huffman.DenseDistribution as (dense length,
// non-zero count, then that many (index, freq) pairs), avoiding a full dense write when the
// value range vastly exceeds the number of distinct values seen.
func writeSparseDist(w io.Writer, dist huffman.DenseDistribution) error {
	nonZero := 0

	for _, f := range dist {
		if f > 0 {
			nonZero++
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(dist))); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(nonZero)); err != nil {
		return err
	}

	for i, f := range dist {
		if f == 0 {
			continue
		}

		if err := binary.Write(w, binary.LittleEndian, uint64(i)); err != nil {
			return err
		}

		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	return nil
}

func readSparseDist(r io.Reader) (huffman.DenseDistribution, error) {
	var size, nonZero uint64

	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &nonZero); err != nil {
		return nil, err
	}

	dist := make(huffman.DenseDistribution, size)

	for i := uint64(0); i < nonZero; i++ {
		var idx, freq uint64

		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return nil, err
		}

		if err := binary.Read(r, binary.LittleEndian, &freq); err != nil {
			return nil, err
		}

		if idx >= size {
			return nil, errors.Wrap(gtc.ErrInconsistent, "encdesc: sparse distribution index out of range")
		}

		dist[idx] = freq
	}

	return dist, nil
}

// writeHeader serializes every field's analysis and derived models.
// The trailing xxhash64 checksum is a supplemented feature, as in
// package sampling.
func writeHeader(w io.Writer, ed *Encdesc) error {
	digest := xxhash.New()
	mw := io.MultiWriter(w, digest)

	if err := binary.Write(mw, binary.LittleEndian, uint64(ed.numOfDescs)); err != nil {
		return err
	}

	if err := binary.Write(mw, binary.LittleEndian, uint32(len(ed.fields))); err != nil {
		return err
	}

	if err := binary.Write(mw, binary.LittleEndian, ed.numOfFieldsConst); err != nil {
		return err
	}

	if err := binary.Write(mw, binary.LittleEndian, uint8(ed.bitsPerField)); err != nil {
		return err
	}

	if !ed.numOfFieldsConst {
		for _, n := range ed.numOfFieldsTab {
			if err := binary.Write(mw, binary.LittleEndian, uint32(n)); err != nil {
				return err
			}
		}
	}

	for _, f := range ed.fields {
		if err := writeFieldHeader(mw, f); err != nil {
			return err
		}
	}

	return binary.Write(w, binary.LittleEndian, digest.Sum64())
}

func writeFieldHeader(w io.Writer, f *field) error {
	if err := binary.Write(w, binary.LittleEndian, f.sep); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.isConst); err != nil {
		return err
	}

	if f.isConst {
		return writeString(w, f.constData)
	}

	if err := binary.Write(w, binary.LittleEndian, f.isNumeric); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.fieldLenConst); err != nil {
		return err
	}

	if !f.isNumeric {
		if err := binary.Write(w, binary.LittleEndian, uint32(f.minLen)); err != nil {
			return err
		}

		if err := binary.Write(w, binary.LittleEndian, uint32(f.maxLen)); err != nil {
			return err
		}

		if err := binary.Write(w, binary.LittleEndian, uint8(f.bitsPerLen)); err != nil {
			return err
		}

		if err := writeString(w, f.constData[:min(len(f.constData), f.maxLen)]); err != nil {
			return err
		}

		for i := 0; i < f.maxLen; i++ {
			constHere := i < len(f.charConst) && f.charConst[i]

			if err := binary.Write(w, binary.LittleEndian, constHere); err != nil {
				return err
			}

			if !constHere {
				if err := writeSparseDist(w, charDist(f.charFreq[i])); err != nil {
					return err
				}
			}
		}

		return nil
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(f.minLen)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.minValue); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.minDelta); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.useDeltaCoding); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.useHC); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(f.bitsPerNum)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(f.bitsPerValue)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, f.hasZeroPadding); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(f.maxZero)); err != nil {
		return err
	}

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

	if err := writeSparseDist(w, numDist); err != nil {
		return err
	}

	if f.hasZeroPadding {
		zDist := make(huffman.DenseDistribution, f.maxZero+1)

		for zc, n := range f.zeroCountFreq {
			zDist[zc] += n
		}

		if err := writeSparseDist(w, zDist); err != nil {
			return err
		}
	}

	return nil
}

func charDist(freq map[byte]uint64) huffman.DenseDistribution {
	dist := make(huffman.DenseDistribution, 256)

	for b, n := range freq {
		dist[b] = n
	}

	return dist
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// readHeader reconstructs an Encdesc from a header written by
// writeHeader, rebuilding every field's huffman tables from the
// persisted frequency distributions (New() is deterministic, so the
// rebuilt tree is bit-identical to the one the encoder used).
func readHeader(r io.Reader) (*Encdesc, error) {
	digest := xxhash.New()
	tr := io.TeeReader(r, digest)

	ed := &Encdesc{}

	var numOfDescs uint64
	var numOfFields uint32

	if err := binary.Read(tr, binary.LittleEndian, &numOfDescs); err != nil {
		return nil, err
	}

	if err := binary.Read(tr, binary.LittleEndian, &numOfFields); err != nil {
		return nil, err
	}

	ed.numOfDescs = int(numOfDescs)

	if err := binary.Read(tr, binary.LittleEndian, &ed.numOfFieldsConst); err != nil {
		return nil, err
	}

	var bitsPerField uint8

	if err := binary.Read(tr, binary.LittleEndian, &bitsPerField); err != nil {
		return nil, err
	}

	ed.bitsPerField = uint(bitsPerField)

	if !ed.numOfFieldsConst {
		ed.numOfFieldsTab = make([]int, numOfDescs)

		for i := range ed.numOfFieldsTab {
			var n uint32

			if err := binary.Read(tr, binary.LittleEndian, &n); err != nil {
				return nil, err
			}

			ed.numOfFieldsTab[i] = int(n)
		}
	}

	ed.fields = make([]*field, numOfFields)

	for i := range ed.fields {
		f, err := readFieldHeader(tr)

		if err != nil {
			return nil, err
		}

		ed.fields[i] = f
	}

	var want uint64

	if err := binary.Read(r, binary.LittleEndian, &want); err != nil {
		return nil, err
	}

	if got := digest.Sum64(); got != want {
		return nil, errors.Wrapf(gtc.ErrInconsistent, "encdesc: header checksum mismatch: got %x want %x", got, want)
	}

	return ed, nil
}

func readFieldHeader(r io.Reader) (*field, error) {
	f := &field{}

	if err := binary.Read(r, binary.LittleEndian, &f.sep); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.isConst); err != nil {
		return nil, err
	}

	if f.isConst {
		data, err := readString(r)

		if err != nil {
			return nil, err
		}

		f.constData = data
		f.minLen, f.maxLen = len(data), len(data)
		return f, nil
	}

	if err := binary.Read(r, binary.LittleEndian, &f.isNumeric); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.fieldLenConst); err != nil {
		return nil, err
	}

	if !f.isNumeric {
		var minLen, maxLen uint32
		var bitsPerLen uint8

		if err := binary.Read(r, binary.LittleEndian, &minLen); err != nil {
			return nil, err
		}

		if err := binary.Read(r, binary.LittleEndian, &maxLen); err != nil {
			return nil, err
		}

		if err := binary.Read(r, binary.LittleEndian, &bitsPerLen); err != nil {
			return nil, err
		}

		f.minLen, f.maxLen, f.bitsPerLen = int(minLen), int(maxLen), uint(bitsPerLen)

		data, err := readString(r)

		if err != nil {
			return nil, err
		}

		f.constData = data
		f.charConst = make([]bool, f.maxLen)
		f.charHuffman = make([]*huffman.Huffman, f.maxLen)

		for i := 0; i < f.maxLen; i++ {
			if err := binary.Read(r, binary.LittleEndian, &f.charConst[i]); err != nil {
				return nil, err
			}

			if !f.charConst[i] {
				dist, err := readSparseDist(r)

				if err != nil {
					return nil, err
				}

				h, err := huffman.New(dist)

				if err != nil {
					return nil, err
				}

				f.charHuffman[i] = h
			}
		}

		return f, nil
	}

	var numMinLen uint32

	if err := binary.Read(r, binary.LittleEndian, &numMinLen); err != nil {
		return nil, err
	}

	f.minLen = int(numMinLen)

	if err := binary.Read(r, binary.LittleEndian, &f.minValue); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.minDelta); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.useDeltaCoding); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.useHC); err != nil {
		return nil, err
	}

	var bitsPerNum, bitsPerValue, maxZero uint8

	if err := binary.Read(r, binary.LittleEndian, &bitsPerNum); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &bitsPerValue); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &f.hasZeroPadding); err != nil {
		return nil, err
	}

	if err := binary.Read(r, binary.LittleEndian, &maxZero); err != nil {
		return nil, err
	}

	f.bitsPerNum, f.bitsPerValue, f.maxZero = uint(bitsPerNum), uint(bitsPerValue), int(maxZero)

	numDist, err := readSparseDist(r)

	if err != nil {
		return nil, err
	}

	f.numHuffman, err = huffman.New(numDist)

	if err != nil {
		return nil, err
	}

	if f.hasZeroPadding {
		zDist, err := readSparseDist(r)

		if err != nil {
			return nil, err
		}

		f.zeroCountHuffman, err = huffman.New(zDist)

		if err != nil {
			return nil, err
		}
	}

	return f, nil
}
