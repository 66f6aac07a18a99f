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
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/huffman"
)

// writeHeader writes the fixed layout of §6.1: file table, leaf
// table, then a reserved 8-byte slot for start_of_samplingtab. It
// returns the absolute byte offset of that slot so Encoder can patch
// it once the sampling table's real position is known.
func writeHeader(file *os.File, m *Model) (trailerPos int64, err error) {
	if err := binary.Write(file, binary.LittleEndian, uint64(len(m.files))); err != nil {
		return 0, err
	}

	for _, fi := range m.files {
		if err := binary.Write(file, binary.LittleEndian, fi.CumulativeReads); err != nil {
			return 0, err
		}

		if err := binary.Write(file, binary.LittleEndian, fi.ReadLength); err != nil {
			return 0, err
		}
	}

	leaves := m.leaves()

	if err := binary.Write(file, binary.LittleEndian, uint64(len(leaves))); err != nil {
		return 0, err
	}

	for _, l := range leaves {
		qIdx := l.symbol / m.alphaSize
		baseCode := l.symbol % m.alphaSize

		baseChar, err := m.alphabet.Decode(baseCode)

		if err != nil {
			return 0, err
		}

		qualChar := m.qualOffset + byte(qIdx)

		if err := binary.Write(file, binary.LittleEndian, baseChar); err != nil {
			return 0, err
		}

		if err := binary.Write(file, binary.LittleEndian, qualChar); err != nil {
			return 0, err
		}

		if err := binary.Write(file, binary.LittleEndian, l.freq); err != nil {
			return 0, err
		}
	}

	trailerPos, err = file.Seek(0, os.SEEK_CUR)

	if err != nil {
		return 0, err
	}

	if err := binary.Write(file, binary.LittleEndian, int64(0)); err != nil {
		return 0, err
	}

	return trailerPos, nil
}

// patchTrailer overwrites the reserved start_of_samplingtab slot at
// trailerPos, restoring the file position to its previous location
// (the end of the sampling table) afterwards.
func patchTrailer(file *os.File, trailerPos, tableOffset int64) error {
	cur, err := file.Seek(0, os.SEEK_CUR)

	if err != nil {
		return err
	}

	if _, err := file.Seek(trailerPos, os.SEEK_SET); err != nil {
		return err
	}

	if err := binary.Write(file, binary.LittleEndian, tableOffset); err != nil {
		return err
	}

	_, err = file.Seek(cur, os.SEEK_SET)
	return err
}

// readHeader parses the layout writeHeader produced, rebuilding the
// joint huffman tree from the persisted leaves (deterministic given
// identical frequencies, so no code table needs to travel on the
// wire), and returns the byte offset of the sampling table.
func readHeader(file *os.File, alphabet gtc.Alphabet) (*Model, int64, error) {
	m := &Model{alphabet: alphabet, alphaSize: alphabet.Size()}

	var numOfFiles uint64

	if err := binary.Read(file, binary.LittleEndian, &numOfFiles); err != nil {
		return nil, 0, err
	}

	m.files = make([]FileInfo, numOfFiles)

	for i := range m.files {
		if err := binary.Read(file, binary.LittleEndian, &m.files[i].CumulativeReads); err != nil {
			return nil, 0, err
		}

		if err := binary.Read(file, binary.LittleEndian, &m.files[i].ReadLength); err != nil {
			return nil, 0, err
		}
	}

	var numOfLeaves uint64

	if err := binary.Read(file, binary.LittleEndian, &numOfLeaves); err != nil {
		return nil, 0, err
	}

	haveQual := false
	var minQual, maxQual byte

	type rawLeaf struct {
		baseChar, qualChar byte
		freq               uint64
	}

	raw := make([]rawLeaf, numOfLeaves)

	for i := range raw {
		if err := binary.Read(file, binary.LittleEndian, &raw[i].baseChar); err != nil {
			return nil, 0, err
		}

		if err := binary.Read(file, binary.LittleEndian, &raw[i].qualChar); err != nil {
			return nil, 0, err
		}

		if err := binary.Read(file, binary.LittleEndian, &raw[i].freq); err != nil {
			return nil, 0, err
		}

		q := raw[i].qualChar

		if !haveQual {
			minQual, maxQual = q, q
			haveQual = true
		} else {
			if q < minQual {
				minQual = q
			}

			if q > maxQual {
				maxQual = q
			}
		}
	}

	m.minQual, m.maxQual = minQual, maxQual
	m.qualOffset = minQual
	m.qualRange = int(maxQual-minQual) + 1

	if numOfLeaves == 0 {
		m.qualRange = 1
	}

	dist := make(huffman.DenseDistribution, m.qualRange*m.alphaSize)

	for _, l := range raw {
		baseCode, err := alphabet.Encode(l.baseChar)

		if err != nil {
			return nil, 0, err
		}

		qIdx := int(l.qualChar - m.qualOffset)
		sym := jointSymbol(m.alphaSize, qIdx, baseCode)
		dist[sym] = l.freq
	}

	m.jointFreq = make([]uint64, len(dist))
	copy(m.jointFreq, dist)

	h, err := huffman.New(dist)

	if err != nil {
		return nil, 0, errors.Wrap(err, "hcr: joint huffman reconstruction failed")
	}

	m.huff = h

	var tableOffset int64

	if err := binary.Read(file, binary.LittleEndian, &tableOffset); err != nil {
		return nil, 0, err
	}

	return m, tableOffset, nil
}
