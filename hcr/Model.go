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

// Package hcr (Huffman-Compressed Reads) compresses a FASTQ base and
// quality stream: every (base, quality) pair is folded into one joint
// symbol over an alphabet*qualRange symbol space, Huffman-coded with a
// single tree shared by every read, and sampled for random access the
// same way package encdesc is. Grounded on the original GenomeTools
// hcr.c/hcr.h.
package hcr

import (
	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/huffman"
	"github.com/genomepack/gtc/internal"
	"github.com/genomepack/gtc/iterator"
)

// FileInfo records one input file's contribution to the global read
// numbering: CumulativeReads is the running total of reads through
// (and including) this file, ReadLength the fixed per-read length
// every read in this file must share.
type FileInfo struct {
	CumulativeReads uint64
	ReadLength      uint64
}

// Model is the analyzed joint (base, quality) distribution plus the
// per-file read-length table an Encoder or Decoder needs.
type Model struct {
	alphabet   gtc.Alphabet
	files      []FileInfo
	minQual    byte
	maxQual    byte
	qualOffset byte
	alphaSize  int
	qualRange  int
	jointFreq  []uint64
	huff       *huffman.Huffman
	qminClamp  *byte
	qmaxClamp  *byte
}

// clampQual applies the same clamp Analyze used, so Encoder derives
// the identical symbol for every pair it emits.
func (this *Model) clampQual(q byte) byte {
	return clampQual(q, this.qminClamp, this.qmaxClamp)
}

// NumOfReads returns the total number of reads across every file.
func (this *Model) NumOfReads() uint64 {
	if len(this.files) == 0 {
		return 0
	}

	return this.files[len(this.files)-1].CumulativeReads
}

// Files returns the per-file cumulative-read-count/read-length table.
func (this *Model) Files() []FileInfo {
	return this.files
}

func clampQual(q byte, qminClamp, qmaxClamp *byte) byte {
	if qminClamp != nil && q < *qminClamp {
		return *qminClamp
	}

	if qmaxClamp != nil && q > *qmaxClamp {
		return *qmaxClamp
	}

	return q
}

func jointSymbol(alphaSize, qIdx, baseCode int) int {
	return qIdx*alphaSize + baseCode
}

// Analyze scans every read in files (one slice per input file, in
// file order), verifying every read within a file shares one length,
// clamping qualities to [qminClamp, qmaxClamp] when non-nil, and
// building the joint Huffman distribution over the trimmed quality
// range. Grounded on the analysis pass of hcr.c's encoding entry
// point.
func Analyze(files [][]iterator.Record, alphabet gtc.Alphabet, qminClamp, qmaxClamp *byte) (*Model, error) {
	if len(files) == 0 {
		return nil, errors.Wrap(gtc.ErrEmptyInput, "hcr: no input files")
	}

	alphaSize := alphabet.Size()
	m := &Model{alphabet: alphabet, alphaSize: alphaSize, qminClamp: qminClamp, qmaxClamp: qmaxClamp}

	haveQual := false
	var minQual, maxQual byte
	cumulative := uint64(0)

	for fi, records := range files {
		if len(records) == 0 {
			return nil, errors.Wrapf(gtc.ErrEmptyInput, "hcr: file %d has no reads", fi)
		}

		readLen := len(records[0].Bases)

		for ri, rec := range records {
			if len(rec.Bases) != readLen || len(rec.Qualities) != readLen {
				return nil, errors.Wrapf(gtc.ErrInconsistent, "hcr: file %d read %d length does not match the file's read length", fi, ri)
			}

			for i := 0; i < readLen; i++ {
				q := clampQual(rec.Qualities[i], qminClamp, qmaxClamp)

				if !haveQual {
					minQual, maxQual = q, q
					haveQual = true
				} else if q < minQual {
					minQual = q
				} else if q > maxQual {
					maxQual = q
				}
			}
		}

		cumulative += uint64(len(records))
		m.files = append(m.files, FileInfo{CumulativeReads: cumulative, ReadLength: uint64(readLen)})
	}

	m.minQual, m.maxQual = minQual, maxQual
	m.qualOffset = minQual
	m.qualRange = int(maxQual-minQual) + 1

	var symbols []int

	for _, records := range files {
		for _, rec := range records {
			for i := 0; i < len(rec.Bases); i++ {
				baseCode, err := alphabet.Encode(rec.Bases[i])

				if err != nil {
					return nil, errors.Wrap(err, "hcr: base translation failed")
				}

				q := clampQual(rec.Qualities[i], qminClamp, qmaxClamp)
				qIdx := int(q - m.qualOffset)
				symbols = append(symbols, jointSymbol(alphaSize, qIdx, baseCode))
			}
		}
	}

	freqs := make([]int, m.qualRange*alphaSize)
	internal.ComputeHistogram(symbols, freqs)

	m.jointFreq = make([]uint64, len(freqs))
	dist := make(huffman.DenseDistribution, len(freqs))

	for sym, n := range freqs {
		m.jointFreq[sym] = uint64(n)
		dist[sym] = uint64(n)
	}

	h, err := huffman.New(dist)

	if err != nil {
		return nil, errors.Wrap(err, "hcr: joint huffman construction failed")
	}

	m.huff = h
	return m, nil
}

type leaf struct {
	symbol int
	freq   uint64
}

// leaves returns the non-zero (symbol, freq) pairs in ascending symbol
// order, the form the header persists them in.
func (this *Model) leaves() []leaf {
	out := make([]leaf, 0, len(this.jointFreq))

	for sym, n := range this.jointFreq {
		if n > 0 {
			out = append(out, leaf{symbol: sym, freq: n})
		}
	}

	return out
}

// lookupReadLength returns the read length of the file that read
// globalRead belongs to, mirroring the file-info ordered map's
// next-greater-key lookup on cur_read.
func (this *Model) lookupReadLength(globalRead uint64) (uint64, error) {
	for _, fi := range this.files {
		if globalRead < fi.CumulativeReads {
			return fi.ReadLength, nil
		}
	}

	return 0, errors.Wrap(gtc.ErrOutOfRange, "hcr: read index past the last file")
}
