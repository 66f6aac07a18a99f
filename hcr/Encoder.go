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

	"github.com/pkg/errors"

	"github.com/genomepack/gtc/bitstream"
	"github.com/genomepack/gtc/iterator"
	"github.com/genomepack/gtc/sampling"
)

// Encoder writes an analyzed Model plus the bit-packed per-read
// payload to a file, sampling periodically for random access.
// Grounded on the encoding pass of hcr.c.
type Encoder struct {
	samplingRate uint64
	pageSampling bool
}

// NewEncoder creates an Encoder. samplingRate of 0 disables periodic
// resampling (only read 0 is ever a sample); pageSampling selects
// Page-mode sampling over Regular.
func NewEncoder(samplingRate uint64, pageSampling bool) *Encoder {
	return &Encoder{samplingRate: samplingRate, pageSampling: pageSampling}
}

// Encode writes m's header, then the bit-packed joint-symbol encoding
// of every read in files (which must be the same reads m.Analyze was
// built from, in the same order), to file.
func (this *Encoder) Encode(m *Model, files [][]iterator.Record, file *os.File) error {
	trailerPos, err := writeHeader(file, m)

	if err != nil {
		return errors.Wrap(err, "hcr: write header failed")
	}

	bitOut, err := bitstream.NewBitOutStream(file)

	if err != nil {
		return err
	}

	startPos, err := bitOut.FlushAdvance()

	if err != nil {
		return errors.Wrap(err, "hcr: align to page boundary failed")
	}

	numOfReads := m.NumOfReads()
	rate := this.samplingRate

	if rate == 0 {
		rate = numOfReads + 1
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

	pageBits := uint64(os.Getpagesize()) * 8
	bitsLeftInPage := pageBits
	pageCounter := uint64(0)
	globalRead := uint64(0)
	elementsSinceSample := uint64(0)

	for _, records := range files {
		for _, rec := range records {
			readBits := this.countBits(m, rec)

			if globalRead != 0 {
				elementsSinceSample++
			}

			sample := globalRead != 0 && samp.IsNextElementSample(pageCounter, elementsSinceSample, readBits, bitsLeftInPage)

			if sample {
				if _, err := bitOut.FlushAdvance(); err != nil {
					return err
				}

				pos, err := file.Seek(0, os.SEEK_CUR)

				if err != nil {
					return err
				}

				if err := samp.AddSample(uint64(pos), globalRead); err != nil {
					return err
				}

				pageCounter = 0
				bitsLeftInPage = pageBits
				elementsSinceSample = 0
			}

			for i := 0; i < len(rec.Bases); i++ {
				baseCode, err := m.alphabet.Encode(rec.Bases[i])

				if err != nil {
					return err
				}

				qIdx := int(m.clampQual(rec.Qualities[i]) - m.qualOffset)
				sym := jointSymbol(m.alphaSize, qIdx, baseCode)
				code, err := m.huff.Encode(sym)

				if err != nil {
					return err
				}

				bitOut.WriteBits(code.Bits, code.NumOfBits)
			}

			if !sample {
				for bitsLeftInPage < readBits {
					pageCounter++
					readBits -= bitsLeftInPage
					bitsLeftInPage = pageBits
				}

				bitsLeftInPage -= readBits

				if pageCounter == 0 {
					pageCounter++
				}
			}

			globalRead++
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

	return patchTrailer(file, trailerPos, tableOffset)
}

// countBits sums the huffman code length of every (base, quality) pair
// in rec, without writing anything, so Encode can ask Sampling whether
// this read should become a new sample before committing any bits.
func (this *Encoder) countBits(m *Model, rec iterator.Record) uint64 {
	var bits uint64

	for i := 0; i < len(rec.Bases); i++ {
		baseCode, err := m.alphabet.Encode(rec.Bases[i])

		if err != nil {
			continue
		}

		qIdx := int(m.clampQual(rec.Qualities[i]) - m.qualOffset)
		sym := jointSymbol(m.alphaSize, qIdx, baseCode)

		if code, err := m.huff.Encode(sym); err == nil {
			bits += uint64(code.NumOfBits)
		}
	}

	return bits
}
