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

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/bitstream"
	"github.com/genomepack/gtc/encdesc"
	"github.com/genomepack/gtc/huffman"
	"github.com/genomepack/gtc/sampling"
)

// Decoder loads an hcr Model plus its sampling index from a file
// written by Encoder, and reconstructs individual reads by replaying
// joint-symbol codes from the nearest sample forward. Grounded on the
// decoding side of hcr.c.
type Decoder struct {
	file *os.File
	m    *Model
	samp *sampling.Sampling
	desc *encdesc.Decoder
}

// Open reads the header and sampling table from file, leaving the
// Decoder ready to serve Decode calls. alphabet must match the one
// Encode was built with.
func Open(file *os.File, alphabet gtc.Alphabet) (*Decoder, error) {
	m, tableOffset, err := readHeader(file, alphabet)

	if err != nil {
		return nil, errors.Wrap(err, "hcr: read header failed")
	}

	if _, err := file.Seek(tableOffset, os.SEEK_SET); err != nil {
		return nil, err
	}

	samp, err := sampling.Read(file)

	if err != nil {
		return nil, errors.Wrap(err, "hcr: read sampling table failed")
	}

	return &Decoder{file: file, m: m, samp: samp}, nil
}

// AttachEncdesc associates a description decoder with this read
// decoder so Decode also returns the description at the same index,
// mirroring hcr_decode's optional parallel encdesc_decode call.
func (this *Decoder) AttachEncdesc(desc *encdesc.Decoder) {
	this.desc = desc
}

// NumOfReads returns the total number of reads across every file this
// hcr stream was built from.
func (this *Decoder) NumOfReads() uint64 {
	return this.m.NumOfReads()
}

// Decode reconstructs the bases, qualities and (if an Encdesc is
// attached) description for read n.
func (this *Decoder) Decode(n int) (bases, qualities, desc string, err error) {
	if n < 0 || uint64(n) >= this.m.NumOfReads() {
		return "", "", "", errors.Wrap(gtc.ErrOutOfRange, "hcr: read index out of range")
	}

	sampledElem, samplePos, err := this.samp.GetPage(uint64(n))

	if err != nil {
		return "", "", "", err
	}

	in, err := bitstream.NewBitInStream(this.file, int64(samplePos), 1)

	if err != nil {
		return "", "", "", err
	}

	defer in.Close()

	for r := sampledElem; r <= uint64(n); r++ {
		length, err := this.m.lookupReadLength(r)

		if err != nil {
			return "", "", "", err
		}

		bases, qualities, err = decodeOneRead(in, this.m, length)

		if err != nil {
			return "", "", "", err
		}
	}

	if this.desc != nil {
		desc, err = this.desc.Decode(n)

		if err != nil {
			return "", "", "", err
		}
	}

	return bases, qualities, desc, nil
}

// DecodedRead is one formatted FASTQ record returned by DecodeRange.
type DecodedRead struct {
	Bases     string
	Qualities string
	Desc      string
}

// DecodeRange sequentially decodes every read in [start, end], the
// FASTQ-range formatting helper hcr.c's own CLI builds on decode for.
func (this *Decoder) DecodeRange(start, end int) ([]DecodedRead, error) {
	if start < 0 || end < start || uint64(end) >= this.m.NumOfReads() {
		return nil, errors.Wrap(gtc.ErrOutOfRange, "hcr: invalid decode range")
	}

	out := make([]DecodedRead, 0, end-start+1)

	for i := start; i <= end; i++ {
		bases, qualities, desc, err := this.Decode(i)

		if err != nil {
			return nil, err
		}

		out = append(out, DecodedRead{Bases: bases, Qualities: qualities, Desc: desc})
	}

	return out, nil
}

// decodeOneRead decodes length joint symbols from in and unpacks each
// into its (base, quality) pair, translating the base back through
// the alphabet (with the wildcard mapped back from alphaSize-1).
func decodeOneRead(in *bitstream.BitInStream, m *Model, length uint64) (bases, qualities string, err error) {
	baseBuf := make([]byte, length)
	qualBuf := make([]byte, length)

	for i := uint64(0); i < length; i++ {
		sym, err := decodeHuffmanSymbol(in, m.huff)

		if err != nil {
			return "", "", err
		}

		qIdx := sym / m.alphaSize
		baseCode := sym % m.alphaSize

		baseChar, err := m.alphabet.Decode(baseCode)

		if err != nil {
			return "", "", err
		}

		baseBuf[i] = baseChar
		qualBuf[i] = m.qualOffset + byte(qIdx)
	}

	return string(baseBuf), string(qualBuf), nil
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
