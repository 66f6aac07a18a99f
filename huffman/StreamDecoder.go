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

package huffman

import "github.com/pkg/errors"

// ChunkSupplier is the Go analog of the original's
// GtHuffmanDecoderGetMemFunc callback-plus-void*-context pattern: it
// hands the decoder the next window of 64-bit words to decode. words
// may be shorter or longer than any previous call. padBits is the
// number of low-order bits of the LAST word in words that are
// padding, not data (only meaningful for the final chunk the supplier
// will ever return). ok is false once the source is exhausted.
type ChunkSupplier interface {
	NextChunk() (words []uint64, padBits uint, ok bool, err error)
}

// StreamDecoder decodes a sequence of symbols from 64-bit-word chunks
// handed over by a ChunkSupplier, resuming across chunk boundaries.
// Grounded on GtHuffmanDecoder / gt_huffman_decoder_next.
type StreamDecoder struct {
	huffman    *Huffman
	cur        *treeNode
	supplier   ChunkSupplier
	degenerate bool

	words      []uint64
	wordIdx    int
	bitIdx     uint
	padBits    uint
	bitsInWord uint
	exhausted  bool
}

// NewStreamDecoder creates a StreamDecoder and pulls the first chunk
// from supplier.
func NewStreamDecoder(huff *Huffman, supplier ChunkSupplier) (*StreamDecoder, error) {
	if huff == nil || huff.root == nil {
		return nil, errors.New("huffman: cannot create a decoder over an empty tree")
	}

	if supplier == nil {
		return nil, errors.New("huffman: nil chunk supplier")
	}

	this := &StreamDecoder{huffman: huff, cur: huff.root, supplier: supplier, degenerate: huff.root.left == nil}

	if err := this.pullChunk(); err != nil {
		return nil, err
	}

	return this, nil
}

func (this *StreamDecoder) pullChunk() error {
	words, padBits, ok, err := this.supplier.NextChunk()

	if err != nil {
		return errors.Wrap(err, "huffman: chunk supplier failed")
	}

	if !ok {
		this.exhausted = true
		return nil
	}

	this.words = words
	this.wordIdx = 0
	this.bitIdx = 0
	this.padBits = padBits
	this.bitsInWord = wordBitsFor(this.wordIdx, len(this.words), padBits)
	return nil
}

func wordBitsFor(idx, length int, padBits uint) uint {
	if idx == length-1 {
		return 64 - padBits
	}

	return 64
}

// Next decodes up to len(out) symbols, returning how many were
// decoded and whether the supplier is now exhausted. When a chunk runs
// out (mid-symbol or not) the next one is pulled transparently, so
// fewer than len(out) symbols are returned only with done=true or a
// non-nil error.
func (this *StreamDecoder) Next(out []int) (n int, done bool, err error) {
	if len(out) == 0 {
		return 0, false, nil
	}

	for n < len(out) {
		if !this.degenerate && this.cur.left == nil {
			out[n] = this.cur.symbol
			n++
			this.cur = this.huffman.root
			continue
		}

		if this.exhausted && this.bitIdx == this.bitsInWord {
			return n, true, nil
		}

		if this.bitIdx == this.bitsInWord {
			this.wordIdx++

			if this.wordIdx == len(this.words) {
				if err := this.pullChunk(); err != nil {
					return n, false, err
				}

				if this.exhausted {
					return n, true, nil
				}

				continue
			}

			this.bitIdx = 0
			this.bitsInWord = wordBitsFor(this.wordIdx, len(this.words), this.padBits)
			continue
		}

		bit := (this.words[this.wordIdx] >> (63 - this.bitIdx)) & 1
		this.bitIdx++

		// A degenerate single-leaf tree still consumes exactly one bit
		// per symbol (Huffman.buildTree assigns it NumOfBits:1); the
		// bit's value just never steers a descent since there is no
		// second branch to choose.
		if this.degenerate {
			out[n] = this.cur.symbol
			n++
			continue
		}

		if bit != 0 {
			this.cur = this.cur.right
		} else {
			this.cur = this.cur.left
		}
	}

	return n, false, nil
}
