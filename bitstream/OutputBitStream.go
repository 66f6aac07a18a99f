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

// Package bitstream implements the word-packed bit I/O shared by
// encdesc and hcr: a writer that packs bits MSB-first into
// fixed-width words and flushes page-aligned so the result can later
// be random-access read with mmap, and a reader that maps windows of
// the backing file directly into memory.
//
// Grounded on the teacher's bitstream/DefaultOutputBitStream.go /
// DefaultInputBitStream.go for the Go idiom (word buffer + availBits
// bookkeeping, New*-constructor-returns-(*T,error), WriteBits/ReadBits
// shape) and on the original GenomeTools bitoutstream.c / bitinstream.c
// for the exact packing and page-alignment semantics this domain
// requires, which differ from the teacher's own buffered (non-mmap)
// approach.
package bitstream

import (
	"os"

	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
)

const wordSize = 64

// BitOutStream packs bits MSB-first into 64-bit words and writes
// whole words to the backing file. Call FlushAdvance to pad the
// current word and seek forward to the next OS page boundary, which
// is what lets BitInStream later mmap starting at that offset.
type BitOutStream struct {
	file       *os.File
	buffer     uint64
	bitsLeft   uint
	written    uint64
	pageSize   int64
	closed     bool
}

// NewBitOutStream creates a BitOutStream writing to file, which must
// be open for writing and positioned at the offset writes should
// start at (typically 0, or a prior FlushAdvance position).
func NewBitOutStream(file *os.File) (*BitOutStream, error) {
	if file == nil {
		return nil, errors.New("bitstream: nil file")
	}

	return &BitOutStream{
		file:     file,
		bitsLeft: wordSize,
		pageSize: int64(os.Getpagesize()),
	}, nil
}

// WriteBit writes the least significant bit of bit.
func (this *BitOutStream) WriteBit(bit int) {
	this.WriteBits(uint64(bit&1), 1)
}

// WriteBits writes the 'length' (1..64) least significant bits of
// bits, MSB-first, packing across word boundaries the way
// gt_bitoutstream_append does.
func (this *BitOutStream) WriteBits(bits uint64, length uint) uint {
	if this.closed {
		panic("bitstream: stream closed")
	}

	if length == 0 || length > 64 {
		panic("bitstream: length must be in [1, 64]")
	}

	if length < 64 {
		bits &= (uint64(1) << length) - 1
	}

	this.appendRightJustified(bits, length)
	return length
}

// appendRightJustified mirrors gt_bitoutstream_append(bitstream, code,
// bits_to_write) exactly: code's low 'bitsToWrite' bits are the
// payload, bitsLeft counts down from wordSize for the current word.
func (this *BitOutStream) appendRightJustified(code uint64, bitsToWrite uint) {
	if bitsToWrite == 0 {
		return
	}

	if this.bitsLeft < bitsToWrite {
		overhang := bitsToWrite - this.bitsLeft
		this.buffer |= code >> overhang
		this.flushWord()
		this.bitsLeft = wordSize - overhang
	} else {
		this.bitsLeft -= bitsToWrite
	}

	this.buffer |= code << this.bitsLeft
}

func (this *BitOutStream) flushWord() {
	var buf [8]byte
	putUint64LE(buf[:], this.buffer)

	if _, err := this.file.Write(buf[:]); err != nil {
		panic(errors.Wrap(err, "bitstream: write failed"))
	}

	this.buffer = 0
	this.written += wordSize
}

// WriteArray writes 'length' bits out of bits (MSB-first within each
// byte), one bit at a time, matching gt_bitoutstream_append_bittab.
func (this *BitOutStream) WriteArray(bits []byte, length uint) uint {
	n := uint(0)

	for n < length {
		byteIdx := n / 8
		bitIdx := 7 - (n % 8)
		bit := (bits[byteIdx] >> bitIdx) & 1
		this.WriteBit(int(bit))
		n++
	}

	return length
}

// FlushAdvance flushes the partially-filled current word (zero
// padded) and, if the file is not already at a page boundary, seeks
// forward to the next one. Returns the bit position reached (always
// a multiple of 8*PageSize after the seek). Mirrors
// gt_bitoutstream_flush_advance.
func (this *BitOutStream) FlushAdvance() (uint64, error) {
	this.flushPartial()

	pos, err := this.file.Seek(0, os.SEEK_CUR)

	if err != nil {
		return 0, errors.Wrap(err, "bitstream: seek failed")
	}

	if pos%this.pageSize != 0 {
		next := (pos/this.pageSize + 1) * this.pageSize

		if _, err := this.file.Seek(next, os.SEEK_SET); err != nil {
			return 0, errors.Wrap(err, "bitstream: seek to page boundary failed")
		}

		pos = next
	}

	return uint64(pos) * 8, nil
}

func (this *BitOutStream) flushPartial() {
	if this.bitsLeft == wordSize {
		return
	}

	var buf [8]byte
	putUint64LE(buf[:], this.buffer)

	if _, err := this.file.Write(buf[:]); err != nil {
		panic(errors.Wrap(err, "bitstream: flush failed"))
	}

	this.written += wordSize - this.bitsLeft
	this.buffer = 0
	this.bitsLeft = wordSize
}

// Close flushes any remaining bits and prevents further writes.
func (this *BitOutStream) Close() error {
	if this.closed {
		return nil
	}

	this.flushPartial()
	this.closed = true
	return nil
}

// Written returns the number of bits written so far.
func (this *BitOutStream) Written() uint64 {
	return this.written
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

var _ gtc.OutputBitStream = (*BitOutStream)(nil)
