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

package bitstream

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/genomepack/gtc"
)

// BitInStream reads bits MSB-first from a read-only memory mapping of
// a window of the backing file, remapping forward as the cursor
// advances past the mapped window. Grounded on gt_bitinstream_new /
// gt_bitinstream_reinit / gt_bitinstream_get_next_bit.
type BitInStream struct {
	file        *os.File
	fileSize    int64
	pageSize    int64
	pagesPerMap int64
	windowLen   int64 // bytes currently mapped

	mapping  []byte
	curPage  int64 // file offset of the start of 'mapping'
	curWord  int64 // index into mapping, in 8-byte words
	curBit   uint  // 0..64, next bit to read within mapping word curWord (64: word used up)
	read     uint64
	closed   bool
}

// NewBitInStream opens file for mmap-backed reading, mapping
// pagesToMap OS pages (or fewer, clamped to the file size) starting
// at byte offset (which must be page-aligned).
func NewBitInStream(file *os.File, offset int64, pagesToMap int64) (*BitInStream, error) {
	if file == nil {
		return nil, errors.New("bitstream: nil file")
	}

	if pagesToMap <= 0 {
		pagesToMap = 1
	}

	info, err := file.Stat()

	if err != nil {
		return nil, errors.Wrap(err, "bitstream: stat failed")
	}

	this := &BitInStream{
		file:        file,
		fileSize:    info.Size(),
		pageSize:    int64(os.Getpagesize()),
		pagesPerMap: pagesToMap,
	}

	if this.fileSize < pagesToMap*this.pageSize {
		this.pagesPerMap = this.fileSize/this.pageSize + 1
	}

	if err := this.Reinit(uint64(offset) * 8); err != nil {
		return nil, err
	}

	return this, nil
}

// Reinit repositions the stream at the given absolute bit offset,
// which must land on a page boundary (the boundary gt_bitinstream_reinit
// requires), remapping the backing window starting there.
func (this *BitInStream) Reinit(bitPos uint64) error {
	offset := int64(bitPos / 8)

	if offset >= this.fileSize {
		return errors.Wrapf(gtc.ErrOutOfRange, "bitstream: offset %d beyond file size %d", offset, this.fileSize)
	}

	if offset%this.pageSize != 0 {
		return errors.Wrap(gtc.ErrOutOfRange, "bitstream: reinit offset must be page-aligned")
	}

	if this.mapping != nil {
		if err := unix.Munmap(this.mapping); err != nil {
			return errors.Wrap(err, "bitstream: munmap failed")
		}

		this.mapping = nil
	}

	windowBytes := this.pagesPerMap * this.pageSize

	if offset+windowBytes > this.fileSize {
		windowBytes = this.fileSize - offset
	}

	mapping, err := unix.Mmap(int(this.file.Fd()), offset, int(windowBytes), unix.PROT_READ, unix.MAP_SHARED)

	if err != nil {
		return errors.Wrap(err, "bitstream: mmap failed")
	}

	this.mapping = mapping
	this.windowLen = windowBytes
	this.curPage = offset
	this.curWord = 0
	this.curBit = 0

	return nil
}

func (this *BitInStream) wordAt(idx int64) uint64 {
	base := idx * 8
	var v uint64

	for i := int64(0); i < 8 && base+i < int64(len(this.mapping)); i++ {
		v |= uint64(this.mapping[base+i]) << (8 * uint(i))
	}

	return v
}

func (this *BitInStream) bufferLength() int64 {
	return this.windowLen / 8
}

// ReadBit returns the next bit in the stream. Panics on EOS or I/O
// error, matching the interface contract shared with OutputBitStream.
func (this *BitInStream) ReadBit() int {
	if this.closed {
		panic(errors.New("bitstream: stream closed"))
	}

	if this.curBit == wordSize {
		if this.curWord < this.bufferLength()-1 {
			this.curBit = 0
			this.curWord++
		} else {
			nextPage := this.curPage + this.pagesPerMap*this.pageSize

			if this.fileSize <= nextPage {
				panic(errors.Wrap(gtc.ErrTruncatedStream, "bitstream: read past end of stream"))
			}

			if err := this.Reinit(uint64(nextPage) * 8); err != nil {
				panic(err)
			}
		}
	}

	word := this.wordAt(this.curWord)
	bit := int((word >> (wordSize - 1 - this.curBit)) & 1)
	this.curBit++
	this.read++
	return bit
}

// ReadBits reads 'length' (1..64) bits, MSB-first, and returns them
// right-justified in the result.
func (this *BitInStream) ReadBits(length uint) uint64 {
	if length == 0 || length > 64 {
		panic("bitstream: length must be in [1, 64]")
	}

	var v uint64

	for i := uint(0); i < length; i++ {
		v = (v << 1) | uint64(this.ReadBit())
	}

	return v
}

// ReadArray reads 'length' bits into bits (MSB-first within each
// byte) and returns the number of bits read.
func (this *BitInStream) ReadArray(bits []byte, length uint) uint {
	n := uint(0)

	for n < length {
		bit := this.ReadBit()
		byteIdx := n / 8
		bitIdx := 7 - (n % 8)

		if bit != 0 {
			bits[byteIdx] |= 1 << bitIdx
		} else {
			bits[byteIdx] &^= 1 << bitIdx
		}

		n++
	}

	return length
}

// Read returns the number of bits read so far.
func (this *BitInStream) Read() uint64 {
	return this.read
}

// HasMoreToRead reports whether at least one more bit can be read.
func (this *BitInStream) HasMoreToRead() (bool, error) {
	if this.closed {
		return false, errors.New("bitstream: stream closed")
	}

	if this.curBit < wordSize && this.curWord < this.bufferLength() {
		return true, nil
	}

	if this.curWord < this.bufferLength()-1 {
		return true, nil
	}

	nextPage := this.curPage + this.pagesPerMap*this.pageSize
	return this.fileSize > nextPage, nil
}

// Close unmaps the backing window and makes the stream unavailable
// for further reads.
func (this *BitInStream) Close() error {
	if this.closed {
		return nil
	}

	this.closed = true

	if this.mapping != nil {
		err := unix.Munmap(this.mapping)
		this.mapping = nil
		return err
	}

	return nil
}

var _ gtc.InputBitStream = (*BitInStream)(nil)
