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

// Package gtc defines the top level interfaces shared by the genome
// compression engines (encdesc, hcr) and their supporting codecs
// (bitstream, huffman, sampling, rbtree).
//
// The implementations of these interfaces live in sub-packages:
// bitstream for bit-level I/O, huffman for entropy coding, rbtree for
// the ordered-container/priority-queue primitive, sampling for the
// random access index, and alphabet/iterator for the external
// collaborators that feed records into encdesc and hcr.
package gtc

// InputBitStream is a bitstream reader, backed by a read-only memory
// mapping so that a decoder can seek to an arbitrary bit offset
// without re-reading everything before it.
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream. Panics if closed or EOS is reached.
	ReadBit() int

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
	// Returns the bits read as a uint64.
	// Panics if closed or EOS is reached.
	ReadBits(length uint) uint64

	// ReadArray reads 'length' bits from the bitstream and puts them in the byte slice.
	// Returns the number of bits read.
	// Panics if closed or EOS is reached.
	ReadArray(bits []byte, length uint) uint

	// Reinit repositions the stream at the given absolute bit offset,
	// remapping the backing window if needed.
	Reinit(bitPos uint64) error

	// Close makes the bitstream unavailable for further reads, unmapping
	// any backing memory.
	Close() error

	// Read returns the number of bits read so far.
	Read() uint64

	// HasMoreToRead returns false when the bitstream is closed or EOS has been reached.
	HasMoreToRead() (bool, error)
}

// OutputBitStream is a bitstream writer. Writes are packed MSB-first
// into fixed-width words, each written to the backing writer as soon
// as it is full, so that the result can later be read back with mmap.
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	// Panics if closed or an IO error is received.
	WriteBit(bit int)

	// WriteBits writes the least significant bits of 'bits' to the bitstream.
	// Length is the number of bits to write (in [1..64]).
	// Returns the number of bits written.
	// Panics if closed or an IO error is received.
	WriteBits(bits uint64, length uint) uint

	// WriteArray writes bits out of the byte slice. Length is the number of bits.
	// Returns the number of bits written.
	// Panics if closed or an IO error is received.
	WriteArray(bits []byte, length uint) uint

	// FlushAdvance writes out the partially filled current word, moves
	// the backing writer forward to the next page boundary and returns
	// the resulting bit position, used by callers (sampling) that need
	// page-aligned offsets for random access.
	FlushAdvance() (uint64, error)

	// Close flushes any remaining bits and makes the bitstream unavailable
	// for further writes.
	Close() error

	// Written returns the number of bits written.
	Written() uint64
}

// Alphabet translates between raw source symbols (e.g. nucleotide
// bytes) and the dense [0..Size()) symbol space the entropy coders
// operate on. It is an external collaborator: gtc only depends on
// this narrow contract, not on any particular genomics alphabet
// library.
type Alphabet interface {
	// Size returns the number of symbols in the alphabet, including
	// any wildcard symbol.
	Size() int

	// Encode maps a raw byte to a dense symbol index in [0, Size()).
	// Returns an error if the byte is not part of the alphabet.
	Encode(b byte) (int, error)

	// Decode maps a dense symbol index back to its raw byte.
	Decode(sym int) (byte, error)

	// Wildcard reports whether this alphabet has a sentinel used for
	// symbols outside its normal range (e.g. 'N' for nucleotides), and
	// its dense index if so.
	Wildcard() (int, bool)
}

// StringIterator is the minimal external collaborator a caller must
// supply to drive encdesc: a forward-only stream of description
// lines.
type StringIterator interface {
	// Next returns the next string and true, or "" and false when
	// exhausted. Returns an error if the underlying source failed.
	Next() (string, bool, error)
}

// RecordIterator is the minimal external collaborator a caller must
// supply to drive hcr: a forward-only stream of (bases, qualities)
// read pairs, one per FASTQ/FASTA record.
type RecordIterator interface {
	// Next returns the next record's bases and quality string (equal
	// length) and true, or "", "", false when exhausted.
	Next() (bases string, qualities string, ok bool, err error)
}
