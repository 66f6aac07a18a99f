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

package gtc

import "errors"

// Sentinel errors returned (and wrapped with github.com/pkg/errors by
// callers) by the bitstream, huffman, sampling, encdesc and hcr
// packages.
var (
	// ErrTruncatedStream is returned when a read runs past the end of
	// the backing mapping before the expected number of bits/records
	// has been consumed.
	ErrTruncatedStream = errors.New("gtc: truncated stream")

	// ErrOutOfRange is returned when a requested index or bit length
	// falls outside the bounds the data structure can represent.
	ErrOutOfRange = errors.New("gtc: value out of range")

	// ErrEmptyInput is returned when an operation that requires at
	// least one symbol or record is given none (e.g. building a
	// Huffman tree over an empty alphabet).
	ErrEmptyInput = errors.New("gtc: empty input")

	// ErrInconsistent is returned when a decoded structure fails an
	// internal consistency check, such as a checksum mismatch or a
	// symbol produced by a tree traversal that has no corresponding
	// alphabet entry.
	ErrInconsistent = errors.New("gtc: inconsistent data")
)
