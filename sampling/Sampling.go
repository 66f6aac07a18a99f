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

// Package sampling implements the random access index shared by
// encdesc and hcr: a table mapping every Nth element (Regular mode)
// or every page-boundary-crossing element (Page mode) to the byte
// offset its encoding starts at. Grounded on the original
// GenomeTools sampling.c.
package sampling

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
)

// Method selects how samples are triggered.
type Method uint8

const (
	// Regular samples every Rate-th element, by element count.
	Regular Method = 0
	// Page samples whenever at least Rate pages have been written and
	// the next element would not fit in the remaining page space.
	Page Method = 1
)

// Sampling is an append-only, then read-only, random access index.
type Sampling struct {
	method       Method
	rate         uint64
	samplingTab  []uint64 // byte offset of sample i
	pageSampling []uint64 // element number of sample i, Page mode only

	curSampleNum        int
	curSampleElementNum uint64
}

// NewRegular creates a Regular-mode index whose first sample is at
// element 0, byte offset firstOffset.
func NewRegular(rate uint64, firstOffset uint64) (*Sampling, error) {
	if rate == 0 {
		return nil, errors.Wrap(gtc.ErrOutOfRange, "sampling: rate must be non-zero")
	}

	return &Sampling{
		method:      Regular,
		rate:        rate,
		samplingTab: []uint64{firstOffset},
	}, nil
}

// NewPage creates a Page-mode index whose first sample is at element
// 0, byte offset firstOffset.
func NewPage(rate uint64, firstOffset uint64) (*Sampling, error) {
	if rate == 0 {
		return nil, errors.Wrap(gtc.ErrOutOfRange, "sampling: rate must be non-zero")
	}

	return &Sampling{
		method:       Page,
		rate:         rate,
		samplingTab:  []uint64{firstOffset},
		pageSampling: []uint64{0},
	}, nil
}

// IsRegular reports whether this index uses Regular mode.
func (this *Sampling) IsRegular() bool {
	return this.method == Regular
}

// Rate returns the configured sampling rate.
func (this *Sampling) Rate() uint64 {
	return this.rate
}

// NumOfSamples returns the number of recorded samples.
func (this *Sampling) NumOfSamples() int {
	return len(this.samplingTab)
}

// AddSample records a new sample at the given byte position.
// elementNum is the element index the sample corresponds to; in
// Regular mode it must be a multiple of Rate.
func (this *Sampling) AddSample(position uint64, elementNum uint64) error {
	if this.method == Regular && elementNum%this.rate != 0 {
		return errors.Wrap(gtc.ErrInconsistent, "sampling: regular sample element number must be a multiple of rate")
	}

	this.samplingTab = append(this.samplingTab, position)

	if this.method == Page {
		this.pageSampling = append(this.pageSampling, elementNum)
	}

	return nil
}

// IsNextElementSample reports whether the next element written
// should become a new sample, mirroring
// gt_sampling_is_next_element_sample.
func (this *Sampling) IsNextElementSample(pagesWritten, elementsWritten, elemBitSize, freePagespaceBitsize uint64) bool {
	if this.method == Regular {
		return elementsWritten >= this.rate
	}

	if pagesWritten >= this.rate {
		return freePagespaceBitsize < elemBitSize
	}

	return false
}

// GetPage returns the sampled element number at or before elementNum,
// and the byte offset that sample starts at. Regular mode divides
// directly; Page mode binary-searches pageSampling, mirroring
// get_regular_page / get_pagewise_page.
func (this *Sampling) GetPage(elementNum uint64) (sampledElement uint64, position uint64, err error) {
	if len(this.samplingTab) == 0 {
		return 0, 0, errors.Wrap(gtc.ErrEmptyInput, "sampling: no samples recorded")
	}

	if this.method == Regular {
		this.curSampleNum = int(elementNum / this.rate)

		if this.curSampleNum >= len(this.samplingTab) {
			return 0, 0, errors.Wrap(gtc.ErrOutOfRange, "sampling: element number beyond recorded samples")
		}

		this.curSampleElementNum = uint64(this.curSampleNum) * this.rate
		return this.curSampleElementNum, this.samplingTab[this.curSampleNum], nil
	}

	start, end := -1, len(this.pageSampling)
	middle := end / 2

	for end-start > 1 {
		if elementNum < this.pageSampling[middle] {
			end = middle
		} else {
			start = middle
		}

		middle = start + (end-start)/2
	}

	if middle < 0 {
		middle = 0
	}

	this.curSampleNum = middle
	this.curSampleElementNum = this.pageSampling[middle]
	return this.curSampleElementNum, this.samplingTab[middle], nil
}

// GetCurrentElementNum returns the element number of the most recent
// GetPage/NextSample result.
func (this *Sampling) GetCurrentElementNum() uint64 {
	return this.curSampleElementNum
}

// NextSample advances to the next sample in table order, wrapping
// back to the first sample after the last. Returns the element
// number and byte offset of the new current sample, and false once
// wrapped.
func (this *Sampling) NextSample() (sampledElement uint64, position uint64, ok bool) {
	if this.curSampleNum+1 == len(this.samplingTab) {
		this.curSampleNum = 0
		this.curSampleElementNum = 0
		return 0, this.samplingTab[0], false
	}

	this.curSampleNum++

	if this.method == Regular {
		this.curSampleElementNum += this.rate
	} else {
		this.curSampleElementNum = this.pageSampling[this.curSampleNum]
	}

	return this.curSampleElementNum, this.samplingTab[this.curSampleNum], true
}

// Write serializes the index: numOfSamples, method, rate,
// samplingTab[], then pageSampling[] if Page mode, followed by an
// xxhash64 checksum over everything written before it — a behavior
// the original left as a "TODO: add checksums for data" in
// sampling.c, which this implements (see SPEC_FULL.md Supplemented
// Features).
func (this *Sampling) Write(w io.Writer) error {
	if len(this.samplingTab) == 0 {
		return errors.Wrap(gtc.ErrEmptyInput, "sampling: cannot write an index with no samples")
	}

	digest := xxhash.New()
	mw := io.MultiWriter(w, digest)

	if err := binary.Write(mw, binary.LittleEndian, uint64(len(this.samplingTab))); err != nil {
		return errors.Wrap(err, "sampling: write numOfSamples failed")
	}

	if err := binary.Write(mw, binary.LittleEndian, this.method); err != nil {
		return errors.Wrap(err, "sampling: write method failed")
	}

	if err := binary.Write(mw, binary.LittleEndian, this.rate); err != nil {
		return errors.Wrap(err, "sampling: write rate failed")
	}

	if err := binary.Write(mw, binary.LittleEndian, this.samplingTab); err != nil {
		return errors.Wrap(err, "sampling: write samplingTab failed")
	}

	if this.method == Page {
		if err := binary.Write(mw, binary.LittleEndian, this.pageSampling); err != nil {
			return errors.Wrap(err, "sampling: write pageSampling failed")
		}
	}

	if err := binary.Write(w, binary.LittleEndian, digest.Sum64()); err != nil {
		return errors.Wrap(err, "sampling: write checksum failed")
	}

	return nil
}

// Read deserializes an index written by Write, verifying the
// trailing checksum.
func Read(r io.Reader) (*Sampling, error) {
	digest := xxhash.New()
	tr := io.TeeReader(r, digest)

	var numOfSamples uint64

	if err := binary.Read(tr, binary.LittleEndian, &numOfSamples); err != nil {
		return nil, errors.Wrap(err, "sampling: read numOfSamples failed")
	}

	if numOfSamples == 0 {
		return nil, errors.Wrap(gtc.ErrInconsistent, "sampling: numOfSamples must be non-zero")
	}

	this := &Sampling{}

	if err := binary.Read(tr, binary.LittleEndian, &this.method); err != nil {
		return nil, errors.Wrap(err, "sampling: read method failed")
	}

	if this.method != Regular && this.method != Page {
		return nil, errors.Wrap(gtc.ErrInconsistent, "sampling: unknown method")
	}

	if err := binary.Read(tr, binary.LittleEndian, &this.rate); err != nil {
		return nil, errors.Wrap(err, "sampling: read rate failed")
	}

	if this.rate == 0 {
		return nil, errors.Wrap(gtc.ErrInconsistent, "sampling: rate must be non-zero")
	}

	this.samplingTab = make([]uint64, numOfSamples)

	if err := binary.Read(tr, binary.LittleEndian, this.samplingTab); err != nil {
		return nil, errors.Wrap(err, "sampling: read samplingTab failed")
	}

	if this.method == Page {
		this.pageSampling = make([]uint64, numOfSamples)

		if err := binary.Read(tr, binary.LittleEndian, this.pageSampling); err != nil {
			return nil, errors.Wrap(err, "sampling: read pageSampling failed")
		}
	}

	var want uint64

	if err := binary.Read(r, binary.LittleEndian, &want); err != nil {
		return nil, errors.Wrap(err, "sampling: read checksum failed")
	}

	if got := digest.Sum64(); got != want {
		return nil, errors.Wrapf(gtc.ErrInconsistent, "sampling: checksum mismatch: got %x want %x", got, want)
	}

	return this, nil
}
