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

// Package alphabet provides the minimal gtc.Alphabet implementation
// needed to exercise hcr end-to-end: a 4-symbol nucleotide alphabet
// plus a wildcard for ambiguity codes, grounded on the dense alphabet
// encoding used throughout GenomeTools' core/alphabet.h (map every
// input byte, upper or lower case, to a small dense index, with one
// reserved wildcard index for anything outside the known set).
//
// A full IUPAC or protein alphabet is an external collaborator per
// SPEC_FULL.md, not something gtc itself needs to get right; this is
// intentionally the smallest concrete implementation that satisfies
// the Alphabet contract.
package alphabet

import "github.com/pkg/errors"

// DNA is a 5-symbol alphabet: A, C, G, T and a wildcard (N and any
// other byte). Case insensitive.
type DNA struct{}

const dnaWildcard = 4

var dnaIndex = [256]int8{}

func init() {
	for i := range dnaIndex {
		dnaIndex[i] = -1
	}

	dnaIndex['A'], dnaIndex['a'] = 0, 0
	dnaIndex['C'], dnaIndex['c'] = 1, 1
	dnaIndex['G'], dnaIndex['g'] = 2, 2
	dnaIndex['T'], dnaIndex['t'] = 3, 3
}

var dnaBytes = [5]byte{'A', 'C', 'G', 'T', 'N'}

// NewDNA creates a DNA alphabet instance.
func NewDNA() DNA {
	return DNA{}
}

// Size implements gtc.Alphabet.
func (DNA) Size() int {
	return 5
}

// Encode implements gtc.Alphabet. Any byte other than A/C/G/T (case
// insensitive) maps to the wildcard symbol rather than failing,
// matching how GenomeTools alphabets fold ambiguity codes.
func (DNA) Encode(b byte) (int, error) {
	if idx := dnaIndex[b]; idx >= 0 {
		return int(idx), nil
	}

	return dnaWildcard, nil
}

// Decode implements gtc.Alphabet.
func (DNA) Decode(sym int) (byte, error) {
	if sym < 0 || sym >= len(dnaBytes) {
		return 0, errors.New("alphabet: symbol out of range")
	}

	return dnaBytes[sym], nil
}

// Wildcard implements gtc.Alphabet.
func (DNA) Wildcard() (int, bool) {
	return dnaWildcard, true
}
