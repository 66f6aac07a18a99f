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

// Package huffman builds a canonical-shape Huffman tree over a dense
// symbol space using a red-black tree as priority queue (package
// rbtree), and provides both a single-bit-at-a-time decoder and a
// word-chunked streaming decoder driven by a pluggable supplier.
//
// This differs from the teacher's own entropy/HuffmanCodec.go, which
// builds canonical codes directly by length (Moffat-Katajainen
// in-place size computation over a fixed 256-symbol byte alphabet).
// That approach does not carry over here: the tree itself, with its
// exact tie-breaking and merge order, is part of the wire contract
// (two encoders presented with the same frequencies must produce the
// same codes), so this package is grounded directly on the original
// GenomeTools huffman.c tree construction instead. The struct shape
// (receiver named 'this', New*-returns-(*T,error)) follows the
// teacher's idiom.
package huffman

import (
	"github.com/pkg/errors"

	"github.com/genomepack/gtc"
	"github.com/genomepack/gtc/rbtree"
)

// Distribution supplies the frequency of each symbol in [0, Size()).
type Distribution interface {
	Size() int
	Freq(symbol int) uint64
}

// DenseDistribution is a Distribution backed by a plain frequency
// slice, the common case when a caller has already built a histogram
// (e.g. via internal.ComputeHistogram).
type DenseDistribution []uint64

func (this DenseDistribution) Size() int            { return len(this) }
func (this DenseDistribution) Freq(symbol int) uint64 { return this[symbol] }

type treeNode struct {
	symbol      int
	freq        uint64
	code        uint64
	numOfBits   uint
	left, right *treeNode
}

func nodeCmp(a, b any) int {
	n1, n2 := a.(*treeNode), b.(*treeNode)

	if n1.freq < n2.freq {
		return -1
	}

	if n1.freq > n2.freq {
		return 1
	}

	if n1.symbol < n2.symbol {
		return -1
	}

	if n1.symbol > n2.symbol {
		return 1
	}

	return 0
}

// Code is the canonical (length, bits) pair assigned to one symbol.
// Bits are right-justified; the top bit of the code is bit
// (NumOfBits-1).
type Code struct {
	Bits      uint64
	NumOfBits uint
}

// Huffman holds a built tree plus the derived per-symbol code table.
type Huffman struct {
	root            *treeNode
	numOfSymbols    int
	totalSymbols    int
	codeTab         []Code
	totalNumOfBits  uint64
	totalNumOfChars uint64
}

// New builds a Huffman tree over dist, a distribution of
// dist.Size() == totalSymbols frequencies (zero frequency symbols are
// excluded from the tree but still occupy a code table slot, left
// zero-valued, matching gt_huffman_new/initialise_rbt).
func New(dist Distribution) (*Huffman, error) {
	totalSymbols := dist.Size()

	if totalSymbols <= 0 {
		return nil, errors.Wrap(gtc.ErrEmptyInput, "huffman: alphabet must be non-empty")
	}

	huff := &Huffman{totalSymbols: totalSymbols}

	tree := rbtree.New(nodeCmp)

	for i := 0; i < totalSymbols; i++ {
		if f := dist.Freq(i); f > 0 {
			tree.Insert(&treeNode{symbol: i, freq: f})
			huff.numOfSymbols++
		}
	}

	if err := huff.buildTree(tree); err != nil {
		return nil, err
	}

	huff.codeTab = make([]Code, totalSymbols)

	if huff.numOfSymbols == 1 {
		// Degenerate single-leaf tree: set_codes_rec never runs (no
		// children to recurse into), so the root keeps the 1-bit code
		// assigned in buildTree directly.
		huff.codeTab[huff.root.symbol] = Code{Bits: huff.root.code, NumOfBits: huff.root.numOfBits}
	} else if huff.root != nil {
		huff.assignCodes(huff.root, 0, 0)
	}

	huff.accumulateSize(huff.root)

	return huff, nil
}

// buildTree repeatedly pops the two lowest (freq, symbol) nodes and
// merges them, mirroring make_huffman_tree: the merged node's symbol
// is max(s1, s2), its left child is whichever of the two popped nodes
// has the strictly larger frequency (ties keep insertion/pop order:
// the first-popped node goes left).
func (this *Huffman) buildTree(tree *rbtree.Tree) error {
	switch this.numOfSymbols {
	case 0:
		this.root = nil
		return nil
	case 1:
		k, _ := tree.Min()
		this.root = k.(*treeNode)
		this.root.code = 0
		this.root.numOfBits = 1
		return nil
	}

	var merged *treeNode

	for i := 0; i < this.numOfSymbols-1; i++ {
		n1k, ok := tree.PopMin()

		if !ok {
			return errors.Wrap(gtc.ErrInconsistent, "huffman: priority queue exhausted early")
		}

		n2k, ok := tree.PopMin()

		if !ok {
			return errors.Wrap(gtc.ErrInconsistent, "huffman: priority queue exhausted early")
		}

		n1, n2 := n1k.(*treeNode), n2k.(*treeNode)

		symbol := n1.symbol
		if n2.symbol > symbol {
			symbol = n2.symbol
		}

		merged = &treeNode{symbol: symbol, freq: n1.freq + n2.freq}

		if n1.freq < n2.freq {
			merged.left, merged.right = n2, n1
		} else {
			merged.left, merged.right = n1, n2
		}

		if !tree.Insert(merged) {
			return errors.Wrap(gtc.ErrInconsistent, "huffman: merged node collided with an existing tree key")
		}
	}

	this.root = merged
	this.root.code = 0
	this.root.numOfBits = 0
	return nil
}

// assignCodes mirrors huffman_tree_set_codes_rec: left child appends
// a 0 bit, right child appends a 1 bit.
func (this *Huffman) assignCodes(n *treeNode, code uint64, numOfBits uint) {
	if n == nil {
		return
	}

	n.code = code
	n.numOfBits = numOfBits

	if n.left == nil {
		this.codeTab[n.symbol] = Code{Bits: code, NumOfBits: numOfBits}
		return
	}

	this.assignCodes(n.left, code<<1, numOfBits+1)
	this.assignCodes(n.right, code<<1|1, numOfBits+1)
}

func (this *Huffman) accumulateSize(n *treeNode) {
	if n == nil {
		return
	}

	if n.left == nil {
		this.totalNumOfBits += uint64(n.numOfBits) * n.freq
		this.totalNumOfChars += n.freq
		return
	}

	this.accumulateSize(n.left)
	this.accumulateSize(n.right)
}

// Encode returns the code assigned to symbol.
func (this *Huffman) Encode(symbol int) (Code, error) {
	if symbol < 0 || symbol >= this.totalSymbols {
		return Code{}, errors.Wrap(gtc.ErrOutOfRange, "huffman: symbol out of range")
	}

	return this.codeTab[symbol], nil
}

// NumOfSymbols returns the count of symbols with non-zero frequency
// (the number of leaves in the tree).
func (this *Huffman) NumOfSymbols() int {
	return this.numOfSymbols
}

// TotalNumOfSymbols returns the size of the alphabet the tree was
// built over, including zero-frequency symbols.
func (this *Huffman) TotalNumOfSymbols() int {
	return this.totalSymbols
}

// Size returns the total number of bits the encoded payload would
// occupy, and the total number of symbols encoded.
func (this *Huffman) Size() (bits uint64, chars uint64) {
	return this.totalNumOfBits, this.totalNumOfChars
}
