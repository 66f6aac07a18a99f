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

// BitwiseDecoder walks the Huffman tree one bit at a time, resetting
// to the root whenever a leaf is reached. Grounded on
// gt_huffman_bitwise_decoder_next, including its degenerate-tree
// behavior: with a single-symbol alphabet the root is itself a leaf,
// so the very first call returns that symbol without even looking at
// the bit argument.
type BitwiseDecoder struct {
	huffman *Huffman
	cur     *treeNode
}

// NewBitwiseDecoder creates a decoder walking huff's tree from the root.
func NewBitwiseDecoder(huff *Huffman) (*BitwiseDecoder, error) {
	if huff == nil || huff.root == nil {
		return nil, errors.New("huffman: cannot create a decoder over an empty tree")
	}

	return &BitwiseDecoder{huffman: huff, cur: huff.root}, nil
}

// Next feeds one more bit into the decoder. If a symbol is completed
// it returns (symbol, true) and resets to the root for the next call;
// otherwise it returns (0, false) meaning more bits are needed.
func (this *BitwiseDecoder) Next(bit bool) (int, bool) {
	if this.cur.left == nil {
		symbol := this.cur.symbol
		this.cur = this.huffman.root
		return symbol, true
	}

	if bit {
		this.cur = this.cur.right
	} else {
		this.cur = this.cur.left
	}

	if this.cur.left == nil {
		symbol := this.cur.symbol
		this.cur = this.huffman.root
		return symbol, true
	}

	return 0, false
}

// Reset returns the decoder to the root, discarding any partially
// consumed code.
func (this *BitwiseDecoder) Reset() {
	this.cur = this.huffman.root
}
