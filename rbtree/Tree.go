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

// Package rbtree implements a top-down red-black tree, used as the
// Huffman construction priority queue (huffman package) and usable as
// a general ordered container.
//
// The node layout and insert/erase algorithms follow the classic
// top-down red-black tree (the same public-domain Julienne Walker
// algorithm the original GenomeTools rbtree.c is built on): each node
// keeps a 2-element link array indexed by direction (0=left, 1=right)
// rather than separate Left/Right fields, which is what lets insert
// and erase rebalance in a single top-down pass instead of a
// bottom-up fixup pass.
//
// Where the C implementation reference-counts aliased nodes during
// Huffman tree merges, this package just uses ordinary *node pointers
// and lets the Go garbage collector reclaim a node once nothing
// reachable from a Tree still points at it.
package rbtree

// Comparator orders two keys, returning <0, 0 or >0 the way
// strings.Compare/bytes.Compare do.
type Comparator func(a, b any) int

type node struct {
	red   bool
	key   any
	link  [2]*node
}

// Tree is an ordered container keyed by a Comparator. The zero value
// is not usable; use New.
type Tree struct {
	root *node
	cmp  Comparator
	size int
}

// New creates an empty Tree ordered by cmp.
func New(cmp Comparator) *Tree {
	return &Tree{cmp: cmp}
}

// Size returns the number of keys stored.
func (this *Tree) Size() int {
	return this.size
}

func isRed(n *node) bool {
	return n != nil && n.red
}

func single(root *node, dir int) *node {
	save := root.link[1-dir]
	root.link[1-dir] = save.link[dir]
	save.link[dir] = root
	root.red = true
	save.red = false
	return save
}

func double(root *node, dir int) *node {
	root.link[1-dir] = single(root.link[1-dir], 1-dir)
	return single(root, dir)
}

// Find returns the stored key equal to key, or nil, false if absent.
func (this *Tree) Find(key any) (any, bool) {
	it := this.root

	for it != nil {
		c := this.cmp(it.key, key)

		if c == 0 {
			return it.key, true
		}

		if c < 0 {
			it = it.link[1]
		} else {
			it = it.link[0]
		}
	}

	return nil, false
}

// Insert adds key to the tree. Returns false without modifying the
// tree if an equal key is already present (the tree does not support
// duplicates, matching gt_rbtree_insert).
func (this *Tree) Insert(key any) bool {
	inserted := false

	if this.root == nil {
		this.root = &node{red: true, key: key}
		inserted = true
	} else {
		var head node
		var g, t, p, q *node
		dir, last := 0, 0

		t = &head
		g, p = nil, nil
		q = this.root
		t.link[1] = q

		for {
			if q == nil {
				q = &node{red: true, key: key}
				p.link[dir] = q
				inserted = true
			} else if isRed(q.link[0]) && isRed(q.link[1]) {
				q.red = true
				q.link[0].red = false
				q.link[1].red = false
			}

			if isRed(q) && isRed(p) {
				dir2 := 0
				if t.link[1] == g {
					dir2 = 1
				}

				if q == p.link[last] {
					t.link[dir2] = single(g, 1-last)
				} else {
					t.link[dir2] = double(g, 1-last)
				}
			}

			c := this.cmp(q.key, key)

			if c == 0 {
				break
			}

			last = dir

			if c < 0 {
				dir = 1
			} else {
				dir = 0
			}

			if g != nil {
				t = g
			}

			g = p
			p = q
			q = q.link[dir]
		}

		this.root = head.link[1]
	}

	this.root.red = false

	if inserted {
		this.size++
	}

	return inserted
}

// Erase removes key from the tree. Returns false if key was not present.
func (this *Tree) Erase(key any) bool {
	if this.root == nil {
		return false
	}

	var head node
	var q, p, g *node
	var f *node
	dir := 1

	q = &head
	g, p = nil, nil
	q.link[1] = this.root

	for q.link[dir] != nil {
		last := dir

		g, p = p, q
		q = q.link[dir]

		if this.cmp(q.key, key) < 0 {
			dir = 1
		} else {
			dir = 0
		}

		if this.cmp(q.key, key) == 0 {
			f = q
		}

		if !isRed(q) && !isRed(q.link[dir]) {
			if isRed(q.link[1-dir]) {
				p.link[last] = single(q, dir)
				p = p.link[last]
			} else if !isRed(q.link[1-dir]) {
				s := p.link[1-last]

				if s != nil {
					if !isRed(s.link[1-last]) && !isRed(s.link[last]) {
						p.red = false
						s.red = true
						q.red = true
					} else {
						dir2 := 0
						if g.link[1] == p {
							dir2 = 1
						}

						if isRed(s.link[last]) {
							g.link[dir2] = double(p, last)
						} else if isRed(s.link[1-last]) {
							g.link[dir2] = single(p, last)
						}

						q.red = true
						g.link[dir2].red = true
						g.link[dir2].link[0].red = false
						g.link[dir2].link[1].red = false
					}
				}
			}
		}
	}

	removed := false

	if f != nil {
		f.key = q.key
		link := 0

		if q.link[0] == nil {
			link = 1
		}

		if p.link[1] == q {
			p.link[1] = q.link[link]
		} else {
			p.link[0] = q.link[link]
		}

		removed = true
		this.size--
	}

	this.root = head.link[1]

	if this.root != nil {
		this.root.red = false
	}

	return removed
}

// Min returns the smallest key, or nil, false if the tree is empty.
func (this *Tree) Min() (any, bool) {
	if this.root == nil {
		return nil, false
	}

	it := this.root

	for it.link[0] != nil {
		it = it.link[0]
	}

	return it.key, true
}

// Max returns the largest key, or nil, false if the tree is empty.
func (this *Tree) Max() (any, bool) {
	if this.root == nil {
		return nil, false
	}

	it := this.root

	for it.link[1] != nil {
		it = it.link[1]
	}

	return it.key, true
}

// PopMin removes and returns the smallest key. Used by the huffman
// package to drive priority-queue construction (two PopMin calls per
// merge step).
func (this *Tree) PopMin() (any, bool) {
	k, ok := this.Min()

	if !ok {
		return nil, false
	}

	this.Erase(k)
	return k, true
}

// Walk performs an in-order traversal, calling visit(key) for every
// stored key in ascending order. Traversal stops early if visit
// returns false.
func (this *Tree) Walk(visit func(key any) bool) {
	walkInOrder(this.root, visit)
}

func walkInOrder(n *node, visit func(key any) bool) bool {
	if n == nil {
		return true
	}

	if !walkInOrder(n.link[0], visit) {
		return false
	}

	if !visit(n.key) {
		return false
	}

	return walkInOrder(n.link[1], visit)
}

// Next returns the smallest stored key strictly greater than key, or
// nil, false if none exists.
func (this *Tree) Next(key any) (any, bool) {
	var candidate *node
	it := this.root

	for it != nil {
		if this.cmp(it.key, key) > 0 {
			candidate = it
			it = it.link[0]
		} else {
			it = it.link[1]
		}
	}

	if candidate == nil {
		return nil, false
	}

	return candidate.key, true
}

// Previous returns the largest stored key strictly less than key, or
// nil, false if none exists.
func (this *Tree) Previous(key any) (any, bool) {
	var candidate *node
	it := this.root

	for it != nil {
		if this.cmp(it.key, key) < 0 {
			candidate = it
			it = it.link[1]
		} else {
			it = it.link[0]
		}
	}

	if candidate == nil {
		return nil, false
	}

	return candidate.key, true
}
