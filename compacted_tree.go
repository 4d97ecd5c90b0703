// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mssmt

import (
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
)

// CompactedTree is the compact engine: a subtree holding exactly one
// non-empty leaf is collapsed into a CompactLeafNode instead of a full
// branch chain down to MaxHeight, trading the regular engine's uniform
// depth for a much smaller footprint on sparse key sets.
type CompactedTree struct {
	db      Database
	hasher  Hasher
	metrics *Metrics
}

// NewCompactedTree binds a CompactedTree to db, initializing db's root to
// the empty root if one hasn't been set yet.
func NewCompactedTree(db Database, opts ...TreeOption) (*CompactedTree, error) {
	o := applyOptions(opts)
	empty := db.EmptyTree()
	root, err := db.Root()
	if err != nil {
		return nil, err
	}
	if root == nil {
		if err := db.UpdateRoot(empty.Root()); err != nil {
			return nil, err
		}
	}
	return &CompactedTree{db: db, hasher: empty.Hasher(), metrics: o.metrics}, nil
}

// Database returns the Database this tree is bound to.
func (t *CompactedTree) Database() Database { return t.db }

// Hasher returns the Hasher this tree hashes nodes with.
func (t *CompactedTree) Hasher() Hasher { return t.hasher }

// MaxHeight is HashSize*8, the bit-length of every key.
func (t *CompactedTree) MaxHeight() int { return t.db.EmptyTree().MaxHeight() }

// Root returns the tree's current root branch.
func (t *CompactedTree) Root() (*BranchNode, error) {
	root, err := t.db.Root()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return t.db.EmptyTree().Root(), nil
	}
	return root, nil
}

// GetLeaf walks down the tree along key, extracting CompactLeaf chains as
// needed, and returns the leaf found there. Returns ErrNodeNotFound if the
// terminal position is empty.
func (t *CompactedTree) GetLeaf(key NodeHash) (*LeafNode, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return WalkDown(t.db, t.hasher, root, key, func(int, Node, Node) error { return nil })
}

// Insert sets the leaf at key to (value, sum). It fails with
// ErrSumOverflow, leaving the tree untouched, if root.Sum()+sum would
// overflow a uint64.
func (t *CompactedTree) Insert(key NodeHash, value []byte, sum uint64) (err error) {
	start := time.Now()
	defer func() {
		if err == ErrSumOverflow {
			t.metrics.observeOverflow("compact")
			return
		}
		if err == nil {
			t.metrics.observeInsert("compact", time.Since(start).Seconds())
		}
	}()

	root, err := t.Root()
	if err != nil {
		return err
	}
	if sum > math.MaxUint64-root.NodeSum() {
		return ErrSumOverflow
	}

	leaf := NewLeafNode(t.hasher, value, sum)
	newRoot, err := t.insertLeaf(key, 0, root.NodeHash(), leaf)
	if err != nil {
		return err
	}
	branch, ok := newRoot.(*BranchNode)
	if !ok {
		return ErrNodeNotBranch
	}
	if err := t.db.UpdateRoot(branch); err != nil {
		return err
	}

	glog.V(2).Infof("mssmt: inserted key=%x sum=%d root=%x", key, sum, branch.NodeHash())
	return nil
}

// insertLeaf implements the recursive insert_leaf(key, height, root_hash,
// leaf) procedure: descend one level towards leaf's position, dispatch on
// what's found there, then fold the result back into a branch at height.
func (t *CompactedTree) insertLeaf(key NodeHash, height int, rootHash NodeHash, leaf *LeafNode) (Node, error) {
	empty := t.db.EmptyTree()
	left, right, err := t.db.Children(height, rootHash)
	if err != nil {
		return nil, err
	}

	isLeft := bitIndex(height, key) == 0
	var next, sibling Node
	if isLeft {
		next, sibling = left, right
	} else {
		next, sibling = right, left
	}
	nextHeight := height + 1

	var newNode Node
	switch {
	case next.NodeHash() == empty.At(nextHeight).NodeHash():
		compact := NewCompactLeafNode(t.hasher, empty, nextHeight, key, leaf)
		if err := t.db.InsertLeaf(leaf); err != nil {
			return nil, err
		}
		if err := t.db.InsertCompactLeaf(compact); err != nil {
			return nil, err
		}
		newNode = compact

	default:
		switch n := next.(type) {
		case *CompactLeafNode:
			if err := t.db.DeleteCompactLeaf(n.NodeHash()); err != nil {
				return nil, err
			}
			if n.Key == key {
				replacement := NewCompactLeafNode(t.hasher, empty, nextHeight, key, leaf)
				if err := t.db.InsertLeaf(leaf); err != nil {
					return nil, err
				}
				if err := t.db.InsertCompactLeaf(replacement); err != nil {
					return nil, err
				}
				newNode = replacement
			} else {
				merged, err := t.merge(nextHeight, key, leaf, n.Key, n.Leaf)
				if err != nil {
					return nil, err
				}
				newNode = merged
			}

		case *BranchNode:
			sub, err := t.insertLeaf(key, nextHeight, n.NodeHash(), leaf)
			if err != nil {
				return nil, err
			}
			newNode = sub

		default:
			panic(fmt.Sprintf("mssmt: unexpected node variant %T in compact tree at height %d", next, nextHeight))
		}
	}

	if rootHash != empty.At(height).NodeHash() {
		if err := t.db.DeleteBranch(rootHash); err != nil {
			return nil, err
		}
	}

	var branch *BranchNode
	if isLeft {
		branch = NewBranchNode(t.hasher, newNode, sibling)
	} else {
		branch = NewBranchNode(t.hasher, sibling, newNode)
	}
	if branch.NodeHash() != empty.At(height).NodeHash() {
		if err := t.db.InsertBranch(branch); err != nil {
			return nil, err
		}
	}
	return branch, nil
}

// merge splits two compacted leaves that collided on their shared prefix,
// rebuilding a real subtree from height down to the first bit at which
// key1 and key2 diverge.
func (t *CompactedTree) merge(height int, key1 NodeHash, leaf1 *LeafNode, key2 NodeHash, leaf2 *LeafNode) (Node, error) {
	empty := t.db.EmptyTree()

	i := height
	for bitIndex(i, key1) == bitIndex(i, key2) {
		i++
	}

	c1 := NewCompactLeafNode(t.hasher, empty, i+1, key1, leaf1)
	c2 := NewCompactLeafNode(t.hasher, empty, i+1, key2, leaf2)
	if err := t.db.InsertLeaf(leaf1); err != nil {
		return nil, err
	}
	if err := t.db.InsertLeaf(leaf2); err != nil {
		return nil, err
	}
	if err := t.db.InsertCompactLeaf(c1); err != nil {
		return nil, err
	}
	if err := t.db.InsertCompactLeaf(c2); err != nil {
		return nil, err
	}

	var left, right Node
	if bitIndex(i, key1) == 0 {
		left, right = c1, c2
	} else {
		left, right = c2, c1
	}
	parent := NewBranchNode(t.hasher, left, right)
	if err := t.db.InsertBranch(parent); err != nil {
		return nil, err
	}

	for j := i - 1; j >= height; j-- {
		sibling := empty.At(j + 1)
		var branch *BranchNode
		if bitIndex(j, key1) == 0 {
			branch = NewBranchNode(t.hasher, parent, sibling)
		} else {
			branch = NewBranchNode(t.hasher, sibling, parent)
		}
		if err := t.db.InsertBranch(branch); err != nil {
			return nil, err
		}
		parent = branch
	}
	return parent, nil
}
