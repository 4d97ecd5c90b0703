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
	"math"
	"time"

	"github.com/golang/glog"
)

// Tree is the regular engine: Insert threads an update through the full
// conceptual spine, MaxHeight levels deep, on every call. It trades the
// compact engine's space savings for a simpler, uniform-depth walk.
type Tree struct {
	db      Database
	hasher  Hasher
	metrics *Metrics
}

// NewTree binds a Tree to db, initializing db's root to the empty root if
// one hasn't been set yet.
func NewTree(db Database, opts ...TreeOption) (*Tree, error) {
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
	return &Tree{db: db, hasher: empty.Hasher(), metrics: o.metrics}, nil
}

// Database returns the Database this tree is bound to.
func (t *Tree) Database() Database { return t.db }

// Hasher returns the Hasher this tree hashes nodes with.
func (t *Tree) Hasher() Hasher { return t.hasher }

// MaxHeight is HashSize*8, the bit-length of every key.
func (t *Tree) MaxHeight() int { return t.db.EmptyTree().MaxHeight() }

// Root returns the tree's current root branch.
func (t *Tree) Root() (*BranchNode, error) {
	root, err := t.db.Root()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return t.db.EmptyTree().Root(), nil
	}
	return root, nil
}

// GetLeaf walks the spine top-down along key and returns the leaf stored
// there. It returns ErrNodeNotFound if the terminal position is empty —
// callers querying a key that may not have an entry should treat that as
// "no entry", not as a fault.
func (t *Tree) GetLeaf(key NodeHash) (*LeafNode, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return WalkDown(t.db, t.hasher, root, key, func(int, Node, Node) error { return nil })
}

// Insert sets the leaf at key to (value, sum), updating every branch along
// the spine. It fails with ErrSumOverflow, leaving the tree untouched, if
// root.Sum()+sum would overflow a uint64.
func (t *Tree) Insert(key NodeHash, value []byte, sum uint64) (err error) {
	start := time.Now()
	defer func() {
		if err == ErrSumOverflow {
			t.metrics.observeOverflow("regular")
			return
		}
		if err == nil {
			t.metrics.observeInsert("regular", time.Since(start).Seconds())
		}
	}()

	empty := t.db.EmptyTree()
	maxHeight := empty.MaxHeight()

	root, err := t.Root()
	if err != nil {
		return err
	}
	if sum > math.MaxUint64-root.NodeSum() {
		return ErrSumOverflow
	}
	leaf := NewLeafNode(t.hasher, value, sum)

	// Walk down, recording the hash of the node at each height before
	// mutation and its sibling.
	prevParentHash := make([]NodeHash, maxHeight)
	siblings := make([]Node, maxHeight)

	cur := Node(root)
	for height := 0; height < maxHeight; height++ {
		prevParentHash[height] = cur.NodeHash()
		left, right, err := t.db.Children(height, cur.NodeHash())
		if err != nil {
			return err
		}
		if bitIndex(height, key) == 0 {
			cur, siblings[height] = left, right
		} else {
			cur, siblings[height] = right, left
		}
	}

	// Walk up from the leaf, rebuilding branches. An old and new branch at
	// the same height are only queued for delete/insert when their hashes
	// actually differ, so re-inserting an identical (key, value, sum) is a
	// true no-op instead of deleting the branch it just wrote.
	var toInsert []*BranchNode
	var toDelete []NodeHash

	cur = leaf
	for i := maxHeight - 1; i >= 0; i-- {
		sibling := siblings[i]
		var parent *BranchNode
		if bitIndex(i, key) == 0 {
			parent = NewBranchNode(t.hasher, cur, sibling)
		} else {
			parent = NewBranchNode(t.hasher, sibling, cur)
		}

		oldHash := prevParentHash[i]
		newHash := parent.NodeHash()
		if oldHash != newHash {
			if oldHash != empty.At(i).NodeHash() {
				toDelete = append(toDelete, oldHash)
			}
			if newHash != empty.At(i).NodeHash() {
				toInsert = append(toInsert, parent)
			}
		}
		cur = parent
	}
	newRoot := cur.(*BranchNode)

	for _, b := range toInsert {
		if err := t.db.InsertBranch(b); err != nil {
			return err
		}
	}
	for _, h := range toDelete {
		if err := t.db.DeleteBranch(h); err != nil {
			return err
		}
	}
	if leaf.NodeHash() != empty.At(maxHeight).NodeHash() {
		if err := t.db.InsertLeaf(leaf); err != nil {
			return err
		}
	}
	if err := t.db.UpdateRoot(newRoot); err != nil {
		return err
	}

	glog.V(2).Infof("mssmt: inserted key=%x sum=%d root=%x", key, sum, newRoot.NodeHash())
	return nil
}
