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

package mssmt_test

import (
	"math/rand"
	"testing"

	"github.com/taprootassets/mssmt"
	"github.com/taprootassets/mssmt/hash256"
	"github.com/taprootassets/mssmt/store"
	"github.com/taprootassets/mssmt/testonly"
)

func newTestCompactedTree(t *testing.T) (*mssmt.CompactedTree, mssmt.Hasher) {
	t.Helper()
	hasher := hash256.New()
	tree, err := mssmt.NewCompactedTree(store.NewMemStore(hasher))
	if err != nil {
		t.Fatalf("NewCompactedTree: %v", err)
	}
	return tree, hasher
}

func TestCompactedTreeEmptyRootMatchesEmptySpine(t *testing.T) {
	tree, hasher := newTestCompactedTree(t)
	empty := mssmt.NewEmptyTree(hasher)

	root, err := tree.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.NodeHash() != empty.Root().NodeHash() {
		t.Errorf("empty compacted root = %x, want %x", root.NodeHash(), empty.Root().NodeHash())
	}
}

func TestCompactedTreeInsertThenGetLeaf(t *testing.T) {
	tree, _ := newTestCompactedTree(t)
	key := testonly.SequentialKey(1)

	if err := tree.Insert(key, []byte("hello"), 7); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	leaf, err := tree.GetLeaf(key)
	if err != nil {
		t.Fatalf("GetLeaf: %v", err)
	}
	if string(leaf.Value) != "hello" || leaf.Sum != 7 {
		t.Errorf("GetLeaf = (%q, %d), want (\"hello\", 7)", leaf.Value, leaf.Sum)
	}
}

func TestCompactedTreeGetLeafMissingIsNotFound(t *testing.T) {
	tree, _ := newTestCompactedTree(t)
	if _, err := tree.GetLeaf(testonly.SequentialKey(42)); err != mssmt.ErrNodeNotFound {
		t.Errorf("GetLeaf(missing) err = %v, want ErrNodeNotFound", err)
	}
}

// TestCompactedTreeSingleLeafRootCollapsesToOneLevel checks the defining
// property of the compact engine: a single inserted leaf's CompactLeafNode
// folds the entire chain down to MaxHeight, so the root's two children are
// exactly {that compact leaf, the empty subtree}, not a MaxHeight-deep
// chain of singleton branches.
func TestCompactedTreeSingleLeafRootCollapsesToOneLevel(t *testing.T) {
	tree, hasher := newTestCompactedTree(t)
	empty := mssmt.NewEmptyTree(hasher)
	key := testonly.SequentialKey(1)

	if err := tree.Insert(key, []byte("v"), 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	root, err := tree.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	left, right, err := tree.Database().Children(0, root.NodeHash())
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	var near, far mssmt.Node
	if mssmt.BitIndex(0, key) == 0 {
		near, far = left, right
	} else {
		near, far = right, left
	}
	if _, ok := near.(*mssmt.CompactLeafNode); !ok {
		t.Errorf("near child of a single-leaf compacted root is a %T, want *CompactLeafNode", near)
	}
	if far.NodeHash() != empty.At(1).NodeHash() {
		t.Errorf("far child of a single-leaf compacted root = %x, want empty subtree %x", far.NodeHash(), empty.At(1).NodeHash())
	}
}

// TestCompactedTreeMatchesRegularTreeRoot is the key equivalence property:
// the two engines must agree on the committed (hash, sum) for the same set
// of inserts, since a compact leaf's hash is defined as exactly the hash of
// the branch chain it stands in for.
func TestCompactedTreeMatchesRegularTreeRoot(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	hasher := hash256.New()

	regular, err := mssmt.NewTree(store.NewMemStore(hasher))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	compacted, err := mssmt.NewCompactedTree(store.NewMemStore(hasher))
	if err != nil {
		t.Fatalf("NewCompactedTree: %v", err)
	}

	for i := 0; i < 30; i++ {
		key := testonly.RandKey(r)
		leaf := testonly.RandLeaf(r, hasher, 16, 1<<16)
		if err := regular.Insert(key, leaf.Value, leaf.Sum); err != nil {
			t.Fatalf("regular.Insert: %v", err)
		}
		if err := compacted.Insert(key, leaf.Value, leaf.Sum); err != nil {
			t.Fatalf("compacted.Insert: %v", err)
		}
	}

	regularRoot, _ := regular.Root()
	compactedRoot, _ := compacted.Root()
	if regularRoot.NodeHash() != compactedRoot.NodeHash() {
		t.Errorf("root mismatch between engines: regular=%x compacted=%x", regularRoot.NodeHash(), compactedRoot.NodeHash())
	}
	if regularRoot.NodeSum() != compactedRoot.NodeSum() {
		t.Errorf("sum mismatch between engines: regular=%d compacted=%d", regularRoot.NodeSum(), compactedRoot.NodeSum())
	}
}

// TestCompactedTreeMergeOnKeyCollision inserts two keys that share a long
// common bit prefix, forcing CompactedTree.merge to split two previously
// independent CompactLeafNodes at their first diverging bit.
func TestCompactedTreeMergeOnKeyCollision(t *testing.T) {
	tree, _ := newTestCompactedTree(t)

	var key1, key2 mssmt.NodeHash
	key1[0] = 0x00
	key2[1] = 0x80 // differs only in bit 15 (the top bit of byte 1)

	if err := tree.Insert(key1, []byte("a"), 1); err != nil {
		t.Fatalf("Insert key1: %v", err)
	}
	if err := tree.Insert(key2, []byte("b"), 2); err != nil {
		t.Fatalf("Insert key2: %v", err)
	}

	leaf1, err := tree.GetLeaf(key1)
	if err != nil {
		t.Fatalf("GetLeaf key1: %v", err)
	}
	if string(leaf1.Value) != "a" || leaf1.Sum != 1 {
		t.Errorf("GetLeaf key1 = (%q, %d), want (\"a\", 1)", leaf1.Value, leaf1.Sum)
	}

	leaf2, err := tree.GetLeaf(key2)
	if err != nil {
		t.Fatalf("GetLeaf key2: %v", err)
	}
	if string(leaf2.Value) != "b" || leaf2.Sum != 2 {
		t.Errorf("GetLeaf key2 = (%q, %d), want (\"b\", 2)", leaf2.Value, leaf2.Sum)
	}

	root, err := tree.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.NodeSum() != 3 {
		t.Errorf("root sum = %d, want 3", root.NodeSum())
	}
}

// TestCompactedTreeDeepMergeThenReinsert covers spec.md's "S6 deep merge"
// scenario: two keys identical in every bit except the very last one
// (bit MaxHeight-1) force CompactedTree.merge to divergence index
// MaxHeight-1, producing two CompactLeafNodes with Height == MaxHeight as
// direct siblings under a real branch at height MaxHeight-1. Updating
// either key afterwards re-descends that branch and must resolve those
// siblings as *CompactLeafNode, not panic on an unexpected *LeafNode.
func TestCompactedTreeDeepMergeThenReinsert(t *testing.T) {
	tree, hasher := newTestCompactedTree(t)
	maxHeight := mssmt.NewEmptyTree(hasher).MaxHeight()

	var key1, key2 mssmt.NodeHash
	// Both keys are all-zero except the last byte, which differs only in
	// its top bit (bit maxHeight-1, since bitIndex's bit 7 of a byte is
	// its top bit) — everywhere else the two keys are bit-identical.
	lastByte := (maxHeight - 1) / 8
	key1[lastByte] = 0x00
	key2[lastByte] = 0x80

	if err := tree.Insert(key1, []byte("a"), 1); err != nil {
		t.Fatalf("Insert key1: %v", err)
	}
	if err := tree.Insert(key2, []byte("b"), 2); err != nil {
		t.Fatalf("Insert key2: %v", err)
	}

	// Re-inserting (updating) either key re-descends through the branch
	// the merge created at height maxHeight-1; this must not panic.
	if err := tree.Insert(key1, []byte("a2"), 10); err != nil {
		t.Fatalf("re-insert key1: %v", err)
	}
	if err := tree.Insert(key2, []byte("b2"), 20); err != nil {
		t.Fatalf("re-insert key2: %v", err)
	}

	leaf1, err := tree.GetLeaf(key1)
	if err != nil {
		t.Fatalf("GetLeaf key1: %v", err)
	}
	if string(leaf1.Value) != "a2" || leaf1.Sum != 10 {
		t.Errorf("GetLeaf key1 = (%q, %d), want (\"a2\", 10)", leaf1.Value, leaf1.Sum)
	}

	leaf2, err := tree.GetLeaf(key2)
	if err != nil {
		t.Fatalf("GetLeaf key2: %v", err)
	}
	if string(leaf2.Value) != "b2" || leaf2.Sum != 20 {
		t.Errorf("GetLeaf key2 = (%q, %d), want (\"b2\", 20)", leaf2.Value, leaf2.Sum)
	}

	root, err := tree.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.NodeSum() != 30 {
		t.Errorf("root sum = %d, want 30", root.NodeSum())
	}
}

func TestCompactedTreeOverwriteReplacesCompactLeaf(t *testing.T) {
	tree, _ := newTestCompactedTree(t)
	key := testonly.SequentialKey(4)

	if err := tree.Insert(key, []byte("v1"), 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	root1, _ := tree.Root()

	if err := tree.Insert(key, []byte("v2"), 2); err != nil {
		t.Fatalf("Insert overwrite: %v", err)
	}
	root2, _ := tree.Root()

	if root1.NodeHash() == root2.NodeHash() {
		t.Errorf("overwriting a compact leaf's value did not change the root")
	}
	leaf, err := tree.GetLeaf(key)
	if err != nil {
		t.Fatalf("GetLeaf: %v", err)
	}
	if string(leaf.Value) != "v2" || leaf.Sum != 2 {
		t.Errorf("GetLeaf after overwrite = (%q, %d), want (\"v2\", 2)", leaf.Value, leaf.Sum)
	}
}

func TestCompactedTreeManyInsertsRoundTrip(t *testing.T) {
	// mssmt has no Delete operation (per its source spec's scope): an
	// absent entry can only be represented by never inserting it, or by a
	// tree that never observed the key. This test documents that a large,
	// sparse key set still round-trips correctly through GetLeaf, which is
	// the property deletion-by-omission depends on.
	tree, _ := newTestCompactedTree(t)
	r := rand.New(rand.NewSource(3))
	hasher := hash256.New()

	keys := testonly.Populate(r, hasher, tree, 50)
	for i, k := range keys {
		if _, err := tree.GetLeaf(k); err != nil {
			t.Fatalf("GetLeaf(%d): %v", i, err)
		}
	}
}
