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

// WalkVisitor is invoked once per level while walking down a tree along a
// key. height is the level being departed (0 == root); next is the child
// the walk is about to descend into; sibling is next's sibling at that
// level. Returning a non-nil error aborts the walk.
type WalkVisitor func(height int, next, sibling Node) error

// WalkDown walks from root to MaxHeight along key, invoking visit at every
// level, and returns the leaf found at the terminal position. Both engines
// share this: a Tree's root is always a *BranchNode at every level, so the
// CompactLeafNode branch below never triggers; a CompactedTree's spine may
// bottom out in a CompactLeafNode, whose remaining levels are synthesized
// via ExtractAt instead of further Database.Children calls.
//
// Returns ErrNodeNotFound if the terminal position is the canonical empty
// leaf (no entry for key), or ErrNodeNotLeaf if the walk ends on neither a
// Leaf nor the empty leaf (a structurally invalid tree).
func WalkDown(db Database, hasher Hasher, root Node, key NodeHash, visit WalkVisitor) (*LeafNode, error) {
	empty := db.EmptyTree()
	cur := root
	for height := 0; height < empty.MaxHeight(); height++ {
		var left, right Node
		switch n := cur.(type) {
		case *BranchNode:
			var err error
			left, right, err = db.Children(height, n.NodeHash())
			if err != nil {
				return nil, err
			}
		case *CompactLeafNode:
			branch := n.ExtractAt(hasher, empty, height)
			left, right = branch.Left, branch.Right
		default:
			return nil, ErrNodeNotFound
		}

		var next, sibling Node
		if bitIndex(height, key) == 0 {
			next, sibling = left, right
		} else {
			next, sibling = right, left
		}
		if err := visit(height, next, sibling); err != nil {
			return nil, err
		}
		cur = next
	}

	// A CompactLeafNode at MaxHeight folds no levels: it stands for its Leaf.
	if c, ok := cur.(*CompactLeafNode); ok && c.Height == empty.MaxHeight() {
		cur = c.Leaf
	}
	if leaf, ok := cur.(*LeafNode); ok {
		if cur.NodeHash() == empty.At(empty.MaxHeight()).NodeHash() {
			return nil, ErrNodeNotFound
		}
		return leaf, nil
	}
	return nil, ErrNodeNotLeaf
}
