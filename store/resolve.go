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

package store

import "github.com/taprootassets/mssmt"

// rawLookup is implemented by any backend capable of raw CRUD lookups by
// hash. resolveChildren is derived once from these and shared by every
// backend's Children method, instead of reimplementing the resolution
// logic five times.
type rawLookup interface {
	Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error)
	Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error)
	CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error)
}

// resolveChildren implements mssmt.Database.Children: if parentHash is the
// empty node at height, both children are the empty node at height+1;
// otherwise parentHash must name a stored branch, whose two children are
// resolved to their concrete variant (empty, leaf, compact leaf, or
// branch) by hash.
func resolveChildren(empty *mssmt.EmptyTree, raw rawLookup, height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	if parentHash == empty.At(height).NodeHash() {
		child := empty.At(height + 1)
		return child, child, nil
	}
	branch, err := raw.Branch(parentHash)
	if err != nil {
		return nil, nil, err
	}
	left, err := resolveOne(empty, raw, height+1, branch.Left.NodeHash(), branch.Left.NodeSum())
	if err != nil {
		return nil, nil, err
	}
	right, err := resolveOne(empty, raw, height+1, branch.Right.NodeHash(), branch.Right.NodeSum())
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func resolveOne(empty *mssmt.EmptyTree, raw rawLookup, height int, hash mssmt.NodeHash, sum uint64) (mssmt.Node, error) {
	if hash == empty.At(height).NodeHash() {
		return empty.At(height), nil
	}
	// A CompactLeafNode can legitimately have Height == MaxHeight (the
	// degenerate no-fold case NewCompactLeafNode builds when its caller
	// passes nextHeight == MaxHeight), so CompactLeaf must be tried before
	// the height == MaxHeight shortcut, not only below it — otherwise a
	// compact leaf stored at MaxHeight resolves as a plain *LeafNode and
	// CompactedTree.insertLeaf's type switch panics on its actual type.
	if cl, err := raw.CompactLeaf(hash); err == nil {
		return cl, nil
	}
	if height == empty.MaxHeight() {
		return raw.Leaf(hash)
	}
	return raw.Branch(hash)
}
