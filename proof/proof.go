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

// Package proof generates and verifies inclusion (and non-inclusion)
// proofs against a mssmt.Tree or mssmt.CompactedTree, and offers a client
// that caches a tree's root and waits for it to change.
package proof

import (
	"github.com/taprootassets/mssmt"
)

// SiblingHash is one level's sibling, as carried in a Proof: just enough
// (hash, sum) to fold back into a branch during verification.
type SiblingHash struct {
	Hash mssmt.NodeHash
	Sum  uint64
}

// Proof is an ordered list of siblings from root (index 0) to leaf
// (index len-1) along a single key's path.
type Proof struct {
	Siblings []SiblingHash
}

// EngineReader is satisfied by both *mssmt.Tree and *mssmt.CompactedTree.
type EngineReader interface {
	Root() (*mssmt.BranchNode, error)
	Database() mssmt.Database
	Hasher() mssmt.Hasher
}

// Prove walks t down to key, returning the resulting Proof and the leaf
// found there. If no entry exists at key, Prove still returns the proof
// (a non-inclusion proof) alongside a nil leaf and mssmt.ErrNodeNotFound.
func Prove(t EngineReader, key mssmt.NodeHash) (*Proof, *mssmt.LeafNode, error) {
	root, err := t.Root()
	if err != nil {
		return nil, nil, err
	}

	var siblings []SiblingHash
	leaf, err := mssmt.WalkDown(t.Database(), t.Hasher(), root, key, func(_ int, _, sibling mssmt.Node) error {
		siblings = append(siblings, SiblingHash{Hash: sibling.NodeHash(), Sum: sibling.NodeSum()})
		return nil
	})
	p := &Proof{Siblings: siblings}
	if err != nil {
		return p, nil, err
	}
	return p, leaf, nil
}

// Verify recomputes the root implied by leaf and p's siblings along key,
// and reports whether it matches root.
func Verify(hasher mssmt.Hasher, root mssmt.NodeHash, key mssmt.NodeHash, leaf *mssmt.LeafNode, p *Proof) bool {
	if leaf == nil || p == nil || len(p.Siblings) > mssmt.HashSize*8 {
		return false
	}
	var cur mssmt.Node = leaf
	for i := len(p.Siblings) - 1; i >= 0; i-- {
		sib := mssmt.NewComputedNode(p.Siblings[i].Hash, p.Siblings[i].Sum)
		if mssmt.BitIndex(i, key) == 0 {
			cur = mssmt.NewBranchNode(hasher, cur, sib)
		} else {
			cur = mssmt.NewBranchNode(hasher, sib, cur)
		}
	}
	return cur.NodeHash() == root
}
