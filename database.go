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

// Database is the persistence capability both engines are built against:
// CRUD for branches, leaves and compact leaves addressed by node hash, a
// singleton root slot, and the shared empty spine. Implementations live in
// mssmt/store; this interface is declared here, in the package that
// consumes it, so store can depend on mssmt without mssmt depending back
// on store.
type Database interface {
	// Root returns the current root branch, or nil if none has been set
	// yet (a fresh store).
	Root() (*BranchNode, error)
	// UpdateRoot replaces the stored root reference.
	UpdateRoot(root *BranchNode) error

	Branch(hash NodeHash) (*BranchNode, error)
	InsertBranch(branch *BranchNode) error
	DeleteBranch(hash NodeHash) error

	Leaf(hash NodeHash) (*LeafNode, error)
	InsertLeaf(leaf *LeafNode) error
	DeleteLeaf(hash NodeHash) error

	CompactLeaf(hash NodeHash) (*CompactLeafNode, error)
	InsertCompactLeaf(leaf *CompactLeafNode) error
	DeleteCompactLeaf(hash NodeHash) error

	// Children returns the two children of the node identified by
	// parentHash at height. Empty slots are filled from the empty spine.
	// Returns ErrNodeNotFound if parentHash is neither empty at height
	// nor present in the branch store.
	Children(height int, parentHash NodeHash) (left, right Node, err error)

	// EmptyTree exposes the shared, immutable empty spine this store was
	// initialized with.
	EmptyTree() *EmptyTree
}
