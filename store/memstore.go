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

import (
	"sync"

	"github.com/google/btree"

	"github.com/taprootassets/mssmt"
)

// MemStore is the in-memory reference Database: a test fixture, not a
// durability guarantee.
type MemStore struct {
	mu sync.RWMutex

	empty *mssmt.EmptyTree
	root  *mssmt.BranchNode

	branches      map[mssmt.NodeHash]*mssmt.BranchNode
	leaves        map[mssmt.NodeHash]*mssmt.LeafNode
	compactLeaves map[mssmt.NodeHash]*mssmt.CompactLeafNode

	// byKey orders live compact-leaf keys so Keys() can enumerate them
	// without a full map scan.
	byKey *btree.BTree
}

type keyedLeaf struct {
	key mssmt.NodeHash
}

func (k keyedLeaf) Less(than btree.Item) bool {
	other := than.(keyedLeaf)
	for i := range k.key {
		if k.key[i] != other.key[i] {
			return k.key[i] < other.key[i]
		}
	}
	return false
}

// NewMemStore returns an empty MemStore for the given hasher.
func NewMemStore(hasher mssmt.Hasher) *MemStore {
	return &MemStore{
		empty:         mssmt.NewEmptyTree(hasher),
		branches:      make(map[mssmt.NodeHash]*mssmt.BranchNode),
		leaves:        make(map[mssmt.NodeHash]*mssmt.LeafNode),
		compactLeaves: make(map[mssmt.NodeHash]*mssmt.CompactLeafNode),
		byKey:         btree.New(32),
	}
}

func (m *MemStore) EmptyTree() *mssmt.EmptyTree { return m.empty }

func (m *MemStore) Root() (*mssmt.BranchNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root, nil
}

func (m *MemStore) UpdateRoot(root *mssmt.BranchNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	return nil
}

func (m *MemStore) Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.branches[hash]
	if !ok {
		return nil, mssmt.ErrNodeNotFound
	}
	return b, nil
}

func (m *MemStore) InsertBranch(b *mssmt.BranchNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[b.NodeHash()] = b
	return nil
}

func (m *MemStore) DeleteBranch(hash mssmt.NodeHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.branches, hash)
	return nil
}

func (m *MemStore) Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leaves[hash]
	if !ok {
		return nil, mssmt.ErrNodeNotFound
	}
	// Copy before releasing the lock: MemStore is the only backend that
	// hands back a pointer into its own live storage (boltstore.go and
	// sqlstore.go decode a fresh LeafNode per call), so a caller mutating
	// Value in place would otherwise corrupt this store's state.
	return l.Copy(), nil
}

func (m *MemStore) InsertLeaf(l *mssmt.LeafNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[l.NodeHash()] = l
	return nil
}

func (m *MemStore) DeleteLeaf(hash mssmt.NodeHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leaves, hash)
	return nil
}

func (m *MemStore) CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.compactLeaves[hash]
	if !ok {
		return nil, mssmt.ErrNodeNotFound
	}
	return c, nil
}

func (m *MemStore) InsertCompactLeaf(c *mssmt.CompactLeafNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compactLeaves[c.NodeHash()] = c
	m.byKey.ReplaceOrInsert(keyedLeaf{key: c.Key})
	return nil
}

func (m *MemStore) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.compactLeaves[hash]; ok {
		m.byKey.Delete(keyedLeaf{key: c.Key})
	}
	delete(m.compactLeaves, hash)
	return nil
}

func (m *MemStore) Children(height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return resolveChildren(m.empty, m, height, parentHash)
}

// Keys returns every live compact leaf's key in ascending order.
func (m *MemStore) Keys() []mssmt.NodeHash {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]mssmt.NodeHash, 0, m.byKey.Len())
	m.byKey.Ascend(func(i btree.Item) bool {
		keys = append(keys, i.(keyedLeaf).key)
		return true
	})
	return keys
}
