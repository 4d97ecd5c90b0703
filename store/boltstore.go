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
	"go.etcd.io/bbolt"

	"github.com/taprootassets/mssmt"
)

var (
	branchesBucket      = []byte("branches")
	leavesBucket        = []byte("leaves")
	compactLeavesBucket = []byte("compact-leaves")
	metaBucket          = []byte("meta")
	rootKey             = []byte("root")
)

// BoltStore is a durable, single-file Database backend over bbolt.
type BoltStore struct {
	db     *bbolt.DB
	hasher mssmt.Hasher
	empty  *mssmt.EmptyTree
}

// OpenBolt opens (creating if necessary) a bbolt-backed store at path.
func OpenBolt(path string, hasher mssmt.Hasher) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{branchesBucket, leavesBucket, compactLeavesBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, hasher: hasher, empty: mssmt.NewEmptyTree(hasher)}, nil
}

// Close closes the underlying bbolt.DB.
func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) EmptyTree() *mssmt.EmptyTree { return s.empty }

func (s *BoltStore) Root() (*mssmt.BranchNode, error) {
	emptyRootHash := s.empty.Root().NodeHash()
	var root *mssmt.BranchNode
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(rootKey)
		if v == nil {
			return nil
		}
		var hash mssmt.NodeHash
		copy(hash[:], v)
		if hash == emptyRootHash {
			root = s.empty.Root()
			return nil
		}
		data := tx.Bucket(branchesBucket).Get(hash[:])
		if data == nil {
			return mssmt.ErrNodeNotFound
		}
		b, err := decodeBranch(s.hasher, data)
		if err != nil {
			return err
		}
		root = b
		return nil
	})
	return root, err
}

func (s *BoltStore) UpdateRoot(root *mssmt.BranchNode) error {
	hash := root.NodeHash()
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(branchesBucket).Put(hash[:], encodeBranch(root)); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(rootKey, hash[:])
	})
}

func (s *BoltStore) Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error) {
	var out *mssmt.BranchNode
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(branchesBucket).Get(hash[:])
		if data == nil {
			return mssmt.ErrNodeNotFound
		}
		b, err := decodeBranch(s.hasher, data)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (s *BoltStore) InsertBranch(b *mssmt.BranchNode) error {
	hash := b.NodeHash()
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(branchesBucket).Put(hash[:], encodeBranch(b))
	})
}

func (s *BoltStore) DeleteBranch(hash mssmt.NodeHash) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(branchesBucket).Delete(hash[:])
	})
}

func (s *BoltStore) Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error) {
	var out *mssmt.LeafNode
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(leavesBucket).Get(hash[:])
		if data == nil {
			return mssmt.ErrNodeNotFound
		}
		l, err := decodeLeaf(s.hasher, data)
		if err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

func (s *BoltStore) InsertLeaf(l *mssmt.LeafNode) error {
	hash := l.NodeHash()
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(leavesBucket).Put(hash[:], encodeLeaf(l))
	})
}

func (s *BoltStore) DeleteLeaf(hash mssmt.NodeHash) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(leavesBucket).Delete(hash[:])
	})
}

func (s *BoltStore) CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error) {
	var out *mssmt.CompactLeafNode
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(compactLeavesBucket).Get(hash[:])
		if data == nil {
			return mssmt.ErrNodeNotFound
		}
		c, err := decodeCompactLeaf(s.hasher, s.empty, data)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *BoltStore) InsertCompactLeaf(c *mssmt.CompactLeafNode) error {
	hash := c.NodeHash()
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(compactLeavesBucket).Put(hash[:], encodeCompactLeaf(c))
	})
}

func (s *BoltStore) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(compactLeavesBucket).Delete(hash[:])
	})
}

func (s *BoltStore) Children(height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	return resolveChildren(s.empty, s, height, parentHash)
}
