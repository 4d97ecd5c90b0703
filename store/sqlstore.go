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
	"database/sql"
	"fmt"

	"github.com/taprootassets/mssmt"
)

type placeholderStyle int

const (
	// placeholderQuestion is MySQL's `?` binding style.
	placeholderQuestion placeholderStyle = iota
	// placeholderDollar is Postgres's `$n` binding style.
	placeholderDollar
)

func (p placeholderStyle) arg(n int) string {
	if p == placeholderDollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SQLStore is a generic database/sql-backed Database, parameterized over a
// placeholder dialect so the same query bodies serve both MySQL's `?` and
// Postgres's `$n` binding styles. Use NewMySQL or NewPostgres to construct
// one.
type SQLStore struct {
	db     *sql.DB
	hasher mssmt.Hasher
	empty  *mssmt.EmptyTree
	ph     placeholderStyle
}

func newSQLStore(db *sql.DB, ph placeholderStyle, hasher mssmt.Hasher) *SQLStore {
	return &SQLStore{db: db, hasher: hasher, empty: mssmt.NewEmptyTree(hasher), ph: ph}
}

// Close closes the underlying *sql.DB.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) EmptyTree() *mssmt.EmptyTree { return s.empty }

func (s *SQLStore) Root() (*mssmt.BranchNode, error) {
	q := fmt.Sprintf("SELECT value FROM mssmt_meta WHERE meta_key = %s", s.ph.arg(1))
	var hashBytes []byte
	err := s.db.QueryRow(q, "root").Scan(&hashBytes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var hash mssmt.NodeHash
	copy(hash[:], hashBytes)
	if hash == s.empty.Root().NodeHash() {
		return s.empty.Root(), nil
	}
	return s.Branch(hash)
}

func (s *SQLStore) UpdateRoot(root *mssmt.BranchNode) error {
	hash := root.NodeHash()
	if err := s.putBranch(root); err != nil {
		return err
	}
	var q string
	if s.ph == placeholderQuestion {
		q = fmt.Sprintf(
			"INSERT INTO mssmt_meta (meta_key, value) VALUES (%s, %s) ON DUPLICATE KEY UPDATE value = VALUES(value)",
			s.ph.arg(1), s.ph.arg(2))
	} else {
		q = fmt.Sprintf(
			"INSERT INTO mssmt_meta (meta_key, value) VALUES (%s, %s) ON CONFLICT (meta_key) DO UPDATE SET value = EXCLUDED.value",
			s.ph.arg(1), s.ph.arg(2))
	}
	_, err := s.db.Exec(q, "root", hash[:])
	return err
}

func (s *SQLStore) Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error) {
	q := fmt.Sprintf("SELECT data FROM mssmt_branches WHERE node_hash = %s", s.ph.arg(1))
	var data []byte
	err := s.db.QueryRow(q, hash[:]).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, mssmt.ErrNodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBranch(s.hasher, data)
}

func (s *SQLStore) putBranch(b *mssmt.BranchNode) error {
	hash := b.NodeHash()
	return s.upsert("mssmt_branches", "node_hash", hash[:], encodeBranch(b))
}

func (s *SQLStore) InsertBranch(b *mssmt.BranchNode) error { return s.putBranch(b) }

func (s *SQLStore) DeleteBranch(hash mssmt.NodeHash) error {
	return s.delete("mssmt_branches", "node_hash", hash[:])
}

func (s *SQLStore) Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error) {
	q := fmt.Sprintf("SELECT data FROM mssmt_leaves WHERE node_hash = %s", s.ph.arg(1))
	var data []byte
	err := s.db.QueryRow(q, hash[:]).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, mssmt.ErrNodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeLeaf(s.hasher, data)
}

func (s *SQLStore) InsertLeaf(l *mssmt.LeafNode) error {
	hash := l.NodeHash()
	return s.upsert("mssmt_leaves", "node_hash", hash[:], encodeLeaf(l))
}

func (s *SQLStore) DeleteLeaf(hash mssmt.NodeHash) error {
	return s.delete("mssmt_leaves", "node_hash", hash[:])
}

func (s *SQLStore) CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error) {
	q := fmt.Sprintf("SELECT data FROM mssmt_compact_leaves WHERE node_hash = %s", s.ph.arg(1))
	var data []byte
	err := s.db.QueryRow(q, hash[:]).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, mssmt.ErrNodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeCompactLeaf(s.hasher, s.empty, data)
}

func (s *SQLStore) InsertCompactLeaf(c *mssmt.CompactLeafNode) error {
	hash := c.NodeHash()
	return s.upsert("mssmt_compact_leaves", "node_hash", hash[:], encodeCompactLeaf(c))
}

func (s *SQLStore) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	return s.delete("mssmt_compact_leaves", "node_hash", hash[:])
}

func (s *SQLStore) Children(height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	return resolveChildren(s.empty, s, height, parentHash)
}

func (s *SQLStore) upsert(table, keyCol string, key, data []byte) error {
	var q string
	if s.ph == placeholderQuestion {
		q = fmt.Sprintf("INSERT INTO %s (%s, data) VALUES (%s, %s) ON DUPLICATE KEY UPDATE data = VALUES(data)",
			table, keyCol, s.ph.arg(1), s.ph.arg(2))
	} else {
		q = fmt.Sprintf("INSERT INTO %s (%s, data) VALUES (%s, %s) ON CONFLICT (%s) DO UPDATE SET data = EXCLUDED.data",
			table, keyCol, s.ph.arg(1), s.ph.arg(2), keyCol)
	}
	_, err := s.db.Exec(q, key, data)
	return err
}

func (s *SQLStore) delete(table, keyCol string, key []byte) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, keyCol, s.ph.arg(1))
	_, err := s.db.Exec(q, key)
	return err
}
