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
	"encoding/binary"
	"fmt"

	"github.com/taprootassets/mssmt"
)

// encodeBranch serializes a branch as leftHash(32) || leftSum(8,BE) ||
// rightHash(32) || rightSum(8,BE), shared by boltstore.go and sqlstore.go.
func encodeBranch(b *mssmt.BranchNode) []byte {
	buf := make([]byte, 0, mssmt.HashSize*2+16)
	lh := b.Left.NodeHash()
	rh := b.Right.NodeHash()
	buf = append(buf, lh[:]...)
	buf = appendUint64(buf, b.Left.NodeSum())
	buf = append(buf, rh[:]...)
	buf = appendUint64(buf, b.Right.NodeSum())
	return buf
}

func decodeBranch(hasher mssmt.Hasher, data []byte) (*mssmt.BranchNode, error) {
	const want = mssmt.HashSize*2 + 16
	if len(data) != want {
		return nil, fmt.Errorf("mssmt/store: malformed branch record: got %d bytes, want %d", len(data), want)
	}
	var lh, rh mssmt.NodeHash
	copy(lh[:], data[0:mssmt.HashSize])
	lsum := binary.BigEndian.Uint64(data[mssmt.HashSize : mssmt.HashSize+8])
	copy(rh[:], data[mssmt.HashSize+8:mssmt.HashSize*2+8])
	rsum := binary.BigEndian.Uint64(data[mssmt.HashSize*2+8:])
	return mssmt.NewComputedBranch(hasher, lh, lsum, rh, rsum), nil
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// encodeLeaf serializes a leaf as sum(8,BE) || value.
func encodeLeaf(l *mssmt.LeafNode) []byte {
	buf := make([]byte, 0, 8+len(l.Value))
	buf = appendUint64(buf, l.Sum)
	buf = append(buf, l.Value...)
	return buf
}

func decodeLeaf(hasher mssmt.Hasher, data []byte) (*mssmt.LeafNode, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("mssmt/store: malformed leaf record: %d bytes", len(data))
	}
	sum := binary.BigEndian.Uint64(data[0:8])
	var value []byte
	if len(data) > 8 {
		value = append([]byte(nil), data[8:]...)
	}
	return mssmt.NewLeafNode(hasher, value, sum), nil
}

// encodeCompactLeaf serializes height(2,BE) || key(32) || leaf (same shape
// as encodeLeaf).
func encodeCompactLeaf(c *mssmt.CompactLeafNode) []byte {
	buf := make([]byte, 0, 2+mssmt.HashSize+8+len(c.Leaf.Value))
	var h [2]byte
	binary.BigEndian.PutUint16(h[:], uint16(c.Height))
	buf = append(buf, h[:]...)
	buf = append(buf, c.Key[:]...)
	buf = append(buf, encodeLeaf(c.Leaf)...)
	return buf
}

func decodeCompactLeaf(hasher mssmt.Hasher, empty *mssmt.EmptyTree, data []byte) (*mssmt.CompactLeafNode, error) {
	const headerLen = 2 + mssmt.HashSize
	if len(data) < headerLen+8 {
		return nil, fmt.Errorf("mssmt/store: malformed compact leaf record: %d bytes", len(data))
	}
	height := int(binary.BigEndian.Uint16(data[0:2]))
	var key mssmt.NodeHash
	copy(key[:], data[2:headerLen])
	leaf, err := decodeLeaf(hasher, data[headerLen:])
	if err != nil {
		return nil, err
	}
	return mssmt.NewCompactLeafNode(hasher, empty, height, key, leaf), nil
}
