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

// Package testonly provides fixtures shared by mssmt's own tests and
// benchmarks: it must never be imported by non-test code.
package testonly

import (
	"encoding/binary"
	"math/rand"

	"github.com/taprootassets/mssmt"
)

// RandKey returns a pseudorandom 32-byte key driven by r.
func RandKey(r *rand.Rand) mssmt.NodeHash {
	var k mssmt.NodeHash
	r.Read(k[:])
	return k
}

// SequentialKey returns a key with i encoded big-endian into its first 8
// bytes, the rest zero, handy for tests that need a predictable ordering.
func SequentialKey(i uint64) mssmt.NodeHash {
	var k mssmt.NodeHash
	binary.BigEndian.PutUint64(k[:8], i)
	return k
}

// RandLeaf returns a leaf with n random bytes of value and a sum in
// [0, maxSum), driven by r.
func RandLeaf(r *rand.Rand, hasher mssmt.Hasher, n int, maxSum uint64) *mssmt.LeafNode {
	value := make([]byte, n)
	r.Read(value)
	var sum uint64
	if maxSum > 0 {
		sum = uint64(r.Int63n(int64(maxSum)))
	}
	return mssmt.NewLeafNode(hasher, value, sum)
}

// Populate inserts n random (key, leaf) pairs into t, returning the keys in
// insertion order so a caller can exercise lookups, proof generation or
// re-insertion afterwards.
func Populate(r *rand.Rand, hasher mssmt.Hasher, t interface {
	Insert(key mssmt.NodeHash, value []byte, sum uint64) error
}, n int) []mssmt.NodeHash {
	keys := make([]mssmt.NodeHash, n)
	for i := 0; i < n; i++ {
		key := RandKey(r)
		leaf := RandLeaf(r, hasher, 32, 1<<20)
		if err := t.Insert(key, leaf.Value, leaf.Sum); err != nil {
			panic(err)
		}
		keys[i] = key
	}
	return keys
}
