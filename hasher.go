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

// Package mssmt implements a merkle sum sparse merkle tree: a sparse merkle
// tree in which every leaf carries an integer sum alongside its value, and
// every branch caches the sum of its subtree, so a root commits to both a
// key-value set and a total.
package mssmt

// HashSize is the width, in bytes, of every node hash and of every key.
// It also fixes the tree's height: a tree addressed by HashSize*8-bit keys
// has MaxHeight = HashSize*8 levels below the root.
const HashSize = 32

// NodeHash is the fixed-width digest produced by a Hasher, and the key type
// used to address a leaf's position in the tree.
type NodeHash [HashSize]byte

// Hasher is the pure, stateless digest function both engines and the empty
// spine builder share. Implementations must be safe for concurrent use, and
// must not retain or mutate the byte slices passed to Digest.
type Hasher interface {
	// Digest hashes the concatenation of data.
	Digest(data ...[]byte) NodeHash
}
