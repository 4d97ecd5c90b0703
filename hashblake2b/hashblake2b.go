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

// Package hashblake2b provides a BLAKE2b-256 mssmt.Hasher, a second
// algorithm proving the Hasher capability is pluggable.
package hashblake2b

import (
	"golang.org/x/crypto/blake2b"

	"github.com/taprootassets/mssmt"
)

// Hasher is a BLAKE2b-256-based mssmt.Hasher. The zero value is ready to
// use.
type Hasher struct{}

// New returns a BLAKE2b-256 Hasher.
func New() mssmt.Hasher { return Hasher{} }

// Digest hashes the concatenation of data.
func (Hasher) Digest(data ...[]byte) mssmt.NodeHash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a non-nil key longer than 64
		// bytes; this call never passes one.
		panic(err)
	}
	for _, d := range data {
		h.Write(d)
	}
	var out mssmt.NodeHash
	copy(out[:], h.Sum(nil))
	return out
}
