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

// Package hash256 provides a SHA-256 mssmt.Hasher.
package hash256

import (
	"crypto/sha256"

	"github.com/taprootassets/mssmt"
)

// Hasher is a SHA-256-based mssmt.Hasher. The zero value is ready to use.
type Hasher struct{}

// New returns a SHA-256 Hasher.
func New() mssmt.Hasher { return Hasher{} }

// Digest hashes the concatenation of data.
func (Hasher) Digest(data ...[]byte) mssmt.NodeHash {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	var out mssmt.NodeHash
	copy(out[:], h.Sum(nil))
	return out
}
