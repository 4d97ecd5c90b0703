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

// bitIndex returns bit i of key using the tree's normative, LSB-first-
// within-byte convention: (key[i/8] >> (i%8)) & 1. Bit 0 of byte 0 selects
// the child at the root; a 0 bit means left, a 1 bit means right.
func bitIndex(i int, key NodeHash) uint8 {
	return (key[i/8] >> (i % 8)) & 1
}

// BitIndex is the exported form of bitIndex, for callers outside this
// package that need to recompute the same descent, e.g. a proof verifier
// folding siblings back into a root.
func BitIndex(i int, key NodeHash) uint8 {
	return bitIndex(i, key)
}
