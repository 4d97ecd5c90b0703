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

import "errors"

var (
	// ErrSumOverflow is returned by Insert when adding the new leaf's sum
	// to the root's current sum would overflow a uint64. The tree is left
	// untouched.
	ErrSumOverflow = errors.New("mssmt: sum overflow")

	// ErrNodeNotFound is returned when a node addressed by hash isn't
	// present in any store, and when a key's terminal position resolves to
	// the canonical empty leaf (no entry at that key).
	ErrNodeNotFound = errors.New("mssmt: node not found")

	// ErrNodeNotBranch is returned when a node expected to be a Branch
	// turns out to be some other variant.
	ErrNodeNotBranch = errors.New("mssmt: node is not a branch")

	// ErrNodeNotLeaf is returned when the terminal node of a walk is
	// neither a Leaf nor the canonical empty leaf.
	ErrNodeNotLeaf = errors.New("mssmt: node is not a leaf")
)
