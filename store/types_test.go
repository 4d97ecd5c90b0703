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
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kylelemons/godebug/diff"

	"github.com/taprootassets/mssmt"
	"github.com/taprootassets/mssmt/hash256"
)

// h2b decodes a hex string into a byte slice, panicking on malformed input:
// a test-only convenience so table entries can write keys as hex literals.
func h2b(hx string) []byte {
	b, err := hex.DecodeString(hx)
	if err != nil {
		panic(err)
	}
	return b
}

func key(hx string) mssmt.NodeHash {
	var k mssmt.NodeHash
	copy(k[:], h2b(hx))
	return k
}

func keyWithFirstByte(b byte) mssmt.NodeHash {
	var k mssmt.NodeHash
	k[0] = b
	return k
}

func TestMemStoreBranchRoundTrip(t *testing.T) {
	hasher := hash256.New()
	s := NewMemStore(hasher)

	left := mssmt.NewLeafNode(hasher, []byte("left"), 3)
	right := mssmt.NewLeafNode(hasher, []byte("right"), 4)
	branch := mssmt.NewBranchNode(hasher, left, right)

	if err := s.InsertBranch(branch); err != nil {
		t.Fatalf("InsertBranch: %v", err)
	}
	got, err := s.Branch(branch.NodeHash())
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if got.NodeHash() != branch.NodeHash() {
		t.Errorf("round-tripped branch hash = %x, want %x", got.NodeHash(), branch.NodeHash())
	}
	if got.NodeSum() != 7 {
		t.Errorf("round-tripped branch sum = %d, want 7", got.NodeSum())
	}

	if err := s.DeleteBranch(branch.NodeHash()); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if _, err := s.Branch(branch.NodeHash()); err != mssmt.ErrNodeNotFound {
		t.Errorf("Branch after delete: err = %v, want ErrNodeNotFound", err)
	}
}

func TestMemStoreChildrenFillsEmptyFromSpine(t *testing.T) {
	hasher := hash256.New()
	s := NewMemStore(hasher)
	empty := s.EmptyTree()

	left, right, err := s.Children(0, empty.Root().NodeHash())
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	want := empty.At(1).NodeHash()
	if left.NodeHash() != want || right.NodeHash() != want {
		t.Errorf("Children(0, emptyRoot) = (%x, %x), want both %x", left.NodeHash(), right.NodeHash(), want)
	}
}

func TestMemStoreChildrenUnknownParent(t *testing.T) {
	s := NewMemStore(hash256.New())
	var bogus mssmt.NodeHash
	bogus[0] = 0xff
	if _, _, err := s.Children(0, bogus); err != mssmt.ErrNodeNotFound {
		t.Errorf("Children(bogus): err = %v, want ErrNodeNotFound", err)
	}
}

func TestMemStoreKeysOrdered(t *testing.T) {
	hasher := hash256.New()
	s := NewMemStore(hasher)
	empty := s.EmptyTree()

	keys := []mssmt.NodeHash{
		keyWithFirstByte(0x03),
		keyWithFirstByte(0x01),
		keyWithFirstByte(0x02),
	}
	for _, k := range keys {
		leaf := mssmt.NewLeafNode(hasher, []byte("v"), 1)
		cl := mssmt.NewCompactLeafNode(hasher, empty, empty.MaxHeight(), k, leaf)
		if err := s.InsertCompactLeaf(cl); err != nil {
			t.Fatalf("InsertCompactLeaf: %v", err)
		}
	}

	got := s.Keys()
	if len(got) != 3 {
		t.Fatalf("Keys() returned %d entries, want 3", len(got))
	}
	for i := 0; i < len(got)-1; i++ {
		if bytesCompare(got[i][:], got[i+1][:]) > 0 {
			t.Errorf("Keys() not ascending at index %d: %x > %x", i, got[i], got[i+1])
		}
	}
}

// TestEncodeBranchSensitiveToChildOrder documents that encodeBranch is
// sensitive to left/right order: swapping a branch's children changes its
// wire encoding even though both children are the same pair of leaves.
// On failure, godebug/diff renders the two hex dumps lined up, which is
// easier to eyeball than a byte-slice equality failure.
func TestEncodeBranchSensitiveToChildOrder(t *testing.T) {
	hasher := hash256.New()
	left := mssmt.NewLeafNode(hasher, []byte("left"), 1)
	right := mssmt.NewLeafNode(hasher, []byte("right"), 2)

	forward := mssmt.NewBranchNode(hasher, left, right)
	swapped := mssmt.NewBranchNode(hasher, right, left)

	gotForward := hex.EncodeToString(encodeBranch(forward))
	gotSwapped := hex.EncodeToString(encodeBranch(swapped))
	if gotForward == gotSwapped {
		t.Errorf("encodeBranch did not change when children were swapped:\n%s", diff.Diff(gotForward, gotSwapped))
	}
}

func bytesCompare(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func TestEncodeDecodeLeafRoundTrip(t *testing.T) {
	hasher := hash256.New()
	leaf := mssmt.NewLeafNode(hasher, []byte("hello"), 42)

	data := encodeLeaf(leaf)
	got, err := decodeLeaf(hasher, data)
	if err != nil {
		t.Fatalf("decodeLeaf: %v", err)
	}
	if diff := cmp.Diff(leaf.Value, got.Value, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded leaf value mismatch (-want +got):\n%s", diff)
	}
	if got.Sum != leaf.Sum {
		t.Errorf("decoded leaf sum = %d, want %d", got.Sum, leaf.Sum)
	}
	if got.NodeHash() != leaf.NodeHash() {
		t.Errorf("decoded leaf hash = %x, want %x", got.NodeHash(), leaf.NodeHash())
	}
}
