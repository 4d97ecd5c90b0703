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

// Command bench inserts a batch of random leaves into both tree engines,
// backed by a bbolt file, and reports how long each took and the resulting
// root, so the regular and compacted implementations can be compared by
// hand against a chosen leaf count.
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/taprootassets/mssmt"
	"github.com/taprootassets/mssmt/hash256"
	"github.com/taprootassets/mssmt/store"
	"github.com/taprootassets/mssmt/testonly"
)

var (
	numLeaves = flag.Int("leaves", 10000, "Number of random leaves to insert")
	seed      = flag.Int64("seed", 1, "Seed for the random key/value generator")
)

// engine is satisfied by both *mssmt.Tree and *mssmt.CompactedTree.
type engine interface {
	Insert(key mssmt.NodeHash, value []byte, sum uint64) error
	Root() (*mssmt.BranchNode, error)
}

func timeInsert(name string, n int, t engine, r *rand.Rand, hasher mssmt.Hasher) {
	start := time.Now()
	for i := 0; i < n; i++ {
		leaf := testonly.RandLeaf(r, hasher, 32, 1<<20)
		key := testonly.RandKey(r)
		if err := t.Insert(key, leaf.Value, leaf.Sum); err != nil {
			glog.Fatalf("%s: insert %d: %v", name, i, err)
		}
	}
	root, err := t.Root()
	if err != nil {
		glog.Fatalf("%s: Root: %v", name, err)
	}
	glog.Infof("%s: inserted %d leaves in %s, root=%x sum=%d", name, n, time.Since(start), root.NodeHash(), root.NodeSum())
}

func openBoltStore(path string, hasher mssmt.Hasher) *store.BoltStore {
	db, err := store.OpenBolt(path, hasher)
	if err != nil {
		glog.Fatalf("OpenBolt(%s): %v", path, err)
	}
	return db
}

func main() {
	flag.Parse()
	glog.Info("**** mssmt insert benchmark ****")

	hasher := hash256.New()
	r := rand.New(rand.NewSource(*seed))

	regularFile, err := os.CreateTemp("", "mssmt-bench-regular-*.bolt")
	if err != nil {
		glog.Fatalf("create temp file: %v", err)
	}
	regularFile.Close()
	defer os.Remove(regularFile.Name())
	regularDB := openBoltStore(regularFile.Name(), hasher)

	regular, err := mssmt.NewTree(regularDB)
	if err != nil {
		glog.Fatalf("NewTree: %v", err)
	}
	timeInsert("regular", *numLeaves, regular, r, hasher)
	if err := regularDB.Close(); err != nil {
		glog.Errorf("close regular store: %v", err)
	}

	r = rand.New(rand.NewSource(*seed))
	compactedFile, err := os.CreateTemp("", "mssmt-bench-compacted-*.bolt")
	if err != nil {
		glog.Fatalf("create temp file: %v", err)
	}
	compactedFile.Close()
	defer os.Remove(compactedFile.Name())
	compactedDB := openBoltStore(compactedFile.Name(), hasher)

	compacted, err := mssmt.NewCompactedTree(compactedDB)
	if err != nil {
		glog.Fatalf("NewCompactedTree: %v", err)
	}
	timeInsert("compacted", *numLeaves, compacted, r, hasher)
	if err := compactedDB.Close(); err != nil {
		glog.Errorf("close compacted store: %v", err)
	}

	glog.Flush()
}
