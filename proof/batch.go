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

package proof

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taprootassets/mssmt"
)

// Item bundles a proof together with the key and leaf it attests to, so a
// batch of independently-fetched proofs can be verified concurrently.
type Item struct {
	Key   mssmt.NodeHash
	Leaf  *mssmt.LeafNode
	Proof *Proof
}

// VerifyBatch verifies every item against root concurrently, one goroutine
// per item bounded by runtime.GOMAXPROCS, and returns one bool per item in
// the same order. Verify never errors or panics on malformed input, so the
// only error VerifyBatch can return comes from the errgroup's context.
func VerifyBatch(hasher mssmt.Hasher, root mssmt.NodeHash, items []Item) ([]bool, error) {
	results := make([]bool, len(items))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range items {
		i := i
		g.Go(func() error {
			results[i] = Verify(hasher, root, items[i].Key, items[i].Leaf, items[i].Proof)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
