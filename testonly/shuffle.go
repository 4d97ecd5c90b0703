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

package testonly

import (
	"math/rand"

	"github.com/taprootassets/mssmt"
)

// Shuffle returns a copy of keys in a pseudorandom order driven by r, for
// tests that want to check insertion order doesn't affect the resulting
// root hash.
func Shuffle(r *rand.Rand, keys []mssmt.NodeHash) []mssmt.NodeHash {
	out := make([]mssmt.NodeHash, len(keys))
	copy(out, keys)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// PickRandom returns a uniformly random element of keys, the same "take
// whichever element a random map iteration lands on first" idea a random
// load balancer uses to pick a backend, applied here to pick a key to
// re-insert or re-prove in a test.
func PickRandom(r *rand.Rand, keys []mssmt.NodeHash) mssmt.NodeHash {
	return keys[r.Intn(len(keys))]
}
