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
	"sync"
	"time"

	"github.com/taprootassets/mssmt"
)

// Client caches a tree's root behind a mutex and can wait for it to
// change, the same pattern a caller polling a remote log's signed root
// would use — except here the "remote" root is just a database read.
type Client struct {
	t EngineReader

	rootLock sync.Mutex
	root     mssmt.NodeHash
}

// NewClient binds a Client to t, priming its cached root.
func NewClient(t EngineReader) (*Client, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return &Client{t: t, root: root.NodeHash()}, nil
}

// GetRoot returns the last root this client observed.
func (c *Client) GetRoot() mssmt.NodeHash {
	c.rootLock.Lock()
	defer c.rootLock.Unlock()
	return c.root
}

// backoff is a minimal exponential backoff, the same Min/Max/Factor shape
// a caller polling a remote service for a root update would use.
type backoff struct {
	cur, min, max time.Duration
	factor        float64
}

func (b *backoff) next() time.Duration {
	if b.cur == 0 {
		b.cur = b.min
	}
	d := b.cur
	b.cur = time.Duration(float64(b.cur) * b.factor)
	if b.cur > b.max {
		b.cur = b.max
	}
	return d
}

// WaitForRootUpdate polls the tree's root with exponential backoff until it
// differs from the last one this client observed, or ctx is done.
func (c *Client) WaitForRootUpdate(ctx context.Context) (mssmt.NodeHash, error) {
	b := &backoff{min: 50 * time.Millisecond, max: 5 * time.Second, factor: 2}
	last := c.GetRoot()
	for {
		root, err := c.t.Root()
		if err != nil {
			return mssmt.NodeHash{}, err
		}
		if root.NodeHash() != last {
			c.rootLock.Lock()
			c.root = root.NodeHash()
			c.rootLock.Unlock()
			return c.root, nil
		}
		select {
		case <-ctx.Done():
			return mssmt.NodeHash{}, ctx.Err()
		case <-time.After(b.next()):
		}
	}
}

// GetAndVerifyInclusion fetches a fresh proof for key from the tree and
// verifies it against the last root this client observed, recomputing the
// root from leaf and the proof rather than trusting either blindly.
func (c *Client) GetAndVerifyInclusion(key mssmt.NodeHash) (*mssmt.LeafNode, *Proof, bool, error) {
	p, leaf, err := Prove(c.t, key)
	if err != nil {
		return nil, p, false, err
	}
	ok := Verify(c.t.Hasher(), c.GetRoot(), key, leaf, p)
	return leaf, p, ok, nil
}
