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
	"context"

	"golang.org/x/time/rate"

	"github.com/taprootassets/mssmt"
)

// RateLimited wraps a Database, throttling its mutating calls to at most
// perSecond per second. Reads pass through unthrottled.
type RateLimited struct {
	mssmt.Database
	limiter *rate.Limiter
}

// NewRateLimited wraps backend, allowing at most perSecond mutations per
// second, with a burst of int(perSecond)+1.
func NewRateLimited(backend mssmt.Database, perSecond float64) *RateLimited {
	return &RateLimited{
		Database: backend,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
	}
}

func (r *RateLimited) wait() error { return r.limiter.Wait(context.Background()) }

func (r *RateLimited) UpdateRoot(root *mssmt.BranchNode) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.UpdateRoot(root)
}

func (r *RateLimited) InsertBranch(b *mssmt.BranchNode) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.InsertBranch(b)
}

func (r *RateLimited) DeleteBranch(hash mssmt.NodeHash) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.DeleteBranch(hash)
}

func (r *RateLimited) InsertLeaf(l *mssmt.LeafNode) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.InsertLeaf(l)
}

func (r *RateLimited) DeleteLeaf(hash mssmt.NodeHash) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.DeleteLeaf(hash)
}

func (r *RateLimited) InsertCompactLeaf(c *mssmt.CompactLeafNode) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.InsertCompactLeaf(c)
}

func (r *RateLimited) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	if err := r.wait(); err != nil {
		return err
	}
	return r.Database.DeleteCompactLeaf(hash)
}
