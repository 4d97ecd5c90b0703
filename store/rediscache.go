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
	"time"

	"github.com/go-redis/redis"

	"github.com/taprootassets/mssmt"
)

// RedisCache is a read-through caching decorator over another Database,
// caching Branch/Leaf/CompactLeaf lookups by node hash and invalidating the
// corresponding cache key whenever the decorated backend deletes one.
type RedisCache struct {
	mssmt.Database
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps backend with a Redis-backed read cache at addr.
func NewRedisCache(backend mssmt.Database, addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{Database: backend, rdb: rdb, ttl: ttl}
}

func branchCacheKey(hash mssmt.NodeHash) string  { return "mssmt:branch:" + string(hash[:]) }
func leafCacheKey(hash mssmt.NodeHash) string    { return "mssmt:leaf:" + string(hash[:]) }
func compactCacheKey(hash mssmt.NodeHash) string { return "mssmt:compact:" + string(hash[:]) }

func (c *RedisCache) Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error) {
	key := branchCacheKey(hash)
	if data, err := c.rdb.Get(key).Bytes(); err == nil {
		return decodeBranch(c.Database.EmptyTree().Hasher(), data)
	}
	b, err := c.Database.Branch(hash)
	if err != nil {
		return nil, err
	}
	c.rdb.Set(key, encodeBranch(b), c.ttl)
	return b, nil
}

func (c *RedisCache) DeleteBranch(hash mssmt.NodeHash) error {
	c.rdb.Del(branchCacheKey(hash))
	return c.Database.DeleteBranch(hash)
}

func (c *RedisCache) Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error) {
	key := leafCacheKey(hash)
	if data, err := c.rdb.Get(key).Bytes(); err == nil {
		return decodeLeaf(c.Database.EmptyTree().Hasher(), data)
	}
	l, err := c.Database.Leaf(hash)
	if err != nil {
		return nil, err
	}
	c.rdb.Set(key, encodeLeaf(l), c.ttl)
	return l, nil
}

func (c *RedisCache) DeleteLeaf(hash mssmt.NodeHash) error {
	c.rdb.Del(leafCacheKey(hash))
	return c.Database.DeleteLeaf(hash)
}

func (c *RedisCache) CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error) {
	key := compactCacheKey(hash)
	empty := c.Database.EmptyTree()
	if data, err := c.rdb.Get(key).Bytes(); err == nil {
		return decodeCompactLeaf(empty.Hasher(), empty, data)
	}
	cl, err := c.Database.CompactLeaf(hash)
	if err != nil {
		return nil, err
	}
	c.rdb.Set(key, encodeCompactLeaf(cl), c.ttl)
	return cl, nil
}

func (c *RedisCache) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	c.rdb.Del(compactCacheKey(hash))
	return c.Database.DeleteCompactLeaf(hash)
}

// Children is overridden, rather than inherited via embedding, so it
// resolves through this cache's own Branch/Leaf/CompactLeaf methods instead
// of the wrapped backend's — Go doesn't virtually dispatch a promoted
// method back through the embedding struct's overrides.
func (c *RedisCache) Children(height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	return resolveChildren(c.Database.EmptyTree(), c, height, parentHash)
}
