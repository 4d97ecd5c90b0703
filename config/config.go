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

// Package config loads a YAML tree configuration and wires up the
// corresponding mssmt.Hasher and mssmt.Database implementations. It lives in
// its own package because it must import both mssmt and mssmt/store, and
// mssmt cannot import mssmt/store (store already imports mssmt).
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/taprootassets/mssmt"
	"github.com/taprootassets/mssmt/hash256"
	"github.com/taprootassets/mssmt/hashblake2b"
	"github.com/taprootassets/mssmt/store"
)

// Config describes how to build a tree's hasher and backing store.
type Config struct {
	// HashAlgorithm selects the digest used for leaf and branch hashes:
	// "sha256" or "blake2b". Defaults to "sha256".
	HashAlgorithm string `yaml:"hash_algorithm"`

	// StoreBackend selects the Database implementation: "mem", "bolt",
	// "mysql" or "postgres".
	StoreBackend string `yaml:"store_backend"`

	// StoreDSN is the bolt file path, or the mysql/postgres DSN. Unused
	// for the mem backend.
	StoreDSN string `yaml:"store_dsn"`

	// RedisAddr, if set, wraps the store in a RedisCache at this address.
	RedisAddr      string `yaml:"redis_addr"`
	RedisTTLSeconds int   `yaml:"redis_ttl_seconds"`

	// RateLimitPerSecond, if nonzero, wraps the store in a RateLimited
	// throttling mutations to this many per second.
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
}

// Load parses a YAML document into a Config, filling in defaults.
func Load(data []byte) (*Config, error) {
	cfg := &Config{
		HashAlgorithm: "sha256",
		StoreBackend:  "mem",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Hasher returns the mssmt.Hasher named by HashAlgorithm.
func (c *Config) Hasher() (mssmt.Hasher, error) {
	switch c.HashAlgorithm {
	case "", "sha256":
		return hash256.New(), nil
	case "blake2b":
		return hashblake2b.New(), nil
	default:
		return nil, fmt.Errorf("config: unknown hash_algorithm %q", c.HashAlgorithm)
	}
}

// NewStore builds the mssmt.Database described by this config, applying the
// Redis and rate-limit decorators in turn if configured.
func (c *Config) NewStore() (mssmt.Database, error) {
	hasher, err := c.Hasher()
	if err != nil {
		return nil, err
	}

	var db mssmt.Database
	switch c.StoreBackend {
	case "", "mem":
		db = store.NewMemStore(hasher)
	case "bolt":
		db, err = store.OpenBolt(c.StoreDSN, hasher)
		if err != nil {
			return nil, fmt.Errorf("config: open bolt store: %w", err)
		}
	case "mysql":
		db, err = store.NewMySQL(c.StoreDSN, hasher)
		if err != nil {
			return nil, fmt.Errorf("config: open mysql store: %w", err)
		}
	case "postgres":
		db, err = store.NewPostgres(c.StoreDSN, hasher)
		if err != nil {
			return nil, fmt.Errorf("config: open postgres store: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unknown store_backend %q", c.StoreBackend)
	}

	if c.RedisAddr != "" {
		ttl := time.Duration(c.RedisTTLSeconds) * time.Second
		if ttl == 0 {
			ttl = 30 * time.Second
		}
		db = store.NewRedisCache(db, c.RedisAddr, ttl)
	}
	if c.RateLimitPerSecond > 0 {
		db = store.NewRateLimited(db, c.RateLimitPerSecond)
	}
	return db, nil
}
