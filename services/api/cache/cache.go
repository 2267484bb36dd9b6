// Copyright 2025 The TGV Tracker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Cache memoizes computed aggregates for a bounded time, the LRU bounds the
// memory it can hold
type Cache struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	value   interface{}
	expires time.Time
}

// CreateCache creates a cache holding at most `size` entries, each valid for
// `ttl`
func CreateCache(size int, ttl time.Duration) (*Cache, error) {
	underlying, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		lru: underlying,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// Key builds a cache key from the request dimensions
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get retrieves a live entry, expired entries are evicted on the way
func (c *Cache) Get(key string) (interface{}, bool) {
	cached, exists := c.lru.Get(key)
	if !exists {
		return nil, false
	}
	cachedEntry := cached.(entry)
	if c.now().After(cachedEntry.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return cachedEntry.value, true
}

// Put stores a value under the given key
func (c *Cache) Put(key string, value interface{}) {
	c.lru.Add(key, entry{
		value:   value,
		expires: c.now().Add(c.ttl),
	})
}
