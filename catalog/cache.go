// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/quickly-survey/form"
)

// Key identifies one version of one form.
type Key struct {
	FormID  string
	Version int
}

func (k Key) String() string {
	return k.FormID + "@" + strconv.Itoa(k.Version)
}

// Cache holds extracted catalogs per form version. Concurrent misses for
// the same key load and extract the form once.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*Catalog
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*Catalog)}
}

// Get returns the catalog for key, loading formXML on a miss. Load and
// extraction errors are returned and not cached.
func (c *Cache) Get(key Key, formXML []byte) (*Catalog, error) {
	c.mu.RLock()
	cat, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cat, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		doc, err := form.LoadForm(formXML)
		if err != nil {
			return nil, err
		}
		cat, err := Extract(doc)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cat
		c.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Invalidate drops every cached version of a form.
func (c *Cache) Invalidate(formID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.FormID == formID {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached catalogs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
