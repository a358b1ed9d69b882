// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// entryCache holds rendered entries by id. Rendering assistant markdown is
// the slowest part of a redraw and entries never change once appended.
type entryCache struct {
	items map[string]string
}

func newEntryCache() *entryCache {
	return &entryCache{items: make(map[string]string)}
}

func (c *entryCache) get(id string) (string, bool) {
	s, ok := c.items[id]
	return s, ok
}

func (c *entryCache) put(id, rendered string) {
	c.items[id] = rendered
}

func (c *entryCache) reset() {
	clear(c.items)
}

func (c *entryCache) len() int {
	return len(c.items)
}
