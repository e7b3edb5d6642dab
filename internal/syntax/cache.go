package syntax

import (
	"sort"
	"strings"
	"sync"
)

// NodeCache answers "all nodes whose kind is in S" for one tree. Each
// distinct kind set is computed with one full walk on first request and
// reused afterwards.
type NodeCache struct {
	root *Node

	mu    sync.Mutex
	byKey map[string][]*Node
}

// NewNodeCache creates a cache over the tree rooted at root.
func NewNodeCache(root *Node) *NodeCache {
	return &NodeCache{
		root:  root,
		byKey: make(map[string][]*Node),
	}
}

// Root returns the tree root.
func (c *NodeCache) Root() *Node {
	return c.root
}

// Get returns the nodes of the given kinds in document order. The returned
// slice is shared and must not be modified.
func (c *NodeCache) Get(kinds ...string) []*Node {
	key := cacheKey(kinds)

	c.mu.Lock()
	defer c.mu.Unlock()

	if nodes, ok := c.byKey[key]; ok {
		return nodes
	}
	nodes := c.root.Find(kinds...)
	c.byKey[key] = nodes
	return nodes
}

// cacheKey makes the key independent of argument order.
func cacheKey(kinds []string) string {
	sorted := append([]string(nil), kinds...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
