// Package nodes manages the VTY line slots. A real VRP device caps the
// number of concurrent virtual terminal sessions; connections beyond the
// cap are rejected.
package nodes

import (
	"fmt"
	"sync"
)

type Node struct {
	ID int
}

func (n *Node) String() string {
	return fmt.Sprintf("VTY %d", n.ID)
}

type Manager struct {
	mu       sync.RWMutex
	maxNodes int
	nodes    []*Node
}

func NewManager(maxNodes int) *Manager {
	if maxNodes <= 0 {
		maxNodes = 10
	}
	return &Manager{
		maxNodes: maxNodes,
		nodes:    make([]*Node, maxNodes),
	}
}

// Acquire reserves the lowest free VTY slot.
func (m *Manager) Acquire() (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.nodes {
		if n == nil {
			node := &Node{ID: i + 1}
			m.nodes[i] = node
			return node, nil
		}
	}
	return nil, fmt.Errorf("all %d VTY lines in use", m.maxNodes)
}

func (m *Manager) Release(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 1 || id > m.maxNodes {
		return
	}
	m.nodes[id-1] = nil
}

// Online counts the VTY slots currently in use.
func (m *Manager) Online() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.nodes {
		if n != nil {
			count++
		}
	}
	return count
}

func (m *Manager) Max() int {
	return m.maxNodes
}
