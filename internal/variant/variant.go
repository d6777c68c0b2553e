// Package variant guards the variant_of hierarchy: no cycles, no self
// references and no variants across product types.
package variant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNodeNotFound is returned by a Graph when a key has no node.
var ErrNodeNotFound = errors.New("variant node not found")

// Node is one product in the variant forest. Parent links are keys, never
// embedded nodes.
type Node struct {
	// ID is the stable identifier; empty until the product is persisted.
	ID string
	// Token identifies an unsaved product. See NewToken.
	Token  string
	TypeID string
	Name   string
	// Parent is the key of the node this one is a variant of; empty for roots.
	Parent string
}

// Key is the identity used while walking the forest.
func (n Node) Key() string {
	if n.ID != "" {
		return n.ID
	}
	return n.Token
}

// NewToken returns an ephemeral identity for a product that has no ID yet.
func NewToken() string {
	return "unsaved-" + uuid.NewString()
}

// Graph resolves nodes by key.
type Graph interface {
	Node(ctx context.Context, key string) (Node, error)
}

// Arena is an in-memory Graph.
type Arena struct {
	mu    sync.RWMutex
	nodes map[string]Node
}

// NewArena returns an Arena holding nodes.
func NewArena(nodes ...Node) *Arena {
	a := &Arena{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		a.Put(n)
	}
	return a
}

// Put adds or replaces n under its key.
func (a *Arena) Put(n Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nodes[n.Key()] = n
}

// Node implements Graph.
func (a *Arena) Node(_ context.Context, key string) (Node, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n, ok := a.nodes[key]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return n, nil
}

// Validator runs the variant checks. The zero value is ready to use.
type Validator struct{}

// NewValidator returns a Validator.
func NewValidator() *Validator { return &Validator{} }

// ValidateChain walks the parent links of n. Reaching n again, or any node
// already visited, fails with *CircularVariantError. Reaching a root succeeds.
func (v *Validator) ValidateChain(ctx context.Context, n Node, g Graph) error {
	start := n.Key()
	seen := make(map[string]bool)

	for key := n.Parent; key != ""; {
		if key == start || seen[key] {
			return &CircularVariantError{Product: start, Parent: key}
		}
		seen[key] = true

		parent, err := v.parent(ctx, g, key)
		if err != nil {
			return err
		}
		key = parent.Parent
	}
	return nil
}

// ValidateIntegrity rejects a persisted product pointing at itself and a
// variant whose product type differs from its parent's.
func (v *Validator) ValidateIntegrity(ctx context.Context, n Node, g Graph) error {
	if n.Parent == "" {
		return nil
	}
	if n.ID != "" && n.Parent == n.ID {
		return &SelfVariantError{ID: n.ID, Name: n.Name}
	}

	parent, err := v.parent(ctx, g, n.Parent)
	if err != nil {
		return err
	}
	if parent.TypeID != n.TypeID {
		return &TypeMismatchError{
			Product:    n.Name,
			Parent:     parent.Key(),
			TypeID:     n.TypeID,
			ParentType: parent.TypeID,
		}
	}
	return nil
}

func (v *Validator) parent(ctx context.Context, g Graph, key string) (Node, error) {
	parent, err := g.Node(ctx, key)
	if errors.Is(err, ErrNodeNotFound) {
		return Node{}, &MissingParentError{Parent: key}
	}
	if err != nil {
		return Node{}, fmt.Errorf("load variant parent %s: %w", key, err)
	}
	return parent, nil
}
