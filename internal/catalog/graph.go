package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/joestump/catalog-core/internal/store"
	"github.com/joestump/catalog-core/internal/variant"
)

// productGraph resolves variant parents from the product store.
type productGraph struct {
	products ProductRepo
}

func (g productGraph) Node(ctx context.Context, key string) (variant.Node, error) {
	p, err := g.products.GetByID(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return variant.Node{}, fmt.Errorf("%w: %s", variant.ErrNodeNotFound, key)
	}
	if err != nil {
		return variant.Node{}, err
	}
	return nodeOf(p, ""), nil
}

// nodeOf maps p into the variant forest. token identifies p while it has no ID.
func nodeOf(p *store.Product, token string) variant.Node {
	return variant.Node{
		ID:     p.ID,
		Token:  token,
		TypeID: p.ProductTypeID,
		Name:   p.Name,
		Parent: p.ParentID(),
	}
}
