package variant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/catalog-core/internal/variant"
)

func TestValidateChain(t *testing.T) {
	ctx := context.Background()
	v := variant.NewValidator()

	t.Run("root passes", func(t *testing.T) {
		require.NoError(t, v.ValidateChain(ctx, variant.Node{ID: "a"}, variant.NewArena()))
	})

	t.Run("three level forest passes", func(t *testing.T) {
		a := variant.Node{ID: "a", TypeID: "laptop", Name: "A"}
		b := variant.Node{ID: "b", TypeID: "laptop", Name: "B", Parent: "a"}
		c := variant.Node{ID: "c", TypeID: "laptop", Name: "C", Parent: "b"}
		g := variant.NewArena(a, b, c)
		for _, n := range []variant.Node{a, b, c} {
			assert.NoError(t, v.ValidateChain(ctx, n, g), n.Name)
			assert.NoError(t, v.ValidateIntegrity(ctx, n, g), n.Name)
		}
	})

	t.Run("cycle detected from every member", func(t *testing.T) {
		a := variant.Node{ID: "a", Parent: "c"}
		b := variant.Node{ID: "b", Parent: "a"}
		c := variant.Node{ID: "c", Parent: "b"}
		g := variant.NewArena(a, b, c)
		for _, n := range []variant.Node{a, b, c} {
			err := v.ValidateChain(ctx, n, g)
			var cerr *variant.CircularVariantError
			require.True(t, errors.As(err, &cerr), "node %s: got %v", n.ID, err)
			assert.Equal(t, n.ID, cerr.Product)
			assert.Equal(t, "variant_of", cerr.Field())
		}
	})

	t.Run("cycle above the start node", func(t *testing.T) {
		// d -> a -> b -> a
		a := variant.Node{ID: "a", Parent: "b"}
		b := variant.Node{ID: "b", Parent: "a"}
		d := variant.Node{ID: "d", Parent: "a"}
		err := v.ValidateChain(ctx, d, variant.NewArena(a, b, d))
		var cerr *variant.CircularVariantError
		require.True(t, errors.As(err, &cerr), "got %v", err)
		assert.Equal(t, "a", cerr.Parent)
	})

	t.Run("direct self link is a cycle", func(t *testing.T) {
		a := variant.Node{ID: "a", Parent: "a"}
		err := v.ValidateChain(ctx, a, variant.NewArena(a))
		var cerr *variant.CircularVariantError
		assert.True(t, errors.As(err, &cerr))
	})

	t.Run("unsaved nodes use tokens", func(t *testing.T) {
		root := variant.Node{Token: variant.NewToken(), TypeID: "phone"}
		child := variant.Node{Token: variant.NewToken(), TypeID: "phone", Parent: root.Key()}
		g := variant.NewArena(root, child)
		assert.NotEqual(t, root.Key(), child.Key())
		assert.NoError(t, v.ValidateChain(ctx, child, g))
		assert.NoError(t, v.ValidateIntegrity(ctx, child, g))
	})

	t.Run("missing parent", func(t *testing.T) {
		err := v.ValidateChain(ctx, variant.Node{ID: "a", Parent: "ghost"}, variant.NewArena())
		var merr *variant.MissingParentError
		require.True(t, errors.As(err, &merr), "got %v", err)
		assert.Equal(t, "ghost", merr.Parent)
	})
}

func TestValidateIntegrity(t *testing.T) {
	ctx := context.Background()
	v := variant.NewValidator()

	t.Run("self reference", func(t *testing.T) {
		a := variant.Node{ID: "a", Name: "Pixel", TypeID: "phone", Parent: "a"}
		err := v.ValidateIntegrity(ctx, a, variant.NewArena(a))
		var serr *variant.SelfVariantError
		require.True(t, errors.As(err, &serr), "got %v", err)
		assert.Equal(t, "a", serr.ID)
		assert.Equal(t, "variant_of", serr.Field())
	})

	t.Run("cross type parent", func(t *testing.T) {
		parent := variant.Node{ID: "p", TypeID: "laptop"}
		child := variant.Node{ID: "c", Name: "Child", TypeID: "tablet", Parent: "p"}
		err := v.ValidateIntegrity(ctx, child, variant.NewArena(parent, child))
		var terr *variant.TypeMismatchError
		require.True(t, errors.As(err, &terr), "got %v", err)
		assert.Equal(t, "tablet", terr.TypeID)
		assert.Equal(t, "laptop", terr.ParentType)
	})

	t.Run("unsaved child of persisted parent", func(t *testing.T) {
		parent := variant.Node{ID: "p", TypeID: "laptop"}
		child := variant.Node{Token: variant.NewToken(), TypeID: "laptop", Parent: "p"}
		assert.NoError(t, v.ValidateIntegrity(ctx, child, variant.NewArena(parent)))
	})

	t.Run("no parent", func(t *testing.T) {
		assert.NoError(t, v.ValidateIntegrity(ctx, variant.Node{ID: "a"}, variant.NewArena()))
	})
}

type failingGraph struct{ err error }

func (f failingGraph) Node(context.Context, string) (variant.Node, error) {
	return variant.Node{}, f.err
}

func TestValidateChain_GraphError(t *testing.T) {
	boom := errors.New("connection reset")
	err := variant.NewValidator().ValidateChain(context.Background(),
		variant.Node{ID: "a", Parent: "b"}, failingGraph{err: boom})
	assert.ErrorIs(t, err, boom)
}
