package variant

import "fmt"

const field = "variant_of"

// CircularVariantError names the product being checked and the parent key at
// which the walk looped.
type CircularVariantError struct {
	Product string
	Parent  string
}

func (e *CircularVariantError) Error() string {
	return fmt.Sprintf("circular variant relationship: product %s and parent %s form a cycle", e.Product, e.Parent)
}

// Field names the input the error belongs to.
func (e *CircularVariantError) Field() string { return field }

// SelfVariantError is a product that references itself as its parent.
type SelfVariantError struct {
	ID   string
	Name string
}

func (e *SelfVariantError) Error() string {
	return fmt.Sprintf("a product cannot be a variant of itself: product %q (%s) references itself", e.Name, e.ID)
}

// Field names the input the error belongs to.
func (e *SelfVariantError) Field() string { return field }

// TypeMismatchError is a variant whose product type differs from its parent's.
type TypeMismatchError struct {
	Product    string
	Parent     string
	TypeID     string
	ParentType string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("product %q can't be a variant of parent %s: product types differ (%s vs %s)",
		e.Product, e.Parent, e.TypeID, e.ParentType)
}

// Field names the input the error belongs to.
func (e *TypeMismatchError) Field() string { return field }

// MissingParentError is a parent key that does not resolve to a product.
type MissingParentError struct {
	Parent string
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("variant parent %s does not exist", e.Parent)
}

// Field names the input the error belongs to.
func (e *MissingParentError) Field() string { return field }
