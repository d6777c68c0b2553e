// Package catalog orchestrates saving product types and products: slug
// assignment, category denormalization, variant checks and schema validation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joestump/catalog-core/internal/metrics"
	"github.com/joestump/catalog-core/internal/schema"
	"github.com/joestump/catalog-core/internal/slug"
	"github.com/joestump/catalog-core/internal/store"
	"github.com/joestump/catalog-core/internal/variant"
)

// ProductRepo is the product half of the record store.
type ProductRepo interface {
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	SKUExists(ctx context.Context, sku, excludeID string) (bool, error)
	Create(ctx context.Context, p *store.Product) error
	Update(ctx context.Context, p *store.Product) error
	GetByID(ctx context.Context, id string) (*store.Product, error)
	GetBySlug(ctx context.Context, slug string) (*store.Product, error)
	List(ctx context.Context, f store.ProductFilter) ([]*store.Product, error)
	Delete(ctx context.Context, id string) error
}

// TypeRepo is the product type half of the record store.
type TypeRepo interface {
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, pt *store.ProductType) error
	Update(ctx context.Context, pt *store.ProductType) error
	GetByID(ctx context.Context, id string) (*store.ProductType, error)
	ListAll(ctx context.Context) ([]*store.ProductType, error)
	Delete(ctx context.Context, id string) error
}

// Deps holds everything the Service needs. All collaborators are built once
// at startup and shared.
type Deps struct {
	Products ProductRepo
	Types    TypeRepo
	Slugs    *slug.Service
	Schemas  *schema.Validator
	Variants *variant.Validator
	Logger   logrus.FieldLogger
	// SaveRetries is how many times a save re-generates its slug after the
	// unique index rejects it.
	SaveRetries int
}

// Service implements the catalog's persist operations.
type Service struct {
	products    ProductRepo
	types       TypeRepo
	slugs       *slug.Service
	schemas     *schema.Validator
	variants    *variant.Validator
	log         logrus.FieldLogger
	saveRetries int
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		products:    d.Products,
		types:       d.Types,
		slugs:       d.Slugs,
		schemas:     d.Schemas,
		variants:    d.Variants,
		log:         log,
		saveRetries: d.SaveRetries,
	}
}

const skuTakenMessage = "a product with this sku already exists"

// SaveProductType validates pt and creates or updates it. On failure pt is
// left untouched.
func (s *Service) SaveProductType(ctx context.Context, pt *store.ProductType) (err error) {
	defer s.observe("product_type", time.Now(), &err)

	cand := *pt
	cand.Name = strings.TrimSpace(cand.Name)
	cand.Category = strings.TrimSpace(cand.Category)
	cand.Subcategory = strings.TrimSpace(cand.Subcategory)
	if cand.AttributesSchema == nil {
		cand.AttributesSchema = store.JSONMap{}
	}

	if cand.Name == "" {
		return inputErr("name", "name is required")
	}
	if cand.Category == "" {
		return inputErr("category", "category is required")
	}
	taken, err := s.types.NameExists(ctx, cand.Name, cand.ID)
	if err != nil {
		return fmt.Errorf("check product type name: %w", err)
	}
	if taken {
		return inputErr("name", "a product type with this name already exists")
	}
	if err := s.schemas.ValidateSchema(schema.Document(cand.AttributesSchema)); err != nil {
		return err
	}

	if cand.ID == "" {
		err = s.types.Create(ctx, &cand)
	} else {
		err = s.types.Update(ctx, &cand)
	}
	if errors.Is(err, store.ErrNameTaken) {
		return inputErr("name", "a product type with this name already exists")
	}
	if err != nil {
		return err
	}

	*pt = cand
	s.log.WithFields(logrus.Fields{"product_type_id": pt.ID, "name": pt.Name}).Info("product type saved")
	return nil
}

// DeleteProductType removes a product type that no product references.
func (s *Service) DeleteProductType(ctx context.Context, id string) error {
	if err := s.types.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("product_type_id", id).Info("product type deleted")
	return nil
}

// SaveProduct runs the full persist pipeline for p. After the field and SKU
// checks it runs, strictly in order: slug resolution, category denormalization, variant chain check, variant
// integrity check, attribute validation, commit. Either every step passes and
// p is updated with the stored values, or nothing is written and p is left
// untouched.
func (s *Service) SaveProduct(ctx context.Context, p *store.Product) (err error) {
	defer s.observe("product", time.Now(), &err)

	cand := *p
	cand.Name = strings.TrimSpace(cand.Name)
	if cand.Name == "" {
		return inputErr("name", "name is required")
	}
	if cand.Price.IsNegative() {
		return inputErr("price", "price must not be negative")
	}
	if err := checkProductFields(&cand); err != nil {
		return err
	}
	if cand.VariantOfID != nil && *cand.VariantOfID == "" {
		cand.VariantOfID = nil
	}
	if cand.Slug != "" {
		if err := slug.ValidateFormat(cand.Slug); err != nil {
			return inputErr("slug", err.Error())
		}
		if limit := s.slugs.Config().MaxLength; len(cand.Slug) > limit {
			return inputErr("slug", fmt.Sprintf("slug must be at most %d characters", limit))
		}
	}

	isCreate := cand.ID == ""
	var previous *store.Product
	if !isCreate {
		previous, err = s.products.GetByID(ctx, cand.ID)
		if err != nil {
			return err
		}
	}
	pt, err := s.types.GetByID(ctx, cand.ProductTypeID)
	if errors.Is(err, store.ErrNotFound) {
		return inputErr("product_type_id", "product type does not exist")
	}
	if err != nil {
		return fmt.Errorf("load product type: %w", err)
	}
	taken, err := s.products.SKUExists(ctx, cand.SKU, cand.ID)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if taken {
		return inputErr("sku", skuTakenMessage)
	}

	for attempt := 0; ; attempt++ {
		if err := s.resolveSlug(ctx, &cand); err != nil {
			return err
		}
		if attempt == 0 {
			denormalize(&cand, pt, isCreate, previous)
			if err := s.validateProduct(ctx, &cand, pt); err != nil {
				return err
			}
		}

		err = s.commit(ctx, &cand, isCreate)
		if errors.Is(err, store.ErrSlugTaken) && attempt < s.saveRetries {
			metrics.SlugSaveRetriesTotal.Inc()
			s.log.WithFields(logrus.Fields{"slug": cand.Slug, "attempt": attempt + 1}).
				Warn("slug taken at commit, regenerating")
			cand.Slug = ""
			continue
		}
		if errors.Is(err, store.ErrSlugTaken) {
			return inputErr("slug", "slug is already taken")
		}
		if errors.Is(err, store.ErrSKUTaken) {
			return inputErr("sku", skuTakenMessage)
		}
		if err != nil {
			return err
		}
		break
	}

	*p = cand
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "slug": p.Slug, "created": isCreate}).Info("product saved")
	return nil
}

// ValidateProduct runs the variant and attribute checks for p without
// assigning a slug or writing anything.
func (s *Service) ValidateProduct(ctx context.Context, p *store.Product) error {
	pt, err := s.types.GetByID(ctx, p.ProductTypeID)
	if errors.Is(err, store.ErrNotFound) {
		return inputErr("product_type_id", "product type does not exist")
	}
	if err != nil {
		return fmt.Errorf("load product type: %w", err)
	}
	return s.validateProduct(ctx, p, pt)
}

func (s *Service) validateProduct(ctx context.Context, p *store.Product, pt *store.ProductType) error {
	graph := productGraph{products: s.products}
	var token string
	if p.ID == "" {
		token = variant.NewToken()
	}
	node := nodeOf(p, token)

	if err := s.variants.ValidateChain(ctx, node, graph); err != nil {
		return err
	}
	if err := s.variants.ValidateIntegrity(ctx, node, graph); err != nil {
		return err
	}
	return s.schemas.ValidateAttributes(schema.Document(pt.AttributesSchema), p.Attributes)
}

// resolveSlug assigns a slug when p has none, or when its slug already
// belongs to a different product.
func (s *Service) resolveSlug(ctx context.Context, p *store.Product) error {
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.products.SlugExists(ctx, candidate, p.ID)
	}
	if p.Slug != "" {
		taken, err := exists(ctx, p.Slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return nil
		}
	}

	generated, err := s.slugs.Generate(ctx, p.Name, exists)
	if err != nil {
		return fmt.Errorf("generate slug for %q: %w", p.Name, err)
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "previous": p.Slug, "slug": generated}).Debug("slug assigned")
	p.Slug = generated
	return nil
}

// denormalize copies the product type's classification onto p. On create, or
// when the type reference changed, the values come from pt. Otherwise the
// stored values are kept, so callers can never set them directly; product
// type updates re-sync them in the store.
func denormalize(p *store.Product, pt *store.ProductType, isCreate bool, previous *store.Product) {
	if isCreate || previous.ProductTypeID != p.ProductTypeID {
		p.Category = pt.Category
		p.Subcategory = pt.Subcategory
		return
	}
	p.Category = previous.Category
	p.Subcategory = previous.Subcategory
}

func (s *Service) commit(ctx context.Context, p *store.Product, isCreate bool) error {
	if p.Attributes == nil {
		p.Attributes = store.JSONMap{}
	}
	if isCreate {
		return s.products.Create(ctx, p)
	}
	return s.products.Update(ctx, p)
}

// DeleteProduct removes a product. Its variants become roots.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

// GetProduct returns a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetProductBySlug returns a product by slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*store.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

// ListProducts returns products matching f.
func (s *Service) ListProducts(ctx context.Context, f store.ProductFilter) ([]*store.Product, error) {
	return s.products.List(ctx, f)
}

// ListVariants returns the direct variants of the product with the given ID.
func (s *Service) ListVariants(ctx context.Context, id string) ([]*store.Product, error) {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.products.List(ctx, store.ProductFilter{VariantOf: id})
}

// GetProductType returns a product type by ID.
func (s *Service) GetProductType(ctx context.Context, id string) (*store.ProductType, error) {
	return s.types.GetByID(ctx, id)
}

// ListProductTypes returns every product type.
func (s *Service) ListProductTypes(ctx context.Context) ([]*store.ProductType, error) {
	return s.types.ListAll(ctx)
}

func (s *Service) observe(entity string, start time.Time, errp *error) {
	metrics.SaveDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	if *errp == nil {
		return
	}
	var ferr FieldError
	if errors.As(*errp, &ferr) {
		metrics.ValidationFailuresTotal.WithLabelValues(entity, ferr.Field()).Inc()
		s.log.WithFields(logrus.Fields{"entity": entity, "field": ferr.Field()}).WithError(*errp).Debug("save rejected")
	}
}
