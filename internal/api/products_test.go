package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/joestump/catalog-core/internal/api"
)

func createProduct(t *testing.T, env *testEnv, body string) api.ProductResponse {
	t.Helper()
	rec := do(t, env, "POST", "/api/v1/products", productBody(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp api.ProductResponse
	decode(t, rec, &resp)
	return resp
}

func TestProducts_Create_Created(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)

	resp := createProduct(t, env, `{"name":"Dell XPS 13","price":"1299.99","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)
	if resp.Slug != "dell-xps-13" {
		t.Errorf("slug = %q, want %q", resp.Slug, "dell-xps-13")
	}
	if resp.Category != "computers" {
		t.Errorf("category = %q, want computers", resp.Category)
	}
	if resp.Price.String() != "1299.99" {
		t.Errorf("price = %s, want 1299.99", resp.Price)
	}
	if resp.VariantOf != nil {
		t.Errorf("variant_of = %q, want nil", *resp.VariantOf)
	}
}

func TestProducts_Create_CommercialDefaults(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)

	resp := createProduct(t, env, `{"name":"ThinkPad","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)
	if resp.Brand != "Acme" || resp.SKU == "" {
		t.Errorf("brand/sku = %q/%q", resp.Brand, resp.SKU)
	}
	if resp.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", resp.Currency)
	}
	if resp.StockQuantity != 0 || resp.StockThreshold != 5 || resp.IsInStock {
		t.Errorf("stock = %d/%d in_stock=%v, want 0/5 false", resp.StockQuantity, resp.StockThreshold, resp.IsInStock)
	}
	if !resp.IsActive || resp.ApprovalStatus != "pending" {
		t.Errorf("is_active=%v approval_status=%q, want true pending", resp.IsActive, resp.ApprovalStatus)
	}

	stocked := createProduct(t, env, `{"name":"ThinkPad X1","currency":"USD","stock_quantity":7,"stock_threshold":0,"product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)
	if stocked.Currency != "USD" || !stocked.IsInStock || stocked.StockThreshold != 0 {
		t.Errorf("currency=%q in_stock=%v threshold=%d, want USD true 0", stocked.Currency, stocked.IsInStock, stocked.StockThreshold)
	}
}

func TestProducts_Create_DuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	body := `{"sku":"LAP-1","brand":"Acme","name":"ThinkPad","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`

	rec := do(t, env, "POST", "/api/v1/products", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d; body: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, env, "POST", "/api/v1/products", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second status = %d, want %d; body: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	var resp errorResponse
	decode(t, rec, &resp)
	if len(resp.Fields["sku"]) == 0 {
		t.Errorf("fields = %v, want an entry for sku", resp.Fields)
	}
}

func TestProducts_Create_DuplicateNameGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	body := `{"name":"Dell XPS 13","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`

	first := createProduct(t, env, body)
	second := createProduct(t, env, body)
	if first.Slug == second.Slug {
		t.Fatalf("both products got slug %q", first.Slug)
	}
	if !strings.HasPrefix(second.Slug, "dell-xps-13-") {
		t.Errorf("second slug = %q, want dell-xps-13-<suffix>", second.Slug)
	}
}

func TestProducts_Create_Rejected(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing name", body: productBody(`{"product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "name"},
		{name: "missing product type", body: productBody(`{"name":"X","attributes":{"ram":16}}`), field: "product_type_id"},
		{name: "unknown product type", body: productBody(`{"name":"X","product_type_id":"nope","attributes":{"ram":16}}`), field: "product_type_id"},
		{name: "wrong attribute type", body: productBody(`{"name":"X","product_type_id":"` + pt.ID + `","attributes":{"ram":"8"}}`), field: "attributes"},
		{name: "missing attributes", body: productBody(`{"name":"X","product_type_id":"` + pt.ID + `"}`), field: "attributes"},
		{name: "negative price", body: productBody(`{"name":"X","price":-1,"product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "price"},
		{name: "malformed slug", body: productBody(`{"name":"X","slug":"Not A Slug","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "slug"},
		{name: "missing parent", body: productBody(`{"name":"X","variant_of":"ghost","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "variant_of"},
		{name: "missing sku", body: `{"brand":"Acme","name":"X","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`, field: "sku"},
		{name: "missing brand", body: `{"sku":"X-1","name":"X","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`, field: "brand"},
		{name: "lowercase currency", body: productBody(`{"name":"X","currency":"eur","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "currency"},
		{name: "negative stock", body: productBody(`{"name":"X","stock_quantity":-1,"product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "stock_quantity"},
		{name: "unknown approval status", body: productBody(`{"name":"X","approval_status":"published","product_type_id":"` + pt.ID + `","attributes":{"ram":16}}`), field: "approval_status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, env, "POST", "/api/v1/products", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
			}
			var resp errorResponse
			decode(t, rec, &resp)
			if resp.Code != "VALIDATION_FAILED" {
				t.Errorf("code = %q, want VALIDATION_FAILED", resp.Code)
			}
			if len(resp.Fields[tt.field]) == 0 {
				t.Errorf("fields = %v, want an entry for %q", resp.Fields, tt.field)
			}
		})
	}
}

func TestProducts_Create_BadBody(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env, "POST", "/api/v1/products", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestProducts_AttributeErrorsArePathKeyed(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)

	rec := do(t, env, "POST", "/api/v1/products", productBody(`{"name":"X","product_type_id":"`+pt.ID+`","attributes":{"ram":"8"}}`))
	var resp errorResponse
	decode(t, rec, &resp)
	msgs := resp.Fields["attributes"]
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "ram: ") {
		t.Errorf("attributes messages = %v, want one prefixed with %q", msgs, "ram: ")
	}
}

func TestProducts_GetBySlug(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	created := createProduct(t, env, `{"name":"MacBook Pro","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)

	rec := do(t, env, "GET", "/api/v1/products/by-slug/macbook-pro", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var got api.ProductResponse
	decode(t, rec, &got)
	if got.ID != created.ID {
		t.Errorf("id = %q, want %q", got.ID, created.ID)
	}

	if rec := do(t, env, "GET", "/api/v1/products/by-slug/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestProducts_Update_KeepsSlugWhenBlank(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	created := createProduct(t, env, `{"name":"MacBook Pro","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)

	rec := do(t, env, "PUT", "/api/v1/products/"+created.ID, productBody(`{"name":"MacBook Pro M3","product_type_id":"`+pt.ID+`","attributes":{"ram":32}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var got api.ProductResponse
	decode(t, rec, &got)
	if got.Slug != created.Slug {
		t.Errorf("slug = %q, want %q", got.Slug, created.Slug)
	}
	if got.Name != "MacBook Pro M3" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestProducts_Update_NotFound(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	rec := do(t, env, "PUT", "/api/v1/products/ghost", productBody(`{"name":"X","product_type_id":"`+pt.ID+`","attributes":{"ram":1}}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestProducts_VariantCycleRejected(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	root := createProduct(t, env, `{"name":"Root","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`)
	child := createProduct(t, env, `{"name":"Child","variant_of":"`+root.ID+`","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)

	rec := do(t, env, "PUT", "/api/v1/products/"+root.ID, productBody(`{"name":"Root","variant_of":"`+child.ID+`","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	var resp errorResponse
	decode(t, rec, &resp)
	if len(resp.Fields["variant_of"]) == 0 {
		t.Errorf("fields = %v, want variant_of entry", resp.Fields)
	}
}

func TestProducts_Variants(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	root := createProduct(t, env, `{"name":"Root","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`)
	createProduct(t, env, `{"name":"Child","variant_of":"`+root.ID+`","product_type_id":"`+pt.ID+`","attributes":{"ram":16}}`)

	rec := do(t, env, "GET", "/api/v1/products/"+root.ID+"/variants", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.ProductListResponse
	decode(t, rec, &resp)
	if len(resp.Products) != 1 || resp.Products[0].Name != "Child" {
		t.Errorf("variants = %+v, want one Child", resp.Products)
	}

	if rec := do(t, env, "GET", "/api/v1/products/ghost/variants", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown product status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestProducts_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	pt := seedLaptopType(t, env)
	createProduct(t, env, `{"name":"Alpha","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`)
	createProduct(t, env, `{"name":"Beta","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`)
	createProduct(t, env, `{"name":"Gamma","is_active":false,"approval_status":"archived","product_type_id":"`+pt.ID+`","attributes":{"ram":8}}`)

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "?category=computers", want: 2},
		{query: "?category=toys", want: 0},
		{query: "?product_type_id=" + pt.ID, want: 2},
		{query: "?include_inactive=true", want: 3},
		{query: "?include_inactive=true&approval_status=archived", want: 1},
		{query: "?approval_status=archived", want: 0},
		{query: "?approval_status=pending", want: 2},
	}
	for _, tt := range tests {
		rec := do(t, env, "GET", "/api/v1/products"+tt.query, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%q status = %d", tt.query, rec.Code)
		}
		var resp api.ProductListResponse
		decode(t, rec, &resp)
		if len(resp.Products) != tt.want {
			t.Errorf("%q returned %d products, want %d", tt.query, len(resp.Products), tt.want)
		}
	}
}
