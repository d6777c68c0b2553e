package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joestump/catalog-core/internal/api"
	"github.com/joestump/catalog-core/internal/catalog"
	"github.com/joestump/catalog-core/internal/schema"
	"github.com/joestump/catalog-core/internal/slug"
	"github.com/joestump/catalog-core/internal/store"
	"github.com/joestump/catalog-core/internal/testutil"
	"github.com/joestump/catalog-core/internal/variant"
)

// testEnv holds the router and the service behind it for API integration tests.
type testEnv struct {
	Router  http.Handler
	Catalog *catalog.Service
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLimit(t, 0, 0)
}

func newTestEnvWithLimit(t *testing.T, perSecond float64, burst int) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	records := store.NewRecordStore(db)

	slugs, err := slug.NewService(slug.DefaultConfig())
	if err != nil {
		t.Fatalf("slug service: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := catalog.NewService(catalog.Deps{
		Products:    store.NewProductStore(db, records),
		Types:       store.NewProductTypeStore(db, records),
		Slugs:       slugs,
		Schemas:     schema.NewValidator(schema.NewDraft7()),
		Variants:    variant.NewValidator(),
		Logger:      log,
		SaveRetries: 3,
	})
	router := api.NewRouter(api.Deps{
		Catalog:   svc,
		Logger:    log,
		RateLimit: perSecond,
		Burst:     burst,
	})
	return &testEnv{Router: router, Catalog: svc}
}

// seedLaptopType stores a product type whose schema requires an integer "ram".
func seedLaptopType(t *testing.T, env *testEnv) *store.ProductType {
	t.Helper()
	pt := &store.ProductType{
		Name:     "Laptop",
		Category: "computers",
		AttributesSchema: store.JSONMap{
			"type":       "object",
			"properties": map[string]any{"ram": map[string]any{"type": "integer"}},
			"required":   []any{"ram"},
		},
	}
	if err := env.Catalog.SaveProductType(context.Background(), pt); err != nil {
		t.Fatalf("seed product type: %v", err)
	}
	return pt
}

// productBody prefixes a product JSON object with a unique SKU and a brand.
func productBody(body string) string {
	return `{"sku":"` + uuid.NewString() + `","brand":"Acme",` + strings.TrimPrefix(body, "{")
}

// do sends a request through the router and returns the recorder.
func do(t *testing.T, env *testEnv, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
}

type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields"`
}
