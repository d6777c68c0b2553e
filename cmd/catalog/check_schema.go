package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joestump/catalog-core/internal/schema"
)

func newCheckSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-schema <file>",
		Short: "Check that a JSON or YAML file is a valid attribute schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSchemaFile(args[0])
			if err != nil {
				return err
			}
			if err := schema.NewValidator(schema.NewDraft7()).ValidateSchema(doc); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return err
		},
	}
}

// loadSchemaFile reads a schema document, as YAML when the extension says so
// and as JSON otherwise.
func loadSchemaFile(path string) (schema.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc schema.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = decodeYAMLSchema(raw)
	default:
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc == nil {
		doc = schema.Document{}
	}
	return doc, nil
}

// decodeYAMLSchema decodes raw into a JSON-compatible document. YAML allows
// mapping keys JSON cannot represent, so those are rejected with their path.
func decodeYAMLSchema(raw []byte) (schema.Document, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	v, err := jsonCompatible(v, "")
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema must be a mapping, got %T", v)
	}
	return schema.Document(m), nil
}

func jsonCompatible(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			c, err := jsonCompatible(child, path+"/"+k)
			if err != nil {
				return nil, err
			}
			t[k] = c
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v (%T) at %q is not a string", k, k, path+"/")
			}
			c, err := jsonCompatible(child, path+"/"+key)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	case []any:
		for i, child := range t {
			c, err := jsonCompatible(child, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return nil, err
			}
			t[i] = c
		}
		return t, nil
	default:
		return v, nil
	}
}
