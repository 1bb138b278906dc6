package storage

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"spicymarket/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// collection decodes and encodes one JSON-array key. Decoding never fails:
// a missing or unreadable array is an empty collection and records that do
// not match the schema are skipped, each with a warning.
type collection struct {
	key     string
	schema  *jsonschema.Schema
	migrate func(record map[string]any)
}

func newCollection(key, schemaFile string, migrate func(map[string]any)) (*collection, error) {
	data, err := schemaFS.ReadFile("schemas/" + schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", schemaFile, err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := "https://spicymarket.local/schemas/" + schemaFile
	if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", schemaFile, err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schemaFile, err)
	}
	return &collection{key: key, schema: compiled, migrate: migrate}, nil
}

// records returns the valid raw records of a stored array.
func (c *collection) records(raw []byte, found bool, logger *zap.Logger) []json.RawMessage {
	if !found || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var items []any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		logger.Warn("stored collection is not a JSON array, treating as empty",
			zap.String("key", c.key),
			zap.Error(err),
		)
		return nil
	}

	out := make([]json.RawMessage, 0, len(items))
	for i, item := range items {
		if rec, ok := item.(map[string]any); ok && c.migrate != nil {
			c.migrate(rec)
		}
		if err := c.schema.Validate(item); err != nil {
			logger.Warn("dropping invalid record",
				zap.String("key", c.key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		b, err := json.Marshal(item)
		if err != nil {
			logger.Warn("dropping invalid record", zap.String("key", c.key), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, b)
	}
	return out
}

func decode[T any](c *collection, raw []byte, found bool, logger *zap.Logger) []T {
	recs := c.records(raw, found, logger)
	out := make([]T, 0, len(recs))
	for i, rec := range recs {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			logger.Warn("dropping undecodable record",
				zap.String("key", c.key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(records)
}

// migratePrice rewrites a display price ("$1,299.00") under field into its
// plain decimal form. Values that do not parse are left for the schema to reject.
func migratePrice(rec map[string]any, field string) {
	s, ok := rec[field].(string)
	if !ok {
		return
	}
	if d, err := models.ParsePrice(s); err == nil {
		rec[field] = d.String()
	}
}

func migrateProduct(rec map[string]any) {
	migratePrice(rec, "price")
}

func migrateOrder(rec map[string]any) {
	migratePrice(rec, "total")
	items, _ := rec["items"].([]any)
	for _, it := range items {
		line, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := line["product"].(map[string]any); ok {
			migrateProduct(p)
		}
	}
}

// orderNumbers splits the newline-delimited order id log, skipping blank lines.
func orderNumbers(raw []byte) []string {
	var out []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
