package tcdynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadItems decodes a JSON array of objects into seed items.
func LoadItems(r io.Reader) ([]any, error) {
	var records []map[string]any
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	items := make([]any, 0, len(records))
	for i, record := range records {
		if record == nil {
			return nil, fmt.Errorf("item at index %d is not an object", i)
		}
		items = append(items, record)
	}
	return items, nil
}

// LoadItemsFile reads seed items from a JSON file.
func LoadItemsFile(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	items, err := LoadItems(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// SeedFromJSON seeds the named table with the JSON array of objects read from r.
// Returns the settlements of the batch writes, see [TableManager.SeedTable].
func (tm *TableManager) SeedFromJSON(ctx context.Context, name string, r io.Reader) (Settlements, error) {
	items, err := LoadItems(r)
	if err != nil {
		return nil, err
	}
	return tm.SeedTable(ctx, name, items...)
}
