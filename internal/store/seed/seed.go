package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/idilsaglam/learn/internal/model"
)

// JSON fixture for the memory store. Read once at startup, never written:
// the store forgets everything on exit.

// Load reads records from path. A missing file is not an error; it
// returns nil so the caller falls back to the built-in seed.
func Load(path string) ([]model.Record, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var records []model.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := check(records); err != nil {
		return nil, err
	}
	return records, nil
}

func check(records []model.Record) error {
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		if r.ID <= 0 {
			return fmt.Errorf("seed record %d: id must be positive, got %d", i, r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("seed record %d: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
