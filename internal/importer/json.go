package importer

import (
	"encoding/json"
	"fmt"
	"io"
)

// ParseJSON decodes an array of theme entries.
func ParseJSON(r io.Reader) ([]ThemeEntry, error) {
	var entries []ThemeEntry
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode import JSON: %w", err)
	}
	return entries, nil
}
