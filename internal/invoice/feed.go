// Package invoice reads the upstream invoice feed and turns each record into
// normalized lines.
package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/parsererror"
)

// envelopeKeys are the object keys that may hold the record array.
var envelopeKeys = []string{"invoices", "records", "rows", "data", "items"}

// LoadFeed reads the invoice feed at path.
func LoadFeed(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoice feed: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeFeed(f, path)
}

// DecodeFeed accepts a JSON array of records, an object holding the array
// under one of the envelope keys, or a single record object. Anything else is
// an InvalidFormatError. Numbers are kept as json.Number.
func DecodeFeed(r io.Reader, source string) ([]models.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice feed: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "JSON",
			Msg:            "invoice feed is not valid JSON",
			Err:            err,
		}
	}

	switch v := doc.(type) {
	case []interface{}:
		return toRecords(v), nil
	case map[string]interface{}:
		for _, key := range envelopeKeys {
			if arr, ok := v[key].([]interface{}); ok {
				return toRecords(arr), nil
			}
		}
		return []models.Record{models.Record(v)}, nil
	}
	return nil, &parsererror.InvalidFormatError{
		FilePath:       source,
		ExpectedFormat: "JSON array or object",
		Msg:            "invoice feed must hold records",
	}
}

func toRecords(arr []interface{}) []models.Record {
	out := make([]models.Record, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, models.Record(m))
		}
	}
	return out
}
