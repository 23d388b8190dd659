package output

import (
	"encoding/json"
	"io"
	"strings"
)

// JSONFormatter outputs tables as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per record, keyed by the lower-cased
// header names.
func (j *JSONFormatter) Format(t Table) error {
	keys := make([]string, len(t.Header))
	for i, h := range t.Header {
		keys[i] = strings.ToLower(h)
	}

	encoder := json.NewEncoder(j.writer)
	for _, record := range t.Records {
		obj := make(map[string]string, len(keys))
		for i, key := range keys {
			if i < len(record) {
				obj[key] = record[i]
			}
		}
		if err := encoder.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}
