package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/errors"
	"github.com/civicdata/mdm/pkg/optional"
)

// containerKey is the top-level key holding the record list in every
// source file.
const containerKey = "citizens"

// ReadFile reads one source file and returns its records in file order.
// JSON (.json) and YAML (.yaml/.yml) containers are supported; both must
// hold a top-level "citizens" list. Absence of shared fields on a record
// is not an error here, it is resolved downstream.
func ReadFile(source, path string) ([]citizens.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewMissingSourceError(source, path, err)
	}

	var rows []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rows, err = decodeYAML(data)
	default:
		rows, err = decodeJSON(data)
	}
	if err != nil {
		return nil, errors.NewMalformedSourceError(source, path, err.Error(), err)
	}

	records := make([]citizens.SourceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, parseRecord(row))
	}
	return records, nil
}

// decodeJSON decodes a {"citizens": [...]} JSON container.
func decodeJSON(data []byte) ([]map[string]any, error) {
	var container map[string]json.RawMessage
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, err
	}
	raw, ok := container[containerKey]
	if !ok {
		return nil, fmt.Errorf("missing %q key", containerKey)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decodeYAML decodes a {"citizens": [...]} YAML container.
func decodeYAML(data []byte) ([]map[string]any, error) {
	var container map[string]any
	if err := yaml.Unmarshal(data, &container); err != nil {
		return nil, err
	}
	list, ok := container[containerKey]
	if !ok {
		return nil, fmt.Errorf("missing %q key", containerKey)
	}
	items, ok := list.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a list", containerKey)
	}

	rows := make([]map[string]any, 0, len(items))
	for i, item := range items {
		row, ok := toStringMap(item)
		if !ok {
			return nil, fmt.Errorf("record %d is not a mapping", i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toStringMap normalizes YAML mapping types to map[string]any.
func toStringMap(item any) (map[string]any, bool) {
	switch m := item.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = v
		}
		return out, true
	}
	return nil, false
}

// parseRecord maps one decoded row to a SourceRecord. The identity key and
// the shared fields are pulled by name; every other scalar key is carried
// as a domain field of the originating source. Composite values (nested
// mappings, lists) are ignored.
func parseRecord(row map[string]any) citizens.SourceRecord {
	record := citizens.SourceRecord{
		ID:     citizens.ID(scalar(row[citizens.KeyField]).OrEmpty()),
		Name:   scalar(row[citizens.FieldName]),
		DOB:    scalar(row[citizens.FieldDOB]),
		Gender: scalar(row[citizens.FieldGender]),
		Domain: make(map[string]optional.String),
	}

	for key, value := range row {
		switch key {
		case citizens.KeyField, citizens.FieldName, citizens.FieldDOB, citizens.FieldGender:
			continue
		}
		if field := scalar(value); field.IsPresent() {
			record.Domain[key] = field
		}
	}
	return record
}

// scalar converts a decoded scalar to an optional string. Null and absent
// map to absent; non-string scalars render with their default formatting.
func scalar(value any) optional.String {
	switch v := value.(type) {
	case nil:
		return optional.None()
	case string:
		return optional.Of(v)
	case json.Number:
		return optional.Of(v.String())
	case bool, int, int64, uint64, float64:
		return optional.Of(fmt.Sprint(v))
	}
	return optional.None()
}
