// Package citizens defines the citizen record model shared by the
// resolution engine, the registry, and the serving layer.
//
// A SourceRecord is one row from one per-domain source. A GoldenRecord is
// the single merged entity for an identity after conflict resolution.
package citizens

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/civicdata/mdm/pkg/optional"
)

// ID is the identity key shared by all sources. Two records with the same
// ID are taken to describe the same person; matching is exact.
type ID string

// String returns the string representation of an identity key.
func (id ID) String() string {
	return string(id)
}

// Shared field names. These attributes are expected from every source and
// are subject to conflict resolution; all three are required for a golden
// record to exist.
const (
	FieldName   = "name"
	FieldDOB    = "dob"
	FieldGender = "gender"
)

// SharedFields lists the shared field names in canonical order.
func SharedFields() []string {
	return []string{FieldName, FieldDOB, FieldGender}
}

// KeyField is the JSON/YAML key carrying the identity key in source files.
const KeyField = "citizen_id"

// SourceRecord is a single record as read from one source. It is immutable
// once parsed; absence of a shared field is legal and handled at resolution
// time, not at parse time.
type SourceRecord struct {
	ID     ID
	Name   optional.String
	DOB    optional.String
	Gender optional.String
	Domain map[string]optional.String
}

// Shared returns the record's value for a shared field name.
func (r SourceRecord) Shared(field string) optional.String {
	switch field {
	case FieldName:
		return r.Name
	case FieldDOB:
		return r.DOB
	case FieldGender:
		return r.Gender
	}
	return optional.None()
}

// GoldenRecord is the resolved, merged entity for one identity. The shared
// fields hold the winning value per field; domain fields are carried through
// from whichever sources supplied them, each independently optional.
type GoldenRecord struct {
	ID     ID
	Name   optional.String
	DOB    optional.String
	Gender optional.String
	Domain map[string]optional.String
}

// DomainField returns the value carried for a domain field name.
func (g GoldenRecord) DomainField(name string) optional.String {
	return g.Domain[name]
}

// DomainFieldNames returns the record's domain field names in sorted order.
func (g GoldenRecord) DomainFieldNames() []string {
	names := make([]string, 0, len(g.Domain))
	for name := range g.Domain {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy, so callers holding a GoldenRecord can never
// mutate the registry's copy through the shared domain map.
func (g GoldenRecord) Clone() GoldenRecord {
	out := g
	if g.Domain != nil {
		out.Domain = make(map[string]optional.String, len(g.Domain))
		for name, value := range g.Domain {
			out.Domain[name] = value
		}
	}
	return out
}

// MarshalJSON flattens domain fields into the top-level object, matching
// the wire shape of the original registry feeds: shared fields first, then
// domain fields in sorted key order. The ordering is fixed so repeated runs
// over identical inputs serialize byte-identically.
func (g GoldenRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField(KeyField, g.ID); err != nil {
		return nil, err
	}
	if err := writeField(FieldName, g.Name); err != nil {
		return nil, err
	}
	if err := writeField(FieldDOB, g.DOB); err != nil {
		return nil, err
	}
	if err := writeField(FieldGender, g.Gender); err != nil {
		return nil, err
	}
	for _, name := range g.DomainFieldNames() {
		if err := writeField(name, g.Domain[name]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
