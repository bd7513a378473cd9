// Package memory provides the in-memory Registry implementation. The
// store is fully populated at construction and immutable afterward.
package memory

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/errors"
	"github.com/civicdata/mdm/pkg/registry"
	"github.com/civicdata/mdm/pkg/resolve"
)

// registryImpl holds the records by identity key plus a pre-sorted view
// for List. Both are built once in New and never written again.
type registryImpl struct {
	byID   map[citizens.ID]citizens.GoldenRecord
	sorted []citizens.GoldenRecord
}

// New builds an immutable registry from a completed resolution pass. The
// List order is fixed here: collated by resolved name, identity key as the
// tie-break, so repeated runs over identical inputs list identically.
func New(result *resolve.Result) registry.Registry {
	byID := make(map[citizens.ID]citizens.GoldenRecord, len(result.Records))
	sorted := make([]citizens.GoldenRecord, 0, len(result.Records))
	for _, record := range result.Records {
		byID[record.ID] = record
		sorted = append(sorted, record)
	}

	collator := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := collator.CompareString(sorted[i].Name.OrEmpty(), sorted[j].Name.OrEmpty()); c != 0 {
			return c < 0
		}
		return sorted[i].ID < sorted[j].ID
	})

	return &registryImpl{byID: byID, sorted: sorted}
}

// Lookup returns the golden record for an identity key.
func (r *registryImpl) Lookup(id citizens.ID) (citizens.GoldenRecord, error) {
	record, ok := r.byID[id]
	if !ok {
		return citizens.GoldenRecord{}, errors.NewNotFoundError("citizen", id.String())
	}
	return record.Clone(), nil
}

// List returns every golden record in collated name order.
func (r *registryImpl) List() []citizens.GoldenRecord {
	out := make([]citizens.GoldenRecord, 0, len(r.sorted))
	for _, record := range r.sorted {
		out = append(out, record.Clone())
	}
	return out
}

// Len returns the number of stored records.
func (r *registryImpl) Len() int {
	return len(r.sorted)
}
