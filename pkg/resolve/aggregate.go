package resolve

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/errors"
	"github.com/civicdata/mdm/pkg/optional"
)

// RecordSet is the ordered record collection read from one source. Sets
// are fed to the aggregator in the fixed source-priority order; together
// with each set's internal record order this fully determines candidate
// ordering.
type RecordSet struct {
	Source  string
	Records []citizens.SourceRecord
}

// IdentityBundle holds every candidate value contributed for one identity
// across all sources. Shared-field candidates accumulate in encounter
// order; domain fields keep the most recently seen non-absent value. A
// bundle is mutated only during aggregation and is read-only afterward.
type IdentityBundle struct {
	ID     citizens.ID
	shared map[string][]optional.String
	domain map[string]optional.String
}

func newIdentityBundle(id citizens.ID) *IdentityBundle {
	return &IdentityBundle{
		ID:     id,
		shared: make(map[string][]optional.String, len(citizens.SharedFields())),
		domain: make(map[string]optional.String),
	}
}

// Candidates returns the ordered candidate sequence for a shared field.
func (b *IdentityBundle) Candidates(field string) []optional.String {
	return b.shared[field]
}

// DomainFields returns a copy of the bundle's domain fields.
func (b *IdentityBundle) DomainFields() map[string]optional.String {
	out := make(map[string]optional.String, len(b.domain))
	for name, value := range b.domain {
		out[name] = value
	}
	return out
}

func (b *IdentityBundle) add(record citizens.SourceRecord) {
	for _, field := range citizens.SharedFields() {
		b.shared[field] = append(b.shared[field], record.Shared(field))
	}
	// Last write wins for domain fields, in (source priority, record order).
	// Absent values never overwrite a previously seen one.
	for name, value := range record.Domain {
		if value.IsPresent() {
			b.domain[name] = value
		}
	}
}

// Aggregator groups raw source records by identity key into one bundle per
// distinct identity. Bundle iteration order is first-seen identity order,
// tracked explicitly; no output ever depends on map iteration order.
type Aggregator struct {
	bundles map[citizens.ID]*IdentityBundle
	order   []citizens.ID
	ledger  *Ledger
	logger  *zerolog.Logger
}

// NewAggregator creates an aggregator that reports discarded records to
// the given ledger.
func NewAggregator(ledger *Ledger, logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		bundles: make(map[citizens.ID]*IdentityBundle),
		order:   nil,
		ledger:  ledger,
		logger:  logger,
	}
}

// Add merges every record of a source into the bundles. A record with a
// missing or blank identity key is discarded with a warning diagnostic; it
// never reaches a bundle and never aborts the pass. Returns the number of
// records accepted.
func (a *Aggregator) Add(set RecordSet) int {
	accepted := 0
	for i, record := range set.Records {
		if strings.TrimSpace(string(record.ID)) == "" {
			err := errors.NewMalformedRecordError(set.Source, i, "missing identity key, record discarded")
			a.ledger.Append(Diagnostic{
				Level:   LevelWarning,
				Kind:    KindMalformedRecord,
				Source:  set.Source,
				Message: err.Error(),
			})
			a.logger.Warn().
				Str("source", set.Source).
				Int("index", i).
				Msg("Record missing identity key, discarded")
			continue
		}

		bundle, ok := a.bundles[record.ID]
		if !ok {
			bundle = newIdentityBundle(record.ID)
			a.bundles[record.ID] = bundle
			a.order = append(a.order, record.ID)
		}
		bundle.add(record)
		accepted++
	}
	return accepted
}

// Bundles returns every bundle in first-seen identity order.
func (a *Aggregator) Bundles() []*IdentityBundle {
	out := make([]*IdentityBundle, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.bundles[id])
	}
	return out
}

// Len returns the number of distinct identities aggregated.
func (a *Aggregator) Len() int {
	return len(a.order)
}
