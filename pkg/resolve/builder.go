package resolve

import (
	"github.com/rs/zerolog"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/optional"
)

// Builder applies the resolver to every shared field of every bundle and
// assembles golden records. An identity's lifecycle is:
//
//	unseen -> aggregated -> resolved-complete | resolved-incomplete
//
// Only resolved-complete identities produce a golden record; incomplete
// ones are skipped whole, with a warning diagnostic, and never emit a
// partial record.
type Builder struct {
	ledger *Ledger
	logger *zerolog.Logger
}

// NewBuilder creates a builder reporting to the given ledger.
func NewBuilder(ledger *Ledger, logger *zerolog.Logger) *Builder {
	return &Builder{ledger: ledger, logger: logger}
}

// Build resolves each bundle into a golden record, or skips it when a
// required shared field cannot be resolved. Output order follows bundle
// order.
func (b *Builder) Build(bundles []*IdentityBundle) []citizens.GoldenRecord {
	records := make([]citizens.GoldenRecord, 0, len(bundles))
	for _, bundle := range bundles {
		if record, ok := b.build(bundle); ok {
			records = append(records, record)
		}
	}
	return records
}

func (b *Builder) build(bundle *IdentityBundle) (citizens.GoldenRecord, bool) {
	resolved := make(map[string]optional.String, len(citizens.SharedFields()))
	complete := true

	for _, field := range citizens.SharedFields() {
		candidates := bundle.Candidates(field)
		winner := Resolve(candidates)
		resolved[field] = winner

		// A field with multiple non-empty candidates was decided by vote.
		// Record the decision with the full candidate list as seen, empties
		// included; this is advisory and never changes the outcome.
		if len(Survivors(candidates)) > 1 {
			raw := rawValues(candidates)
			b.ledger.Append(Diagnostic{
				Level:      LevelInfo,
				Kind:       KindConflict,
				Identity:   bundle.ID,
				Field:      field,
				Candidates: raw,
				Chosen:     winner.OrEmpty(),
			})
			b.logger.Info().
				Str("citizen_id", bundle.ID.String()).
				Str("field", field).
				Strs("candidates", raw).
				Str("chosen", winner.OrEmpty()).
				Msg("Field conflict resolved")
		}

		if !winner.IsPresent() {
			complete = false
		}
	}

	if !complete {
		b.ledger.Append(Diagnostic{
			Level:    LevelWarning,
			Kind:     KindInsufficientData,
			Identity: bundle.ID,
			Message:  "insufficient data",
		})
		b.logger.Warn().
			Str("citizen_id", bundle.ID.String()).
			Msg("Insufficient data for citizen, record skipped")
		return citizens.GoldenRecord{}, false
	}

	return citizens.GoldenRecord{
		ID:     bundle.ID,
		Name:   resolved[citizens.FieldName],
		DOB:    resolved[citizens.FieldDOB],
		Gender: resolved[citizens.FieldGender],
		Domain: bundle.DomainFields(),
	}, true
}

// rawValues renders the complete ordered candidate list for a diagnostic.
// Absent candidates render as empty strings so the audit trail reflects
// exactly what each source contributed.
func rawValues(candidates []optional.String) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.OrEmpty()
	}
	return out
}
