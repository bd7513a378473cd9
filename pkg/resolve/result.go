package resolve

import (
	"github.com/civicdata/mdm/pkg/citizens"
)

// Stats summarizes one resolution pass.
type Stats struct {
	// RecordsSeen counts accepted records per source name.
	RecordsSeen map[string]int `json:"records_seen"`

	// RecordsDropped counts records discarded for missing identity keys.
	RecordsDropped int `json:"records_dropped"`

	// Identities is the number of distinct identity keys aggregated.
	Identities int `json:"identities"`

	// GoldenRecords is the number of identities that resolved completely.
	GoldenRecords int `json:"golden_records"`

	// IdentitiesSkipped is the number of identities dropped for
	// insufficient data.
	IdentitiesSkipped int `json:"identities_skipped"`

	// ConflictsResolved counts shared fields decided by majority vote.
	ConflictsResolved int `json:"conflicts_resolved"`
}

// Result is the complete output of a resolution pass. It is immutable once
// returned; consumers build a registry from it and only ever read.
type Result struct {
	// Records holds the golden records in first-seen identity order.
	Records []citizens.GoldenRecord

	// Diagnostics holds every advisory event in emission order.
	Diagnostics []Diagnostic

	// Stats summarizes the pass.
	Stats Stats
}
