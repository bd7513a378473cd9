package resolve

import (
	"fmt"

	"github.com/civicdata/mdm/pkg/citizens"
)

// Level classifies a diagnostic event.
type Level string

// Diagnostic levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Kind identifies what a diagnostic event describes.
type Kind string

// Diagnostic kinds.
const (
	// KindConflict records that more than one non-empty candidate was seen
	// for a shared field. It carries the complete ordered candidate list
	// (absent values rendered empty) and the chosen value. Advisory only;
	// it never affects the resolution outcome.
	KindConflict Kind = "conflict_resolved"

	// KindInsufficientData records an identity skipped because a required
	// shared field did not resolve to a value.
	KindInsufficientData Kind = "insufficient_data"

	// KindMalformedRecord records a source record discarded for lacking an
	// identity key.
	KindMalformedRecord Kind = "malformed_record"
)

// Diagnostic is a structured advisory event emitted during a resolution
// pass. Events are accumulated in emission order and never interrupt
// processing.
type Diagnostic struct {
	Level      Level       `json:"level"`
	Kind       Kind        `json:"kind"`
	Identity   citizens.ID `json:"citizen_id,omitempty"`
	Source     string      `json:"source,omitempty"`
	Field      string      `json:"field,omitempty"`
	Candidates []string    `json:"candidates,omitempty"`
	Chosen     string      `json:"chosen,omitempty"`
	Message    string      `json:"message"`
}

// String renders the diagnostic for human-readable output.
func (d Diagnostic) String() string {
	switch d.Kind {
	case KindConflict:
		return fmt.Sprintf("%s conflict resolved for citizen %s: %v -> %s", d.Field, d.Identity, d.Candidates, d.Chosen)
	case KindInsufficientData:
		return fmt.Sprintf("insufficient data for citizen %s, record skipped", d.Identity)
	case KindMalformedRecord:
		return d.Message
	}
	return d.Message
}

// Ledger accumulates diagnostics for one resolution pass. It is not safe
// for concurrent use; the pass is a single synchronous pipeline.
type Ledger struct {
	events []Diagnostic
}

// NewLedger creates an empty diagnostics ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a diagnostic event.
func (l *Ledger) Append(d Diagnostic) {
	l.events = append(l.events, d)
}

// Events returns all recorded diagnostics in emission order.
func (l *Ledger) Events() []Diagnostic {
	return l.events
}

// Count returns the number of events of the given kind.
func (l *Ledger) Count(kind Kind) int {
	n := 0
	for _, d := range l.events {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
