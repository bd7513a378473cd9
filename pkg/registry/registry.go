// Package registry defines the process-lifetime store of golden records.
// A registry is built exactly once, from a completed resolution pass, and
// is read-only afterward: concurrent readers need no locking because no
// writer exists after construction. Reloading means building a brand new
// registry and swapping the reference, never mutating in place.
package registry

import (
	"github.com/civicdata/mdm/pkg/citizens"
)

// Registry is a read-only lookup of golden records by identity key.
type Registry interface {
	// Lookup returns the golden record for an identity key, or an error
	// satisfying errors.IsNotFound when the identity is absent.
	Lookup(id citizens.ID) (citizens.GoldenRecord, error)

	// List returns every stored golden record in stable, collated name
	// order.
	List() []citizens.GoldenRecord

	// Len returns the number of stored golden records.
	Len() int
}
