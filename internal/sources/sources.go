// Package sources defines the per-domain data sources and reads their
// record collections at startup. Sources share the identity-key schema and
// each contributes its own domain fields; the loader preserves record
// order and the declared source-priority order, which together determine
// candidate ordering downstream.
package sources

import (
	"path/filepath"

	"github.com/civicdata/mdm/pkg/resolve"
)

// Source describes one named data source. Priority is the position in the
// fixed source-priority order; lower values are processed first.
type Source struct {
	Name     string
	Path     string
	Priority int
}

// Definitions returns the default source set rooted at dataDir, in
// priority order. The set generalizes to N sources; the registry ships
// with the health and education domains.
func Definitions(dataDir string) []Source {
	return []Source{
		{Name: "health", Path: filepath.Join(dataDir, "health.json"), Priority: 0},
		{Name: "education", Path: filepath.Join(dataDir, "education.json"), Priority: 1},
	}
}

// Load reads every source in priority order. Any unreadable source or
// malformed container is fatal: the error propagates and no partial
// record set is returned.
func Load(srcs []Source) ([]resolve.RecordSet, error) {
	sets := make([]resolve.RecordSet, 0, len(srcs))
	for _, src := range srcs {
		records, err := ReadFile(src.Name, src.Path)
		if err != nil {
			return nil, err
		}
		sets = append(sets, resolve.RecordSet{Source: src.Name, Records: records})
	}
	return sets, nil
}
