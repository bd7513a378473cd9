package resolve

import (
	"github.com/civicdata/mdm/pkg/optional"
)

// Survivors filters a candidate sequence down to the values that count as
// votes: absent and whitespace-only candidates are discarded. Input order
// is preserved.
func Survivors(candidates []optional.String) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsBlank() {
			out = append(out, c.OrEmpty())
		}
	}
	return out
}

// Resolve reduces an ordered sequence of candidate values for one shared
// field to a single winning value:
//
//  1. Absent and whitespace-only candidates do not count as votes.
//  2. No surviving candidate: the field could not be resolved.
//  3. Exactly one survivor: it wins unconditionally.
//  4. Otherwise the most frequent surviving value wins; ties go to the
//     value that appeared earliest among the survivors.
//
// The first-occurrence tie-break is the only tie-break rule and must hold
// exactly, since it is what makes output reproducible under disagreement.
func Resolve(candidates []optional.String) optional.String {
	survivors := Survivors(candidates)
	if len(survivors) == 0 {
		return optional.None()
	}
	if len(survivors) == 1 {
		return optional.Of(survivors[0])
	}

	counts := make(map[string]int, len(survivors))
	for _, v := range survivors {
		counts[v]++
	}

	// Walk survivors in order so the earliest value wins on equal counts.
	winner := survivors[0]
	for _, v := range survivors[1:] {
		if counts[v] > counts[winner] {
			winner = v
		}
	}
	return optional.Of(winner)
}
