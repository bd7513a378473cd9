package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicdata/mdm/pkg/optional"
	"github.com/civicdata/mdm/pkg/resolve"
)

func candidates(values ...any) []optional.String {
	out := make([]optional.String, 0, len(values))
	for _, v := range values {
		if v == nil {
			out = append(out, optional.None())
			continue
		}
		out = append(out, optional.Of(v.(string)))
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input []optional.String
		want  optional.String
	}{
		{
			name:  "no candidates",
			input: nil,
			want:  optional.None(),
		},
		{
			name:  "all absent",
			input: candidates(nil, nil, nil),
			want:  optional.None(),
		},
		{
			name:  "all empty or whitespace",
			input: candidates("", "   ", "\t", nil),
			want:  optional.None(),
		},
		{
			name:  "single value wins unconditionally",
			input: candidates(nil, "", "Alice", "  "),
			want:  optional.Of("Alice"),
		},
		{
			name:  "majority wins",
			input: candidates("A", "B", "A"),
			want:  optional.Of("A"),
		},
		{
			name:  "tie broken by first occurrence",
			input: candidates("A", "B"),
			want:  optional.Of("A"),
		},
		{
			name:  "later majority beats earlier singleton",
			input: candidates("B", "A", "A"),
			want:  optional.Of("A"),
		},
		{
			name:  "tie among later values goes to earliest of them",
			input: candidates("A", "B", "B", "C", "C"),
			want:  optional.Of("B"),
		},
		{
			name:  "empties do not dilute the vote",
			input: candidates("", "B", nil, "A", "B", "   "),
			want:  optional.Of("B"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve.Resolve(tt.input))
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	input := candidates("A", "B", "A")
	first := resolve.Resolve(input)
	second := resolve.Resolve(input)
	assert.Equal(t, first, second)
	// Input is left untouched
	assert.Equal(t, candidates("A", "B", "A"), input)
}

func TestSurvivors(t *testing.T) {
	input := candidates(nil, "", "Alice", "  ", "Bob")
	assert.Equal(t, []string{"Alice", "Bob"}, resolve.Survivors(input))
	assert.Empty(t, resolve.Survivors(candidates(nil, "   ")))
}
