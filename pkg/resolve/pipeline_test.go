package resolve_test

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/optional"
	"github.com/civicdata/mdm/pkg/resolve"
)

func newPipeline() *resolve.Pipeline {
	logger := zerolog.Nop()
	return resolve.NewPipeline(resolve.WithLogger(&logger))
}

func twoSourceSets() []resolve.RecordSet {
	return []resolve.RecordSet{
		{Source: "health", Records: []citizens.SourceRecord{
			record("1", "Alice Smith", "1990-01-01", "F", map[string]string{"health_status": "Healthy"}),
			record("2", "Bob Jones", "1985-06-15", "M", map[string]string{"health_status": "Diabetic"}),
			record("3", "Carol White", "", "F", map[string]string{"health_status": "Healthy"}),
		}},
		{Source: "education", Records: []citizens.SourceRecord{
			record("1", "Alice Smith", "1990-01-01", "F", map[string]string{"school_name": "Central High"}),
			record("2", "Robert Jones", "1985-06-15", "M", map[string]string{"school_name": "Westside"}),
		}},
	}
}

func TestPipelineMergesAcrossSources(t *testing.T) {
	result := newPipeline().Run(twoSourceSets())

	require.Len(t, result.Records, 2)

	// Identity 1 appears in both sources and ends up with both domains
	alice := result.Records[0]
	assert.Equal(t, citizens.ID("1"), alice.ID)
	assert.Equal(t, optional.Of("Alice Smith"), alice.Name)
	assert.Equal(t, optional.Of("Healthy"), alice.DomainField("health_status"))
	assert.Equal(t, optional.Of("Central High"), alice.DomainField("school_name"))

	// Identity 2 has a name conflict decided by first occurrence on a tie
	bob := result.Records[1]
	assert.Equal(t, citizens.ID("2"), bob.ID)
	assert.Equal(t, optional.Of("Bob Jones"), bob.Name)

	// Every shared field with more than one non-empty candidate is audited,
	// including fields where the candidates agree. Identities 1 and 2 each
	// contribute name, dob and gender.
	assert.Equal(t, 6, result.Stats.ConflictsResolved)

	var named *resolve.Diagnostic
	for i, d := range result.Diagnostics {
		if d.Kind == resolve.KindConflict && d.Identity == "2" && d.Field == citizens.FieldName {
			named = &result.Diagnostics[i]
		}
	}
	require.NotNil(t, named)
	assert.Equal(t, []string{"Bob Jones", "Robert Jones"}, named.Candidates)
	assert.Equal(t, "Bob Jones", named.Chosen)
}

func TestPipelineSkipsIncompleteIdentity(t *testing.T) {
	result := newPipeline().Run(twoSourceSets())

	// Identity 3 never gets a dob from any source; the whole identity is
	// skipped rather than emitted partially.
	for _, r := range result.Records {
		assert.NotEqual(t, citizens.ID("3"), r.ID)
	}
	assert.Equal(t, 3, result.Stats.Identities)
	assert.Equal(t, 2, result.Stats.GoldenRecords)
	assert.Equal(t, 1, result.Stats.IdentitiesSkipped)

	var found bool
	for _, d := range result.Diagnostics {
		if d.Kind == resolve.KindInsufficientData {
			found = true
			assert.Equal(t, resolve.LevelWarning, d.Level)
			assert.Equal(t, citizens.ID("3"), d.Identity)
		}
	}
	assert.True(t, found, "expected an insufficient_data diagnostic")
}

func TestPipelineStatsCountPerSource(t *testing.T) {
	result := newPipeline().Run(twoSourceSets())

	assert.Equal(t, 3, result.Stats.RecordsSeen["health"])
	assert.Equal(t, 2, result.Stats.RecordsSeen["education"])
	assert.Equal(t, 0, result.Stats.RecordsDropped)
}

func TestPipelineSingleSourceIdentity(t *testing.T) {
	sets := []resolve.RecordSet{
		{Source: "health", Records: []citizens.SourceRecord{
			record("9", "Dan Green", "1970-03-03", "M", map[string]string{"health_status": "Healthy"}),
		}},
		{Source: "education", Records: nil},
	}

	result := newPipeline().Run(sets)
	require.Len(t, result.Records, 1)

	dan := result.Records[0]
	assert.Equal(t, optional.Of("Healthy"), dan.DomainField("health_status"))
	// No education record means no school_name key at all
	assert.False(t, dan.DomainField("school_name").IsPresent())
}

func TestPipelineIsDeterministic(t *testing.T) {
	sets := twoSourceSets()

	first := newPipeline().Run(sets)
	second := newPipeline().Run(sets)

	a, err := json.Marshal(first.Records)
	require.NoError(t, err)
	b, err := json.Marshal(second.Records)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestPipelineEmptyInput(t *testing.T) {
	result := newPipeline().Run(nil)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 0, result.Stats.Identities)
}
