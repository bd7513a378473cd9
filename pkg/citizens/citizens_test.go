package citizens_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/optional"
)

func TestGoldenRecordMarshalJSON(t *testing.T) {
	record := citizens.GoldenRecord{
		ID:     "1",
		Name:   optional.Of("Alice Smith"),
		DOB:    optional.Of("1990-01-01"),
		Gender: optional.Of("F"),
		Domain: map[string]optional.String{
			"school_name":   optional.Of("Central High"),
			"health_status": optional.Of("Healthy"),
		},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	// Shared fields lead, domain fields follow in sorted key order,
	// flattened into one object.
	want := `{"citizen_id":"1","name":"Alice Smith","dob":"1990-01-01","gender":"F","health_status":"Healthy","school_name":"Central High"}`
	assert.Equal(t, want, string(data))
}

func TestGoldenRecordMarshalIsDeterministic(t *testing.T) {
	record := citizens.GoldenRecord{
		ID:     "9",
		Name:   optional.Of("Bob"),
		DOB:    optional.Of("1985-06-15"),
		Gender: optional.Of("M"),
		Domain: map[string]optional.String{
			"c": optional.Of("3"),
			"a": optional.Of("1"),
			"b": optional.Of("2"),
		},
	}

	first, err := json.Marshal(record)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(record)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestGoldenRecordMarshalAbsentDomainValue(t *testing.T) {
	record := citizens.GoldenRecord{
		ID:     "2",
		Name:   optional.Of("Carol"),
		DOB:    optional.Of("1970-03-03"),
		Gender: optional.Of("F"),
		Domain: map[string]optional.String{
			"health_status": optional.None(),
		},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Equal(t, `{"citizen_id":"2","name":"Carol","dob":"1970-03-03","gender":"F","health_status":null}`, string(data))
}

func TestSourceRecordShared(t *testing.T) {
	record := citizens.SourceRecord{
		Name:   optional.Of("Alice"),
		Gender: optional.Of("F"),
	}

	assert.Equal(t, optional.Of("Alice"), record.Shared(citizens.FieldName))
	assert.False(t, record.Shared(citizens.FieldDOB).IsPresent())
	assert.False(t, record.Shared("unknown").IsPresent())
}

func TestClone(t *testing.T) {
	record := citizens.GoldenRecord{
		ID:     "1",
		Domain: map[string]optional.String{"k": optional.Of("v")},
	}

	clone := record.Clone()
	clone.Domain["k"] = optional.Of("changed")

	assert.Equal(t, optional.Of("v"), record.Domain["k"])
}

func TestSharedFieldsOrder(t *testing.T) {
	assert.Equal(t, []string{"name", "dob", "gender"}, citizens.SharedFields())
}
