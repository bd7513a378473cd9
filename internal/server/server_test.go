package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/mdm/internal/server"
	"github.com/civicdata/mdm/pkg/citizens"
	"github.com/civicdata/mdm/pkg/optional"
	"github.com/civicdata/mdm/pkg/registry/memory"
	"github.com/civicdata/mdm/pkg/resolve"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()

	result := &resolve.Result{
		Records: []citizens.GoldenRecord{
			{
				ID:     "1",
				Name:   optional.Of("Alice Smith"),
				DOB:    optional.Of("1990-01-01"),
				Gender: optional.Of("F"),
				Domain: map[string]optional.String{
					"health_status": optional.Of("Healthy"),
					"school_name":   optional.Of("Central High"),
				},
			},
			{
				ID:     "2",
				Name:   optional.Of("Bob Jones"),
				DOB:    optional.Of("1985-06-15"),
				Gender: optional.Of("M"),
			},
		},
		Stats: resolve.Stats{
			RecordsSeen:   map[string]int{"health": 2, "education": 1},
			Identities:    2,
			GoldenRecords: 2,
		},
	}

	logger := zerolog.Nop()
	srv := server.New(memory.New(result), result.Stats, &logger, server.DefaultConfig())
	return srv.Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (map[string]any, map[string]any) {
	t.Helper()
	var envelope struct {
		Data  map[string]any `json:"data"`
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data, envelope.Error
}

func TestGetCitizen(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	data, errObj := decodeEnvelope(t, rec)
	require.Nil(t, errObj)

	// Domain fields are flattened into the record object
	assert.Equal(t, "1", data["citizen_id"])
	assert.Equal(t, "Alice Smith", data["name"])
	assert.Equal(t, "Healthy", data["health_status"])
	assert.Equal(t, "Central High", data["school_name"])
}

func TestGetCitizenNotFound(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens/999")
	require.Equal(t, http.StatusNotFound, rec.Code)

	data, errObj := decodeEnvelope(t, rec)
	assert.Nil(t, data)
	require.NotNil(t, errObj)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestListCitizens(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens")
	require.Equal(t, http.StatusOK, rec.Code)

	data, errObj := decodeEnvelope(t, rec)
	require.Nil(t, errObj)
	assert.Equal(t, float64(2), data["total"])

	list, ok := data["citizens"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	// Collated name order: Alice before Bob
	first := list[0].(map[string]any)
	assert.Equal(t, "Alice Smith", first["name"])

	// A record absent from a source simply lacks that source's domain field
	second := list[1].(map[string]any)
	_, hasSchool := second["school_name"]
	assert.False(t, hasSchool)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := testHandler(t)

	for _, path := range []string{"/api/v1/citizens", "/api/v1/citizens/1", "/api/v1/stats"} {
		rec := doRequest(t, handler, http.MethodPost, path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)

		_, errObj := decodeEnvelope(t, rec)
		require.NotNil(t, errObj, path)
		assert.Equal(t, "METHOD_NOT_ALLOWED", errObj["code"], path)
	}
}

func TestHealth(t *testing.T) {
	handler := testHandler(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := doRequest(t, handler, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		data, _ := decodeEnvelope(t, rec)
		assert.Equal(t, "healthy", data["status"], path)
		assert.Equal(t, "mdm-api", data["service"], path)
	}
}

func TestReady(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	data, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "ready", data["status"])
	assert.Equal(t, float64(2), data["citizens"])
}

func TestStats(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	data, errObj := decodeEnvelope(t, rec)
	require.Nil(t, errObj)
	assert.Equal(t, float64(2), data["golden_records"])

	seen, ok := data["records_seen"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), seen["health"])
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "mdm_golden_records 2")
	assert.Contains(t, body, `mdm_source_records{source="health"} 2`)
}

func TestCitizenIDRequired(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens/")
	require.Equal(t, http.StatusNotFound, rec.Code)

	_, errObj := decodeEnvelope(t, rec)
	require.NotNil(t, errObj)
	assert.True(t, strings.Contains(errObj["message"].(string), "Citizen ID required"))
}

func TestGetCitizenExtraSegments(t *testing.T) {
	handler := testHandler(t)

	// A deeper path does not name a citizen, even when the first segment
	// matches a stored identity.
	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens/1/extra")
	require.Equal(t, http.StatusNotFound, rec.Code)

	_, errObj := decodeEnvelope(t, rec)
	require.NotNil(t, errObj)
	assert.Equal(t, "NOT_FOUND", errObj["code"])

	// A trailing slash still resolves the identity
	rec = doRequest(t, handler, http.MethodGet, "/api/v1/citizens/1/")
	require.Equal(t, http.StatusOK, rec.Code)

	data, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "1", data["citizen_id"])
}

func TestCORSDisabledByDefault(t *testing.T) {
	handler := testHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/citizens")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
