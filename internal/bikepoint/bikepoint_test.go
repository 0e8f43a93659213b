package bikepoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `[
	{
		"id": "BikePoints_1",
		"commonName": "River Street, Clerkenwell",
		"lat": 51.529163,
		"lon": -0.10997,
		"additionalProperties": [
			{"key": "TerminalName", "value": "001023"},
			{"key": "NbDocks", "value": "19"},
			{"key": "InstallDate", "value": "1278947280000"}
		]
	},
	{
		"id": "BikePoints_2",
		"commonName": "Phillimore Gardens, Kensington",
		"lat": 51.499607,
		"lon": -0.197574,
		"additionalProperties": [
			{"key": "NbDocks", "value": "37"},
			{"key": "InstallDate", "value": "1278585780000"},
			{"key": "RemovalDate", "value": "1420070400000"}
		]
	},
	{
		"id": "BikePoints_3",
		"commonName": "Christopher Street, Liverpool Street",
		"lat": 51.521284,
		"lon": -0.084606,
		"additionalProperties": []
	}
]`

func TestFetchRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client())
	payload, err := client.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, samplePayload, string(payload))
}

func TestFetchRawBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.URL, server.Client())
	_, err := client.FetchRaw(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestFetchRawContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewClientWithHTTP(server.URL, server.Client())
	_, err := client.FetchRaw(ctx)
	assert.Error(t, err)
}

func TestParseStations(t *testing.T) {
	records, err := ParseStations([]byte(samplePayload))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "BikePoints_1", records[0].ID)
	assert.Equal(t, "River Street, Clerkenwell", records[0].Name)
	assert.InDelta(t, 51.529163, records[0].Lat, 1e-9)
	assert.Equal(t, "19", records[0].NbDocks)
	assert.Equal(t, "1278947280000", records[0].InstallDate)
	assert.Empty(t, records[0].RemovalDate)

	assert.Equal(t, "1420070400000", records[1].RemovalDate)

	// No relevant properties at all still yields a record; the extractor
	// decides what to do with the empty fields.
	assert.Equal(t, "BikePoints_3", records[2].ID)
	assert.Empty(t, records[2].NbDocks)
	assert.Empty(t, records[2].InstallDate)
}

func TestParseStationsMalformed(t *testing.T) {
	_, err := ParseStations([]byte(`{"not": "a list"}`))
	assert.Error(t, err)

	_, err = ParseStations([]byte(`[{"id": 12}`))
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
