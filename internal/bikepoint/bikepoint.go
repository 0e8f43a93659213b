// Package bikepoint fetches and parses docking-station metadata from the
// TfL BikePoint API.
package bikepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// DefaultBaseURL is the public BikePoint endpoint.
const DefaultBaseURL = "https://api.tfl.gov.uk/BikePoint"

// Additional property keys carrying the dock lifecycle fields.
const (
	propNbDocks     = "NbDocks"
	propInstallDate = "InstallDate"
	propRemovalDate = "RemovalDate"
)

// Client provides access to the BikePoint API. The fetch is a single bounded
// HTTP call; there is no retry logic, re-running the pipeline is the caller's
// responsibility.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ contract.StationClient = &Client{} // Compile-time check

// NewClient creates a BikePoint client with the given endpoint and timeout.
// An empty baseURL selects the public endpoint; a zero timeout selects the
// default of 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = contract.DefaultAPITimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a BikePoint client with a custom HTTP client,
// used by tests with httptest servers.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// FetchRaw retrieves the raw station list payload. Any transport or read
// error discards the whole batch; a partial station list is never returned.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build BikePoint request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("BikePoint request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BikePoint request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read BikePoint response: %w", err)
	}
	return body, nil
}

// place mirrors the wire shape of one BikePoint entry.
type place struct {
	ID                   string     `json:"id"`
	CommonName           string     `json:"commonName"`
	Lat                  float64    `json:"lat"`
	Lon                  float64    `json:"lon"`
	AdditionalProperties []property `json:"additionalProperties"`
}

// property is one key/value pair of a place's additionalProperties list.
type property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseStations decodes a raw BikePoint payload into station records,
// flattening the additionalProperties entries we care about. Decoding is
// atomic: a malformed payload fails the whole batch. Per-record validation
// (dock counts, timestamps) is deferred to the extractor, which has
// skip-and-count semantics.
func ParseStations(payload []byte) ([]schema.StationRecord, error) {
	var places []place
	if err := json.Unmarshal(payload, &places); err != nil {
		return nil, fmt.Errorf("failed to decode BikePoint payload: %w", err)
	}

	records := make([]schema.StationRecord, 0, len(places))
	for _, p := range places {
		rec := schema.StationRecord{
			ID:   p.ID,
			Name: p.CommonName,
			Lat:  p.Lat,
			Lon:  p.Lon,
		}
		for _, prop := range p.AdditionalProperties {
			switch prop.Key {
			case propNbDocks:
				rec.NbDocks = prop.Value
			case propInstallDate:
				rec.InstallDate = prop.Value
			case propRemovalDate:
				rec.RemovalDate = prop.Value
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
