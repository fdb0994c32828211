// Package stats fetches epidemic time series from the public
// coronavirus statistics API and extracts the most recent usable values
// from them.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoData is returned when the provider responds without any records
// for the requested area.
var ErrNoData = errors.New("stats: no data returned for area")

// DailyRecord is one day of an area's time series as returned by the
// provider, most-recent-first. Counts are nullable: recent days are
// often published before their figures are in.
type DailyRecord struct {
	AreaName      string `json:"areaName"`
	Date          string `json:"date"`
	CumDeaths     *int64 `json:"cumDailyNsoDeathsByDeathDate"`
	HospitalCases *int64 `json:"hospitalCases"`
	NewCases      *int64 `json:"newCasesBySpecimenDate"`
}

// Client talks to the statistics API. Requests are rate limited so that
// scheduled refreshes cannot hammer the provider.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a stats client against the default public endpoint.
func NewClient() *Client {
	return &Client{
		baseURL: "https://api.coronavirus.data.gov.uk/v1/data",
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// structure is the field selection sent with every request; the
// provider echoes back exactly these keys.
var structure = map[string]string{
	"areaName":                     "areaName",
	"date":                         "date",
	"cumDailyNsoDeathsByDeathDate": "cumDailyNsoDeathsByDeathDate",
	"hospitalCases":                "hospitalCases",
	"newCasesBySpecimenDate":       "newCasesBySpecimenDate",
}

type dataEnvelope struct {
	Data []DailyRecord `json:"data"`
}

// Latest fetches the daily records for one area, most recent first.
// An empty payload is reported as ErrNoData; the caller decides whether
// that aborts startup or is merely logged.
func (c *Client) Latest(ctx context.Context, areaName, areaType string) ([]DailyRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	structJSON, err := json.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("marshal structure: %w", err)
	}

	q := url.Values{}
	q.Set("filters", fmt.Sprintf("areaType=%s;areaName=%s", areaType, areaName))
	q.Set("structure", string(structJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats for %s: %w", areaName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, fmt.Errorf("%w: %s", ErrNoData, areaName)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("stats API for %s returned status %d: %s", areaName, resp.StatusCode, body)
	}

	var env dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parse stats for %s: %w", areaName, err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, areaName)
	}
	return env.Data, nil
}
