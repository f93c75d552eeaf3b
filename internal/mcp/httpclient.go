package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
)

// HTTPClient implements DataSource by calling the Mapty REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the tracker lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on write requests.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// entry is the part of the REST list/detail view the client needs.
type entry struct {
	Workout models.Workout `json:"workout"`
}

// errorBody is the JSON error envelope returned by the REST API.
type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) (int, []byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", url.Values{"order": {"asc"}}, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/workouts returned %d: %s", status, body)
	}

	var entries []entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	ws := make([]models.Workout, len(entries))
	for i, e := range entries {
		ws[i] = e.Workout
	}
	return ws, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	path := "/api/v1/workouts/" + url.PathEscape(id)
	status, body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Workout{}, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return models.Workout{}, tracker.ErrNotFound
	default:
		return models.Workout{}, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}

	var e entry
	if err := json.Unmarshal(body, &e); err != nil {
		return models.Workout{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return e.Workout, nil
}

func (c *HTTPClient) LogWorkout(ctx context.Context, in models.Input) (models.Workout, error) {
	req := map[string]any{
		"kind":             in.Kind,
		"distance_km":      in.DistanceKm,
		"duration_min":     in.DurationMin,
		"cadence_spm":      in.CadenceSpm,
		"elevation_gain_m": in.ElevationGain,
		"lat":              in.Position.Lat,
		"lng":              in.Position.Lng,
	}
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", nil, req)
	if err != nil {
		return models.Workout{}, err
	}
	if status == http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		if eb.Error == models.InvalidInputMessage {
			return models.Workout{}, models.ErrInvalidInput
		}
		return models.Workout{}, errors.New("httpclient: rejected: " + eb.Error)
	}
	if status != http.StatusCreated {
		return models.Workout{}, fmt.Errorf("httpclient: /api/v1/workouts returned %d: %s", status, body)
	}

	var created struct {
		Entry entry `json:"entry"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return models.Workout{}, fmt.Errorf("httpclient: decode created workout: %w", err)
	}
	return created.Entry.Workout, nil
}
