package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftmax/internal/models"
	"github.com/claude/liftmax/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftMax REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, resp.StatusCode, nil
}

func timeParams(lift string, start, end time.Time) url.Values {
	v := url.Values{}
	if lift != "" {
		v.Set("lift", lift)
	}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

// QueryTrainingSets fetches logged sets. The user is resolved server-side
// from the Tailscale identity, so userID is ignored.
func (c *HTTPClient) QueryTrainingSets(ctx context.Context, _ int, lift string, start, end time.Time) ([]models.TrainingSet, error) {
	body, _, err := c.get(ctx, "/api/v1/sets", timeParams(lift, start, end))
	if err != nil {
		return nil, err
	}

	var sets []models.TrainingSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) QueryTestedMaxes(ctx context.Context, _ int, lift string, start, end time.Time) ([]models.TestedMax, error) {
	body, _, err := c.get(ctx, "/api/v1/tests", timeParams(lift, start, end))
	if err != nil {
		return nil, err
	}

	var tests []models.TestedMax
	if err := json.Unmarshal(body, &tests); err != nil {
		return nil, fmt.Errorf("httpclient: decode tests: %w", err)
	}
	return tests, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, _ int) (*models.UserProfile, error) {
	body, status, err := c.get(ctx, "/api/v1/profile", nil)
	if status == http.StatusNotFound {
		return nil, storage.ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return &profile, nil
}

func (c *HTTPClient) GetCalibrations(ctx context.Context, _ int) (map[models.LiftType]float64, error) {
	body, _, err := c.get(ctx, "/api/v1/calibration", nil)
	if err != nil {
		return nil, err
	}

	factors := map[models.LiftType]float64{}
	if err := json.Unmarshal(body, &factors); err != nil {
		return nil, fmt.Errorf("httpclient: decode calibration: %w", err)
	}
	return factors, nil
}
