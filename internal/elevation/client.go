package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// ErrSessionExpired is returned when the upstream elevation service rejects
// the bearer token. The caller is expected to re-authenticate and retry.
var ErrSessionExpired = errors.New("elevation session expired")

// Client queries a remote instance of the elevation API instead of local
// tiles. Wire contract: POST {base}/api/get_elevation with
// {"points": [[lat, lng], ...]}, bearer-token authenticated, answered by
// {"elevations": [...]} aligned with the request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type elevationRequest struct {
	Points [][2]float64 `json:"points"`
}

type elevationResponse struct {
	Elevations []float64 `json:"elevations"`
}

func (c *Client) Lookup(ctx context.Context, points []geo.Point) ([]float64, error) {
	payload := elevationRequest{Points: make([][2]float64, len(points))}
	for i, p := range points {
		payload.Points[i] = [2]float64{p.Lat, p.Lng}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/get_elevation", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevation service status %d", resp.StatusCode)
	}

	var decoded elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Elevations, nil
}
