package telematics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"fleetwatch/internal/geo"
)

// Client talks to a Navixy-compatible telematics API. All calls are
// JSON-over-HTTP with a session key ("hash") query parameter and a
// {"success": bool, ...} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Status  json.RawMessage `json:"status,omitempty"`
	List    json.RawMessage `json:"list,omitempty"`
	ID      int             `json:"id,omitempty"`
}

func (c *Client) call(ctx context.Context, path string, params url.Values) (*envelope, error) {
	u := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telematics request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
			"body":   string(body),
		}).Warn("Telematics API returned non-200 response.")
		return nil, fmt.Errorf("telematics request %s: unexpected status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("telematics request %s: decode: %w", path, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("telematics request %s: provider reported failure", path)
	}
	return &env, nil
}

// ListTrackers fetches all trackers with their latest positions.
func (c *Client) ListTrackers(ctx context.Context, sessionKey string) ([]Tracker, error) {
	params := url.Values{"hash": {sessionKey}}
	env, err := c.call(ctx, "/tracker/list", params)
	if err != nil {
		return nil, err
	}

	var trackers []Tracker
	if err := json.Unmarshal(env.List, &trackers); err != nil {
		return nil, fmt.Errorf("telematics tracker list: %w", err)
	}
	return trackers, nil
}

// zoneDTO is the provider's wire shape for a zone; ListZones converts it to
// the internal geo.Zone, normalizing the "sausage" kind to corridor.
type zoneDTO struct {
	ID     int         `json:"id"`
	Label  string      `json:"label"`
	Type   string      `json:"type"`
	Center *geo.Point  `json:"center,omitempty"`
	Radius float64     `json:"radius,omitempty"`
	Points []geo.Point `json:"points,omitempty"`
	Color  string      `json:"color,omitempty"`
}

func (z zoneDTO) toZone() geo.Zone {
	kind := geo.ShapeKind(z.Type)
	if z.Type == "sausage" {
		kind = geo.KindCorridor
	}
	return geo.Zone{
		ID:     z.ID,
		Label:  z.Label,
		Kind:   kind,
		Center: z.Center,
		Radius: z.Radius,
		Points: z.Points,
		Color:  z.Color,
	}
}

// ListZones fetches all zone geometries for the account.
func (c *Client) ListZones(ctx context.Context, sessionKey string) ([]geo.Zone, error) {
	params := url.Values{"hash": {sessionKey}}
	env, err := c.call(ctx, "/zone/list", params)
	if err != nil {
		return nil, err
	}

	var dtos []zoneDTO
	if err := json.Unmarshal(env.List, &dtos); err != nil {
		return nil, fmt.Errorf("telematics zone list: %w", err)
	}

	zones := make([]geo.Zone, 0, len(dtos))
	for _, d := range dtos {
		zones = append(zones, d.toZone())
	}
	return zones, nil
}

// CreateZone creates a zone on the provider and returns its assigned id. Used
// only by the drawing UI; the observer treats zones as read-mostly input.
func (c *Client) CreateZone(ctx context.Context, sessionKey string, zone geo.Zone) (int, error) {
	kind := string(zone.Kind)
	if zone.Kind == geo.KindCorridor {
		kind = "sausage"
	}

	params := url.Values{
		"hash":  {sessionKey},
		"label": {zone.Label},
		"type":  {kind},
	}
	if zone.Color != "" {
		params.Set("color", zone.Color)
	}
	if zone.Radius > 0 {
		params.Set("radius", strconv.FormatFloat(zone.Radius, 'f', -1, 64))
	}
	if zone.Center != nil {
		center, err := json.Marshal(zone.Center)
		if err != nil {
			return 0, err
		}
		params.Set("center", string(center))
	}
	if len(zone.Points) > 0 {
		points, err := json.Marshal(zone.Points)
		if err != nil {
			return 0, err
		}
		params.Set("points", string(points))
	}

	env, err := c.call(ctx, "/zone/create", params)
	if err != nil {
		return 0, err
	}
	return env.ID, nil
}

// DeleteZone removes a zone from the provider.
func (c *Client) DeleteZone(ctx context.Context, sessionKey string, zoneID int) error {
	params := url.Values{
		"hash":    {sessionKey},
		"zone_id": {strconv.Itoa(zoneID)},
	}
	_, err := c.call(ctx, "/zone/delete", params)
	return err
}
