package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"

	// DefaultRetries is the total number of reverse-geocoding attempts.
	DefaultRetries = 2

	attemptTimeout = 5 * time.Second
	retryBackoff   = time.Second
)

// Location is a reverse-geocoded place.
type Location struct {
	Formatted   string // "City, State, Country", or the display name when no parts resolved.
	City        string
	State       string
	Country     string
	FullAddress string
}

// PromptContext returns the location sentence appended to caption prompts.
func (l *Location) PromptContext() string {
	return "Location: " + l.Formatted
}

// Geocoder resolves coordinates to place names using the Nominatim API.
type Geocoder struct {
	BaseURL   string
	UserAgent string // Nominatim requires an identifying User-Agent.
	Client    *http.Client

	// Sleep is called between retry attempts. Overridable in tests.
	Sleep func(time.Duration)
}

// NewGeocoder creates a Geocoder against the public Nominatim endpoint.
func NewGeocoder() *Geocoder {
	return &Geocoder{
		BaseURL:   defaultNominatimURL,
		UserAgent: "photocap/1.0",
		Client:    &http.Client{Timeout: attemptTimeout},
		Sleep:     time.Sleep,
	}
}

// ReverseGeocode converts coordinates to a Location, making up to retries
// attempts with a fixed one-second pause between them. Timeouts and server
// errors are retried; any other failure returns nil immediately. It never
// returns an error: exhausted retries also yield nil.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64, retries int) *Location {
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		loc, retryable := g.lookup(ctx, lat, lon)
		if loc != nil {
			return loc
		}
		if !retryable {
			return nil
		}
		if attempt < retries-1 {
			g.Sleep(retryBackoff)
		}
	}

	return nil
}

// lookup performs one reverse-geocoding attempt. The second return value
// reports whether the failure is worth retrying.
func (g *Geocoder) lookup(ctx context.Context, lat, lon float64) (*Location, bool) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		// Transport failures cover timeouts; treat them all as transient.
		return nil, true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, true
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var body struct {
		Error       string `json:"error"`
		DisplayName string `json:"display_name"`
		Address     struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
			Hamlet  string `json:"hamlet"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false
	}

	// Nominatim reports unresolvable coordinates (open ocean, poles) as a
	// 200 response with an error body instead of a non-200 status.
	if body.Error != "" {
		return nil, false
	}

	loc := parseLocation(body.DisplayName, body.Address.City, body.Address.Town,
		body.Address.Village, body.Address.Hamlet, body.Address.State, body.Address.Country)
	if loc.Formatted == "" {
		return nil, false
	}

	return loc, false
}

func parseLocation(displayName, city, town, village, hamlet, state, country string) *Location {
	resolved := city
	for _, alt := range []string{town, village, hamlet} {
		if resolved != "" {
			break
		}
		resolved = alt
	}

	var parts []string
	for _, p := range []string{resolved, state, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	formatted := strings.Join(parts, ", ")
	if formatted == "" {
		formatted = displayName
	}

	return &Location{
		Formatted:   formatted,
		City:        resolved,
		State:       state,
		Country:     country,
		FullAddress: displayName,
	}
}
