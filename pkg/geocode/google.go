package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geocode-cli/internal/resilience"
)

// StatusOK is the provider status of a successful lookup.
const StatusOK = "OK"

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type googleResult struct {
	Geometry struct {
		Location *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
}

// geocodeGoogle geocodes a single address using the Google Geocoding API.
func (g *geocoder) geocodeGoogle(ctx context.Context, address string) (*Result, error) {
	if g.apiKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := url.Values{
		"address": {address},
		"key":     {g.apiKey},
	}
	if g.country != "" {
		params.Set("components", "country:"+g.country)
	}

	reqURL := g.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(redactKey(err, g.apiKey), "geocode: google request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(resilience.NewStatusError(resp.StatusCode), "geocode: google returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return nil, eris.Wrap(resilience.NewDecodeError(err), "geocode: google parse response")
	}

	if googleResp.Status != StatusOK || len(googleResp.Results) == 0 {
		return &Result{Matched: false, Status: googleResp.Status}, nil
	}

	result := googleResp.Results[0]
	loc := result.Geometry.Location
	if loc == nil || loc.Lat == nil || loc.Lng == nil {
		return nil, eris.Wrap(
			resilience.NewDecodeError(eris.New("first result has no geometry.location")),
			"geocode: google parse response",
		)
	}
	return &Result{
		Latitude:         *loc.Lat,
		Longitude:        *loc.Lng,
		Matched:          true,
		Status:           googleResp.Status,
		Quality:          googleLocationTypeToQuality(result.Geometry.LocationType),
		FormattedAddress: result.FormattedAddress,
	}, nil
}

// redactKey strips the API key from transport errors, which embed the
// request URL.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	redacted.URL = strings.ReplaceAll(redacted.URL, url.QueryEscape(key), "REDACTED")
	return &redacted
}

// googleLocationTypeToQuality maps Google's location_type to our quality taxonomy.
func googleLocationTypeToQuality(locType string) string {
	switch strings.ToUpper(locType) {
	case "ROOFTOP":
		return "rooftop"
	case "RANGE_INTERPOLATED":
		return "range"
	case "GEOMETRIC_CENTER":
		return "centroid"
	case "APPROXIMATE":
		return "approximate"
	default:
		return "approximate"
	}
}
