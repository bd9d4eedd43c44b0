package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeCacheTTL = 24 * time.Hour

// PostalArea is the administrative-area confirmation for a postal code.
type PostalArea struct {
	PostalCode string `json:"postal_code"`
	Area       string `json:"area"`
	District   string `json:"district"`
	State      string `json:"state"`
}

type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// GeocodingService chains two third-party lookups used during session
// creation: postal code to administrative area, then free-text address to
// coordinates. Responses are cached in Redis; a missing or cold cache
// degrades to the HTTP call. Nothing is retried.
type GeocodingService struct {
	client        *http.Client
	cache         *redis.Client
	postalBaseURL string
	searchBaseURL string
}

func NewGeocodingService(cache *redis.Client) *GeocodingService {
	return &GeocodingService{
		client:        &http.Client{Timeout: 10 * time.Second},
		cache:         cache,
		postalBaseURL: "https://api.postalpincode.in",
		searchBaseURL: "https://nominatim.openstreetmap.org",
	}
}

type postalAPIResponse struct {
	Message    string `json:"Message"`
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

func (s *GeocodingService) LookupPostalCode(ctx context.Context, code string) (*PostalArea, error) {
	cacheKey := "geocode:postal:" + code
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var area PostalArea
		if json.Unmarshal(cached, &area) == nil {
			return &area, nil
		}
	}

	endpoint := fmt.Sprintf("%s/pincode/%s", s.postalBaseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []postalAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 || payload[0].Status != "Success" || len(payload[0].PostOffice) == 0 {
		return nil, fmt.Errorf("postal code %s not found", code)
	}

	office := payload[0].PostOffice[0]
	area := &PostalArea{
		PostalCode: code,
		Area:       office.Name,
		District:   office.District,
		State:      office.State,
	}
	s.toCache(ctx, cacheKey, area)
	return area, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (s *GeocodingService) GeocodeAddress(ctx context.Context, address string) (*Coordinates, error) {
	cacheKey := "geocode:addr:" + address
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var coords Coordinates
		if json.Unmarshal(cached, &coords) == nil {
			return &coords, nil
		}
	}

	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", s.searchBaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "local-hive/1.0")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no coordinates found for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in geocoding response: %v", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in geocoding response: %v", err)
	}

	coords := &Coordinates{Latitude: lat, Longitude: lng, DisplayName: results[0].DisplayName}
	s.toCache(ctx, cacheKey, coords)
	return coords, nil
}

func (s *GeocodingService) fromCache(ctx context.Context, key string) []byte {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *GeocodingService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, geocodeCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache geocoding result for %s: %v", key, err)
	}
}
