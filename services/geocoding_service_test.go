package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupPostalCode(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/pincode/110001" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"Message":"Number of pincode(s) found:1","Status":"Success","PostOffice":[{"Name":"Connaught Place","District":"Central Delhi","State":"Delhi"}]}]`))
	}))
	defer server.Close()

	svc := NewGeocodingService(nil)
	svc.postalBaseURL = server.URL

	area, err := svc.LookupPostalCode(context.Background(), "110001")
	if err != nil {
		t.Fatalf("LookupPostalCode failed: %v", err)
	}
	if area.Area != "Connaught Place" || area.District != "Central Delhi" || area.State != "Delhi" {
		t.Fatalf("unexpected area: %+v", area)
	}
	if area.PostalCode != "110001" {
		t.Fatalf("postal code not echoed back: %+v", area)
	}
	if requests != 1 {
		t.Fatalf("expected one upstream request, got %d", requests)
	}
}

func TestLookupPostalCodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Message":"No records found","Status":"Error","PostOffice":null}]`))
	}))
	defer server.Close()

	svc := NewGeocodingService(nil)
	svc.postalBaseURL = server.URL

	if _, err := svc.LookupPostalCode(context.Background(), "000000"); err == nil {
		t.Fatal("expected an error for an unknown postal code")
	}
}

func TestGeocodeAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "local-hive/1.0" {
			t.Fatalf("unexpected User-Agent %q", got)
		}
		if q := r.URL.Query().Get("q"); q != "Community Kitchen, Delhi" {
			t.Fatalf("unexpected query %q", q)
		}
		w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090","display_name":"Community Kitchen, Delhi, India"}]`))
	}))
	defer server.Close()

	svc := NewGeocodingService(nil)
	svc.searchBaseURL = server.URL

	coords, err := svc.GeocodeAddress(context.Background(), "Community Kitchen, Delhi")
	if err != nil {
		t.Fatalf("GeocodeAddress failed: %v", err)
	}
	if coords.Latitude != 28.6139 || coords.Longitude != 77.2090 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
	if coords.DisplayName == "" {
		t.Fatal("display name missing")
	}
}

func TestGeocodeAddressNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc := NewGeocodingService(nil)
	svc.searchBaseURL = server.URL

	if _, err := svc.GeocodeAddress(context.Background(), "nowhere at all"); err == nil {
		t.Fatal("expected an error when the geocoder returns nothing")
	}
}

func TestGeocodeAddressBadCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"77.2090","display_name":"x"}]`))
	}))
	defer server.Close()

	svc := NewGeocodingService(nil)
	svc.searchBaseURL = server.URL

	if _, err := svc.GeocodeAddress(context.Background(), "somewhere"); err == nil {
		t.Fatal("expected an error for unparsable coordinates")
	}
}
