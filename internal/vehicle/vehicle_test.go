package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Basiic0110/Obdly/internal/db"
)

func TestNormalizeReg(t *testing.T) {
	if got := NormalizeReg(" ab12 cde "); got != "AB12CDE" {
		t.Errorf("NormalizeReg() = %q", got)
	}
}

func newEnquiryServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/vehicle-enquiry/v1/vehicles" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["registrationNumber"] == "XX99XXX" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Record{
			Make:              "VOLKSWAGEN",
			Colour:            "GREY",
			FuelType:          "PETROL",
			EngineCapacity:    1984,
			YearOfManufacture: 2018,
			MotStatus:         "Valid",
			TaxStatus:         "Taxed",
		})
	}))
}

func TestLookup(t *testing.T) {
	srv := newEnquiryServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	rec, err := c.Lookup(context.Background(), "ab12 cde")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Make != "VOLKSWAGEN" || rec.YearOfManufacture != 2018 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.RegistrationNumber != "AB12CDE" {
		t.Errorf("registration not normalized: %q", rec.RegistrationNumber)
	}
}

func TestLookup_NotFound(t *testing.T) {
	srv := newEnquiryServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Lookup(context.Background(), "XX99 XXX")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookup_DisabledWithoutKey(t *testing.T) {
	c := NewClient("", "", nil)
	if c.Enabled() {
		t.Error("client without key should report disabled")
	}
	if _, err := c.Lookup(context.Background(), "AB12CDE"); err == nil {
		t.Error("expected error when lookup is disabled")
	}
}

func TestLookup_UsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := newEnquiryServer(t, &hits)
	defer srv.Close()

	d, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	c := NewClient(srv.URL, "test-key", d)
	ctx := context.Background()

	if _, err := c.Lookup(ctx, "AB12CDE"); err != nil {
		t.Fatal(err)
	}
	rec, err := c.Lookup(ctx, "AB12CDE")
	if err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("second lookup should hit the cache, server saw %d requests", hits.Load())
	}
	if rec.Make != "VOLKSWAGEN" {
		t.Errorf("cached record mangled: %+v", rec)
	}
}

func TestDescribe(t *testing.T) {
	rec := &Record{
		Make:              "FORD",
		YearOfManufacture: 2015,
		FuelType:          "DIESEL",
		EngineCapacity:    1997,
		MotStatus:         "Valid",
	}
	got := Describe(rec)
	want := "2015 FORD (diesel, 1997cc, MOT: Valid)"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if Describe(nil) != "" {
		t.Error("nil record should describe as empty")
	}
}
