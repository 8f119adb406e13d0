// Package vehicle looks up registration plates against the DVLA Vehicle
// Enquiry Service and caches the results locally.
package vehicle

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Basiic0110/Obdly/internal/db"
)

// Record is the subset of DVLA vehicle data the assistant cares about.
type Record struct {
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Model              string `json:"model,omitempty"`
	Colour             string `json:"colour"`
	FuelType           string `json:"fuelType"`
	EngineCapacity     int    `json:"engineCapacity"`
	YearOfManufacture  int    `json:"yearOfManufacture"`
	MotStatus          string `json:"motStatus"`
	MotExpiryDate      string `json:"motExpiryDate,omitempty"`
	TaxStatus          string `json:"taxStatus"`
}

// ErrNotFound is returned when the service has no record for the plate.
var ErrNotFound = errors.New("vehicle not found")

// cacheTTL bounds how long a cached lookup stays fresh.
const cacheTTL = 24 * time.Hour

// Client calls the DVLA Vehicle Enquiry Service. A nil database disables
// caching.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	db      *db.DB
}

// NewClient creates a lookup client. baseURL defaults to the public DVLA
// endpoint when empty.
func NewClient(baseURL, apiKey string, database *db.DB) *Client {
	if baseURL == "" {
		baseURL = "https://driver-vehicle-licensing.api.gov.uk"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		db:      database,
	}
}

// Enabled reports whether the client has an API key to call out with.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// NormalizeReg uppercases a plate and strips spaces.
func NormalizeReg(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(reg), " ", ""))
}

// Lookup resolves a registration plate to a vehicle record, consulting the
// cache first. ErrNotFound means the plate is unknown to the service;
// other errors are transport or authorization failures.
func (c *Client) Lookup(ctx context.Context, reg string) (*Record, error) {
	reg = NormalizeReg(reg)
	if reg == "" {
		return nil, fmt.Errorf("empty registration")
	}

	if rec := c.cached(ctx, reg); rec != nil {
		return rec, nil
	}

	if !c.Enabled() {
		return nil, fmt.Errorf("vehicle lookup disabled: DVLA_API_KEY not set")
	}

	body, err := json.Marshal(map[string]string{"registrationNumber": reg})
	if err != nil {
		return nil, fmt.Errorf("marshalling enquiry: %w", err)
	}

	url := c.baseURL + "/vehicle-enquiry/v1/vehicles"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating enquiry request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vehicle enquiry failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading enquiry response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("vehicle enquiry returned status %d: %s",
			resp.StatusCode, string(respBody))
	}

	var rec Record
	if err := json.Unmarshal(respBody, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling enquiry response: %w", err)
	}
	rec.RegistrationNumber = reg

	c.cache(ctx, reg, respBody)
	return &rec, nil
}

func (c *Client) cached(ctx context.Context, reg string) *Record {
	if c.db == nil {
		return nil
	}
	var payload string
	var fetchedAt time.Time
	err := c.db.QueryRowContext(ctx, `
		SELECT payload, fetched_at FROM vehicle_lookups WHERE reg = ?`, reg).
		Scan(&payload, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// Cache trouble never blocks a lookup.
			return nil
		}
		return nil
	}
	if time.Since(fetchedAt) > cacheTTL {
		return nil
	}
	var rec Record
	if json.Unmarshal([]byte(payload), &rec) != nil {
		return nil
	}
	rec.RegistrationNumber = reg
	return &rec
}

func (c *Client) cache(ctx context.Context, reg string, payload []byte) {
	if c.db == nil {
		return
	}
	_, _ = c.db.ExecContext(ctx, `
		INSERT INTO vehicle_lookups (reg, payload, fetched_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(reg) DO UPDATE SET payload = excluded.payload,
			fetched_at = excluded.fetched_at`, reg, string(payload))
}

// Describe renders a record as a short human-readable line for prompts.
func Describe(r *Record) string {
	if r == nil {
		return ""
	}
	parts := []string{}
	if r.YearOfManufacture > 0 {
		parts = append(parts, fmt.Sprintf("%d", r.YearOfManufacture))
	}
	if r.Make != "" {
		parts = append(parts, r.Make)
	}
	if r.Model != "" {
		parts = append(parts, r.Model)
	}
	line := strings.Join(parts, " ")
	var extras []string
	if r.FuelType != "" {
		extras = append(extras, strings.ToLower(r.FuelType))
	}
	if r.EngineCapacity > 0 {
		extras = append(extras, fmt.Sprintf("%dcc", r.EngineCapacity))
	}
	if r.MotStatus != "" {
		extras = append(extras, "MOT: "+r.MotStatus)
	}
	if len(extras) > 0 {
		line += " (" + strings.Join(extras, ", ") + ")"
	}
	return line
}
