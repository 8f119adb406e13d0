package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Basiic0110/Obdly/internal/db"
)

// Review states for a stored submission.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Stored is a submission with its review state.
type Stored struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Submission
}

// Store persists community submissions pending review.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add labels and inserts a submission as pending. Duplicate permalinks are
// rejected by the unique index.
func (s *Store) Add(ctx context.Context, sub Submission) (*Stored, error) {
	sub.Label()
	stored := &Stored{
		ID:         uuid.New().String(),
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
		Submission: sub,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, make, model, year, component, symptom, fix_summary,
			source, permalink, upvotes, is_resolved, is_image, confidence, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, sub.Make, sub.Model, sub.Year, sub.Component, sub.Symptom,
		sub.FixSummary, sub.Source, sub.Permalink, sub.Upvotes,
		boolToInt(sub.IsResolved), boolToInt(sub.IsImage), sub.Confidence,
		stored.Status)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}
	return stored, nil
}

// Pending lists pending submissions at or above minConfidence, best first.
func (s *Store) Pending(ctx context.Context, minConfidence int) ([]Stored, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, make, model, year, component, symptom, fix_summary,
		       source, permalink, upvotes, is_resolved, is_image, confidence,
		       status, created_at
		FROM submissions
		WHERE status = ? AND confidence >= ?
		ORDER BY confidence DESC, created_at`,
		StatusPending, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		var st Stored
		var resolved, image int
		if err := rows.Scan(&st.ID, &st.Make, &st.Model, &st.Year,
			&st.Component, &st.Symptom, &st.FixSummary, &st.Source,
			&st.Permalink, &st.Upvotes, &resolved, &image,
			&st.Confidence, &st.Status, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		st.IsResolved = resolved != 0
		st.IsImage = image != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

// ApprovedFor returns up to limit approved submissions for the vehicle,
// best first. Matching happens in memory via TopForVehicle so make/model
// aliasing stays consistent with the matcher.
func (s *Store) ApprovedFor(ctx context.Context, vehicleMake, vehicleModel string, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT make, model, year, component, symptom, fix_summary,
		       source, permalink, upvotes, is_resolved, is_image, confidence
		FROM submissions
		WHERE status = ?
		ORDER BY confidence DESC, created_at`, StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("querying approved submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var resolved, image int
		if err := rows.Scan(&sub.Make, &sub.Model, &sub.Year, &sub.Component,
			&sub.Symptom, &sub.FixSummary, &sub.Source, &sub.Permalink,
			&sub.Upvotes, &resolved, &image, &sub.Confidence); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		sub.IsResolved = resolved != 0
		sub.IsImage = image != 0
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return TopForVehicle(subs, vehicleMake, vehicleModel, limit), nil
}

// SetStatus marks a submission approved or rejected.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusApproved && status != StatusRejected && status != StatusPending {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating submission status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %s not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
