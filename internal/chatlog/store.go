// Package chatlog persists chat sessions and their messages so past
// diagnoses can be reviewed and replayed.
package chatlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Basiic0110/Obdly/internal/db"
)

// Message is one persisted chat turn.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session groups messages for one conversation.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	VehicleReg string    `json:"vehicle_reg,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store provides CRUD operations for chat history.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateSession starts a new session and returns it. Empty userID records
// as "anonymous".
func (s *Store) CreateSession(ctx context.Context, userID, vehicleReg string) (*Session, error) {
	if userID == "" {
		userID = "anonymous"
	}
	sess := &Session{
		ID:         uuid.New().String(),
		UserID:     userID,
		VehicleReg: vehicleReg,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, vehicle_reg) VALUES (?, ?, ?)`,
		sess.ID, sess.UserID, sess.VehicleReg)
	if err != nil {
		return nil, fmt.Errorf("inserting chat session: %w", err)
	}
	return sess, nil
}

// Append records a message in a session. If msg.ID is empty a UUID is
// generated. Metadata defaults to an empty JSON object.
func (s *Store) Append(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Metadata == "" {
		msg.Metadata = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, metadata)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Metadata)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

// History returns a session's messages in chronological order.
func (s *Store) History(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, metadata, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY created_at, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// RecentSessions lists the newest sessions first, up to limit.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, vehicle_reg, created_at
		FROM chat_sessions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chat sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.VehicleReg, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
