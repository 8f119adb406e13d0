package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Basiic0110/Obdly/internal/assistant"
	"github.com/Basiic0110/Obdly/internal/insights"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

// chatRequest is the incoming chat message format.
type chatRequest struct {
	SessionID    string `json:"session_id"` // empty for new sessions
	Message      string `json:"message"`
	Registration string `json:"registration,omitempty"`
}

// chatResponse is the outgoing chat message format.
type chatResponse struct {
	SessionID string           `json:"session_id"`
	Reply     *assistant.Reply `json:"reply"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing sensible left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// lookupVehicle resolves a plate best-effort. Chat and diagnose still
// answer without vehicle details, so failures only cost context.
func (s *Server) lookupVehicle(r *http.Request, reg string) *vehicle.Record {
	if reg == "" || s.vehicles == nil || !s.vehicles.Enabled() {
		return nil
	}
	rec, err := s.vehicles.Lookup(r.Context(), reg)
	if err != nil {
		return nil
	}
	return rec
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()
	sessionID := req.SessionID
	if sessionID == "" && s.sessions != nil {
		sess, err := s.sessions.CreateSession(ctx, "api", vehicle.NormalizeReg(req.Registration))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	veh := s.lookupVehicle(r, req.Registration)
	reply := s.assistant.Answer(ctx, sessionID, req.Message, veh)

	writeJSON(w, http.StatusOK, chatResponse{SessionID: sessionID, Reply: reply})
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symptoms     string `json:"symptoms"`
		Registration string `json:"registration,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symptoms == "" {
		writeError(w, http.StatusBadRequest, "symptoms are required")
		return
	}

	veh := s.lookupVehicle(r, req.Registration)
	writeJSON(w, http.StatusOK, s.assistant.Diagnose(r.Context(), req.Symptoms, veh))
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	if s.vehicles == nil || !s.vehicles.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "vehicle lookup is not configured")
		return
	}

	rec, err := s.vehicles.Lookup(r.Context(), chi.URLParam(r, "reg"))
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no vehicle found for that registration")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	entry := s.codes.Decode(code, r.URL.Query().Get("make"), r.URL.Query().Get("model"))
	if entry.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid trouble code")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "chat history is not configured")
		return
	}

	ctx := r.Context()
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		msgs, err := s.sessions.History(ctx, sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := s.sessions.RecentSessions(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.subs == nil {
		writeError(w, http.StatusServiceUnavailable, "submissions are not configured")
		return
	}

	var sub insights.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sub.Title == "" && sub.Body == "" {
		writeError(w, http.StatusBadRequest, "a title or body is required")
		return
	}

	stored, err := s.subs.Add(r.Context(), sub)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	if s.subs == nil {
		writeError(w, http.StatusServiceUnavailable, "submissions are not configured")
		return
	}

	minConfidence, _ := strconv.Atoi(r.URL.Query().Get("min_confidence"))
	pending, err := s.subs.Pending(r.Context(), minConfidence)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pending == nil {
		pending = []insights.Stored{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": pending})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if s.subs == nil {
		writeError(w, http.StatusServiceUnavailable, "submissions are not configured")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.subs.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
