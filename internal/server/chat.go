package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Basiic0110/Obdly/internal/vehicle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	SessionID    string `json:"session_id"` // empty for new sessions
	Message      string `json:"message"`
	Registration string `json:"registration,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string           `json:"type"` // "response" or "error"
	SessionID string           `json:"session_id"`
	Reply     *assistantReply  `json:"reply,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// assistantReply mirrors assistant.Reply for the socket payload so the
// two transports stay wire-compatible.
type assistantReply struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	Confidence int    `json:"confidence,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sessionID := ""
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, sessionID, "invalid message format")
			continue
		}
		if req.Message == "" {
			s.sendWSError(conn, req.SessionID, "message is required")
			continue
		}
		if req.SessionID != "" {
			sessionID = req.SessionID
		}

		// One session per connection unless the client pins its own.
		if sessionID == "" && s.sessions != nil {
			sess, err := s.sessions.CreateSession(r.Context(), "websocket", vehicle.NormalizeReg(req.Registration))
			if err != nil {
				s.sendWSError(conn, "", "failed to create session: "+err.Error())
				continue
			}
			sessionID = sess.ID
		}

		veh := s.lookupVehicle(r, req.Registration)
		reply := s.assistant.Answer(r.Context(), sessionID, req.Message, veh)

		resp := wsResponse{
			Type:      "response",
			SessionID: sessionID,
			Reply: &assistantReply{
				Text:       reply.Text,
				Source:     reply.Source,
				Confidence: reply.Confidence,
			},
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("server: websocket write: %v", err)
			return
		}
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, message string) {
	resp := wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Error:     message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
