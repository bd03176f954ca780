package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/nimbuslabs/nimbus-agent/internal/app/conversation"
	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

type Server struct {
	svc *conversation.Service
}

// NewServer wires the conversation service to the HTTP surface. Routing
// is gorilla/mux; CORS stays permissive for the web client.
func NewServer(svc *conversation.Service, allowedOrigins []string) http.Handler {
	s := &Server{svc: svc}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/conversations", s.handleStartConversation).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}", s.handleGetConversation).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/messages", s.handleSendMessage).Methods(http.MethodPost)

	handler := chainMiddlewares(r, withLogging, withRequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(handler)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startConversationRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type conversationResponse struct {
	SessionID       string    `json:"session_id"`
	Status          string    `json:"status"`
	InvocationCount int       `json:"invocation_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type startConversationResponse struct {
	Conversation conversationResponse `json:"conversation"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	Result   string            `json:"result"`
	Reason   string            `json:"reason"`
	Messages []messageResponse `json:"messages"`
}

type getConversationResponse struct {
	Conversation conversationResponse `json:"conversation"`
	Messages     []messageResponse    `json:"messages"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.svc.StartConversation(
		r.Context(),
		conversation.StartConversationInput{
			SessionID: domain.SessionID(req.SessionID),
		},
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, startConversationResponse{
		Conversation: toConversationResponse(out.Conversation),
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(mux.Vars(r)["id"])

	conv, err := s.svc.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, getConversationResponse{
		Conversation: toConversationResponse(conv),
		Messages:     toMessagesResponse(conv.Messages),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(mux.Vars(r)["id"])

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(
		r.Context(),
		conversation.SendMessageInput{
			SessionID: id,
			Text:      req.Text,
		},
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Result:   out.Result,
		Reason:   out.Reason,
		Messages: toMessagesResponse(out.Messages),
	})
}

// ─────────────────────────────────────────────
// Response shaping
// ─────────────────────────────────────────────

func toConversationResponse(c *domain.Conversation) conversationResponse {
	return conversationResponse{
		SessionID:       string(c.SessionID),
		Status:          string(c.Status),
		InvocationCount: c.InvocationCount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Author:    m.Author,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrConversationNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "conversation not found"})
	case errors.Is(err, domain.ErrConversationClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conversation is no longer active"})
	case errors.Is(err, domain.ErrConversationExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conversation already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
