package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/nimbuslabs/nimbus-agent/internal/adapters/http"
	"github.com/nimbuslabs/nimbus-agent/internal/adapters/llm"
	"github.com/nimbuslabs/nimbus-agent/internal/adapters/storage/memory"
	"github.com/nimbuslabs/nimbus-agent/internal/app/conversation"
	"github.com/nimbuslabs/nimbus-agent/internal/app/crew"
	"github.com/nimbuslabs/nimbus-agent/internal/app/routing"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	c := crew.Assemble(crew.Default())
	store := memory.NewConversationStore()
	runtime := crew.NewRuntime(llm.NewMockLLM(), c)
	policy := routing.NewCrewPolicy(c.Coordinator.Name)
	svc := conversation.NewService(store, runtime, c.Registry(), policy, 0)

	return httpadapter.NewServer(svc, nil)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func startConversation(t *testing.T, srv http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Conversation struct {
			SessionID string `json:"session_id"`
			Status    string `json:"status"`
		} `json:"conversation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Conversation.SessionID == "" || resp.Conversation.Status != "active" {
		t.Fatalf("unexpected conversation: %+v", resp.Conversation)
	}
	return resp.Conversation.SessionID
}

func TestConversationFlow(t *testing.T) {
	srv := newTestServer(t)
	id := startConversation(t, srv)

	body := []byte(`{"text":"please check azure for me"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Result   string `json:"result"`
		Reason   string `json:"reason"`
		Messages []struct {
			Author string `json:"author"`
			Role   string `json:"role"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Result == "" || resp.Reason == "" {
		t.Fatalf("expected result and reason, got %+v", resp)
	}
	if len(resp.Messages) < 2 || resp.Messages[0].Role != "user" {
		t.Fatalf("unexpected turn messages: %+v", resp.Messages)
	}

	// The snapshot endpoint shows the completed conversation.
	req = httptest.NewRequest(http.MethodGet, "/conversations/"+id, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var snap struct {
		Conversation struct {
			Status string `json:"status"`
		} `json:"conversation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snap.Conversation.Status != "completed" {
		t.Fatalf("expected completed, got %q", snap.Conversation.Status)
	}

	// A closed conversation rejects further messages.
	req = httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewReader(body))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestSendMessageValidation(t *testing.T) {
	srv := newTestServer(t)
	id := startConversation(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewReader([]byte(`{"text":"  "}`)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUnknownConversationIs404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/conversations/nope", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/conversations/nope/messages", bytes.NewReader([]byte(`{"text":"hi"}`)))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
