package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates an LLMClient backed by Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the Vertex client")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateReply implements domain.LLMClient using Vertex AI. The persona
// instructions arrive as the system instruction; the conversation history
// is replayed as alternating user/model contents, with crew-internal
// turns labeled by author so the model can tell participants apart.
func (v *VertexClient) GenerateReply(ctx context.Context, inv domain.InvocationContext) (string, error) {
	var contents []*genai.Content
	for _, m := range inv.History {
		var role genai.Role = genai.RoleUser
		text := m.Content
		if m.Role == domain.RoleAgent && !m.FromEndUser() {
			text = m.Author + ": " + m.Content
			if m.Author == inv.Persona {
				role = genai.RoleModel
			}
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText("(conversation start)", genai.RoleUser))
	}

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(inv.System, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}
	return text, nil
}
