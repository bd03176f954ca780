package crew_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nimbuslabs/nimbus-agent/internal/app/crew"
	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

type stubLLM struct {
	lastSystem string
}

func (s *stubLLM) GenerateReply(ctx context.Context, inv domain.InvocationContext) (string, error) {
	s.lastSystem = inv.System
	return "stub reply from " + inv.Persona, nil
}

func TestDefaultCrewRegistry(t *testing.T) {
	c := crew.Assemble(crew.Default())

	reg := c.Registry()
	if _, ok := reg.Lookup(crew.CoordinatorName); !ok {
		t.Fatalf("coordinator missing from registry")
	}

	specialists := reg.Specialists()
	if len(specialists) != 2 {
		t.Fatalf("expected 2 specialists, got %d", len(specialists))
	}
	if !reg.IsSpecialist(crew.AWSSpecialistName) || !reg.IsSpecialist(crew.AzureSpecialistName) {
		t.Fatalf("default specialists not registered: %v", specialists)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.yaml")
	data := []byte(`
coordinator:
  name: helm
  instructions: lead the crew
specialists:
  - name: gcp-specialist
    domain_term: gcp
    instructions: answer gcp questions
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing crew file: %v", err)
	}

	file, err := crew.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if file.Coordinator.Name != "helm" {
		t.Fatalf("expected coordinator helm, got %q", file.Coordinator.Name)
	}
	if len(file.Specialists) != 1 || file.Specialists[0].DomainTerm != "gcp" {
		t.Fatalf("unexpected specialists: %+v", file.Specialists)
	}
}

func TestLoadFileRejectsBadCrew(t *testing.T) {
	cases := map[string]string{
		"missing coordinator": `
specialists:
  - name: gcp-specialist
    domain_term: gcp
`,
		"missing domain term": `
coordinator:
  name: helm
specialists:
  - name: gcp-specialist
`,
		"duplicate name": `
coordinator:
  name: helm
specialists:
  - name: helm
    domain_term: gcp
`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "crew.yaml")
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatalf("writing crew file: %v", err)
			}
			if _, err := crew.LoadFile(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestRuntimeInvoke(t *testing.T) {
	ctx := context.Background()
	llm := &stubLLM{}
	c := crew.Assemble(crew.Default())
	rt := crew.NewRuntime(llm, c)

	conv := &domain.Conversation{SessionID: "conv-test", Status: domain.StatusActive}

	msg, err := rt.Invoke(ctx, c.Coordinator.Handle, conv)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if msg.Author != crew.CoordinatorName {
		t.Fatalf("expected coordinator author, got %q", msg.Author)
	}
	if msg.Role != domain.RoleAgent {
		t.Fatalf("expected agent role, got %q", msg.Role)
	}
	if msg.SessionID != conv.SessionID {
		t.Fatalf("message not tied to session: %q", msg.SessionID)
	}
	if llm.lastSystem == "" {
		t.Fatalf("expected persona instructions to reach the LLM")
	}
}

func TestRuntimeInvokeUnknownHandle(t *testing.T) {
	c := crew.Assemble(crew.Default())
	rt := crew.NewRuntime(&stubLLM{}, c)

	conv := &domain.Conversation{SessionID: "conv-test", Status: domain.StatusActive}
	if _, err := rt.Invoke(context.Background(), "no-such-handle", conv); err == nil {
		t.Fatalf("expected error for unknown handle")
	}
}
