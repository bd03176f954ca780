package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/nimbuslabs/nimbus-agent/internal/adapters/http"
	"github.com/nimbuslabs/nimbus-agent/internal/adapters/llm"
	firestorestore "github.com/nimbuslabs/nimbus-agent/internal/adapters/storage/firestore"
	memstore "github.com/nimbuslabs/nimbus-agent/internal/adapters/storage/memory"
	"github.com/nimbuslabs/nimbus-agent/internal/app/conversation"
	"github.com/nimbuslabs/nimbus-agent/internal/app/crew"
	"github.com/nimbuslabs/nimbus-agent/internal/app/routing"
	"github.com/nimbuslabs/nimbus-agent/internal/config"
	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	if err := config.ApplySecretOverrides(ctx, cfg); err != nil {
		log.Fatalf("error applying secret overrides: %v", err)
	}

	// LLM: mock for dev, Vertex otherwise.
	var (
		llmClient domain.LLMClient
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Vertex LLM client")
		llmClient, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Vertex LLM client: %v", err)
		}
	}

	// Crew: built-in by default, YAML override when configured.
	crewFile := crew.Default()
	if cfg.CrewFile != "" {
		log.Printf("[CREW] Loading crew from %s", cfg.CrewFile)
		crewFile, err = crew.LoadFile(cfg.CrewFile)
		if err != nil {
			log.Fatalf("error loading crew file: %v", err)
		}
	}
	assembled := crew.Assemble(crewFile)
	runtime := crew.NewRuntime(llmClient, assembled)
	policy := routing.NewCrewPolicy(assembled.Coordinator.Name)

	// Storage: Firestore or memory.
	var store domain.ConversationStore
	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("NIMBUS_GCP_PROJECT is required for the Firestore storage backend")
		}
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewConversationStore()
	}

	svc := conversation.NewService(store, runtime, assembled.Registry(), policy, cfg.MaxInvocations)
	handler := httpadapter.NewServer(svc, cfg.AllowedOrigins)

	addr := ":" + cfg.Port
	log.Println("Nimbus API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
