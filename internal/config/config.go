package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Secrets backends for the optional config-override loader.
const (
	SecretsNone    = ""
	SecretsAWS     = "awssm"
	SecretsAzureKV = "azurekv"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use mock even on GCP

	// MaxInvocations is the hard cap on selector invocations per
	// conversation.
	MaxInvocations int

	// CrewFile optionally overrides the built-in crew definition.
	CrewFile string

	AllowedOrigins []string

	// Secret-manager override source: "", "awssm" or "azurekv".
	SecretsBackend string
	SecretsRef     string // secret name
	AzureVaultURL  string // required for azurekv
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	modeStr := getEnv("NIMBUS_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("NIMBUS_PORT", "8080"),

		GCPProjectID: getEnv("NIMBUS_GCP_PROJECT", ""),
		GCPLocation:  getEnv("NIMBUS_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("NIMBUS_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("NIMBUS_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("NIMBUS_USE_MOCK_LLM", mode == ModeLocal),

		MaxInvocations: getIntEnv("NIMBUS_MAX_INVOCATIONS", 20),
		CrewFile:       getEnv("NIMBUS_CREW_FILE", ""),

		SecretsBackend: getEnv("NIMBUS_SECRETS_BACKEND", SecretsNone),
		SecretsRef:     getEnv("NIMBUS_SECRETS_REF", ""),
		AzureVaultURL:  getEnv("NIMBUS_AZURE_VAULT_URL", ""),
	}

	if origins := getEnv("NIMBUS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	// Minimal validation in GCP mode.
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("NIMBUS_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.SecretsBackend != SecretsNone && cfg.SecretsRef == "" {
		log.Fatal("NIMBUS_SECRETS_REF must be set when a secrets backend is configured")
	}
	if cfg.SecretsBackend == SecretsAzureKV && cfg.AzureVaultURL == "" {
		log.Fatal("NIMBUS_AZURE_VAULT_URL must be set for the azurekv secrets backend")
	}

	return cfg
}
