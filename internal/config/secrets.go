package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretOverrides is the JSON document stored in the cloud secret
// manager. Every field is optional; empty fields leave the env-derived
// value in place.
type secretOverrides struct {
	GCPProjectID string `json:"gcp_project_id,omitempty"`
	GCPLocation  string `json:"gcp_location,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
}

// ApplySecretOverrides fetches the configured secret and folds it into
// the config. A missing backend is a no-op so local development needs no
// cloud credentials.
func ApplySecretOverrides(ctx context.Context, cfg *Config) error {
	var (
		raw string
		err error
	)

	switch cfg.SecretsBackend {
	case SecretsNone:
		return nil
	case SecretsAWS:
		raw, err = fetchAWSSecret(ctx, cfg.SecretsRef)
	case SecretsAzureKV:
		raw, err = fetchAzureSecret(ctx, cfg.AzureVaultURL, cfg.SecretsRef)
	default:
		return fmt.Errorf("unknown secrets backend %q", cfg.SecretsBackend)
	}
	if err != nil {
		return err
	}

	var overrides secretOverrides
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		return fmt.Errorf("parsing secret %s: %w", cfg.SecretsRef, err)
	}

	if overrides.GCPProjectID != "" {
		cfg.GCPProjectID = overrides.GCPProjectID
	}
	if overrides.GCPLocation != "" {
		cfg.GCPLocation = overrides.GCPLocation
	}
	if overrides.ModelName != "" {
		cfg.ModelName = overrides.ModelName
	}
	return nil
}

func fetchAWSSecret(ctx context.Context, name string) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("loading AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("fetching secret %s from AWS Secrets Manager: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string payload", name)
	}
	return *out.SecretString, nil
}

func fetchAzureSecret(ctx context.Context, vaultURL, name string) (string, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return "", fmt.Errorf("building Azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return "", fmt.Errorf("building Key Vault client: %w", err)
	}

	resp, err := client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("fetching secret %s from Key Vault: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %s has no value", name)
	}
	return *resp.Value, nil
}
