package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"clinic-portal/internal/config"
)

// ErrSecretNotFound is returned when the KV path holds no data
var ErrSecretNotFound = errors.New("secret not found")

// Client wraps HashiCorp Vault API
type Client struct {
	client  *api.Client
	kvMount string
}

// NewClient creates a new Vault client
func NewClient(cfg *config.VaultConfig) (*Client, error) {
	apiConfig := api.DefaultConfig()
	apiConfig.Address = cfg.Address

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	mount := strings.Trim(cfg.KVMount, "/")
	if mount == "" {
		mount = "secret"
	}

	return &Client{
		client:  client,
		kvMount: mount,
	}, nil
}

// StoreSecret stores a secret in Vault KV (v2)
func (c *Client) StoreSecret(ctx context.Context, path string, data map[string]interface{}) error {
	secretPath := fmt.Sprintf("%s/data/%s", c.kvMount, strings.Trim(path, "/"))

	payload := map[string]interface{}{
		"data": data,
	}

	_, err := c.client.Logical().WriteWithContext(ctx, secretPath, payload)
	if err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	return nil
}

// GetSecret retrieves a secret from Vault KV (v2)
func (c *Client) GetSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	secretPath := fmt.Sprintf("%s/data/%s", c.kvMount, strings.Trim(path, "/"))

	secret, err := c.client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, ErrSecretNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format")
	}

	return data, nil
}

// Secrets are the values the portal can take from Vault
type Secrets struct {
	SigningSecret   string
	SSOSharedSecret string
}

// LoadSecrets reads signing_secret and sso_shared_secret from path.
// Missing keys come back empty.
func (c *Client) LoadSecrets(ctx context.Context, path string) (*Secrets, error) {
	data, err := c.GetSecret(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Secrets{
		SigningSecret:   stringValue(data, "signing_secret"),
		SSOSharedSecret: stringValue(data, "sso_shared_secret"),
	}, nil
}

// Apply overrides the env-sourced secrets in cfg with any non-empty values
func (s *Secrets) Apply(cfg *config.Config) {
	if s == nil {
		return
	}
	if s.SigningSecret != "" {
		cfg.Signing.Secret = s.SigningSecret
	}
	if s.SSOSharedSecret != "" {
		cfg.SSO.SharedSecret = s.SSOSharedSecret
	}
}

func stringValue(data map[string]interface{}, key string) string {
	v, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Health checks Vault health status
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}

	if !health.Initialized {
		return fmt.Errorf("vault is not initialized")
	}

	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}

	return nil
}
