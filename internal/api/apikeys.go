package api

import (
	"context"
	"fmt"
	"net/http"

	"wgcAdmin/internal/models"
)

func (c *Client) APIKeys(ctx context.Context) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := c.do(ctx, http.MethodGet, c.endpoint("apikeys"), nil, &keys); err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	return keys, nil
}

// PutAPIKey stores a new key. The token must come from APIKeyInit; the
// controller keeps only its hash.
func (c *Client) PutAPIKey(ctx context.Context, key models.APIKeyWithToken) error {
	if key.UUID == "" {
		return fmt.Errorf("creating api key: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPut, c.endpoint("apikeys", key.UUID), key, nil); err != nil {
		return fmt.Errorf("creating api key %s: %w", key.UUID, err)
	}
	return nil
}

func (c *Client) PatchAPIKey(ctx context.Context, key models.APIKey) error {
	if key.UUID == "" {
		return fmt.Errorf("updating api key: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPatch, c.endpoint("apikeys", key.UUID), key, nil); err != nil {
		return fmt.Errorf("updating api key %s: %w", key.UUID, err)
	}
	return nil
}

func (c *Client) DeleteAPIKey(ctx context.Context, uuid string) error {
	if uuid == "" {
		return fmt.Errorf("deleting api key: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("apikeys", uuid), nil, nil); err != nil {
		return fmt.Errorf("deleting api key %s: %w", uuid, err)
	}
	return nil
}

// APIKeyInit returns a fresh uuid and token for a key about to be created.
func (c *Client) APIKeyInit(ctx context.Context) (models.APIKeyInit, error) {
	var init models.APIKeyInit
	if err := c.do(ctx, http.MethodGet, c.endpoint("apikeys", "init"), nil, &init); err != nil {
		return models.APIKeyInit{}, fmt.Errorf("initialising api key: %w", err)
	}
	return init, nil
}
