package api

import (
	"context"
	"fmt"
	"net/http"

	"wgcAdmin/internal/models"
)

// ServerInfo returns the controller's WireGuard identity and addressing.
func (c *Client) ServerInfo(ctx context.Context) (models.ServerInfo, error) {
	var info models.ServerInfo
	if err := c.do(ctx, http.MethodGet, c.endpoint("serverinfo"), nil, &info); err != nil {
		return models.ServerInfo{}, fmt.Errorf("getting server info: %w", err)
	}
	return info, nil
}
