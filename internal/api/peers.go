package api

import (
	"context"
	"fmt"
	"net/http"

	"wgcAdmin/internal/models"
)

// Peers lists every peer with its live traffic counters.
func (c *Client) Peers(ctx context.Context) ([]models.Peer, error) {
	var peers []models.Peer
	if err := c.do(ctx, http.MethodGet, c.endpoint("peers"), nil, &peers); err != nil {
		return nil, fmt.Errorf("listing peers: %w", err)
	}
	return peers, nil
}

func (c *Client) Peer(ctx context.Context, uuid string) (models.Peer, error) {
	if uuid == "" {
		return models.Peer{}, fmt.Errorf("getting peer: %w", ErrMissingID)
	}
	var peer models.Peer
	if err := c.do(ctx, http.MethodGet, c.endpoint("peers", uuid), nil, &peer); err != nil {
		return models.Peer{}, fmt.Errorf("getting peer %s: %w", uuid, err)
	}
	return peer, nil
}

// PutPeer creates the peer, or replaces it when the uuid exists.
func (c *Client) PutPeer(ctx context.Context, peer models.Peer) error {
	if peer.UUID == "" {
		return fmt.Errorf("saving peer: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPut, c.endpoint("peers", peer.UUID), peer, nil); err != nil {
		return fmt.Errorf("saving peer %s: %w", peer.UUID, err)
	}
	return nil
}

// PatchPeer updates an existing peer.
func (c *Client) PatchPeer(ctx context.Context, peer models.Peer) error {
	if peer.UUID == "" {
		return fmt.Errorf("updating peer: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPatch, c.endpoint("peers", peer.UUID), peer, nil); err != nil {
		return fmt.Errorf("updating peer %s: %w", peer.UUID, err)
	}
	return nil
}

func (c *Client) DeletePeer(ctx context.Context, uuid string) error {
	if uuid == "" {
		return fmt.Errorf("deleting peer: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("peers", uuid), nil, nil); err != nil {
		return fmt.Errorf("deleting peer %s: %w", uuid, err)
	}
	return nil
}

// PeerInit asks the controller for keys, a uuid and free tunnel addresses
// for a new peer.
func (c *Client) PeerInit(ctx context.Context) (models.PeerInit, error) {
	var init models.PeerInit
	if err := c.do(ctx, http.MethodGet, c.endpoint("peers", "init"), nil, &init); err != nil {
		return models.PeerInit{}, fmt.Errorf("initialising peer: %w", err)
	}
	return init, nil
}
