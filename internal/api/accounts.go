package api

import (
	"context"
	"fmt"
	"net/http"

	"wgcAdmin/internal/models"
)

func (c *Client) Accounts(ctx context.Context) ([]models.UserAccount, error) {
	var accounts []models.UserAccount
	if err := c.do(ctx, http.MethodGet, c.endpoint("accounts"), nil, &accounts); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// PutAccount creates an account with an initial password.
func (c *Client) PutAccount(ctx context.Context, account models.UserAccountWithPass) error {
	if account.Email == "" {
		return fmt.Errorf("creating account: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPut, c.endpoint("accounts", account.Email), account, nil); err != nil {
		return fmt.Errorf("creating account %s: %w", account.Email, err)
	}
	return nil
}

// PatchAccount updates an account's role.
func (c *Client) PatchAccount(ctx context.Context, account models.UserAccount) error {
	if account.Email == "" {
		return fmt.Errorf("updating account: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodPatch, c.endpoint("accounts", account.Email), account, nil); err != nil {
		return fmt.Errorf("updating account %s: %w", account.Email, err)
	}
	return nil
}

func (c *Client) PatchAccountPassword(ctx context.Context, email, password string) error {
	if email == "" {
		return fmt.Errorf("changing password: %w", ErrMissingID)
	}
	body := models.Password{Password: password}
	if err := c.do(ctx, http.MethodPatch, c.endpoint("accounts", email, "password"), body, nil); err != nil {
		return fmt.Errorf("changing password for %s: %w", email, err)
	}
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("deleting account: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("accounts", email), nil, nil); err != nil {
		return fmt.Errorf("deleting account %s: %w", email, err)
	}
	return nil
}

// ResetFailedAttempts unlocks an account suspended by failed logins. Only
// older controllers expose this; newer ones answer 404.
func (c *Client) ResetFailedAttempts(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("resetting failed attempts: %w", ErrMissingID)
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("accounts", email, "failedattempts"), nil, nil); err != nil {
		return fmt.Errorf("resetting failed attempts for %s: %w", email, err)
	}
	return nil
}
