// Package notifier informs the external notification service about completed transfers.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
)

const defaultTimeout = 3 * time.Second

// Client posts transfer notifications.
type Client struct {
	url    string
	client *http.Client
}

// New returns notification Client. A non-positive timeout falls back to the default.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type payload struct {
	TransferID int64  `json:"transfer_id"`
	Payee      int64  `json:"payee"`
	Payer      int64  `json:"payer"`
	Value      string `json:"value"`
}

// Notify sends a single notification for the transfer. It does not retry.
func (c *Client) Notify(ctx context.Context, t domain.Transfer) error {
	body, err := json.Marshal(payload{
		TransferID: t.ID,
		Payee:      t.Payee,
		Payer:      t.Payer,
		Value:      t.Value,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}
