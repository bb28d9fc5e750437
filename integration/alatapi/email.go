package alatapi

import (
	"context"
	"fmt"
	"net/http"
)

type reminderRequest struct {
	AlatID int64 `json:"alat_id"`
}

// SendReminder asks the backend to email the responsible staff about an
// upcoming or overdue maintenance schedule. Template content lives
// server-side; the client only triggers the send.
func (c *Client) SendReminder(ctx context.Context, alatID int64) error {
	if alatID <= 0 {
		return fmt.Errorf("%w: alat_id is required", ErrInvalidConfig)
	}
	return c.do(ctx, http.MethodPost, "/email/reminder", nil, reminderRequest{AlatID: alatID}, nil, true)
}
