package alatapi

import (
	"context"
	"net/http"
)

// Petugas is a staff member who performs maintenance.
type Petugas struct {
	ID    int64  `json:"id"`
	Nama  string `json:"nama"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListPetugas returns the maintenance staff roster.
func (c *Client) ListPetugas(ctx context.Context) ([]Petugas, error) {
	var list struct {
		Data []Petugas `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/petugas", nil, nil, &list, true); err != nil {
		return nil, err
	}
	return list.Data, nil
}
