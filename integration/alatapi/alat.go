package alatapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Alat is a tracked piece of equipment.
type Alat struct {
	ID        int64  `json:"id"`
	Nama      string `json:"nama"`
	Kode      string `json:"kode"`
	KodeQR    string `json:"kode_qr"`
	Kategori  string `json:"kategori"`
	Lokasi    string `json:"lokasi"`
	Status    string `json:"status"` // "baik", "perlu_pemeliharaan", "rusak"
	Merk      string `json:"merk,omitempty"`
	TahunBeli int    `json:"tahun_beli,omitempty"`

	TerakhirDipelihara *time.Time `json:"terakhir_dipelihara,omitempty"`
	JadwalBerikutnya   *time.Time `json:"jadwal_berikutnya,omitempty"`
}

// ListAlatParams filters the equipment list. Zero values are omitted.
type ListAlatParams struct {
	Status   string
	Kategori string
	Lokasi   string
	Search   string
	Page     int
	PerPage  int
}

// AlatList is a paginated equipment listing.
type AlatList struct {
	Data  []Alat `json:"data"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
}

// ListAlat returns equipment matching the given filters.
func (c *Client) ListAlat(ctx context.Context, params ListAlatParams) (AlatList, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Kategori != "" {
		query.Set("kategori", params.Kategori)
	}
	if params.Lokasi != "" {
		query.Set("lokasi", params.Lokasi)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}

	var list AlatList
	if err := c.do(ctx, http.MethodGet, "/alat", query, nil, &list, true); err != nil {
		return AlatList{}, err
	}
	return list, nil
}

// GetAlat fetches a single piece of equipment by ID.
func (c *Client) GetAlat(ctx context.Context, id int64) (Alat, error) {
	var alat Alat
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/alat/%d", id), nil, nil, &alat, true); err != nil {
		return Alat{}, err
	}
	return alat, nil
}

// LookupQR resolves a scanned QR code to its equipment record. The
// endpoint is public: no token is attached and a rejection here never
// touches the session.
func (c *Client) LookupQR(ctx context.Context, kode string) (Alat, error) {
	if kode == "" {
		return Alat{}, fmt.Errorf("%w: QR code is required", ErrInvalidConfig)
	}

	var alat Alat
	if err := c.do(ctx, http.MethodGet, "/alat/qr/"+url.PathEscape(kode), nil, nil, &alat, false); err != nil {
		return Alat{}, err
	}
	return alat, nil
}
