package alatapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Maintenance kinds accepted by the backend.
const (
	JenisKorektif  = "korektif"
	JenisPreventif = "preventif"
)

// Pemeliharaan is a recorded maintenance event for a piece of equipment.
type Pemeliharaan struct {
	ID        int64     `json:"id"`
	AlatID    int64     `json:"alat_id"`
	Jenis     string    `json:"jenis"`
	Tanggal   time.Time `json:"tanggal"`
	Deskripsi string    `json:"deskripsi"`
	PetugasID int64     `json:"petugas_id"`
	Hasil     string    `json:"hasil,omitempty"`
	Biaya     int64     `json:"biaya,omitempty"`
}

// CreatePemeliharaanRequest records a new maintenance event.
type CreatePemeliharaanRequest struct {
	AlatID    int64     `json:"alat_id"`
	Jenis     string    `json:"jenis"`
	Tanggal   time.Time `json:"tanggal"`
	Deskripsi string    `json:"deskripsi"`
	Hasil     string    `json:"hasil,omitempty"`
	Biaya     int64     `json:"biaya,omitempty"`
}

// ListPemeliharaanParams filters the maintenance record list.
type ListPemeliharaanParams struct {
	AlatID int64
	Jenis  string
	Page   int
}

// PemeliharaanList is a paginated maintenance listing.
type PemeliharaanList struct {
	Data  []Pemeliharaan `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
}

// ListPemeliharaan returns maintenance records matching the filters.
func (c *Client) ListPemeliharaan(ctx context.Context, params ListPemeliharaanParams) (PemeliharaanList, error) {
	query := url.Values{}
	if params.AlatID > 0 {
		query.Set("alat_id", strconv.FormatInt(params.AlatID, 10))
	}
	if params.Jenis != "" {
		query.Set("jenis", params.Jenis)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}

	var list PemeliharaanList
	if err := c.do(ctx, http.MethodGet, "/pemeliharaan", query, nil, &list, true); err != nil {
		return PemeliharaanList{}, err
	}
	return list, nil
}

// CreatePemeliharaan records a maintenance event and returns the stored record.
func (c *Client) CreatePemeliharaan(ctx context.Context, req CreatePemeliharaanRequest) (Pemeliharaan, error) {
	if req.AlatID <= 0 {
		return Pemeliharaan{}, fmt.Errorf("%w: alat_id is required", ErrInvalidConfig)
	}
	if req.Jenis != JenisKorektif && req.Jenis != JenisPreventif {
		return Pemeliharaan{}, fmt.Errorf("%w: jenis must be %q or %q", ErrInvalidConfig, JenisKorektif, JenisPreventif)
	}
	if req.Tanggal.IsZero() {
		req.Tanggal = time.Now()
	}

	var rec Pemeliharaan
	if err := c.do(ctx, http.MethodPost, "/pemeliharaan", nil, req, &rec, true); err != nil {
		return Pemeliharaan{}, err
	}
	return rec, nil
}
