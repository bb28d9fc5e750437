package alatapi

import (
	"context"
	"net/http"
)

// DashboardSummary aggregates maintenance status for the dashboard view.
type DashboardSummary struct {
	TotalAlat            int `json:"total_alat"`
	AlatBaik             int `json:"alat_baik"`
	AlatPerluPerbaikan   int `json:"alat_perlu_perbaikan"`
	AlatRusak            int `json:"alat_rusak"`
	PemeliharaanBulanIni int `json:"pemeliharaan_bulan_ini"`
	JadwalTerlewat       int `json:"jadwal_terlewat"`
}

// GetDashboard fetches aggregate maintenance-status counts.
func (c *Client) GetDashboard(ctx context.Context) (DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/laporan/dashboard", nil, nil, &summary, true); err != nil {
		return DashboardSummary{}, err
	}
	return summary, nil
}
