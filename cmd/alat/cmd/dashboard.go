package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show aggregate maintenance status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.api.GetDashboard(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total alat:              %d\n", s.TotalAlat)
		fmt.Fprintf(out, "  baik:                  %d\n", s.AlatBaik)
		fmt.Fprintf(out, "  perlu perbaikan:       %d\n", s.AlatPerluPerbaikan)
		fmt.Fprintf(out, "  rusak:                 %d\n", s.AlatRusak)
		fmt.Fprintf(out, "Pemeliharaan bulan ini:  %d\n", s.PemeliharaanBulanIni)
		fmt.Fprintf(out, "Jadwal terlewat:         %d\n", s.JadwalTerlewat)
		return nil
	},
}

var petugasCmd = &cobra.Command{
	Use:   "petugas",
	Short: "List maintenance staff",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		staff, err := e.api.ListPetugas(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAMA\tEMAIL\tROLE")
		for _, p := range staff {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Nama, p.Email, p.Role)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd, petugasCmd)
}
