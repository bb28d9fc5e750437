package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarpras/alatclient/integration/alatapi"
)

var (
	listPemeliharaanParams alatapi.ListPemeliharaanParams
	addPemeliharaan        alatapi.CreatePemeliharaanRequest
	addTanggal             string
)

var pemeliharaanCmd = &cobra.Command{
	Use:   "pemeliharaan",
	Short: "List and record maintenance events",
}

var pemeliharaanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance records",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		list, err := e.api.ListPemeliharaan(cmd.Context(), listPemeliharaanParams)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tALAT\tJENIS\tTANGGAL\tDESKRIPSI")
		for _, p := range list.Data {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				p.ID, p.AlatID, p.Jenis, p.Tanggal.Format("2006-01-02"), p.Deskripsi)
		}
		return w.Flush()
	},
}

var pemeliharaanAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a corrective or preventive maintenance event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addTanggal != "" {
			t, err := time.Parse("2006-01-02", addTanggal)
			if err != nil {
				return fmt.Errorf("invalid --tanggal %q, expected YYYY-MM-DD", addTanggal)
			}
			addPemeliharaan.Tanggal = t
		}

		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		rec, err := e.api.CreatePemeliharaan(cmd.Context(), addPemeliharaan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s maintenance #%d for alat %d\n",
			rec.Jenis, rec.ID, rec.AlatID)
		return nil
	},
}

func init() {
	pemeliharaanListCmd.Flags().Int64Var(&listPemeliharaanParams.AlatID, "alat-id", 0, "Filter by equipment id")
	pemeliharaanListCmd.Flags().StringVar(&listPemeliharaanParams.Jenis, "jenis", "", "Filter by kind (korektif, preventif)")
	pemeliharaanListCmd.Flags().IntVar(&listPemeliharaanParams.Page, "page", 0, "Page number")

	pemeliharaanAddCmd.Flags().Int64Var(&addPemeliharaan.AlatID, "alat-id", 0, "Equipment id (required)")
	pemeliharaanAddCmd.Flags().StringVar(&addPemeliharaan.Jenis, "jenis", "", "Kind: korektif or preventif (required)")
	pemeliharaanAddCmd.Flags().StringVar(&addPemeliharaan.Deskripsi, "deskripsi", "", "What was done")
	pemeliharaanAddCmd.Flags().StringVar(&addPemeliharaan.Hasil, "hasil", "", "Outcome")
	pemeliharaanAddCmd.Flags().Int64Var(&addPemeliharaan.Biaya, "biaya", 0, "Cost")
	pemeliharaanAddCmd.Flags().StringVar(&addTanggal, "tanggal", "", "Date (YYYY-MM-DD, default today)")
	_ = pemeliharaanAddCmd.MarkFlagRequired("alat-id")
	_ = pemeliharaanAddCmd.MarkFlagRequired("jenis")

	pemeliharaanCmd.AddCommand(pemeliharaanListCmd, pemeliharaanAddCmd)
	rootCmd.AddCommand(pemeliharaanCmd)
}
