package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarpras/alatclient/integration/alatapi"
)

var listAlatParams alatapi.ListAlatParams

var alatCmd = &cobra.Command{
	Use:   "alat",
	Short: "Inspect tracked equipment",
}

var alatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		list, err := e.api.ListAlat(cmd.Context(), listAlatParams)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKODE\tNAMA\tKATEGORI\tLOKASI\tSTATUS")
		for _, a := range list.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.Kode, a.Nama, a.Kategori, a.Lokasi, a.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d items\n", len(list.Data), list.Total)
		return nil
	},
}

var alatShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one piece of equipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid equipment id %q", args[0])
		}

		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		alat, err := e.api.GetAlat(cmd.Context(), id)
		if err != nil {
			return err
		}
		printAlat(cmd, alat)
		return nil
	},
}

var alatQRCmd = &cobra.Command{
	Use:   "qr <kode>",
	Short: "Resolve a scanned QR code to its equipment record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		alat, err := e.api.LookupQR(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printAlat(cmd, alat)
		return nil
	},
}

var alatRemindCmd = &cobra.Command{
	Use:   "remind <id>",
	Short: "Email the responsible staff about the maintenance schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid equipment id %q", args[0])
		}

		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.api.SendReminder(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reminder sent.")
		return nil
	},
}

func printAlat(cmd *cobra.Command, a alatapi.Alat) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", a.Nama, a.Kode)
	fmt.Fprintf(out, "  Kategori: %s\n", a.Kategori)
	fmt.Fprintf(out, "  Lokasi:   %s\n", a.Lokasi)
	fmt.Fprintf(out, "  Status:   %s\n", a.Status)
	if a.Merk != "" {
		fmt.Fprintf(out, "  Merk:     %s\n", a.Merk)
	}
	if a.TerakhirDipelihara != nil {
		fmt.Fprintf(out, "  Terakhir dipelihara: %s\n", a.TerakhirDipelihara.Format("2006-01-02"))
	}
	if a.JadwalBerikutnya != nil {
		fmt.Fprintf(out, "  Jadwal berikutnya:   %s\n", a.JadwalBerikutnya.Format("2006-01-02"))
	}
}

func init() {
	alatListCmd.Flags().StringVar(&listAlatParams.Status, "status", "", "Filter by status (baik, perlu_pemeliharaan, rusak)")
	alatListCmd.Flags().StringVar(&listAlatParams.Kategori, "kategori", "", "Filter by category")
	alatListCmd.Flags().StringVar(&listAlatParams.Lokasi, "lokasi", "", "Filter by location")
	alatListCmd.Flags().StringVar(&listAlatParams.Search, "search", "", "Free-text search")
	alatListCmd.Flags().IntVar(&listAlatParams.Page, "page", 0, "Page number")

	alatCmd.AddCommand(alatListCmd, alatShowCmd, alatQRCmd, alatRemindCmd)
	rootCmd.AddCommand(alatCmd)
}
