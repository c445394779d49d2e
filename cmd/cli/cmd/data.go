package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tolltariff/db"
	"tolltariff/db/ingestion"
)

var exportOut string

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Insert a small demo data set",
	Long: `Insert two demo commodities: 0101.21 (live horses, 10% ordinary duty
with a zero EU exemption) and 02013000 (bovine meat with per-kg duty
under several agreements). Running it again adds nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := db.SeedDemo(commandContext(cmd), a.Store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Demo data seeded (%d rates added)\n", added)
		return nil
	},
}

var exportBestZeroCmd = &cobra.Command{
	Use:   "export-best-zero",
	Short: "Export the zero-duty countries of every commodity",
	Long: `Write, for every stored commodity, the member countries of the
agreements that grant it zero customs duty. Agreements without a known
country list contribute nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := ingestion.ExportZeroDuty(commandContext(cmd), a.Store, a.Directory.Current(), exportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d commodities)\n", exportOut, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedDemoCmd, exportBestZeroCmd)
	exportBestZeroCmd.Flags().StringVarP(&exportOut, "out", "o", "data/best_zero_countries.json", "output JSON path")
}
