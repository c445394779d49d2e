package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"tolltariff/core/output"
	"tolltariff/db/ingestion"
	"tolltariff/internal/config"
)

var (
	importFile      string
	importSourceURL string
	importMembers   string
	importFTAFile   string
	importOut       string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tariff open data from local files",
	Long: `Import the customs tariff open data files into the rate store.

Run the imports in order: structure first, since duty and fees skip
commodity codes that are not stored yet. Files default to the raw data
directory (<data dir>/raw).

Examples:
  tolltariff import structure
  tolltariff import duty --file tollavgiftssats.json
  tolltariff import landgroups --members data/raw/medlemsland.json`,
}

// rawFile resolves a --file flag against the raw data directory
func rawFile(name string) string {
	if importFile != "" {
		return importFile
	}
	return filepath.Join(config.Get().RawDir(), name)
}

// sourceURL defaults to the file that was read
func sourceURL(path string) string {
	if importSourceURL != "" {
		return importSourceURL
	}
	return path
}

func printResult(cmd *cobra.Command, res *ingestion.Result) error {
	return render(cmd, res, func(t *output.Table) {
		t.Row("run", res.RunID)
		t.Row("kind", string(res.Kind))
		t.Row("source", res.Source)
		if res.Output != "" {
			t.Row("output", res.Output)
		}
		t.Row("processed", res.Processed)
		t.Row("added", res.Added)
		t.Row("updated", res.Updated)
		t.Row("skipped", res.Skipped)
		t.Row("duration", res.FinishedAt.Sub(res.StartedAt).String())
	})
}

var importStructureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Import commodity codes from customstariffstructure.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := ingestion.NewPipeline(a.Store).ImportStructure(commandContext(cmd), rawFile("customstariffstructure.json"))
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var importDutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Import customs duty rates from tollavgiftssats.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		path := rawFile("tollavgiftssats.json")
		res, err := ingestion.NewPipeline(a.Store).ImportDuty(commandContext(cmd), path, sourceURL(path))
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var importFeesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Import the default VAT rate from innfoerselsavgift.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		path := rawFile("innfoerselsavgift.json")
		res, err := ingestion.NewPipeline(a.Store).ImportFees(commandContext(cmd), path, sourceURL(path))
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var importLandgroupsCmd = &cobra.Command{
	Use:   "landgroups",
	Short: "Build the directory override file from landgruppe.json",
	Long: `Build the landgroups map read by the group directory.

Member countries (medlemsland.json) replace the country lists of the group
file when given. A trade agreement file adds agreement names and countries.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := importOut
		if out == "" {
			out = cfg.Directory.LandgroupsMap
		}
		src := ingestion.LandgroupSources{
			Groups:  rawFile("landgruppe.json"),
			Members: importMembers,
			FTA:     importFTAFile,
		}
		res, err := ingestion.NewPipeline(nil).ImportLandgroups(commandContext(cmd), src, out)
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var importFTACmd = &cobra.Command{
	Use:   "fta",
	Short: "Build the trade agreement index from ratetradeagreements.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := importOut
		if out == "" {
			out = config.Get().Data.FTAIndex
		}
		res, err := ingestion.NewPipeline(nil).ImportFTA(commandContext(cmd), rawFile("ratetradeagreements.json"), out)
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importStructureCmd, importDutyCmd, importFeesCmd, importLandgroupsCmd, importFTACmd)

	importCmd.PersistentFlags().StringVar(&importFile, "file", "", "source file (default: the raw data directory)")
	importDutyCmd.Flags().StringVar(&importSourceURL, "source-url", "", "source URL recorded on imported rates")
	importFeesCmd.Flags().StringVar(&importSourceURL, "source-url", "", "source URL recorded on imported rates")
	importLandgroupsCmd.Flags().StringVar(&importMembers, "members", "", "member country file (medlemsland.json)")
	importLandgroupsCmd.Flags().StringVar(&importFTAFile, "fta", "", "trade agreement file with country lists")
	importLandgroupsCmd.Flags().StringVarP(&importOut, "out", "o", "", "output path (default: directory.landgroups_map)")
	importFTACmd.Flags().StringVarP(&importOut, "out", "o", "", "output path (default: data.fta_index)")
}
