// Package cmd provides the CLI commands for tolltariff.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tolltariff/core/output"
	"tolltariff/internal/config"
	"tolltariff/internal/logging"
)

// Version is the CLI and API version
const Version = "0.3.0"

var (
	cfgFile      string
	verbose      bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tolltariff",
	Short: "Look up Norwegian customs duty and find the cheapest origin",
	Long: `tolltariff imports the Norwegian customs tariff open data and answers
questions about it: which duty applies to a commodity, which trade
agreements grant zero duty, and which origin is cheapest for a shipment.

Examples:
  tolltariff seed-demo
  tolltariff lookup 0101.21 --origin-group EUE
  tolltariff best-origin 02013000 --weight-kg 120 --top-n 3
  tolltariff import duty --file data/raw/tollavgiftssats.json
  tolltariff serve`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, YAML or JSON (default ./tolltariff.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = "tolltariff.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tolltariff version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, config.Get(), func(t *output.Table) {
			cfg := config.Get()
			t.Row("data.dir", cfg.Data.Dir)
			t.Row("data.driver", cfg.Data.Driver)
			t.Row("data.database_url", cfg.Data.DatabaseURL)
			t.Row("data.fta_index", cfg.Data.FTAIndex)
			t.Row("directory.landgroups_map", cfg.Directory.LandgroupsMap)
			t.Row("directory.country_names", cfg.Directory.CountryNames)
			t.Row("directory.groups_hcl", cfg.Directory.GroupsHCL)
			t.Row("directory.reload_schedule", cfg.Directory.ReloadSchedule)
			t.Row("server.addr", cfg.Server.Addr)
			t.Row("server.ui_dir", cfg.Server.UIDir)
			t.Row("output.default_format", cfg.Output.DefaultFormat)
			t.Row("logging.level", cfg.Logging.Level)
			t.Row("logging.format", cfg.Logging.Format)
		})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "tolltariff.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
