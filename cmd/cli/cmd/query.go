package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tolltariff/core/optimizer"
	"tolltariff/core/output"
	"tolltariff/core/tariff"
	"tolltariff/db/ingestion"
	"tolltariff/internal/config"
)

var (
	originGroup  string
	searchLimit  int
	weightKg     string
	quantity     int64
	customsValue string
	topN         int
	flattenFlag  bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <code>",
	Short: "Show a commodity and the rates that apply to an origin group",
	Long: `Show a commodity and its rates.

With --origin-group, only the preferential rates of that group are shown,
falling back to the ordinary duty and then to every rate.

Examples:
  tolltariff lookup 0101.21
  tolltariff lookup 02013000 --origin-group TEF`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Store.Lookup(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		view := tariff.View(c, originGroup, a.Directory.Current())
		return render(cmd, view, func(t *output.Table) {
			t.Line("%s  %s", view.Code, output.Cell(view.Name))
			if view.Description != nil {
				t.Line("%s", *view.Description)
			}
			t.Line("")
			t.Row("AGREEMENT", "NAME", "SCOPE", "TYPE", "VALUE", "UNIT", "CURRENCY", "EXEMPT")
			for _, r := range view.Rates {
				t.Row(r.AgreementCode, r.AgreementName, r.OriginScope, r.Basis, r.Value, r.Unit, r.Currency, r.IsExemption)
			}
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search commodities by code or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Store.Search(commandContext(cmd), args[0], searchLimit)
		if err != nil {
			return err
		}
		return render(cmd, items, func(t *output.Table) {
			t.Row("CODE", "NAME")
			for _, item := range items {
				t.Row(item.Code, item.Name)
			}
		})
	},
}

var zeroDutyCmd = &cobra.Command{
	Use:   "zero-duty <code>",
	Short: "List the agreements granting zero customs duty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Store.Lookup(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		found := tariff.FindZeroDutyAgreements(c, a.Directory.Current())
		out := map[string]interface{}{"code": c.Code, "zero_duty": found}
		return render(cmd, out, func(t *output.Table) {
			if len(found) == 0 {
				t.Line("No zero-duty agreements for %s", c.Code)
				return
			}
			t.Row("AGREEMENT", "NAME", "TYPE", "COUNTRIES")
			for _, z := range found {
				t.Row(z.AgreementCode, z.Name, z.Basis, output.Countries(z.Countries))
			}
		})
	},
}

var agreementsCmd = &cobra.Command{
	Use:   "agreements <code>",
	Short: "List the preferential agreements of a commodity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Store.Lookup(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		list := tariff.ListAgreements(c, a.Directory.Current())
		out := map[string]interface{}{"code": c.Code, "agreements": list}
		return render(cmd, out, func(t *output.Table) {
			t.Row("AGREEMENT", "NAME", "TYPE", "VALUE", "UNIT", "COUNTRIES")
			for _, ag := range list {
				for _, r := range ag.Rates {
					t.Row(ag.AgreementCode, ag.Name, r.Basis, r.Value, r.Unit, output.Countries(ag.Countries))
				}
			}
		})
	},
}

var ftaCmd = &cobra.Command{
	Use:   "fta <code>",
	Short: "Show the trade agreement classifiers of a commodity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		idx, err := ingestion.LoadFTAIndex(config.Get().Data.FTAIndex)
		if err != nil {
			return err
		}
		views := tariff.DescribeFTA(idx.Classifiers(args[0]), a.Directory.Current())
		out := map[string]interface{}{"code": args[0], "agreements": views}
		return render(cmd, out, func(t *output.Table) {
			t.Row("CLASSIFIER", "GROUP", "NAME", "COUNTRIES")
			for _, v := range views {
				for _, g := range v.Groups {
					t.Row(v.Classifier, g.Code, g.Name, output.Countries(g.Countries))
				}
			}
		})
	},
}

var bestOriginCmd = &cobra.Command{
	Use:   "best-origin <code>",
	Short: "Rank origin groups by customs duty for a shipment",
	Long: `Rank origin groups by the customs duty a shipment would pay.

Per-kg rates need --weight-kg, per-item rates need --quantity and percent
rates need --customs-value. Zero rates always rank.

Examples:
  tolltariff best-origin 02013000 --weight-kg 120
  tolltariff best-origin 02013000 --weight-kg 120 --quantity 4 --top-n 2 --flatten`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := shipmentFlags(cmd)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Store.Lookup(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		result := optimizer.RankOrigins(c, a.Directory.Current(), params, optimizer.Options{
			TopN:    topN,
			Flatten: flattenFlag,
		})
		return render(cmd, result, func(t *output.Table) {
			if result.Empty() {
				t.Line("%s", result.Hint)
				return
			}
			t.Row("#", "AGREEMENT", "NAME", "TYPE", "RATE", "COST", "COUNTRIES")
			for i, r := range result.Recommendations {
				t.Row(i+1, r.AgreementCode, r.AgreementName, r.RateType, r.RateValue, r.Cost.StringFixed(2), output.Countries(r.Countries))
			}
			if result.Flattened {
				t.Line("")
				t.Line("Countries: %s", output.Countries(result.Countries))
			}
		})
	},
}

// shipmentFlags reads the optional shipment inputs; unset flags stay nil
func shipmentFlags(cmd *cobra.Command) (optimizer.ShipmentParams, error) {
	var params optimizer.ShipmentParams
	parse := func(name, raw string) (*decimal.Decimal, error) {
		if !cmd.Flags().Changed(name) {
			return nil, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return nil, fmt.Errorf("invalid --%s: %q", name, raw)
		}
		return &d, nil
	}

	var err error
	if params.WeightKg, err = parse("weight-kg", weightKg); err != nil {
		return params, err
	}
	if params.CustomsValue, err = parse("customs-value", customsValue); err != nil {
		return params, err
	}
	if cmd.Flags().Changed("quantity") {
		if quantity < 0 {
			return params, fmt.Errorf("invalid --quantity: %d", quantity)
		}
		q := quantity
		params.Quantity = &q
	}
	return params, nil
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List agreement codes across the rate store with counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		counts, err := a.Store.AgreementCounts(commandContext(cmd))
		if err != nil {
			return err
		}
		entries := tariff.BuildCatalog(counts, a.Directory.Current())
		return render(cmd, map[string]interface{}{"agreements": entries}, func(t *output.Table) {
			t.Row("CODE", "NAME", "COUNT")
			for _, e := range entries {
				t.Row(e.Code, e.Name, e.Count)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd, searchCmd, zeroDutyCmd, agreementsCmd, ftaCmd, bestOriginCmd, catalogCmd)

	lookupCmd.Flags().StringVarP(&originGroup, "origin-group", "g", "", "origin group code (e.g. EUE, TEF)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results (1-200)")

	bestOriginCmd.Flags().StringVar(&weightKg, "weight-kg", "", "shipment weight in kg")
	bestOriginCmd.Flags().Int64Var(&quantity, "quantity", 0, "number of items")
	bestOriginCmd.Flags().StringVar(&customsValue, "customs-value", "", "customs value in NOK")
	bestOriginCmd.Flags().IntVar(&topN, "top-n", 0, "keep the N cheapest groups (0 keeps all)")
	bestOriginCmd.Flags().BoolVar(&flattenFlag, "flatten", false, "list the member countries of the ranked groups")
}
