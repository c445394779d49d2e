package ingestion

import (
	"context"

	"go.uber.org/zap"

	"tolltariff/core/tariff"
	"tolltariff/core/types"
	"tolltariff/db"
	"tolltariff/internal/logging"
)

// ZeroDutyEntry is one commodity of the zero-duty export
type ZeroDutyEntry struct {
	Countries []types.Country `json:"countries"`
}

// BuildZeroDutyExport collects, per stored commodity, the member countries
// of its zero-duty agreements. Commodities without any are left out.
func BuildZeroDutyExport(ctx context.Context, store db.CommodityStore, dir tariff.GroupResolver) (map[string]ZeroDutyEntry, error) {
	codes, err := store.Codes(ctx)
	if err != nil {
		return nil, err
	}

	out := map[string]ZeroDutyEntry{}
	for _, code := range codes {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		c, err := store.Lookup(ctx, code)
		if err != nil {
			return nil, err
		}
		if countries := tariff.ZeroDutyCountries(c, dir); len(countries) > 0 {
			out[code] = ZeroDutyEntry{Countries: countries}
		}
	}
	return out, nil
}

// ExportZeroDuty writes BuildZeroDutyExport to outPath and returns the
// number of commodities written
func ExportZeroDuty(ctx context.Context, store db.CommodityStore, dir tariff.GroupResolver, outPath string) (int, error) {
	export, err := BuildZeroDutyExport(ctx, store, dir)
	if err != nil {
		return 0, err
	}
	if err := writeJSON(outPath, export); err != nil {
		return 0, err
	}
	logging.Named("ingestion").Info("zero-duty export written",
		zap.String("output", outPath),
		zap.Int("commodities", len(export)))
	return len(export), nil
}
