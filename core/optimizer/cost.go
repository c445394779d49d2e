// Package optimizer prices a commodity's duty rates for a shipment and ranks
// origin groups by the resulting customs cost.
package optimizer

import (
	"github.com/shopspring/decimal"

	"tolltariff/core/types"
)

// ShipmentParams are the optional shipment inputs. A nil field is unknown.
// Amounts are in the settlement currency of the per-unit rates.
type ShipmentParams struct {
	WeightKg     *decimal.Decimal `json:"weight_kg,omitempty"`
	Quantity     *int64           `json:"quantity,omitempty"`
	CustomsValue *decimal.Decimal `json:"customs_value,omitempty"`
}

// Cost prices a single rate. known is false when the input the basis needs
// is missing; a zero rate is always known, inputs or not.
func Cost(r types.Rate, p ShipmentParams) (amount decimal.Decimal, basis string, known bool) {
	basis = r.Basis.String()
	if r.Value.IsZero() {
		return decimal.Zero, basis, true
	}

	switch r.Basis {
	case types.BasisPercent:
		if p.CustomsValue == nil {
			return decimal.Zero, "", false
		}
		return r.Value.Shift(-2).Mul(*p.CustomsValue), basis, true
	case types.BasisPerKg:
		if p.WeightKg == nil {
			return decimal.Zero, "", false
		}
		return r.Value.Mul(*p.WeightKg), basis, true
	default:
		if p.Quantity == nil {
			return decimal.Zero, "", false
		}
		return r.Value.Mul(decimal.NewFromInt(*p.Quantity)), types.BasisPerItem.String(), true
	}
}
