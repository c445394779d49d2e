package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tolltariff/core/optimizer"
	"tolltariff/internal/errors"
)

// queryInt parses an optional integer parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Newf(errors.TypeInput, "invalid %s: %q", name, raw).WithContext("param", name)
	}
	return n, nil
}

// queryDecimal parses an optional non-negative decimal parameter, trying
// each name in turn
func queryDecimal(r *http.Request, names ...string) (*decimal.Decimal, error) {
	for _, name := range names {
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return nil, errors.Newf(errors.TypeInput, "invalid %s: %q", name, raw).WithContext("param", name)
		}
		return &d, nil
	}
	return nil, nil
}

// shipmentQuery reads the best-origin parameters. customs_value_nok is
// accepted as an alias of customs_value.
func shipmentQuery(r *http.Request) (optimizer.ShipmentParams, optimizer.Options, error) {
	var params optimizer.ShipmentParams
	var opts optimizer.Options
	var err error

	if params.WeightKg, err = queryDecimal(r, "weight_kg"); err != nil {
		return params, opts, err
	}
	if params.CustomsValue, err = queryDecimal(r, "customs_value", "customs_value_nok"); err != nil {
		return params, opts, err
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("quantity")); raw != "" {
		q, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || q < 0 {
			return params, opts, errors.Newf(errors.TypeInput, "invalid quantity: %q", raw).WithContext("param", "quantity")
		}
		params.Quantity = &q
	}
	if opts.TopN, err = queryInt(r, "top_n", 0); err != nil {
		return params, opts, err
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("flatten")); raw != "" {
		if opts.Flatten, err = strconv.ParseBool(raw); err != nil {
			return params, opts, errors.Newf(errors.TypeInput, "invalid flatten: %q", raw).WithContext("param", "flatten")
		}
	}
	return params, opts, nil
}
