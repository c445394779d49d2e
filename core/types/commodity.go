package types

// Commodity is a tariff code (HTC/HS) with its ordered rates
type Commodity struct {
	// Code is the hierarchical commodity code, e.g. "0101.21" or "25081000"
	Code string `json:"code"`

	// Name is the short heading text
	Name *string `json:"name,omitempty"`

	// Description is the long text
	Description *string `json:"description,omitempty"`

	// Rates belong exclusively to this commodity, in source order
	Rates []Rate `json:"rates"`
}

// Chapter returns the first two characters of the code
func (c *Commodity) Chapter() string {
	if len(c.Code) < 2 {
		return c.Code
	}
	return c.Code[:2]
}

// CommoditySummary is a commodity without its rates
type CommoditySummary struct {
	Code        string  `json:"code"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Summary returns the rate-less view of the commodity
func (c *Commodity) Summary() CommoditySummary {
	return CommoditySummary{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
	}
}
