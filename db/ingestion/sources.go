package ingestion

import (
	"encoding/json"
	"strings"
)

// flexString decodes JSON strings and numbers alike; the open-data files
// are not consistent about code types.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// tollavgiftssats.json

type dutyFile struct {
	Items []dutyItem `json:"varer"`
}

type dutyItem struct {
	ID         flexString      `json:"id"`
	Agreements []dutyAgreement `json:"avtalesatser"`
}

type dutyAgreement struct {
	Landgroup flexString `json:"landgruppe"`
	Rates     []dutyRate `json:"sats"`
}

type dutyRate struct {
	Value     flexString `json:"satsVerdi"`
	Unit      flexString `json:"satsEnhet"`
	ValidFrom flexString `json:"fomdato"`
	ValidTo   flexString `json:"tomdato"`
}

// innfoerselsavgift.json

type feesFile struct {
	Items []feesItem `json:"varer"`
}

type feesItem struct {
	ID     flexString    `json:"id"`
	Groups []feesByGroup `json:"avgiftssatser"`
}

type feesByGroup struct {
	Landgroup flexString   `json:"landgruppe"`
	FeeTypes  []feesByType `json:"avgiftstyper"`
}

type feesByType struct {
	FeeType flexString `json:"avgiftstype"`
	Entries []feeEntry `json:"avgiftsgrupper"`
}

type feeEntry struct {
	Unit      flexString `json:"enhet"`
	Value     flexString `json:"sats"`
	ValidFrom flexString `json:"fomdato"`
	ValidTo   flexString `json:"tomdato"`
}

// ratetradeagreements.json

type ftaFile struct {
	Commodities []ftaCommodity `json:"commodities"`
}

type ftaCommodity struct {
	ID         flexString     `json:"id"`
	Agreements []ftaAgreement `json:"rateTradeAgreements"`
}

type ftaAgreement struct {
	CustomDuty *struct {
		Classifier flexString `json:"classifier"`
	} `json:"customDuty"`
	LandCodes []flexString `json:"landCodes"`
}
