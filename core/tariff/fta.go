package tariff

import (
	"tolltariff/core/types"
)

// FTAClassifier is one duty classifier of a commodity (e.g. FREE) with the
// land codes of the trade agreements granting it
type FTAClassifier struct {
	Classifier string   `json:"classifier"`
	LandCodes  []string `json:"land_codes"`
}

// FTAView is a classifier with its land codes resolved to groups
type FTAView struct {
	Classifier string            `json:"classifier"`
	Groups     []types.GroupInfo `json:"groups"`
}

// DescribeFTA resolves FTA land codes through the directory. Unknown
// codes are kept with no name and no countries.
func DescribeFTA(entries []FTAClassifier, dir GroupResolver) []FTAView {
	out := make([]FTAView, 0, len(entries))
	for _, e := range entries {
		view := FTAView{
			Classifier: e.Classifier,
			Groups:     make([]types.GroupInfo, 0, len(e.LandCodes)),
		}
		for _, lc := range e.LandCodes {
			lc := lc
			view.Groups = append(view.Groups, types.GroupInfo{
				Code:      lc,
				Name:      dir.GroupNamePtr(&lc),
				Countries: dir.GroupCountries(lc),
			})
		}
		out = append(out, view)
	}
	return out
}
