package directory

// builtinGroupNames maps landgroup codes to display names.
var builtinGroupNames = map[string]string{
	// Ordinary baseline groups
	"TAL":  "Ordinary tariff (baseline)",
	"TALL": "Ordinary tariff (baseline)",
	"ALLE": "All countries (baseline)",

	// Regional blocs
	"EUE":  "European Union",
	"TOES": "EEA / EØS",
	"TEF":  "EFTA",

	// Country-specific agreements
	"TIN": "India",
	"TMD": "Moldova",
	"TUK": "United Kingdom",

	// Generalized System of Preferences
	"TGB":  "GSP (standard)",
	"TGSP": "GSP (preferential)",
	"TGS1": "GSP (least developed)",
}

// builtinAliases maps FTA land codes to the landgroup codes of the duty feed.
var builtinAliases = map[string]string{
	"EU":      "EUE",
	"EEA":     "TOES",
	"EFTA":    "TEF",
	"GB":      "TUK",
	"IN":      "TIN",
	"MD":      "TMD",
	"GSP":     "TGB",
	"GSP+":    "TGSP",
	"GSP-LDC": "TGS1",
	"GCC":     "TGCC",
	"SACU":    "TSAC",
}

var eu27 = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DE", "DK", "EE", "ES", "FI", "FR", "GR", "HU", "IE",
	"IT", "LT", "LU", "LV", "MT", "NL", "PL", "PT", "RO", "SE", "SI", "SK",
}

// builtinGroupCountries maps landgroup codes to ISO-2 members.
// GSP categories are managed through the override file.
var builtinGroupCountries = map[string][]string{
	"TEF":  {"NO", "IS", "LI", "CH"},
	"EUE":  eu27,
	"TOES": append(append([]string{}, eu27...), "NO", "IS", "LI"),
	"TIN":  {"IN"},
	"TMD":  {"MD"},
	"TUK":  {"GB"},
	"TGB":  {},
	"TGSP": {},
	"TGS1": {},
}

var builtinCountryNames = map[string]string{
	// EFTA
	"NO": "Norway",
	"IS": "Iceland",
	"LI": "Liechtenstein",
	"CH": "Switzerland",

	// EU27
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"HR": "Croatia",
	"CY": "Cyprus",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GR": "Greece",
	"HU": "Hungary",
	"IE": "Ireland",
	"IT": "Italy",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MT": "Malta",
	"NL": "Netherlands",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"SE": "Sweden",
	"SI": "Slovenia",
	"SK": "Slovakia",

	"GB": "United Kingdom",
	"IN": "India",
	"MD": "Moldova",

	// Americas
	"US": "United States",
	"CA": "Canada",
	"MX": "Mexico",
	"BR": "Brazil",
	"AR": "Argentina",
	"CL": "Chile",
	"CO": "Colombia",
	"PE": "Peru",
	"UY": "Uruguay",
	"PY": "Paraguay",
	"EC": "Ecuador",
	"BO": "Bolivia",
	"VE": "Venezuela",

	// Asia
	"CN": "China",
	"JP": "Japan",
	"KR": "South Korea",
	"TW": "Taiwan",
	"HK": "Hong Kong",
	"SG": "Singapore",
	"MY": "Malaysia",
	"TH": "Thailand",
	"VN": "Vietnam",
	"PH": "Philippines",
	"ID": "Indonesia",
	"BD": "Bangladesh",
	"LK": "Sri Lanka",
	"PK": "Pakistan",
	"KH": "Cambodia",
	"LA": "Laos",
	"MM": "Myanmar",
	"NP": "Nepal",
	"MN": "Mongolia",

	// Gulf
	"AE": "United Arab Emirates",
	"SA": "Saudi Arabia",
	"QA": "Qatar",
	"KW": "Kuwait",
	"BH": "Bahrain",
	"OM": "Oman",

	// Africa
	"ZA": "South Africa",
	"NA": "Namibia",
	"BW": "Botswana",
	"LS": "Lesotho",
	"SZ": "Eswatini",
	"ZM": "Zambia",
	"ZW": "Zimbabwe",
	"MZ": "Mozambique",
	"AO": "Angola",
	"NG": "Nigeria",
	"GH": "Ghana",
	"KE": "Kenya",
	"TZ": "Tanzania",
	"UG": "Uganda",
	"RW": "Rwanda",
	"BI": "Burundi",
	"ET": "Ethiopia",

	// Oceania
	"AU": "Australia",
	"NZ": "New Zealand",
}
