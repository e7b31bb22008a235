package catalog

// Region is an issuing or spending region. A transaction whose spend region
// differs from its card's issue region is a cross-border transaction.
type Region string

// Issuing/spending regions.
const (
	RegionCN    Region = "cn"
	RegionHK    Region = "hk"
	RegionUS    Region = "us"
	RegionOther Region = "other"
)

// Regions returns every region.
func Regions() []Region {
	return []Region{RegionCN, RegionHK, RegionUS, RegionOther}
}

// DisplayName returns the user-facing name used in the transactions CSV.
func (r Region) DisplayName() string {
	switch r {
	case RegionCN:
		return "中国大陆"
	case RegionHK:
		return "中国香港"
	case RegionUS:
		return "美国"
	default:
		return "其他地区"
	}
}

// Code returns the short region code used in the cards CSV.
func (r Region) Code() string {
	switch r {
	case RegionCN:
		return "CN"
	case RegionHK:
		return "HK"
	case RegionUS:
		return "US"
	default:
		return "OTHER"
	}
}

// CurrencyCode returns the ISO currency code for the region's local currency.
func (r Region) CurrencyCode() string {
	switch r {
	case RegionCN:
		return "CNY"
	case RegionHK:
		return "HKD"
	case RegionUS:
		return "USD"
	default:
		return "EUR"
	}
}

// CurrencySymbol returns the display symbol for the region's local currency.
func (r Region) CurrencySymbol() string {
	switch r {
	case RegionCN:
		return "¥"
	case RegionHK:
		return "HK$"
	case RegionUS:
		return "$"
	default:
		return "€"
	}
}

// ParseRegion maps a region code, display name, or internal identifier to a
// Region. Unknown values fall back to RegionCN, matching how backups from
// older exports were resolved.
func ParseRegion(s string) Region {
	for _, r := range Regions() {
		if s == string(r) || s == r.Code() || s == r.DisplayName() {
			return r
		}
	}
	return RegionCN
}
