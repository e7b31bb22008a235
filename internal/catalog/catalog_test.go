package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"internal identifier", "dining", CategoryDining},
		{"display name", "超市", CategoryGrocery},
		{"travel display name", "出行", CategoryTravel},
		{"digital display name", "数码", CategoryDigital},
		{"other display name", "其他", CategoryOther},
		{"unknown falls back to other", "casino", CategoryOther},
		{"empty falls back to other", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestParseCategory_RoundTripsEveryCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.Equal(t, c, ParseCategory(string(c)))
		assert.Equal(t, c, ParseCategory(c.DisplayName()))
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Region
	}{
		{"internal identifier", "hk", RegionHK},
		{"region code", "US", RegionUS},
		{"display name", "中国大陆", RegionCN},
		{"other display name", "其他地区", RegionOther},
		{"unknown falls back to CN", "mars", RegionCN},
		{"empty falls back to CN", "", RegionCN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRegion(tt.input))
		})
	}
}

func TestRegion_Currency(t *testing.T) {
	tests := []struct {
		region     Region
		wantCode   string
		wantSymbol string
	}{
		{RegionCN, "CNY", "¥"},
		{RegionHK, "HKD", "HK$"},
		{RegionUS, "USD", "$"},
		{RegionOther, "EUR", "€"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantCode, tt.region.CurrencyCode())
		assert.Equal(t, tt.wantSymbol, tt.region.CurrencySymbol())
	}
}

// The category order is part of the cards CSV wire format: rate and cap
// columns are positional. Reordering this list silently corrupts backups.
func TestCategories_WireOrder(t *testing.T) {
	assert.Equal(t, []Category{
		CategoryDining,
		CategoryGrocery,
		CategoryTravel,
		CategoryDigital,
		CategoryOther,
	}, Categories())
}
