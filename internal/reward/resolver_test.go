package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

func ratePtr(v float64) *float64 { return &v }

func TestResolve(t *testing.T) {
	tests := []struct {
		card        *model.Card
		name        string
		category    catalog.Category
		spendRegion catalog.Region
		want        float64
	}{
		{
			name: "default rate when category has no override",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
				DefaultRate: 0.01,
			},
			category:    catalog.CategoryGrocery,
			spendRegion: catalog.RegionCN,
			want:        0.01,
		},
		{
			name: "category override beats default",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
				DefaultRate: 0.01,
				SpecialRates: map[catalog.Category]float64{
					catalog.CategoryDining: 0.05,
				},
			},
			category:    catalog.CategoryDining,
			spendRegion: catalog.RegionCN,
			want:        0.05,
		},
		{
			name: "cross-border lifts to foreign rate when higher",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
				DefaultRate: 0.01,
				ForeignRate: ratePtr(0.03),
			},
			category:    catalog.CategoryTravel,
			spendRegion: catalog.RegionUS,
			want:        0.03,
		},
		{
			name: "foreign rate never lowers a better category rate",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
				DefaultRate: 0.01,
				ForeignRate: ratePtr(0.03),
				SpecialRates: map[catalog.Category]float64{
					catalog.CategoryDining: 0.05,
				},
			},
			category:    catalog.CategoryDining,
			spendRegion: catalog.RegionUS,
			want:        0.05,
		},
		{
			name: "foreign rate ignored in the issue region",
			card: &model.Card{
				IssueRegion: catalog.RegionHK,
				DefaultRate: 0.004,
				ForeignRate: ratePtr(0.024),
			},
			category:    catalog.CategoryOther,
			spendRegion: catalog.RegionHK,
			want:        0.004,
		},
		{
			name: "cross-border without a foreign rate keeps the base",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
				DefaultRate: 0.01,
			},
			category:    catalog.CategoryOther,
			spendRegion: catalog.RegionOther,
			want:        0.01,
		},
		{
			name: "zero-rate card earns nothing anywhere",
			card: &model.Card{
				IssueRegion: catalog.RegionCN,
			},
			category:    catalog.CategoryDigital,
			spendRegion: catalog.RegionUS,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.category, tt.spendRegion, tt.card)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResolve_TotalOverAllCategories(t *testing.T) {
	card := &model.Card{
		IssueRegion: catalog.RegionCN,
		DefaultRate: 0.01,
		SpecialRates: map[catalog.Category]float64{
			catalog.CategoryDining: 0.05,
		},
	}

	for _, category := range catalog.Categories() {
		for _, region := range catalog.Regions() {
			rate := Resolve(category, region, card)
			assert.GreaterOrEqual(t, rate, 0.0, "category %s region %s", category, region)
			assert.LessOrEqual(t, rate, 1.0, "category %s region %s", category, region)
		}
	}
}
