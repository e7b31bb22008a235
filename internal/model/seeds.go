package model

import "github.com/junhaoh/cashcount/internal/catalog"

func pct(v float64) *float64 { return &v }

// DefaultTemplateSeeds is the built-in template catalog. Syncing it into the
// store updates existing templates in place (matched by key) and inserts the
// rest, so rule corrections ship with new releases.
func DefaultTemplateSeeds() []CardTemplate {
	return []CardTemplate{
		{
			Key: TemplateKey("滙豐香港", "Red信用卡"), BankName: "滙豐香港", Type: "Red信用卡",
			ColorHexes: [2]string{"DA291C", "005863"}, Region: catalog.RegionHK,
			DefaultRate: 4.0, ForeignRate: pct(1.0), LocalBaseCap: 4800,
			CapPeriod: CapPeriodYearly,
		},
		{
			Key: TemplateKey("滙豐香港", "Pulse銀聯信用卡"), BankName: "滙豐香港", Type: "Pulse銀聯信用卡",
			ColorHexes: [2]string{"DB0011", "1A1A1A"}, Region: catalog.RegionCN,
			SpecialRates: map[catalog.Category]float64{catalog.CategoryDining: 5},
			DefaultRate:  4.4, ForeignRate: pct(2.4), LocalBaseCap: 4400, ForeignBaseCap: 2400,
			CategoryCaps: map[catalog.Category]float64{catalog.CategoryDining: 500},
			CapPeriod:    CapPeriodYearly,
		},
		{
			Key: TemplateKey("滙豐香港", "卓越理財信用卡"), BankName: "滙豐香港", Type: "卓越理財信用卡",
			ColorHexes: [2]string{"111111", "D9D9D9"}, Region: catalog.RegionHK,
			DefaultRate: 0.4, ForeignRate: pct(2.4), CapPeriod: CapPeriodYearly,
		},
		{
			Key: TemplateKey("滙豐香港", "Visa Signature卡"), BankName: "滙豐香港", Type: "Visa Signature卡",
			ColorHexes: [2]string{"1C1C1C", "757575"}, Region: catalog.RegionHK,
			DefaultRate: 1.6, ForeignRate: pct(3.6), ForeignBaseCap: 3600,
			CapPeriod: CapPeriodYearly,
		},
		{
			Key: TemplateKey("HSBC US", "Elite"), BankName: "HSBC US", Type: "Elite",
			ColorHexes: [2]string{"050505", "050505"}, Region: catalog.RegionUS,
			SpecialRates: map[catalog.Category]float64{
				catalog.CategoryTravel: 5.28,
				catalog.CategoryDining: 1.32,
			},
			DefaultRate: 1.32, ForeignRate: pct(1.32), CapPeriod: CapPeriodYearly,
		},
		{
			Key: TemplateKey("工銀亞洲", "Visa Signature"), BankName: "工銀亞洲", Type: "Visa Signature",
			ColorHexes: [2]string{"121212", "EDC457"}, Region: catalog.RegionHK,
			SpecialRates: map[catalog.Category]float64{catalog.CategoryGrocery: 15},
			DefaultRate:  1.5, ForeignRate: pct(1.5),
			CategoryCaps: map[catalog.Category]float64{catalog.CategoryGrocery: 2400},
			CapPeriod:    CapPeriodYearly,
		},
		{
			Key: TemplateKey("信銀國際", "大灣區雙幣信用卡"), BankName: "信銀國際", Type: "大灣區雙幣信用卡",
			ColorHexes: [2]string{"8A8F99", "E3DEE9"}, Region: catalog.RegionCN,
			SpecialRates: map[catalog.Category]float64{catalog.CategoryOther: 6},
			DefaultRate:  4, ForeignRate: pct(0.4), LocalBaseCap: 1800,
			CategoryCaps: map[catalog.Category]float64{catalog.CategoryOther: 3000},
			CapPeriod:    CapPeriodMonthly,
		},
		{
			Key: TemplateKey("农行", "大学生青春卡"), BankName: "农行", Type: "大学生青春卡",
			ColorHexes: [2]string{"9EC0B3", "D9A62E"}, Region: catalog.RegionCN,
			DefaultRate: 0.1, ForeignRate: pct(4), CapPeriod: CapPeriodYearly,
		},
	}
}
