// Package catalog defines the static spending category and region
// enumerations shared by the reward engine and the backup codec.
package catalog

// Category is a spending category a transaction is filed under.
type Category string

// Spending categories.
const (
	CategoryDining  Category = "dining"
	CategoryGrocery Category = "grocery"
	CategoryTravel  Category = "travel"
	CategoryDigital Category = "digital"
	CategoryOther   Category = "other"
)

// Categories returns every category in display order. The order is part of
// the cards CSV wire format, so it must not change.
func Categories() []Category {
	return []Category{
		CategoryDining,
		CategoryGrocery,
		CategoryTravel,
		CategoryDigital,
		CategoryOther,
	}
}

// DisplayName returns the user-facing name used in the transactions CSV.
func (c Category) DisplayName() string {
	switch c {
	case CategoryDining:
		return "餐饮"
	case CategoryGrocery:
		return "超市"
	case CategoryTravel:
		return "出行"
	case CategoryDigital:
		return "数码"
	default:
		return "其他"
	}
}

// ParseCategory maps a display name or internal identifier to a Category.
// Unknown values fall back to CategoryOther so category lookups are total.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if s == string(c) || s == c.DisplayName() {
			return c
		}
	}
	return CategoryOther
}
