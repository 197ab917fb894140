package menu

import (
	"tapin/internal/money"
)

// Group is the top-level menu tab.
type Group string

const (
	GroupFood    Group = "FOOD"
	GroupDrinks  Group = "DRINKS"
	GroupDessert Group = "DESSERT"
)

// Categories lists the categories each group may carry.
var Categories = map[Group][]string{
	GroupFood:    {"Appetizers", "Salads", "Entrees", "Sides", "Desserts", "Add Ons"},
	GroupDrinks:  {"Soft Drinks", "Coffee", "Juice", "Alcohol"},
	GroupDessert: {"Desserts"},
}

// Item is a catalog entry. It is read-only to the ordering core.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BasePrice      money.Cents     `json:"base_price"`
	Group          Group           `json:"group"`
	Category       string          `json:"category"`
	ModifierGroups []ModifierGroup `json:"modifier_groups,omitempty"`
	IsAvailable    bool            `json:"is_available"`
}

// ModifierGroup is a named choice set. A required group takes exactly
// one option; an optional group takes zero or more.
type ModifierGroup struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	IsRequired bool             `json:"is_required"`
	Options    []ModifierOption `json:"options"`
}

type ModifierOption struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	PriceDelta money.Cents `json:"price_delta"`
}

// ValidCategory reports whether category belongs to group.
func ValidCategory(group Group, category string) bool {
	for _, c := range Categories[group] {
		if c == category {
			return true
		}
	}
	return false
}
