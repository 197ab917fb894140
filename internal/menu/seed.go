package menu

// Starter is the demo catalog loaded by the in-memory backend.
func Starter() []Item {
	extras := ModifierGroup{
		ID:   "extras",
		Name: "Extras",
		Options: []ModifierOption{
			{ID: "bacon", Name: "Bacon", PriceDelta: 200},
			{ID: "cheese", Name: "Cheese", PriceDelta: 100},
			{ID: "avocado", Name: "Avocado", PriceDelta: 150},
		},
	}
	meatTemp := ModifierGroup{
		ID:         "meat-temp",
		Name:       "Meat Temp",
		IsRequired: true,
		Options: []ModifierOption{
			{ID: "rare", Name: "Rare"},
			{ID: "medium-rare", Name: "Medium Rare"},
			{ID: "medium", Name: "Medium"},
			{ID: "well", Name: "Well Done"},
		},
	}

	return []Item{
		{Name: "Wings", BasePrice: 1200, Group: GroupFood, Category: "Appetizers", IsAvailable: true},
		{Name: "Calamari", BasePrice: 1300, Group: GroupFood, Category: "Appetizers", IsAvailable: true},
		{Name: "Caesar Salad", BasePrice: 900, Group: GroupFood, Category: "Salads", IsAvailable: true},
		{Name: "Burger", BasePrice: 1450, Group: GroupFood, Category: "Entrees", IsAvailable: true, ModifierGroups: []ModifierGroup{extras}},
		{Name: "Ribeye Steak", BasePrice: 3400, Group: GroupFood, Category: "Entrees", IsAvailable: true, ModifierGroups: []ModifierGroup{meatTemp}},
		{Name: "Fries", BasePrice: 500, Group: GroupFood, Category: "Sides", IsAvailable: true},
		{Name: "Chocolate Cake", BasePrice: 800, Group: GroupDessert, Category: "Desserts", IsAvailable: true},
		{Name: "Cola", BasePrice: 300, Group: GroupDrinks, Category: "Soft Drinks", IsAvailable: true},
		{Name: "Iced Coffee", BasePrice: 400, Group: GroupDrinks, Category: "Coffee", IsAvailable: true},
		{Name: "House Red", BasePrice: 1100, Group: GroupDrinks, Category: "Alcohol", IsAvailable: true},
	}
}
