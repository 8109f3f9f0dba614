package models

// Menu categories, in the order the menu is presented.
const (
	CategoryStarters        = "Starters"
	CategoryMainCourse      = "Main Course"
	CategorySides           = "Sides"
	CategoryDrinks          = "Drinks"
	CategoryAlcoholicDrinks = "Alcoholic Drinks"
	CategoryDesserts        = "Desserts"
)

// Categories is the fixed presentation order of menu categories.
var Categories = []string{
	CategoryStarters,
	CategoryMainCourse,
	CategorySides,
	CategoryDrinks,
	CategoryAlcoholicDrinks,
	CategoryDesserts,
}

// MenuItem represents a product on the menu.
type MenuItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	Available   bool   `json:"available"`
}

// MenuList is the envelope returned by GET /products.
type MenuList struct {
	Products []MenuItem `json:"products"`
}

// MenuItemRequest is used for menu item creation/update.
type MenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	Available   bool   `json:"available"`
}
