package recipe

// Difficulty is how demanding a recipe is to cook
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the accepted difficulty levels
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Category groups recipes on the browse page
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategoryDessert   Category = "Dessert"
	CategorySnack     Category = "Snack"
	CategoryAppetizer Category = "Appetizer"
	CategoryBeverage  Category = "Beverage"
)

// Categories lists the accepted categories
var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDessert,
	CategorySnack,
	CategoryAppetizer,
	CategoryBeverage,
}

// Image is a picture uploaded together with a recipe
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}
