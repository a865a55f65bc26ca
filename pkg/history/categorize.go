package history

import "strings"

// Category is a fixed classification bucket for purchased items.
type Category string

const (
	CategoryFashion       Category = "fashion"
	CategoryElectronics   Category = "electronics"
	CategoryFood          Category = "food"
	CategoryBooks         Category = "books"
	CategoryEntertainment Category = "entertainment"
	CategoryBeauty        Category = "beauty"
	CategoryAppliances    Category = "appliances"
	CategoryOther         Category = "other"
)

// categoryKeywords maps each category to the title keywords that
// select it. First match wins, in this order.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFashion, []string{"fashion", "shirt", "dress", "jacket", "shoes", "sneaker", "clothes"}},
	{CategoryElectronics, []string{"smartphone", "phone", "laptop", "pc", "tablet", "earbuds", "headphone", "camera"}},
	{CategoryFood, []string{"food", "snack", "drink", "coffee", "cola", "chocolate"}},
	{CategoryBooks, []string{"book", "novel", "magazine", "comic", "manga"}},
	{CategoryEntertainment, []string{"game", "toy", "figure", "puzzle", "console"}},
	{CategoryBeauty, []string{"cosmetic", "makeup", "skincare", "beauty", "perfume"}},
	{CategoryAppliances, []string{"appliance", "charger", "fire tv", "vacuum", "air fryer", "kettle", "fan"}},
}

// Categorize classifies an item title into one of the fixed buckets.
func Categorize(title string) Category {
	lower := strings.ToLower(title)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
