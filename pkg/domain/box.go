package domain

import (
	"strconv"
	"strings"
)

// Box categories shown as filters in the catalog.
var Categories = []string{"Mediterranean", "Egyptian", "Healthy", "Italian", "Vegetarian", "High-Protein"}

// Dietary tags offered as filters in the box builder.
var DietaryTags = []string{"vegetarian", "vegan", "gluten-free", "high-protein"}

// ServingOptions are the per-meal serving sizes the kitchen prepares.
var ServingOptions = []int{1, 2, 4, 6}

// Meal is a single recipe that can be placed in a box.
type Meal struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Cuisine            string   `json:"cuisine,omitempty"`
	DietaryTags        []string `json:"dietaryTags,omitempty"`
	Allergens          []string `json:"allergens,omitempty"`
	PricePerServing    float64  `json:"pricePerServing"`
	CaloriesPerServing int      `json:"caloriesPerServing,omitempty"`
	PrepTime           int      `json:"prepTime,omitempty"`
	Image              string   `json:"image,omitempty"`
}

// HasTag reports whether the meal carries the dietary tag.
func (m Meal) HasTag(tag string) bool {
	for _, t := range m.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// MatchesSearch does a case-insensitive substring match on name and cuisine.
func (m Meal) MatchesSearch(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Cuisine), q)
}

// FilterMeals returns meals matching the search text and dietary tag.
// An empty tag matches every meal.
func FilterMeals(meals []Meal, search, tag string) []Meal {
	var out []Meal
	for _, m := range meals {
		if !m.MatchesSearch(search) {
			continue
		}
		if tag != "" && !m.HasTag(tag) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// PricingOption is a box's price at one serving size.
type PricingOption struct {
	PricePerServing float64 `json:"pricePerServing"`
	TotalPrice      float64 `json:"totalPrice"`
	MealDetails     []Meal  `json:"mealDetails,omitempty"`
}

// Box is a prebuilt meal box from the catalog.
type Box struct {
	ID                string                   `json:"_id"`
	Name              string                   `json:"name"`
	Description       string                   `json:"description,omitempty"`
	Category          string                   `json:"category,omitempty"`
	Image             string                   `json:"image,omitempty"`
	Featured          bool                     `json:"featured,omitempty"`
	MealsCount        int                      `json:"mealsCount"`
	StartingPrice     float64                  `json:"startingPrice,omitempty"`
	AvailableServings []int                    `json:"availableServings,omitempty"`
	PricingOptions    map[string]PricingOption `json:"pricingOptions,omitempty"`
}

// Pricing returns the pricing option for the serving size.
func (b Box) Pricing(servings int) (PricingOption, bool) {
	p, ok := b.PricingOptions[strconv.Itoa(servings)]
	return p, ok
}

// Serves reports whether the box can be ordered at the serving size.
// A box without an explicit list is assumed to support every size.
func (b Box) Serves(servings int) bool {
	if len(b.AvailableServings) == 0 {
		return true
	}
	for _, s := range b.AvailableServings {
		if s == servings {
			return true
		}
	}
	return false
}

// BoxQuery filters GET /boxes.
type BoxQuery struct {
	Search   string
	Category string
	Featured bool
}

// PriceQuoteRequest is the payload for POST /custom-box/calculate.
type PriceQuoteRequest struct {
	MealIDs         []string `json:"mealIds"`
	ServingsPerMeal int      `json:"servingsPerMeal"`
}

// PriceQuote is the server-computed price of a custom box.
type PriceQuote struct {
	TotalPrice    float64 `json:"totalPrice"`
	TotalCalories int     `json:"totalCalories"`
	MealsCount    int     `json:"mealsCount,omitempty"`
}
