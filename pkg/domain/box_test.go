package domain

import "testing"

func TestFilterMeals(t *testing.T) {
	meals := []Meal{
		{ID: "1", Name: "Koshari", Cuisine: "Egyptian", DietaryTags: []string{"vegan"}},
		{ID: "2", Name: "Grilled Chicken", Cuisine: "Mediterranean", DietaryTags: []string{"high-protein"}},
		{ID: "3", Name: "Falafel Bowl", Cuisine: "Egyptian", DietaryTags: []string{"vegan", "vegetarian"}},
	}
	tests := []struct {
		name   string
		search string
		tag    string
		want   []string
	}{
		{"no filter", "", "", []string{"1", "2", "3"}},
		{"search by cuisine", "egypt", "", []string{"1", "3"}},
		{"search by name case-insensitive", "CHICKEN", "", []string{"2"}},
		{"tag only", "", "vegetarian", []string{"3"}},
		{"search and tag", "egyptian", "vegan", []string{"1", "3"}},
		{"no match", "sushi", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMeals(meals, tt.search, tt.tag)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d meals, want %d", len(got), len(tt.want))
			}
			for i, m := range got {
				if m.ID != tt.want[i] {
					t.Errorf("got[%d].ID = %q, want %q", i, m.ID, tt.want[i])
				}
			}
		})
	}
}

func TestBoxPricingAndServes(t *testing.T) {
	b := Box{
		AvailableServings: []int{2, 4},
		PricingOptions:    map[string]PricingOption{"2": {PricePerServing: 95, TotalPrice: 570}},
	}
	if p, ok := b.Pricing(2); !ok || p.TotalPrice != 570 {
		t.Errorf("Pricing(2) = %+v, %v", p, ok)
	}
	if _, ok := b.Pricing(6); ok {
		t.Error("Pricing(6) reported ok")
	}
	if !b.Serves(4) || b.Serves(1) {
		t.Error("Serves() disagrees with AvailableServings")
	}
	if !(Box{}).Serves(6) {
		t.Error("box without serving list should serve every size")
	}
}
