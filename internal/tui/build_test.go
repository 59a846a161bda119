package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/boxify/boxify/pkg/domain"
)

func sampleMeals() []domain.Meal {
	return []domain.Meal{
		{ID: "m1", Name: "Koshari", Cuisine: "Egyptian", DietaryTags: []string{"vegan"}, PricePerServing: 60},
		{ID: "m2", Name: "Chicken Shawarma", Cuisine: "Levantine", DietaryTags: []string{"high-protein"}, PricePerServing: 90},
		{ID: "m3", Name: "Falafel Bowl", Cuisine: "Egyptian", DietaryTags: []string{"vegan", "vegetarian"}, PricePerServing: 55},
	}
}

func loadedBuild(e *env) buildModel {
	m := newBuildModel(e)
	m.width = 100
	m, _ = m.Update(mealsLoadedMsg{meals: sampleMeals()})
	return m
}

func TestBuildDefaults(t *testing.T) {
	e, _ := offlineEnv()
	m := newBuildModel(e)
	if m.servings != 2 || m.name != "My Custom Box" {
		t.Errorf("unexpected defaults servings=%d name=%q", m.servings, m.name)
	}
	if m.Init() != nil {
		t.Error("Init without a client should be a no-op")
	}
}

func TestBuildToggleSchedulesQuote(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)

	m, cmd := m.Update(keyMsg(" "))
	if !m.isSelected("m1") {
		t.Fatal("expected m1 selected")
	}
	if cmd == nil {
		t.Error("expected a debounced quote")
	}
	seq := m.quoteSeq

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg(" "))
	if len(m.selected) != 2 || m.quoteSeq != seq+1 {
		t.Errorf("expected two meals and a newer quote seq, got %v seq=%d", m.selected, m.quoteSeq)
	}

	m, _ = m.Update(keyMsg(" "))
	if m.isSelected("m2") {
		t.Error("second space should deselect")
	}
}

func TestBuildStaleQuoteDropped(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg(" "))
	first := m.quoteSeq
	m, _ = m.Update(keyMsg("s"))

	m, _ = m.Update(quoteMsg{seq: first, quote: &domain.PriceQuote{TotalPrice: 120}})
	if m.quote != nil {
		t.Fatal("quote for an older selection must be ignored")
	}
	m, _ = m.Update(quoteMsg{seq: m.quoteSeq, quote: &domain.PriceQuote{TotalPrice: 240, TotalCalories: 1300}})
	if m.quote == nil || m.quote.TotalPrice != 240 {
		t.Fatalf("expected current quote applied, got %+v", m.quote)
	}
	out := m.View()
	if !strings.Contains(out, "240 EGP") || !strings.Contains(out, "1,300 cal") {
		t.Errorf("summary missing quote: %q", out)
	}
}

func TestBuildTickOnlyFiresForLatestSelection(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg(" "))
	old := m.quoteSeq
	m, _ = m.Update(keyMsg("s"))

	m, _ = m.Update(quoteTickMsg{seq: old})
	if m.quoting {
		t.Error("superseded tick should not start a quote")
	}
	m, _ = m.Update(quoteTickMsg{seq: m.quoteSeq})
	if !m.quoting {
		t.Error("latest tick should start a quote")
	}
}

func TestBuildClearingSelectionDropsQuote(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg(" "))
	m, _ = m.Update(quoteMsg{seq: m.quoteSeq, quote: &domain.PriceQuote{TotalPrice: 120}})
	m, cmd := m.Update(keyMsg("c"))
	if len(m.selected) != 0 || m.quote != nil {
		t.Errorf("expected empty selection and no quote, got %v %+v", m.selected, m.quote)
	}
	if cmd != nil {
		t.Error("no quote should be requested for an empty box")
	}
}

func TestBuildQuoteFromBackend(t *testing.T) {
	te := newTestEnv(t)
	var got domain.PriceQuoteRequest
	te.shop.handle("POST /api/custom-box/calculate", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeJSON(w, http.StatusOK, domain.PriceQuote{TotalPrice: 480, TotalCalories: 2200, MealsCount: 2})
	})

	m := loadedBuild(te.env)
	m, _ = m.Update(keyMsg(" "))
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg(" "))
	m, cmd := m.Update(quoteTickMsg{seq: m.quoteSeq})
	m, _ = m.Update(run(cmd))

	if len(got.MealIDs) != 2 || got.MealIDs[0] != "m1" || got.MealIDs[1] != "m2" || got.ServingsPerMeal != 2 {
		t.Errorf("unexpected quote request %+v", got)
	}
	if m.quoting || m.quote == nil || m.quote.TotalPrice != 480 {
		t.Errorf("expected quote applied, got quoting=%v %+v", m.quoting, m.quote)
	}
}

func TestBuildTagFilterAndSearch(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg("t"))
	if m.tag != "vegetarian" {
		t.Fatalf("expected tag=vegetarian, got %q", m.tag)
	}
	if got := m.filtered(); len(got) != 1 || got[0].ID != "m3" {
		t.Errorf("vegetarian filter = %v", got)
	}

	m.tag = ""
	m, _ = m.Update(keyMsg("/"))
	for _, k := range []string{"e", "g", "y"} {
		m, _ = m.Update(keyMsg(k))
	}
	if got := m.filtered(); len(got) != 2 {
		t.Errorf("cuisine search should match two meals, got %d", len(got))
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.search != "" || m.editing != buildEditNone {
		t.Error("esc should clear the search")
	}
}

func TestBuildRename(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg("n"))
	if m.editing != buildEditName {
		t.Fatal("expected name editing")
	}
	for i, n := 0, len("My Custom Box"); i < n; i++ {
		m, _ = m.Update(keyMsg("backspace"))
	}
	for _, k := range []string{"V", "e", "g", "g", "i", "e", "s"} {
		m, _ = m.Update(keyMsg(k))
	}
	m, _ = m.Update(keyMsg("enter"))
	if m.boxName() != "Veggies" {
		t.Errorf("expected Veggies, got %q", m.boxName())
	}
	m.name = "   "
	if m.boxName() != "My Custom Box" {
		t.Error("blank name should fall back to the default")
	}
}

func TestBuildAddRequiresMeals(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	m := loadedBuild(te.env)
	_, cmd := m.Update(keyMsg("a"))
	if cmd != nil {
		t.Error("empty box should not be added")
	}
	if n := lastNote(t, te.notes); n.Message != "Select at least one meal" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestBuildAddRequiresLogin(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBuild(e)
	m, _ = m.Update(keyMsg(" "))
	_, cmd := m.Update(keyMsg("a"))
	if msg, ok := run(cmd).(needLoginMsg); !ok || msg.after != viewBuild {
		t.Errorf("expected needLoginMsg{viewBuild}, got %#v", msg)
	}
}

func TestBuildAddCustomBoxToCart(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	var got domain.AddToCartRequest
	te.shop.handle("POST /api/cart/add", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		te.shop.cartHandler(func(c *domain.Cart) {
			c.Items = append(c.Items, domain.CartItem{ID: "i1", Type: domain.ItemCustomBox, CustomBox: &domain.CustomBoxInfo{Name: got.Name}, MealsCount: 1, ServingsPerMeal: 2, TotalPrice: 120})
			c.CartTotal = 120
		})(w, r)
	})

	m := loadedBuild(te.env)
	m, _ = m.Update(keyMsg(" "))
	m, cmd := m.Update(keyMsg("a"))
	m, next := m.Update(run(cmd))

	if got.Type != domain.ItemCustomBox || got.Name != "My Custom Box" || len(got.MealIDs) != 1 || got.ServingsPerMeal != 2 {
		t.Errorf("unexpected add request %+v", got)
	}
	if n := lastNote(t, te.notes); n.Message != "Custom box added to cart!" {
		t.Errorf("unexpected toast %q", n.Message)
	}
	if msg, ok := run(next).(gotoViewMsg); !ok || msg.to != viewCart {
		t.Errorf("expected gotoView(viewCart), got %#v", msg)
	}
	if m.adding {
		t.Error("expected adding=false")
	}
}

func TestBuildSubscribeCustom(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	var got domain.CreateSubscriptionRequest
	te.shop.handle("POST /api/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeJSON(w, http.StatusCreated, domain.Subscription{ID: "s1"})
	})

	m := loadedBuild(te.env)
	m, _ = m.Update(keyMsg(" "))
	m, _ = m.Update(keyMsg("u"))
	m, cmd := m.Update(keyMsg("enter"))
	m.Update(run(cmd))

	if got.BoxType != domain.BoxTypeCustom || len(got.MealPool) != 1 || got.MealPool[0].MealID != "m1" {
		t.Errorf("unexpected subscription request %+v", got)
	}
	if got.CustomBox == nil || got.CustomBox.Name != "My Custom Box" {
		t.Errorf("expected custom box name, got %+v", got.CustomBox)
	}
}
