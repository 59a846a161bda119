package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

func sampleBoxes() []domain.Box {
	return []domain.Box{
		{ID: "b1", Name: "Mediterranean Feast", Category: "Mediterranean", MealsCount: 4, StartingPrice: 640, Featured: true},
		{
			ID: "b2", Name: "Family Protein", Category: "High-Protein", MealsCount: 3,
			AvailableServings: []int{2, 4},
			PricingOptions: map[string]domain.PricingOption{
				"2": {PricePerServing: 95, TotalPrice: 570},
				"4": {PricePerServing: 90, TotalPrice: 1080},
			},
		},
	}
}

func loadedBoxes(e *env) boxesModel {
	m := newBoxesModel(e)
	m.width = 100
	m, _ = m.Update(boxesLoadedMsg{boxes: sampleBoxes()})
	return m
}

func TestBoxesLoadedAndNavigate(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBoxes(e)
	if m.loading {
		t.Error("expected loading=false")
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("expected cursor=1, got %d", m.cursor)
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last box, got %d", m.cursor)
	}
	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("expected cursor=0, got %d", m.cursor)
	}
	out := m.View()
	for _, want := range []string{"Mediterranean Feast", "from 640 EGP", "Family Protein"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoxesLoadErrorShown(t *testing.T) {
	e, _ := offlineEnv()
	m := newBoxesModel(e)
	m, _ = m.Update(boxesLoadedMsg{err: errors.New("connection refused")})
	if !strings.Contains(m.View(), "could not load boxes") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestBoxesSearchEditing(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBoxes(e)
	m, _ = m.Update(keyMsg("/"))
	if !m.editing {
		t.Fatal("expected search editing")
	}
	for _, k := range []string{"f", "e", "a", "s", "t"} {
		m, _ = m.Update(keyMsg(k))
	}
	m, _ = m.Update(keyMsg("backspace"))
	if m.search != "feas" {
		t.Errorf("expected search=feas, got %q", m.search)
	}
	m, _ = m.Update(keyMsg("enter"))
	if m.editing {
		t.Error("enter should leave search mode")
	}
	if !m.loading {
		t.Error("enter should reload the catalog")
	}
}

func TestBoxesCategoryAndFeaturedFilters(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBoxes(e)
	m, _ = m.Update(keyMsg("c"))
	if m.category != domain.Categories[0] {
		t.Errorf("expected first category, got %q", m.category)
	}
	m, _ = m.Update(keyMsg("f"))
	if !m.featured {
		t.Error("expected featured filter on")
	}
}

func TestBoxesDetailServingsSkipUnavailable(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBoxes(e)
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("enter"))
	if m.detail == nil || m.detail.ID != "b2" {
		t.Fatal("expected detail for b2")
	}
	if m.servings != 2 {
		t.Fatalf("expected default servings=2, got %d", m.servings)
	}
	m, _ = m.Update(keyMsg("s"))
	if m.servings != 4 {
		t.Errorf("expected servings=4, got %d", m.servings)
	}
	m, _ = m.Update(keyMsg("s"))
	if m.servings != 2 {
		t.Errorf("expected servings to skip 6 and 1, got %d", m.servings)
	}
	if !strings.Contains(m.View(), "570 EGP") {
		t.Error("expected price for 2 servings in detail view")
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.detail != nil {
		t.Error("esc should close detail")
	}
}

func TestBoxesAddRequiresLogin(t *testing.T) {
	e, _ := offlineEnv()
	m := loadedBoxes(e)
	m, _ = m.Update(keyMsg("enter"))
	_, cmd := m.Update(keyMsg("a"))
	msg, ok := run(cmd).(needLoginMsg)
	if !ok || msg.after != viewBoxes {
		t.Fatalf("expected needLoginMsg{viewBoxes}, got %#v", msg)
	}
}

func TestBoxesAddToCart(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	te.shop.handle("POST /api/cart/add", te.shop.cartHandler(func(c *domain.Cart) {
		c.Items = append(c.Items, domain.CartItem{ID: "i1", Type: domain.ItemPreMadeBox, BoxID: "b1", BoxName: "Mediterranean Feast", Quantity: 1, TotalPrice: 640})
		c.CartTotal = 640
	}))

	m := loadedBoxes(te.env)
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("a"))
	if !m.adding {
		t.Error("expected adding=true while in flight")
	}
	m, _ = m.Update(run(cmd))
	if m.adding {
		t.Error("expected adding=false after response")
	}
	if n := lastNote(t, te.notes); n.Level != notify.Success || n.Message != "Added to cart!" {
		t.Errorf("unexpected toast %+v", n)
	}
	if te.itemCount() != 1 {
		t.Errorf("expected cart count 1, got %d", te.itemCount())
	}
}

func TestBoxesAddToCartShowsBackendMessage(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	te.shop.handle("POST /api/cart/add", fail(http.StatusBadRequest, "Box not available for 2 servings"))

	m := loadedBoxes(te.env)
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("a"))
	m.Update(run(cmd))
	if n := lastNote(t, te.notes); n.Level != notify.Error || n.Message != "Box not available for 2 servings" {
		t.Errorf("unexpected toast %+v", n)
	}
}

func TestBoxesAddToCartFallbackMessage(t *testing.T) {
	e, notes := offlineEnv()
	m := loadedBoxes(e)
	m.Update(addedToCartMsg{err: errors.New("timeout"), fallback: "Failed to add to cart"})
	if n := lastNote(t, notes); n.Message != "Failed to add to cart" {
		t.Errorf("expected fallback, got %q", n.Message)
	}
}

func TestBoxesSubscribeForm(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	var got domain.CreateSubscriptionRequest
	te.shop.handle("POST /api/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeJSON(w, http.StatusCreated, domain.Subscription{ID: "s1"})
	})

	m := loadedBoxes(te.env)
	m, _ = m.Update(keyMsg("enter"))
	m, _ = m.Update(keyMsg("u"))
	if !m.subscribe.open {
		t.Fatal("expected subscribe form")
	}
	m, _ = m.Update(keyMsg("f"))
	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("enter"))
	m, next := m.Update(run(cmd))

	if got.BoxType != domain.BoxTypePreMade || got.BoxID != "b1" || got.Frequency != "monthly" || got.DeliveryDay != "sunday" {
		t.Errorf("unexpected request %+v", got)
	}
	if n := lastNote(t, te.notes); n.Message != "Subscription created! First order generated." {
		t.Errorf("unexpected toast %q", n.Message)
	}
	if msg, ok := run(next).(gotoViewMsg); !ok || msg.to != viewSubs {
		t.Errorf("expected gotoView(viewSubs), got %#v", msg)
	}
}

func TestBoxesOpenInBrowser(t *testing.T) {
	te := newTestEnv(t)
	m := loadedBoxes(te.env)
	m, _ = m.Update(keyMsg("enter"))
	m.Update(keyMsg("o"))
	if len(te.opened) != 1 || te.opened[0] != "https://boxify.test/boxes/b1" {
		t.Errorf("unexpected opened %v", te.opened)
	}
}
