package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boxify/boxify/pkg/domain"
)

func sampleOrders() []domain.Order {
	placed := time.Now().Add(-2 * time.Hour)
	return []domain.Order{
		{
			ID: "o1", OrderNumber: "BX-1001", Status: domain.OrderOutForDelivery, TotalPrice: 1300, CreatedAt: placed,
			Items:           []domain.CartItem{{ID: "i1", Type: domain.ItemPreMadeBox, BoxName: "Mediterranean Feast", MealsCount: 4, ServingsPerMeal: 2, TotalPrice: 1300}},
			DeliveryAddress: domain.DeliveryAddress{Street: "12 Nile St", City: "Giza", Phone: "0100"},
		},
		{ID: "o2", OrderNumber: "BX-1002", Status: domain.OrderPending, TotalPrice: 450, CreatedAt: placed},
	}
}

func TestOrdersListAndDetail(t *testing.T) {
	e, _ := offlineEnv()
	m := newOrdersModel(e)
	m.width = 100
	m, _ = m.Update(ordersLoadedMsg{orders: sampleOrders()})

	out := m.View()
	for _, want := range []string{"#BX-1001", "Out for Delivery", "2h ago", "450 EGP"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q", want)
		}
	}

	m, _ = m.Update(keyMsg("enter"))
	if !m.detail {
		t.Fatal("expected detail view")
	}
	out = m.View()
	for _, want := range []string{"Mediterranean Feast", "12 Nile St, Giza", "0100"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 0 {
		t.Error("cursor should not move while the detail is open")
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.detail {
		t.Error("esc should close detail")
	}
}

func TestOrdersEmptyAndError(t *testing.T) {
	e, _ := offlineEnv()
	m := newOrdersModel(e)
	if !strings.Contains(m.View(), "loading") {
		t.Error("expected loading state")
	}
	m2, _ := m.Update(ordersLoadedMsg{orders: []domain.Order{}})
	if !strings.Contains(m2.View(), "No orders yet") {
		t.Error("expected empty state")
	}
	m3, _ := m.Update(ordersLoadedMsg{err: errors.New("boom")})
	if !strings.Contains(m3.View(), "could not load orders") {
		t.Error("expected error state")
	}
}

func TestOrdersFromBackend(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	te.shop.handle("GET /api/orders", reply(sampleOrders()))

	m := newOrdersModel(te.env)
	m, _ = m.Update(run(m.Init()))
	if len(m.orders) != 2 || m.loading {
		t.Fatalf("expected two orders, got %d loading=%v", len(m.orders), m.loading)
	}
}

func TestOrdersCopyResult(t *testing.T) {
	e, notes := offlineEnv()
	m := newOrdersModel(e)
	m, _ = m.Update(ordersLoadedMsg{orders: sampleOrders()})
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("expected a clipboard command")
	}

	m.Update(copiedMsg{what: "Order number"})
	if n := lastNote(t, notes); n.Message != "Order number copied" {
		t.Errorf("unexpected toast %q", n.Message)
	}
	m.Update(copiedMsg{what: "Order number", err: errors.New("no clipboard")})
	if n := lastNote(t, notes); n.Message != "Clipboard unavailable" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestOrdersOpenWeb(t *testing.T) {
	te := newTestEnv(t)
	m := newOrdersModel(te.env)
	m.Update(keyMsg("o"))
	if len(te.opened) != 1 || te.opened[0] != "https://boxify.test/dashboard/orders" {
		t.Errorf("unexpected opened %v", te.opened)
	}
}
