package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

func TestCheckoutPrefillsDefaultAddress(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	m := newCheckoutModel(te.env)
	if m.street.value != "12 Nile St" || m.phone.value != "0100" || m.zip.value != "12511" {
		t.Errorf("unexpected prefill %+v", m.address())
	}
	if m.city != "Giza" {
		t.Errorf("expected city Giza, got %q", m.city)
	}
}

func TestCheckoutDefaultsWithoutAddress(t *testing.T) {
	e, _ := offlineEnv()
	m := newCheckoutModel(e)
	if m.city != "Cairo" || m.street.value != "" {
		t.Errorf("unexpected defaults %+v", m.address())
	}
}

func TestCheckoutCityCycles(t *testing.T) {
	e, _ := offlineEnv()
	m := newCheckoutModel(e)
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != focusCity {
		t.Fatalf("expected city focus, got %d", m.focus)
	}
	m, _ = m.Update(keyMsg("l"))
	if m.city != "Giza" {
		t.Errorf("expected Giza, got %q", m.city)
	}
	m, _ = m.Update(keyMsg("h"))
	m, _ = m.Update(keyMsg("h"))
	if m.city != "Suez" {
		t.Errorf("expected wrap to Suez, got %q", m.city)
	}
}

func TestCheckoutValidation(t *testing.T) {
	te := newTestEnv(t)
	te.shop.setCart(twoLineCart())
	te.login(t, domain.Profile{ID: "u2", Name: "Mona", Email: "mona@example.com", Role: domain.RoleCustomer})

	m := newCheckoutModel(te.env)
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil || m.busy {
		t.Fatal("incomplete address must not be submitted")
	}
	if n := lastNote(t, te.notes); n.Message != "Please fill all required fields" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestCheckoutRefusesEmptyCart(t *testing.T) {
	te := newTestEnv(t)
	te.login(t, customer)
	m := newCheckoutModel(te.env)
	_, cmd := m.Update(keyMsg("ctrl+s"))
	if msg, ok := run(cmd).(gotoViewMsg); !ok || msg.to != viewCart {
		t.Errorf("expected bounce to cart, got %#v", msg)
	}
	if n := lastNote(t, te.notes); n.Message != "Your cart is empty" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	te := newTestEnv(t)
	te.shop.setCart(twoLineCart())
	te.login(t, customer)

	var got domain.CreateOrderRequest
	te.shop.handle("POST /api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeJSON(w, http.StatusCreated, domain.Order{
			ID: "o1", OrderNumber: "BX-1001", Status: domain.OrderPending, TotalPrice: 1300,
			DeliveryAddress: got.DeliveryAddress,
		})
	})
	te.shop.handle("DELETE /api/cart", func(w http.ResponseWriter, r *http.Request) {
		te.shop.setCart(domain.EmptyCart())
		w.WriteHeader(http.StatusOK)
	})

	m := newCheckoutModel(te.env)
	m.width = 100
	for i := 0; i < checkoutFields-1; i++ {
		m, _ = m.Update(keyMsg("enter"))
	}
	m, cmd := m.Update(keyMsg("enter"))
	if !m.busy {
		t.Fatal("expected busy while placing the order")
	}
	m, _ = m.Update(run(cmd))

	if got.PaymentMethod != "cash_on_delivery" || got.DeliveryAddress.Street != "12 Nile St" || got.DeliveryAddress.City != "Giza" {
		t.Errorf("unexpected order request %+v", got)
	}
	if m.placed == nil || m.placed.OrderNumber != "BX-1001" {
		t.Fatalf("expected confirmation, got %+v", m.placed)
	}
	if te.itemCount() != 0 {
		t.Errorf("cart should be cleared, got %d items", te.itemCount())
	}
	if !strings.Contains(m.View(), "BX-1001") {
		t.Error("confirmation should show the order number")
	}

	_, next := m.Update(keyMsg("enter"))
	if msg, ok := run(next).(gotoViewMsg); !ok || msg.to != viewOrders {
		t.Errorf("expected gotoView(viewOrders), got %#v", msg)
	}
}

func TestCheckoutOrderFailure(t *testing.T) {
	te := newTestEnv(t)
	te.shop.setCart(twoLineCart())
	te.login(t, customer)
	te.shop.handle("POST /api/orders/create", fail(http.StatusBadRequest, "Cart is empty"))

	m := newCheckoutModel(te.env)
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m, _ = m.Update(run(cmd))
	if m.placed != nil || m.busy {
		t.Error("failed order should leave the form editable")
	}
	if n := lastNote(t, te.notes); n.Level != notify.Error || n.Message != "Cart is empty" {
		t.Errorf("unexpected toast %+v", n)
	}
	if te.itemCount() != 3 {
		t.Error("cart must survive a failed order")
	}
}

func TestCheckoutEscReturnsToCart(t *testing.T) {
	e, _ := offlineEnv()
	m := newCheckoutModel(e)
	_, cmd := m.Update(keyMsg("esc"))
	if msg, ok := run(cmd).(gotoViewMsg); !ok || msg.to != viewCart {
		t.Errorf("expected gotoView(viewCart), got %#v", msg)
	}
}

func TestCheckoutTypingGoesToFocusedField(t *testing.T) {
	e, _ := offlineEnv()
	m := newCheckoutModel(e)
	for _, k := range []string{"9", " ", "T", "a"} {
		m, _ = m.Update(keyMsg(k))
	}
	m, _ = m.Update(keyMsg("shift+tab"))
	m, _ = m.Update(keyMsg("1"))
	if m.street.value != "9 Ta" || m.phone.value != "1" {
		t.Errorf("street=%q phone=%q", m.street.value, m.phone.value)
	}
}
