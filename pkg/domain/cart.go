package domain

// ItemType distinguishes catalog boxes from boxes assembled by the customer.
type ItemType string

const (
	ItemPreMadeBox ItemType = "pre-made-box"
	ItemCustomBox  ItemType = "custom-box"
)

// CustomBoxInfo is the custom box descriptor embedded in a cart line.
type CustomBoxInfo struct {
	Name    string   `json:"name"`
	MealIDs []string `json:"mealIds,omitempty"`
}

// CartItem is a single cart line as computed by the server.
type CartItem struct {
	ID              string         `json:"_id"`
	Type            ItemType       `json:"type"`
	BoxID           string         `json:"boxId,omitempty"`
	BoxName         string         `json:"boxName,omitempty"`
	CustomBox       *CustomBoxInfo `json:"customBox,omitempty"`
	Quantity        int            `json:"quantity,omitempty"`
	MealsCount      int            `json:"mealsCount"`
	ServingsPerMeal int            `json:"servingsPerMeal"`
	TotalPrice      float64        `json:"totalPrice"`
}

// EffectiveQuantity returns the line quantity, treating an absent value as 1.
func (i CartItem) EffectiveQuantity() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// DisplayName returns the label shown for the line.
func (i CartItem) DisplayName() string {
	if i.Type == ItemPreMadeBox {
		if i.BoxName != "" {
			return i.BoxName
		}
		return "Pre-Made Box"
	}
	if i.CustomBox != nil && i.CustomBox.Name != "" {
		return i.CustomBox.Name
	}
	return "Custom Box"
}

// Cart is the authoritative server-side cart snapshot.
type Cart struct {
	Items     []CartItem `json:"items"`
	CartTotal float64    `json:"cartTotal"`
}

// EmptyCart returns the canonical empty snapshot.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, CartTotal: 0}
}

// ItemCount sums line quantities. Never stored, so it can't go stale.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.EffectiveQuantity()
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy of the snapshot.
func (c Cart) Clone() Cart {
	out := Cart{CartTotal: c.CartTotal, Items: make([]CartItem, len(c.Items))}
	for i, it := range c.Items {
		if it.CustomBox != nil {
			cb := *it.CustomBox
			cb.MealIDs = append([]string(nil), cb.MealIDs...)
			it.CustomBox = &cb
		}
		out.Items[i] = it
	}
	return out
}

// AddToCartRequest is the payload for POST /cart/add. A pre-made box sets
// BoxID; a custom box sets MealIDs and Name.
type AddToCartRequest struct {
	Type            ItemType `json:"type"`
	BoxID           string   `json:"boxId,omitempty"`
	MealIDs         []string `json:"mealIds,omitempty"`
	ServingsPerMeal int      `json:"servingsPerMeal"`
	Name            string   `json:"name,omitempty"`
}

// PreMadeBox builds an add request for a catalog box.
func PreMadeBox(boxID string, servings int) AddToCartRequest {
	return AddToCartRequest{Type: ItemPreMadeBox, BoxID: boxID, ServingsPerMeal: servings}
}

// CustomBox builds an add request for a customer-assembled box.
func CustomBox(name string, mealIDs []string, servings int) AddToCartRequest {
	return AddToCartRequest{
		Type:            ItemCustomBox,
		MealIDs:         append([]string(nil), mealIDs...),
		ServingsPerMeal: servings,
		Name:            name,
	}
}

// UpdateItemRequest is the partial update for PUT /cart/item/:id.
type UpdateItemRequest struct {
	Quantity        *int `json:"quantity,omitempty"`
	ServingsPerMeal *int `json:"servingsPerMeal,omitempty"`
}

// SetQuantity is shorthand for a quantity-only update.
func SetQuantity(q int) UpdateItemRequest {
	return UpdateItemRequest{Quantity: &q}
}
