package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boxify/boxify/pkg/domain"
)

// --- Auth ---

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates a customer account and returns its token and profile.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.post(ctx, "/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// GetMe returns the fields of the authenticated profile the server chose to send.
func (c *Client) GetMe(ctx context.Context) (*domain.ProfilePatch, error) {
	var patch domain.ProfilePatch
	if err := c.get(ctx, "/auth/me", &patch); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &patch, nil
}

// UpdateProfile saves the profile name and address book.
func (c *Client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) error {
	if err := c.doRequest(ctx, http.MethodPut, "/auth/profile", req, nil); err != nil {
		return fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return nil
}

// --- Cart ---

// GetCart returns the caller's cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.get(ctx, "/cart", &cart); err != nil {
		return nil, fmt.Errorf("client.GetCart: %w", err)
	}
	return &cart, nil
}

// AddToCart adds a pre-made or custom box and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, req domain.AddToCartRequest) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.post(ctx, "/cart/add", req, &cart); err != nil {
		return nil, fmt.Errorf("client.AddToCart: %w", err)
	}
	return &cart, nil
}

// UpdateCartItem applies a partial update to one line and returns the updated cart.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, req domain.UpdateItemRequest) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.doRequest(ctx, http.MethodPut, "/cart/item/"+url.PathEscape(itemID), req, &cart); err != nil {
		return nil, fmt.Errorf("client.UpdateCartItem: %w", err)
	}
	return &cart, nil
}

// RemoveCartItem deletes one line and returns the updated cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.doRequest(ctx, http.MethodDelete, "/cart/item/"+url.PathEscape(itemID), nil, &cart); err != nil {
		return nil, fmt.Errorf("client.RemoveCartItem: %w", err)
	}
	return &cart, nil
}

// ClearCart empties the cart server-side.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/cart", nil, nil); err != nil {
		return fmt.Errorf("client.ClearCart: %w", err)
	}
	return nil
}

// --- Catalog ---

// ListBoxes fetches catalog boxes with optional search, category and featured filters.
func (c *Client) ListBoxes(ctx context.Context, q domain.BoxQuery) ([]domain.Box, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Featured {
		params.Set("featured", "true")
	}
	path := "/boxes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var boxes []domain.Box
	if err := c.get(ctx, path, &boxes); err != nil {
		return nil, fmt.Errorf("client.ListBoxes: %w", err)
	}
	return boxes, nil
}

// GetBox fetches a single box with its pricing options.
func (c *Client) GetBox(ctx context.Context, id string) (*domain.Box, error) {
	var box domain.Box
	if err := c.get(ctx, "/boxes/"+url.PathEscape(id), &box); err != nil {
		return nil, fmt.Errorf("client.GetBox: %w", err)
	}
	return &box, nil
}

// ListMeals fetches every meal available to the box builder.
func (c *Client) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := c.get(ctx, "/meals", &meals); err != nil {
		return nil, fmt.Errorf("client.ListMeals: %w", err)
	}
	return meals, nil
}

// QuoteCustomBox asks the pricing engine for a custom box price.
func (c *Client) QuoteCustomBox(ctx context.Context, req domain.PriceQuoteRequest) (*domain.PriceQuote, error) {
	var quote domain.PriceQuote
	if err := c.post(ctx, "/custom-box/calculate", req, &quote); err != nil {
		return nil, fmt.Errorf("client.QuoteCustomBox: %w", err)
	}
	return &quote, nil
}

// --- Orders ---

// CreateOrder places an order for the current cart.
func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.post(ctx, "/orders/create", req, &order); err != nil {
		return nil, fmt.Errorf("client.CreateOrder: %w", err)
	}
	return &order, nil
}

// ListOrders returns the caller's order history.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, "/orders", &orders); err != nil {
		return nil, fmt.Errorf("client.ListOrders: %w", err)
	}
	return orders, nil
}

// --- Subscriptions ---

// ListSubscriptions returns the caller's subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	if err := c.get(ctx, "/subscriptions", &subs); err != nil {
		return nil, fmt.Errorf("client.ListSubscriptions: %w", err)
	}
	return subs, nil
}

// CreateSubscription starts a recurring delivery.
func (c *Client) CreateSubscription(ctx context.Context, req domain.CreateSubscriptionRequest) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := c.post(ctx, "/subscriptions", req, &sub); err != nil {
		return nil, fmt.Errorf("client.CreateSubscription: %w", err)
	}
	return &sub, nil
}

// PauseSubscription pauses an active subscription.
func (c *Client) PauseSubscription(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/subscriptions/"+url.PathEscape(id)+"/pause", nil, nil); err != nil {
		return fmt.Errorf("client.PauseSubscription: %w", err)
	}
	return nil
}

// ResumeSubscription resumes a paused subscription.
func (c *Client) ResumeSubscription(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/subscriptions/"+url.PathEscape(id)+"/resume", nil, nil); err != nil {
		return fmt.Errorf("client.ResumeSubscription: %w", err)
	}
	return nil
}

// CancelSubscription cancels a subscription.
func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.CancelSubscription: %w", err)
	}
	return nil
}

// --- Admin ---

// AdminStats returns the dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.get(ctx, "/admin/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.AdminStats: %w", err)
	}
	return &stats, nil
}

// AdminOrders returns every order with its customer.
func (c *Client) AdminOrders(ctx context.Context) ([]domain.AdminOrder, error) {
	var orders []domain.AdminOrder
	if err := c.get(ctx, "/admin/orders", &orders); err != nil {
		return nil, fmt.Errorf("client.AdminOrders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus asks the server to move an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	req := domain.UpdateOrderStatusRequest{Status: status}
	if err := c.doRequest(ctx, http.MethodPatch, "/admin/orders/"+url.PathEscape(id)+"/status", req, nil); err != nil {
		return fmt.Errorf("client.UpdateOrderStatus: %w", err)
	}
	return nil
}

// AdminSubscriptions returns every subscription with its customer.
func (c *Client) AdminSubscriptions(ctx context.Context) ([]domain.AdminSubscription, error) {
	var subs []domain.AdminSubscription
	if err := c.get(ctx, "/admin/subscriptions", &subs); err != nil {
		return nil, fmt.Errorf("client.AdminSubscriptions: %w", err)
	}
	return subs, nil
}

// GenerateSubscriptionOrder forces the next order of a subscription.
func (c *Client) GenerateSubscriptionOrder(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/admin/subscriptions/"+url.PathEscape(id)+"/generate", nil, nil); err != nil {
		return fmt.Errorf("client.GenerateSubscriptionOrder: %w", err)
	}
	return nil
}

// AdminUsers returns every registered user.
func (c *Client) AdminUsers(ctx context.Context) ([]domain.Profile, error) {
	var users []domain.Profile
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("client.AdminUsers: %w", err)
	}
	return users, nil
}
