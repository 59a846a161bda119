package domain

// AdminStats is the dashboard summary returned by GET /admin/stats.
type AdminStats struct {
	TotalOrders         int     `json:"totalOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	TotalUsers          int     `json:"totalUsers"`
}

// AdminOrder is an order with its customer populated.
type AdminOrder struct {
	Order
	Customer *UserRef `json:"userId,omitempty"`
}

// AdminSubscription is a subscription with its customer populated.
type AdminSubscription struct {
	Subscription
	Customer *UserRef `json:"userId,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PATCH /admin/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
