package domain

import "time"

// SubscriptionStatus is the billing state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription box types.
const (
	BoxTypePreMade = "pre-made"
	BoxTypeCustom  = "custom"
)

// Frequencies and DeliveryDays are the choices offered when subscribing.
var (
	Frequencies  = []string{"weekly", "monthly"}
	DeliveryDays = []string{"saturday", "sunday", "monday", "tuesday", "wednesday", "thursday"}
)

// MealPoolEntry references one meal in a custom subscription's pool.
type MealPoolEntry struct {
	MealID string `json:"mealId"`
}

// Subscription is a recurring delivery.
type Subscription struct {
	ID                    string             `json:"_id"`
	BoxType               string             `json:"boxType"`
	BoxID                 string             `json:"boxId,omitempty"`
	BoxName               string             `json:"boxName,omitempty"`
	CustomBox             *CustomBoxInfo     `json:"customBox,omitempty"`
	Frequency             string             `json:"frequency"`
	DeliveryDay           string             `json:"deliveryDay"`
	ServingsPerMeal       int                `json:"servingsPerMeal"`
	MealsPerDelivery      int                `json:"mealsPerDelivery,omitempty"`
	Status                SubscriptionStatus `json:"status"`
	FixedPricePerDelivery float64            `json:"fixedPricePerDelivery"`
	NextDeliveryDate      *time.Time         `json:"nextDeliveryDate,omitempty"`
	TotalDeliveries       int                `json:"totalDeliveries,omitempty"`
}

// DisplayName returns the label shown for the subscription.
func (s Subscription) DisplayName() string {
	if s.BoxType == BoxTypePreMade {
		if s.BoxName != "" {
			return s.BoxName
		}
		return "Pre-Made Box"
	}
	if s.CustomBox != nil && s.CustomBox.Name != "" {
		return s.CustomBox.Name
	}
	return "Custom Box"
}

// CreateSubscriptionRequest is the payload for POST /subscriptions.
type CreateSubscriptionRequest struct {
	BoxType         string          `json:"boxType"`
	Frequency       string          `json:"frequency"`
	DeliveryDay     string          `json:"deliveryDay"`
	ServingsPerMeal int             `json:"servingsPerMeal"`
	BoxID           string          `json:"boxId,omitempty"`
	MealPool        []MealPoolEntry `json:"mealPool,omitempty"`
	CustomBox       *CustomBoxInfo  `json:"customBox,omitempty"`
}

// NewCustomSubscription builds the request for a custom box subscription.
func NewCustomSubscription(name string, mealIDs []string, servings int, frequency, day string) CreateSubscriptionRequest {
	pool := make([]MealPoolEntry, 0, len(mealIDs))
	for _, id := range mealIDs {
		pool = append(pool, MealPoolEntry{MealID: id})
	}
	return CreateSubscriptionRequest{
		BoxType:         BoxTypeCustom,
		Frequency:       frequency,
		DeliveryDay:     day,
		ServingsPerMeal: servings,
		MealPool:        pool,
		CustomBox:       &CustomBoxInfo{Name: name},
	}
}

// NewPreMadeSubscription builds the request for a catalog box subscription.
func NewPreMadeSubscription(boxID string, servings int, frequency, day string) CreateSubscriptionRequest {
	return CreateSubscriptionRequest{
		BoxType:         BoxTypePreMade,
		Frequency:       frequency,
		DeliveryDay:     day,
		ServingsPerMeal: servings,
		BoxID:           boxID,
	}
}
