package features

import (
	"math"
	"time"

	"ofp/internal/model"
)

// Temporal carries the duration features derived from one order's lifecycle
// timestamps and its shipping deadline. Nil means the feature is undefined
// because an endpoint was missing; DeliveryDelayDays is the clipped business
// variant and defaults to 0 instead, which must stay distinct from IsLate.
type Temporal struct {
	IsDelivered          bool
	DeliveryTimeDays     *int
	IsLate               bool
	ShippingWindowDays   *int
	PromisedDeliveryDays *int
	ApprovalDelayDays    *int
	DeliveryDelayDays    int
	DeliverySuccess      bool
	PurchaseYear         *int
	PurchaseMonth        *int
	PurchaseDay          *int
	PurchaseDayOfWeek    string
}

// daysBetween is the signed interval from a to b in whole days, floored
// toward negative infinity: a negative sub-day interval counts as -1, not 0.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// DeriveTemporal computes the duration features for one order. shippingLimit
// is the order's shipping deadline, taken from its representative item.
func DeriveTemporal(o model.Order, shippingLimit *time.Time) Temporal {
	var t Temporal
	t.IsDelivered = o.DeliveredAt != nil
	if o.DeliveredAt != nil && o.PurchasedAt != nil {
		d := daysBetween(*o.PurchasedAt, *o.DeliveredAt)
		t.DeliveryTimeDays = &d
	}
	// Strict lateness: false when either side is missing.
	if o.DeliveredAt != nil && o.EstimatedAt != nil {
		t.IsLate = o.DeliveredAt.After(*o.EstimatedAt)
	}
	if shippingLimit != nil && o.PurchasedAt != nil {
		d := daysBetween(*o.PurchasedAt, *shippingLimit)
		t.ShippingWindowDays = &d
	}
	if o.EstimatedAt != nil && o.PurchasedAt != nil {
		d := daysBetween(*o.PurchasedAt, *o.EstimatedAt)
		t.PromisedDeliveryDays = &d
	}
	if o.ApprovedAt != nil && o.PurchasedAt != nil {
		d := daysBetween(*o.PurchasedAt, *o.ApprovedAt)
		t.ApprovalDelayDays = &d
	}
	// Clipped delay magnitude: missing endpoints and early deliveries both
	// count as 0, unlike IsLate.
	if o.DeliveredAt != nil && o.EstimatedAt != nil {
		if d := daysBetween(*o.EstimatedAt, *o.DeliveredAt); d > 0 {
			t.DeliveryDelayDays = d
		}
	}
	t.DeliverySuccess = t.DeliveryDelayDays == 0
	if o.PurchasedAt != nil {
		y := o.PurchasedAt.Year()
		m := int(o.PurchasedAt.Month())
		day := o.PurchasedAt.Day()
		t.PurchaseYear = &y
		t.PurchaseMonth = &m
		t.PurchaseDay = &day
		t.PurchaseDayOfWeek = o.PurchasedAt.Weekday().String()
	}
	return t
}

// DeriveTemporalAll derives temporal features for every order, using each
// order's representative item for the shipping deadline.
func DeriveTemporalAll(orders []model.Order, repItems map[string]model.OrderItem) map[string]Temporal {
	out := make(map[string]Temporal, len(orders))
	for _, o := range orders {
		var limit *time.Time
		if it, ok := repItems[o.OrderID]; ok {
			limit = it.ShippingLimit
		}
		out[o.OrderID] = DeriveTemporal(o, limit)
	}
	return out
}
