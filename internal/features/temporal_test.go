package features

import (
	"testing"
	"time"

	"ofp/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDeriveTemporal_DeliveredLate(t *testing.T) {
	o := model.Order{
		OrderID:     "o1",
		PurchasedAt: ts("2018-01-01 10:00:00"),
		ApprovedAt:  ts("2018-01-02 10:00:00"),
		DeliveredAt: ts("2018-01-15 10:00:00"),
		EstimatedAt: ts("2018-01-10 10:00:00"),
	}
	f := DeriveTemporal(o, ts("2018-01-05 10:00:00"))
	if !f.IsDelivered {
		t.Fatalf("order is delivered")
	}
	if f.DeliveryTimeDays == nil || *f.DeliveryTimeDays != 14 {
		t.Fatalf("delivery_time_days: %+v", f.DeliveryTimeDays)
	}
	if !f.IsLate {
		t.Fatalf("delivered after estimate must be late")
	}
	if f.DeliveryDelayDays != 5 {
		t.Fatalf("want clipped delay 5, got %d", f.DeliveryDelayDays)
	}
	if f.DeliverySuccess {
		t.Fatalf("late delivery is not a success")
	}
	if f.ShippingWindowDays == nil || *f.ShippingWindowDays != 4 {
		t.Fatalf("shipping_window_days: %+v", f.ShippingWindowDays)
	}
	if f.PromisedDeliveryDays == nil || *f.PromisedDeliveryDays != 9 {
		t.Fatalf("promised_delivery_days: %+v", f.PromisedDeliveryDays)
	}
	if f.ApprovalDelayDays == nil || *f.ApprovalDelayDays != 1 {
		t.Fatalf("approval_delay_days: %+v", f.ApprovalDelayDays)
	}
}

func TestDeriveTemporal_DeliveredEarlyClipsToZero(t *testing.T) {
	o := model.Order{
		OrderID:     "o1",
		PurchasedAt: ts("2018-01-01 10:00:00"),
		DeliveredAt: ts("2018-01-08 10:00:00"),
		EstimatedAt: ts("2018-01-10 10:00:00"),
	}
	f := DeriveTemporal(o, nil)
	if f.IsLate {
		t.Fatalf("early delivery is not late")
	}
	// Clipped, not -2.
	if f.DeliveryDelayDays != 0 {
		t.Fatalf("want clipped delay 0, got %d", f.DeliveryDelayDays)
	}
	if !f.DeliverySuccess {
		t.Fatalf("on-time delivery is a success")
	}
	if f.ShippingWindowDays != nil {
		t.Fatalf("missing deadline must stay null, got %d", *f.ShippingWindowDays)
	}
}

func TestDeriveTemporal_MissingEndpointsStayNull(t *testing.T) {
	o := model.Order{OrderID: "o1", PurchasedAt: ts("2018-01-01 10:00:00")}
	f := DeriveTemporal(o, nil)
	if f.IsDelivered {
		t.Fatalf("undelivered order flagged delivered")
	}
	if f.DeliveryTimeDays != nil {
		t.Fatalf("delivery_time_days must be null without a delivery date")
	}
	// Conservative default: not late when either side is missing.
	if f.IsLate {
		t.Fatalf("missing delivery date cannot be late")
	}
	if f.DeliveryDelayDays != 0 || !f.DeliverySuccess {
		t.Fatalf("missing delay defaults to 0/success: %+v", f)
	}
	if f.PromisedDeliveryDays != nil || f.ApprovalDelayDays != nil {
		t.Fatalf("null endpoints must propagate as null")
	}
	if f.PurchaseYear == nil || *f.PurchaseYear != 2018 {
		t.Fatalf("purchase_year: %+v", f.PurchaseYear)
	}
	if f.PurchaseMonth == nil || *f.PurchaseMonth != 1 || f.PurchaseDayOfWeek != "Monday" {
		t.Fatalf("purchase date parts: %+v %q", f.PurchaseMonth, f.PurchaseDayOfWeek)
	}
}

func TestDeriveTemporal_NegativeSubDayIntervalFloors(t *testing.T) {
	// Approval recorded an hour before purchase: the day difference floors
	// to -1 rather than truncating to 0.
	o := model.Order{
		OrderID:     "o1",
		PurchasedAt: ts("2018-01-01 10:00:00"),
		ApprovedAt:  ts("2018-01-01 09:00:00"),
	}
	f := DeriveTemporal(o, nil)
	if f.ApprovalDelayDays == nil || *f.ApprovalDelayDays != -1 {
		t.Fatalf("approval_delay_days: %+v", f.ApprovalDelayDays)
	}
}

func TestDeriveTemporal_LatenessIndependentOfClip(t *testing.T) {
	// One day late but under 24h: clipped delay is 0 while IsLate is true.
	o := model.Order{
		OrderID:     "o1",
		PurchasedAt: ts("2018-01-01 10:00:00"),
		DeliveredAt: ts("2018-01-10 20:00:00"),
		EstimatedAt: ts("2018-01-10 10:00:00"),
	}
	f := DeriveTemporal(o, nil)
	if !f.IsLate {
		t.Fatalf("delivered after estimate must be late")
	}
	if f.DeliveryDelayDays != 0 {
		t.Fatalf("sub-day delay truncates to 0, got %d", f.DeliveryDelayDays)
	}
}

func TestDeriveTemporalAll_UsesRepresentativeDeadline(t *testing.T) {
	orders := []model.Order{
		{OrderID: "o1", PurchasedAt: ts("2018-01-01 00:00:00")},
		{OrderID: "o2", PurchasedAt: ts("2018-01-01 00:00:00")},
	}
	rep := map[string]model.OrderItem{
		"o1": {OrderID: "o1", ShippingLimit: ts("2018-01-04 00:00:00")},
	}
	all := DeriveTemporalAll(orders, rep)
	if len(all) != 2 {
		t.Fatalf("want 2 orders, got %d", len(all))
	}
	if all["o1"].ShippingWindowDays == nil || *all["o1"].ShippingWindowDays != 3 {
		t.Fatalf("o1 window: %+v", all["o1"].ShippingWindowDays)
	}
	if all["o2"].ShippingWindowDays != nil {
		t.Fatalf("o2 has no items and no deadline")
	}
}
