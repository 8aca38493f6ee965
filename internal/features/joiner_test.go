package features

import (
	"testing"

	"ofp/internal/geo"
	"ofp/internal/model"
)

// joinFixture builds a small but complete input set: o1 has two items from
// two sellers plus two reviews, o2 has no children at all, o3 has one item
// and no payments.
func joinFixture() (Tables, map[string]geo.Coordinate) {
	coords := map[string]geo.Coordinate{
		"01001": {Lat: -23.555, Lng: -46.635},
	}
	tables := Tables{
		Orders: []model.Order{
			{OrderID: "o1", CustomerID: "c1", Status: "delivered",
				PurchasedAt: ts("2018-01-01 10:00:00"),
				DeliveredAt: ts("2018-01-15 10:00:00"),
				EstimatedAt: ts("2018-01-10 10:00:00")},
			{OrderID: "o2", CustomerID: "c2", Status: "created"},
			{OrderID: "o3", CustomerID: "c1", Status: "shipped",
				PurchasedAt: ts("2018-02-01 10:00:00")},
		},
		Items: []model.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: fp(100), FreightValue: fp(10), ShippingLimit: ts("2018-01-05 10:00:00")},
			{OrderID: "o1", ItemSeq: 2, ProductID: "p2", SellerID: "s2", Price: fp(50), FreightValue: fp(5)},
			{OrderID: "o3", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: fp(30), FreightValue: fp(3)},
		},
		Customers: []model.Customer{
			{CustomerID: "c1", ZipPrefix: "01001", City: "sao paulo", State: "SP"},
			{CustomerID: "c2", ZipPrefix: "99999", City: "manaus", State: "AM"},
		},
		Products: []model.Product{
			{ProductID: "p1", Category: sp("toys"), WeightG: fp(500), LengthCM: fp(10), HeightCM: fp(10), WidthCM: fp(10)},
			{ProductID: "p2"},
		},
		Sellers: []model.Seller{
			{SellerID: "s1", ZipPrefix: "01001", City: "sao paulo", State: "SP"},
			{SellerID: "s2", ZipPrefix: "99999", City: "recife", State: "PE"},
		},
		Reviews: []model.Review{
			{OrderID: "o1", Score: 4, Comment: sp("chegou bem")},
			{OrderID: "o1", Score: 1},
		},
		Translations: []model.CategoryTranslation{{Category: "toys", English: "toys"}},
	}
	return tables, coords
}

func derive(t Tables, coords map[string]geo.Coordinate, policy DedupPolicy, payments []model.Payment) Derived {
	rep := RepresentativeItems(t.Items, policy)
	return Derived{
		Distances: DeriveDistances(t.Orders, t.Items, t.Customers, t.Sellers, coords),
		Temporal:  DeriveTemporalAll(t.Orders, rep),
		Items:     AggregateItems(t.Items),
		Payments:  AggregatePayments(payments),
		RepItems:  rep,
	}
}

func TestJoin_OneRowPerOrder(t *testing.T) {
	tables, coords := joinFixture()
	payments := []model.Payment{
		{OrderID: "o1", PaymentSeq: 1, Value: fp(120), Installments: ip(3)},
		{OrderID: "o1", PaymentSeq: 2, Value: fp(45), Installments: ip(1)},
	}
	recs, err := Join(tables, derive(tables, coords, KeepFirst, payments), JoinConfig{Dedup: KeepFirst})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(recs) != len(tables.Orders) {
		t.Fatalf("fan-out leaked: %d records for %d orders", len(recs), len(tables.Orders))
	}
	byID := map[string]model.FeatureRecord{}
	for _, r := range recs {
		byID[r.OrderID] = r
	}

	o1 := byID["o1"]
	if o1.NumItems != 2 || o1.TotalPrice != 165 {
		t.Fatalf("o1 item features: %+v", o1)
	}
	if o1.PaymentValueTotal != 165 || o1.PaymentInstallmentsTotal != 4 {
		t.Fatalf("o1 payment features: %+v", o1)
	}
	if o1.IsLate != 1 || o1.DeliveryDelayDays != 5 || o1.DeliveredLate != 1 {
		t.Fatalf("o1 lateness: %+v", o1)
	}
	if o1.ReviewScore != 4 || o1.HasReview != 1 {
		t.Fatalf("o1 review (keep first): %+v", o1)
	}
	if o1.SellerID != "s1" || o1.ProductID != "p1" || o1.ProductCategoryEnglish != "toys" {
		t.Fatalf("o1 representative item (keep first): %+v", o1)
	}
	if o1.Revenue == nil || *o1.Revenue != 200 { // first price 100 * 2 items
		t.Fatalf("o1 revenue: %+v", o1.Revenue)
	}
	if o1.ProfitMarginProxy == nil || *o1.ProfitMarginProxy != 20 { // 20% of price 100
		t.Fatalf("o1 profit margin proxy: %+v", o1.ProfitMarginProxy)
	}
	if o1.PurchaseYear == nil || *o1.PurchaseYear != 2018 {
		t.Fatalf("o1 purchase year: %+v", o1.PurchaseYear)
	}
	if o1.TotalCost == nil || *o1.TotalCost != 210 {
		t.Fatalf("o1 total cost: %+v", o1.TotalCost)
	}

	// No payments: default 0 after join, not null.
	o3 := byID["o3"]
	if o3.PaymentValueTotal != 0 || o3.PaymentInstallmentsTotal != 0 {
		t.Fatalf("o3 payments should default to 0: %+v", o3)
	}
	if o3.DeliveryTimeDays != -1 {
		t.Fatalf("undelivered order keeps the -1 sentinel: %+v", o3)
	}

	// No children at all.
	o2 := byID["o2"]
	if o2.NumItems != 0 || o2.TotalPrice != 0 || o2.ReviewScore != 0 || o2.HasReview != 0 {
		t.Fatalf("o2 childless defaults: %+v", o2)
	}
	if o2.CustomerSellerDistanceKM != nil {
		t.Fatalf("o2 has no items, distance must be null")
	}
	if o2.ProfitMarginProxy != nil || o2.Revenue != nil {
		t.Fatalf("o2 has no representative price, proxies must be null")
	}
	if o2.CustomerCity != "manaus" {
		t.Fatalf("o2 customer attributes: %+v", o2)
	}
}

func TestJoin_SharedCoordinateZeroDistance(t *testing.T) {
	tables, coords := joinFixture()
	// Restrict o1 to its same-prefix seller so the mean is exactly 0.
	tables.Items = tables.Items[:1]
	recs, err := Join(tables, derive(tables, coords, KeepFirst, nil), JoinConfig{})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	for _, r := range recs {
		if r.OrderID != "o1" {
			continue
		}
		if r.CustomerSellerDistanceKM == nil || *r.CustomerSellerDistanceKM != 0 {
			t.Fatalf("shared coordinate should give 0 km: %+v", r.CustomerSellerDistanceKM)
		}
		if r.LogDistanceSellerCustomer == nil || *r.LogDistanceSellerCustomer != 0 {
			t.Fatalf("log distance should be 0: %+v", r.LogDistanceSellerCustomer)
		}
	}
}

func TestJoin_KeepLastPolicy(t *testing.T) {
	tables, coords := joinFixture()
	recs, err := Join(tables, derive(tables, coords, KeepLast, nil), JoinConfig{Dedup: KeepLast})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	for _, r := range recs {
		if r.OrderID != "o1" {
			continue
		}
		if r.SellerID != "s2" || r.ProductID != "p2" {
			t.Fatalf("keep_last representative item: %+v", r)
		}
		if r.ReviewScore != 1 || r.HasReview != 0 {
			t.Fatalf("keep_last review: %+v", r)
		}
		if r.ProductCategory != "unknown" || r.IsCategoryMissing != 1 {
			t.Fatalf("p2 has no category: %+v", r)
		}
	}
}

func TestJoin_DuplicateOrderRowsCollapse(t *testing.T) {
	tables, coords := joinFixture()
	tables.Orders = append(tables.Orders, tables.Orders[0])
	recs, err := Join(tables, derive(tables, coords, KeepFirst, nil), JoinConfig{})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("cardinality must follow distinct order ids: got %d", len(recs))
	}
}
