package features

import (
	"math"
	"testing"

	"ofp/internal/geo"
	"ofp/internal/model"
)

var testCoords = map[string]geo.Coordinate{
	"01001": {Lat: -23.555, Lng: -46.635}, // Sao Paulo
	"22041": {Lat: -22.984, Lng: -43.198}, // Rio
}

func distanceFixture() ([]model.Order, []model.Customer, []model.Seller) {
	orders := []model.Order{
		{OrderID: "o1", CustomerID: "c1"},
		{OrderID: "o2", CustomerID: "c2"},
	}
	customers := []model.Customer{
		{CustomerID: "c1", ZipPrefix: "01001"},
		{CustomerID: "c2", ZipPrefix: "99999"}, // unresolved prefix
	}
	sellers := []model.Seller{
		{SellerID: "s1", ZipPrefix: "01001"},
		{SellerID: "s2", ZipPrefix: "22041"},
		{SellerID: "s3", ZipPrefix: "99999"},
	}
	return orders, customers, sellers
}

func TestDeriveDistances_SharedCoordinateIsZero(t *testing.T) {
	orders, customers, sellers := distanceFixture()
	items := []model.OrderItem{{OrderID: "o1", ItemSeq: 1, SellerID: "s1"}}
	d := DeriveDistances(orders, items, customers, sellers, testCoords)
	got, ok := d["o1"]
	if !ok || got.KM == nil {
		t.Fatalf("expected a distance for o1: %+v", got)
	}
	if *got.KM != 0 {
		t.Fatalf("same resolved coordinate should be 0 km, got %f", *got.KM)
	}
	if got.LogKM == nil || *got.LogKM != 0 {
		t.Fatalf("log1p(0) should be 0: %+v", got.LogKM)
	}
}

func TestDeriveDistances_NullCoordinateIsNullNotZero(t *testing.T) {
	orders, customers, sellers := distanceFixture()
	items := []model.OrderItem{
		{OrderID: "o1", ItemSeq: 1, SellerID: "s3"}, // seller prefix unresolved
		{OrderID: "o2", ItemSeq: 1, SellerID: "s1"}, // customer prefix unresolved
	}
	d := DeriveDistances(orders, items, customers, sellers, testCoords)
	for _, id := range []string{"o1", "o2"} {
		got, ok := d[id]
		if !ok {
			t.Fatalf("order %s with items should appear", id)
		}
		if got.KM != nil || got.LogKM != nil {
			t.Fatalf("order %s: missing coordinate must yield null, got %+v", id, got)
		}
	}
}

func TestDeriveDistances_MultiItemMeanSkipsNull(t *testing.T) {
	orders, customers, sellers := distanceFixture()
	items := []model.OrderItem{
		{OrderID: "o1", ItemSeq: 1, SellerID: "s1"}, // 0 km
		{OrderID: "o1", ItemSeq: 2, SellerID: "s2"}, // ~360 km
		{OrderID: "o1", ItemSeq: 3, SellerID: "s3"}, // null, excluded from the mean
	}
	d := DeriveDistances(orders, items, customers, sellers, testCoords)
	got := d["o1"]
	if got.KM == nil {
		t.Fatalf("expected non-null mean")
	}
	spRio := geo.Haversine(testCoords["01001"], testCoords["22041"])
	want := spRio / 2
	if math.Abs(*got.KM-want) > 1e-9 {
		t.Fatalf("mean over non-null items: want %f, got %f", want, *got.KM)
	}
	if math.Abs(*got.LogKM-math.Log1p(want)) > 1e-9 {
		t.Fatalf("log distance mismatch: %f", *got.LogKM)
	}
}

func TestDeriveDistances_NeverExceedsOrderGrain(t *testing.T) {
	orders, customers, sellers := distanceFixture()
	items := []model.OrderItem{
		{OrderID: "o1", ItemSeq: 1, SellerID: "s1"},
		{OrderID: "o1", ItemSeq: 2, SellerID: "s2"},
		{OrderID: "o2", ItemSeq: 1, SellerID: "s2"},
		{OrderID: "zz", ItemSeq: 1, SellerID: "s1"}, // unknown order
	}
	d := DeriveDistances(orders, items, customers, sellers, testCoords)
	if len(d) > len(orders) {
		t.Fatalf("distance output fanned out: %d rows for %d orders", len(d), len(orders))
	}
	if _, ok := d["zz"]; ok {
		t.Fatalf("items outside the order table must not create rows")
	}
}
