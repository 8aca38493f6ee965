package features

import (
	"math"

	"ofp/internal/geo"
	"ofp/internal/model"
)

// Distance is the order-grain customer-seller distance. Both fields are nil
// when no item of the order had both endpoint coordinates.
type Distance struct {
	KM    *float64
	LogKM *float64
}

// DeriveDistances computes the great-circle distance between each order's
// customer and the seller of each of its items, then collapses the per-item
// distances to one mean per order. An item contributes only when both the
// customer and seller prefixes resolved to a coordinate; the output never has
// more entries than there are distinct order ids.
func DeriveDistances(orders []model.Order, items []model.OrderItem, customers []model.Customer, sellers []model.Seller, coords map[string]geo.Coordinate) map[string]Distance {
	customerCoord := make(map[string]*geo.Coordinate, len(customers))
	for _, c := range customers {
		if co, ok := coords[c.ZipPrefix]; ok {
			cc := co
			customerCoord[c.CustomerID] = &cc
		}
	}
	sellerCoord := make(map[string]*geo.Coordinate, len(sellers))
	for _, s := range sellers {
		if co, ok := coords[s.ZipPrefix]; ok {
			sc := co
			sellerCoord[s.SellerID] = &sc
		}
	}
	orderCustomer := make(map[string]string, len(orders))
	for _, o := range orders {
		orderCustomer[o.OrderID] = o.CustomerID
	}

	type accum struct {
		sum float64
		n   int
	}
	sums := make(map[string]*accum)
	for _, it := range items {
		customerID, ok := orderCustomer[it.OrderID]
		if !ok {
			// Item references an order outside the order table; the output
			// grain is the order table's.
			continue
		}
		a := sums[it.OrderID]
		if a == nil {
			a = &accum{}
			sums[it.OrderID] = a
		}
		cc := customerCoord[customerID]
		sc := sellerCoord[it.SellerID]
		if cc == nil || sc == nil {
			continue
		}
		a.sum += geo.Haversine(*cc, *sc)
		a.n++
	}

	out := make(map[string]Distance, len(sums))
	for orderID, a := range sums {
		var d Distance
		if a.n > 0 {
			km := a.sum / float64(a.n)
			lg := math.Log1p(km)
			d.KM = &km
			d.LogKM = &lg
		}
		out[orderID] = d
	}
	return out
}
