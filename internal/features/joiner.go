package features

import (
	"fmt"

	"ofp/internal/model"
)

// unknownReviewScore substitutes a missing review score in the final table.
const unknownReviewScore = 0

// missingDeliveryTimeDays marks orders never delivered in the final table,
// keeping them distinguishable from a same-day delivery.
const missingDeliveryTimeDays = -1

// profitMarginRate approximates the margin on the representative price.
const profitMarginRate = 0.2

// Tables bundles the source tables consumed by the joiner.
type Tables struct {
	Orders       []model.Order
	Items        []model.OrderItem
	Customers    []model.Customer
	Products     []model.Product
	Sellers      []model.Seller
	Reviews      []model.Review
	Translations []model.CategoryTranslation
}

// Derived bundles the order-grain inputs produced by the derivation stages.
// All maps are keyed by order id and must not exceed the distinct order count.
type Derived struct {
	Distances map[string]Distance
	Temporal  map[string]Temporal
	Items     map[string]ItemSummary
	Payments  map[string]PaymentSummary
	RepItems  map[string]model.OrderItem
}

// JoinConfig controls joiner policy.
type JoinConfig struct {
	Dedup DedupPolicy
}

// FanOutError reports a join step that produced more rows than there are
// distinct orders.
type FanOutError struct {
	Step   string
	Orders int
	Rows   int
}

func (e *FanOutError) Error() string {
	return fmt.Sprintf("join step %s fanned out: %d rows for %d orders", e.Step, e.Rows, e.Orders)
}

// Join attaches every joined and derived attribute onto the order table,
// producing exactly one FeatureRecord per distinct order id in the orders
// table's incoming order. Each step is checked against the order grain and a
// violation fails the whole run.
func Join(t Tables, d Derived, cfg JoinConfig) ([]model.FeatureRecord, error) {
	if cfg.Dedup == "" {
		cfg.Dedup = KeepFirst
	}

	orderIDs := make(map[string]bool, len(t.Orders))
	for _, o := range t.Orders {
		orderIDs[o.OrderID] = true
	}
	orderCount := len(orderIDs)

	// Every derived input arrives keyed by order id, so no step below can
	// attach more than one row per order; child rows referencing unknown
	// orders are ignored by the lookups. The one place rows are produced is
	// the loop over orders, checked against orderCount at the end.

	customerByID := make(map[string]model.Customer, len(t.Customers))
	for _, c := range t.Customers {
		customerByID[c.CustomerID] = c
	}
	productByID := make(map[string]model.Product, len(t.Products))
	for _, p := range t.Products {
		productByID[p.ProductID] = p
	}
	sellerByID := make(map[string]model.Seller, len(t.Sellers))
	for _, s := range t.Sellers {
		sellerByID[s.SellerID] = s
	}
	english := make(map[string]string, len(t.Translations))
	for _, tr := range t.Translations {
		english[tr.Category] = tr.English
	}

	// Reviews are deduplicated to one row per order id before their join; the
	// attach below is then a plain lookup and cannot fan out.
	repReviews := RepresentativeReviews(t.Reviews, cfg.Dedup)

	records := make([]model.FeatureRecord, 0, orderCount)
	seen := make(map[string]bool, orderCount)
	for _, o := range t.Orders {
		if seen[o.OrderID] {
			continue
		}
		seen[o.OrderID] = true
		rec := model.FeatureRecord{
			OrderID:     o.OrderID,
			CustomerID:  o.CustomerID,
			OrderStatus: o.Status,
		}

		// Order grain work first: the distance is already collapsed.
		if dist, ok := d.Distances[o.OrderID]; ok {
			rec.CustomerSellerDistanceKM = dist.KM
			rec.LogDistanceSellerCustomer = dist.LogKM
		}

		// Customer attributes: many-to-one, safe.
		if c, ok := customerByID[o.CustomerID]; ok {
			rec.CustomerZipPrefix = c.ZipPrefix
			rec.CustomerCity = c.City
			rec.CustomerState = c.State
		}

		// Item-grain attributes via the representative item, collapsing the
		// one-to-many item join back to order grain.
		if it, ok := d.RepItems[o.OrderID]; ok {
			rec.Price = it.Price
			rec.FreightValue = it.FreightValue
			if s, ok := sellerByID[it.SellerID]; ok {
				rec.SellerID = s.SellerID
				rec.SellerZipPrefix = s.ZipPrefix
				rec.SellerCity = s.City
				rec.SellerState = s.State
			} else {
				rec.SellerID = it.SellerID
			}
			if p, ok := productByID[it.ProductID]; ok {
				pf := DeriveProduct(p)
				rec.ProductID = p.ProductID
				rec.ProductCategory = pf.Category
				rec.ProductCategoryEnglish = english[pf.Category]
				if pf.CategoryMissing {
					rec.IsCategoryMissing = 1
				}
				rec.ProductVolumeCM3 = pf.VolumeCM3
				if pf.LargeProduct {
					rec.IsLargeProduct = 1
				}
				rec.ProductWeightG = p.WeightG
			} else {
				rec.ProductID = it.ProductID
				rec.ProductCategory = unknownCategory
				rec.IsCategoryMissing = 1
			}
		} else {
			rec.ProductCategory = unknownCategory
			rec.IsCategoryMissing = 1
		}

		// Child aggregates: order grain already, default 0 for childless orders.
		is := d.Items[o.OrderID]
		rec.NumItems = is.NumItems
		rec.PriceTotal = is.PriceTotal
		rec.FreightTotal = is.FreightTotal
		rec.TotalPrice = is.PriceTotal + is.FreightTotal
		ps := d.Payments[o.OrderID]
		rec.PaymentValueTotal = ps.ValueTotal
		rec.PaymentInstallmentsTotal = ps.InstallmentsTotal

		// Review features from the deduplicated review.
		if r, ok := repReviews[o.OrderID]; ok {
			rec.ReviewScore = r.Score
			if r.Comment != nil && *r.Comment != "" {
				rec.HasReview = 1
			}
		} else {
			rec.ReviewScore = unknownReviewScore
		}

		// Temporal features with the final-cleanup defaults applied.
		tf := d.Temporal[o.OrderID]
		if tf.IsDelivered {
			rec.IsDelivered = 1
		}
		if tf.DeliveryTimeDays != nil {
			rec.DeliveryTimeDays = *tf.DeliveryTimeDays
		} else {
			rec.DeliveryTimeDays = missingDeliveryTimeDays
		}
		if tf.IsLate {
			rec.IsLate = 1
		}
		rec.ShippingWindowDays = tf.ShippingWindowDays
		rec.PromisedDeliveryDays = tf.PromisedDeliveryDays
		rec.ApprovalDelayDays = tf.ApprovalDelayDays
		rec.DeliveryDelayDays = tf.DeliveryDelayDays
		if tf.DeliverySuccess {
			rec.DeliverySuccess = 1
		}
		rec.PurchaseYear = tf.PurchaseYear
		rec.PurchaseMonth = tf.PurchaseMonth
		rec.PurchaseDay = tf.PurchaseDay
		rec.PurchaseDayOfWeek = tf.PurchaseDayOfWeek

		// Price proxies from the representative row, as downstream reports
		// consume them.
		if rec.Price != nil {
			margin := *rec.Price * profitMarginRate
			rec.ProfitMarginProxy = &margin
			rev := *rec.Price * float64(rec.NumItems)
			rec.Revenue = &rev
			if rec.FreightValue != nil {
				cost := rev + *rec.FreightValue
				rec.TotalCost = &cost
			}
		}
		rec.DeliveredLate = rec.IsLate

		records = append(records, rec)
	}

	if len(records) != orderCount {
		return nil, &FanOutError{Step: "final", Orders: orderCount, Rows: len(records)}
	}
	return records, nil
}

