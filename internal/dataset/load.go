package dataset

import (
	"os"
	"path/filepath"

	"ofp/internal/model"
)

// File names of the cleaned extracts inside the data directory.
const (
	OrdersFile       = "order_clean.csv"
	ItemsFile        = "order_item_clean.csv"
	CustomersFile    = "customer_clean.csv"
	ProductsFile     = "product_clean.csv"
	SellersFile      = "seller_clean.csv"
	PaymentsFile     = "order_payment_clean.csv"
	ReviewsFile      = "order_review_clean.csv"
	GeolocationFile  = "geolocation_clean.csv"
	TranslationsFile = "category_translation_clean.csv"
)

// Bundle holds the materialized source tables for one run. All tables are
// read once and never mutated by the engine.
type Bundle struct {
	Orders       []model.Order
	Items        []model.OrderItem
	Customers    []model.Customer
	Products     []model.Product
	Sellers      []model.Seller
	Payments     []model.Payment
	Reviews      []model.Review
	Geolocation  []model.Geolocation
	Translations []model.CategoryTranslation
}

// RowCounts reports rows per table, keyed by table name.
func (b *Bundle) RowCounts() map[string]int {
	return map[string]int{
		"orders":       len(b.Orders),
		"order_items":  len(b.Items),
		"customers":    len(b.Customers),
		"products":     len(b.Products),
		"sellers":      len(b.Sellers),
		"payments":     len(b.Payments),
		"reviews":      len(b.Reviews),
		"geolocation":  len(b.Geolocation),
		"translations": len(b.Translations),
	}
}

// Rows is the total row count across all tables.
func (b *Bundle) Rows() int {
	n := 0
	for _, c := range b.RowCounts() {
		n += c
	}
	return n
}

// Load reads all source tables from dir. A missing required table or column
// aborts the load; the category translation table is optional.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}
	var err error
	if b.Orders, err = LoadOrders(filepath.Join(dir, OrdersFile)); err != nil {
		return nil, err
	}
	if b.Items, err = LoadItems(filepath.Join(dir, ItemsFile)); err != nil {
		return nil, err
	}
	if b.Customers, err = LoadCustomers(filepath.Join(dir, CustomersFile)); err != nil {
		return nil, err
	}
	if b.Products, err = LoadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, err
	}
	if b.Sellers, err = LoadSellers(filepath.Join(dir, SellersFile)); err != nil {
		return nil, err
	}
	if b.Payments, err = LoadPayments(filepath.Join(dir, PaymentsFile)); err != nil {
		return nil, err
	}
	if b.Reviews, err = LoadReviews(filepath.Join(dir, ReviewsFile)); err != nil {
		return nil, err
	}
	if b.Geolocation, err = LoadGeolocation(filepath.Join(dir, GeolocationFile)); err != nil {
		return nil, err
	}
	trPath := filepath.Join(dir, TranslationsFile)
	if _, statErr := os.Stat(trPath); statErr == nil {
		if b.Translations, err = LoadTranslations(trPath); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadOrders reads the orders extract.
func LoadOrders(path string) ([]model.Order, error) {
	t, err := readTable(path, "orders", []string{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at",
		"order_delivered_carrier_date", "order_delivered_customer_date",
		"order_estimated_delivery_date",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Order{
			OrderID:     t.str(row, "order_id"),
			CustomerID:  t.str(row, "customer_id"),
			Status:      t.str(row, "order_status"),
			PurchasedAt: t.timePtr(row, "order_purchase_timestamp"),
			ApprovedAt:  t.timePtr(row, "order_approved_at"),
			CarrierAt:   t.timePtr(row, "order_delivered_carrier_date"),
			DeliveredAt: t.timePtr(row, "order_delivered_customer_date"),
			EstimatedAt: t.timePtr(row, "order_estimated_delivery_date"),
		})
	}
	return out, nil
}

// LoadItems reads the order items extract.
func LoadItems(path string) ([]model.OrderItem, error) {
	t, err := readTable(path, "order_items", []string{
		"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.OrderItem, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.OrderItem{
			OrderID:       t.str(row, "order_id"),
			ItemSeq:       t.intOr(row, "order_item_id", 0),
			ProductID:     t.str(row, "product_id"),
			SellerID:      t.str(row, "seller_id"),
			ShippingLimit: t.timePtr(row, "shipping_limit_date"),
			Price:         t.floatPtr(row, "price"),
			FreightValue:  t.floatPtr(row, "freight_value"),
		})
	}
	return out, nil
}

// LoadCustomers reads the customers extract.
func LoadCustomers(path string) ([]model.Customer, error) {
	t, err := readTable(path, "customers", []string{
		"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Customer, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Customer{
			CustomerID: t.str(row, "customer_id"),
			ZipPrefix:  t.str(row, "customer_zip_code_prefix"),
			City:       t.str(row, "customer_city"),
			State:      t.str(row, "customer_state"),
		})
	}
	return out, nil
}

// LoadProducts reads the products extract.
func LoadProducts(path string) ([]model.Product, error) {
	t, err := readTable(path, "products", []string{
		"product_id", "product_category_name", "product_weight_g",
		"product_length_cm", "product_height_cm", "product_width_cm",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Product{
			ProductID: t.str(row, "product_id"),
			Category:  t.strPtr(row, "product_category_name"),
			WeightG:   t.floatPtr(row, "product_weight_g"),
			LengthCM:  t.floatPtr(row, "product_length_cm"),
			HeightCM:  t.floatPtr(row, "product_height_cm"),
			WidthCM:   t.floatPtr(row, "product_width_cm"),
		})
	}
	return out, nil
}

// LoadSellers reads the sellers extract.
func LoadSellers(path string) ([]model.Seller, error) {
	t, err := readTable(path, "sellers", []string{
		"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Seller, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Seller{
			SellerID:  t.str(row, "seller_id"),
			ZipPrefix: t.str(row, "seller_zip_code_prefix"),
			City:      t.str(row, "seller_city"),
			State:     t.str(row, "seller_state"),
		})
	}
	return out, nil
}

// LoadPayments reads the payments extract.
func LoadPayments(path string) ([]model.Payment, error) {
	t, err := readTable(path, "payments", []string{
		"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Payment, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Payment{
			OrderID:      t.str(row, "order_id"),
			PaymentSeq:   t.intOr(row, "payment_sequential", 0),
			Type:         t.str(row, "payment_type"),
			Installments: t.intPtr(row, "payment_installments"),
			Value:        t.floatPtr(row, "payment_value"),
		})
	}
	return out, nil
}

// LoadReviews reads the reviews extract.
func LoadReviews(path string) ([]model.Review, error) {
	t, err := readTable(path, "reviews", []string{
		"order_id", "review_score", "review_comment_message",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Review, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Review{
			OrderID: t.str(row, "order_id"),
			Score:   t.intOr(row, "review_score", 0),
			Comment: t.strPtr(row, "review_comment_message"),
		})
	}
	return out, nil
}

// LoadGeolocation reads the geolocation extract. Samples without parseable
// coordinates are skipped rather than resolved into fabricated points.
func LoadGeolocation(path string) ([]model.Geolocation, error) {
	t, err := readTable(path, "geolocation", []string{
		"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Geolocation, 0, len(t.rows))
	for _, row := range t.rows {
		lat := t.floatPtr(row, "geolocation_lat")
		lng := t.floatPtr(row, "geolocation_lng")
		if lat == nil || lng == nil {
			continue
		}
		out = append(out, model.Geolocation{
			ZipPrefix: t.str(row, "geolocation_zip_code_prefix"),
			Lat:       *lat,
			Lng:       *lng,
		})
	}
	return out, nil
}

// LoadTranslations reads the optional category translation table.
func LoadTranslations(path string) ([]model.CategoryTranslation, error) {
	t, err := readTable(path, "translations", []string{
		"product_category_name", "product_category_name_english",
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.CategoryTranslation, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.CategoryTranslation{
			Category: t.str(row, "product_category_name"),
			English:  t.str(row, "product_category_name_english"),
		})
	}
	return out, nil
}
