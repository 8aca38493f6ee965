package model

import "time"

// Order is one row of the orders extract. All lifecycle timestamps are
// nullable; the cleaning step upstream coerces malformed values to null.
type Order struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt *time.Time
	ApprovedAt  *time.Time
	CarrierAt   *time.Time
	DeliveredAt *time.Time
	EstimatedAt *time.Time
}

// OrderItem is one line of an order. (OrderID, ItemSeq) is the composite key;
// ItemSeq may be gapped in dirty extracts.
type OrderItem struct {
	OrderID       string
	ItemSeq       int
	ProductID     string
	SellerID      string
	ShippingLimit *time.Time
	Price         *float64
	FreightValue  *float64
}

// Customer is one row of the customers extract.
type Customer struct {
	CustomerID string
	ZipPrefix  string
	City       string
	State      string
}

// Seller is one row of the sellers extract.
type Seller struct {
	SellerID  string
	ZipPrefix string
	City      string
	State     string
}

// Product is one row of the products extract. Physical dimensions are
// nullable independently of each other.
type Product struct {
	ProductID string
	Category  *string
	LengthCM  *float64
	HeightCM  *float64
	WidthCM   *float64
	WeightG   *float64
}

// Payment is one payment leg of an order, keyed by (OrderID, PaymentSeq).
type Payment struct {
	OrderID      string
	PaymentSeq   int
	Type         string
	Installments *int
	Value        *float64
}

// Review is one review of an order. An order may have zero or more reviews.
type Review struct {
	OrderID string
	Score   int
	Comment *string
}

// Geolocation is one raw coordinate sample for a postal prefix. Prefixes
// repeat; the resolver collapses samples to one coordinate per prefix.
type Geolocation struct {
	ZipPrefix string
	Lat       float64
	Lng       float64
}

// CategoryTranslation maps a product category name to its English name.
type CategoryTranslation struct {
	Category string
	English  string
}

// FeatureRecord is one order-grain row of the output feature table. Pointer
// fields stay nil where the per-feature null policy keeps them null; the
// remaining flags and totals carry their documented defaults.
type FeatureRecord struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	OrderStatus string `json:"order_status"`

	CustomerZipPrefix string `json:"customer_zip_code_prefix"`
	CustomerCity      string `json:"customer_city"`
	CustomerState     string `json:"customer_state"`

	SellerID        string `json:"seller_id"`
	SellerZipPrefix string `json:"seller_zip_code_prefix"`
	SellerCity      string `json:"seller_city"`
	SellerState     string `json:"seller_state"`

	ProductID              string   `json:"product_id"`
	ProductCategory        string   `json:"product_category_name"`
	ProductCategoryEnglish string   `json:"product_category_name_english"`
	IsCategoryMissing      int      `json:"is_category_missing"`
	ProductVolumeCM3       *float64 `json:"product_volume_cm3"`
	IsLargeProduct         int      `json:"is_large_product"`
	ProductWeightG         *float64 `json:"product_weight_g"`
	Price                  *float64 `json:"price"`
	FreightValue           *float64 `json:"freight_value"`

	CustomerSellerDistanceKM  *float64 `json:"customer_seller_distance_km"`
	LogDistanceSellerCustomer *float64 `json:"log_distance_seller_customer"`

	IsDelivered          int    `json:"is_delivered"`
	DeliveryTimeDays     int    `json:"delivery_time_days"`
	IsLate               int    `json:"is_late"`
	ShippingWindowDays   *int   `json:"shipping_window_days"`
	PromisedDeliveryDays *int   `json:"promised_delivery_days"`
	ApprovalDelayDays    *int   `json:"approval_delay_days"`
	DeliveryDelayDays    int    `json:"delivery_delay_days"`
	DeliverySuccess      int    `json:"delivery_success"`
	PurchaseYear         *int   `json:"purchase_year"`
	PurchaseMonth        *int   `json:"purchase_month"`
	PurchaseDay          *int   `json:"purchase_day"`
	PurchaseDayOfWeek    string `json:"purchase_dayofweek"`

	NumItems                 int     `json:"num_items"`
	PriceTotal               float64 `json:"price_total"`
	FreightTotal             float64 `json:"freight_total"`
	TotalPrice               float64 `json:"total_price"`
	PaymentValueTotal        float64 `json:"payment_value_total"`
	PaymentInstallmentsTotal int     `json:"payment_installments_total"`

	ReviewScore int `json:"review_score"`
	HasReview   int `json:"has_review"`

	ProfitMarginProxy *float64 `json:"profit_margin_proxy"`
	Revenue           *float64 `json:"revenue"`
	TotalCost         *float64 `json:"total_cost"`
	DeliveredLate     int      `json:"delivered_late"`
}
