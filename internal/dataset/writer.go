package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ofp/internal/model"
)

// featureColumns is the stable output header. Row rendering below must stay
// aligned with it.
var featureColumns = []string{
	"order_id", "customer_id", "order_status",
	"customer_zip_code_prefix", "customer_city", "customer_state",
	"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	"product_id", "product_category_name", "product_category_name_english",
	"is_category_missing", "product_volume_cm3", "is_large_product", "product_weight_g",
	"price", "freight_value",
	"customer_seller_distance_km", "log_distance_seller_customer",
	"is_delivered", "delivery_time_days", "is_late",
	"shipping_window_days", "promised_delivery_days", "approval_delay_days",
	"delivery_delay_days", "delivery_success",
	"purchase_year", "purchase_month", "purchase_day", "purchase_dayofweek",
	"num_items", "price_total", "freight_total", "total_price",
	"payment_value_total", "payment_installments_total",
	"review_score", "has_review",
	"profit_margin_proxy", "revenue", "total_cost", "delivered_late",
}

// WriteFeatures writes the feature table as a flat CSV. Output is fully
// determined by the records: rerunning on identical input produces a
// byte-identical file.
func WriteFeatures(path string, records []model.FeatureRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(featureColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(featureRow(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.OrderID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func featureRow(r model.FeatureRecord) []string {
	return []string{
		r.OrderID, r.CustomerID, r.OrderStatus,
		r.CustomerZipPrefix, r.CustomerCity, r.CustomerState,
		r.SellerID, r.SellerZipPrefix, r.SellerCity, r.SellerState,
		r.ProductID, r.ProductCategory, r.ProductCategoryEnglish,
		itoa(r.IsCategoryMissing), ftoaPtr(r.ProductVolumeCM3), itoa(r.IsLargeProduct), ftoaPtr(r.ProductWeightG),
		ftoaPtr(r.Price), ftoaPtr(r.FreightValue),
		ftoaPtr(r.CustomerSellerDistanceKM), ftoaPtr(r.LogDistanceSellerCustomer),
		itoa(r.IsDelivered), itoa(r.DeliveryTimeDays), itoa(r.IsLate),
		itoaPtr(r.ShippingWindowDays), itoaPtr(r.PromisedDeliveryDays), itoaPtr(r.ApprovalDelayDays),
		itoa(r.DeliveryDelayDays), itoa(r.DeliverySuccess),
		itoaPtr(r.PurchaseYear), itoaPtr(r.PurchaseMonth), itoaPtr(r.PurchaseDay), r.PurchaseDayOfWeek,
		itoa(r.NumItems), ftoa(r.PriceTotal), ftoa(r.FreightTotal), ftoa(r.TotalPrice),
		ftoa(r.PaymentValueTotal), itoa(r.PaymentInstallmentsTotal),
		itoa(r.ReviewScore), itoa(r.HasReview),
		ftoaPtr(r.ProfitMarginProxy), ftoaPtr(r.Revenue), ftoaPtr(r.TotalCost), itoa(r.DeliveredLate),
	}
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Nil pointers render as empty cells, keeping null distinguishable from 0.
func itoaPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func ftoaPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
