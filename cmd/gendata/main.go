package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"ofp/internal/dataset"
)

func main() {
	var outDir string
	var orders int
	var seed int64
	flag.StringVar(&outDir, "out-dir", "./data/processed", "directory to write the source tables")
	flag.IntVar(&orders, "orders", 200, "number of orders to generate")
	flag.Int64Var(&seed, "seed", 1, "random seed, same seed reproduces the same tables")
	flag.Parse()

	if err := generate(outDir, orders, seed); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

var (
	categories = []string{"cama_mesa_banho", "beleza_saude", "esporte_lazer", "informatica_acessorios", "brinquedos"}
	english    = []string{"bed_bath_table", "health_beauty", "sports_leisure", "computers_accessories", "toys"}
	payTypes   = []string{"credit_card", "boleto", "voucher", "debit_card"}
	states     = []string{"SP", "RJ", "MG", "RS", "PR"}
)

func generate(outDir string, orders int, seed int64) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))

	nProducts := orders/4 + 5
	nSellers := orders/10 + 3
	nZips := nSellers + orders

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	ts := func(t time.Time) string { return t.Format(dataset.TimeLayout) }

	// Geolocation: a handful of samples per zip prefix around Sao Paulo.
	geo := [][]string{{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"}}
	for z := 0; z < nZips; z++ {
		prefix := fmt.Sprintf("%05d", 1000+z)
		for s := 0; s < 3; s++ {
			lat := -23.5 + rng.Float64()*2 - 1
			lng := -46.6 + rng.Float64()*2 - 1
			geo = append(geo, []string{prefix, ftoa(lat), ftoa(lng)})
		}
	}

	products := [][]string{{"product_id", "product_category_name", "product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm"}}
	for p := 0; p < nProducts; p++ {
		cat := categories[rng.Intn(len(categories))]
		if rng.Float64() < 0.05 {
			cat = "" // missing category
		}
		products = append(products, []string{
			fmt.Sprintf("p%04d", p),
			cat,
			ftoa(100 + rng.Float64()*14900),
			ftoa(5 + rng.Float64()*95),
			ftoa(2 + rng.Float64()*58),
			ftoa(5 + rng.Float64()*55),
		})
	}

	sellers := [][]string{{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"}}
	for s := 0; s < nSellers; s++ {
		sellers = append(sellers, []string{
			fmt.Sprintf("s%04d", s),
			fmt.Sprintf("%05d", 1000+s),
			"sao paulo",
			states[rng.Intn(len(states))],
		})
	}

	customers := [][]string{{"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state"}}
	orderRows := [][]string{{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date", "order_delivered_customer_date", "order_estimated_delivery_date"}}
	items := [][]string{{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"}}
	payments := [][]string{{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"}}
	reviews := [][]string{{"order_id", "review_score", "review_comment_message"}}

	for o := 0; o < orders; o++ {
		orderID := fmt.Sprintf("o%06d", o)
		customerID := fmt.Sprintf("c%06d", o)
		customers = append(customers, []string{
			customerID,
			fmt.Sprintf("%05d", 1000+nSellers+o),
			"rio de janeiro",
			states[rng.Intn(len(states))],
		})

		purchased := base.Add(time.Duration(o) * time.Hour)
		approved := purchased.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
		carrier := approved.Add(time.Duration(12+rng.Intn(72)) * time.Hour)
		estimated := purchased.Add(time.Duration(10+rng.Intn(20)) * 24 * time.Hour)
		status := "delivered"
		deliveredCell := ""
		if rng.Float64() < 0.9 {
			delivered := carrier.Add(time.Duration(24+rng.Intn(30*24)) * time.Hour)
			deliveredCell = ts(delivered)
		} else {
			status = "shipped" // in flight, no delivery timestamp
		}
		orderRows = append(orderRows, []string{
			orderID, customerID, status,
			ts(purchased), ts(approved), ts(carrier), deliveredCell, ts(estimated),
		})

		nItems := 1 + rng.Intn(3)
		var total float64
		for i := 1; i <= nItems; i++ {
			price := 10 + rng.Float64()*490
			freight := 5 + rng.Float64()*45
			total += price + freight
			items = append(items, []string{
				orderID,
				fmt.Sprintf("%d", i),
				fmt.Sprintf("p%04d", rng.Intn(nProducts)),
				fmt.Sprintf("s%04d", rng.Intn(nSellers)),
				ts(approved.Add(7 * 24 * time.Hour)),
				ftoa(price),
				ftoa(freight),
			})
		}

		payments = append(payments, []string{
			orderID, "1",
			payTypes[rng.Intn(len(payTypes))],
			fmt.Sprintf("%d", 1+rng.Intn(10)),
			ftoa(total),
		})

		if rng.Float64() < 0.85 {
			comment := ""
			if rng.Float64() < 0.4 {
				comment = "entrega rapida, recomendo"
			}
			reviews = append(reviews, []string{
				orderID,
				fmt.Sprintf("%d", 1+rng.Intn(5)),
				comment,
			})
		}
	}

	translations := [][]string{{"product_category_name", "product_category_name_english"}}
	for i, cat := range categories {
		translations = append(translations, []string{cat, english[i]})
	}

	tables := []struct {
		file string
		rows [][]string
	}{
		{dataset.OrdersFile, orderRows},
		{dataset.ItemsFile, items},
		{dataset.CustomersFile, customers},
		{dataset.ProductsFile, products},
		{dataset.SellersFile, sellers},
		{dataset.PaymentsFile, payments},
		{dataset.ReviewsFile, reviews},
		{dataset.GeolocationFile, geo},
		{dataset.TranslationsFile, translations},
	}
	for _, tb := range tables {
		if err := writeCSV(filepath.Join(outDir, tb.file), tb.rows); err != nil {
			return err
		}
		log.Printf("wrote %s (%d rows)", tb.file, len(tb.rows)-1)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ftoa(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
