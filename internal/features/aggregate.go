package features

import "ofp/internal/model"

// ItemSummary is the order-grain reduction of the order items table.
type ItemSummary struct {
	NumItems     int
	PriceTotal   float64
	FreightTotal float64
}

// PaymentSummary is the order-grain reduction of the payments table. Missing
// values and installment counts are summed as 0, not excluded.
type PaymentSummary struct {
	ValueTotal        float64
	InstallmentsTotal int
}

// AggregateItems reduces order items to one summary per order. NumItems is
// the maximum item sequence seen, which tolerates gapped sequences; totals
// sum price and freight across all item rows. Orders without items are absent.
func AggregateItems(items []model.OrderItem) map[string]ItemSummary {
	out := make(map[string]ItemSummary)
	for _, it := range items {
		s := out[it.OrderID]
		if it.ItemSeq > s.NumItems {
			s.NumItems = it.ItemSeq
		}
		if it.Price != nil {
			s.PriceTotal += *it.Price
		}
		if it.FreightValue != nil {
			s.FreightTotal += *it.FreightValue
		}
		out[it.OrderID] = s
	}
	return out
}

// AggregatePayments reduces payments to one summary per order. Orders without
// payment rows are absent; the joiner default-fills them to 0.
func AggregatePayments(payments []model.Payment) map[string]PaymentSummary {
	out := make(map[string]PaymentSummary)
	for _, p := range payments {
		s := out[p.OrderID]
		if p.Value != nil {
			s.ValueTotal += *p.Value
		}
		if p.Installments != nil {
			s.InstallmentsTotal += *p.Installments
		}
		out[p.OrderID] = s
	}
	return out
}
