package features

import (
	"fmt"

	"ofp/internal/model"
)

// DedupPolicy selects the representative row when a one-to-many join fans out
// to more than one candidate per order.
type DedupPolicy string

const (
	// KeepFirst keeps the first row in the table's incoming order.
	KeepFirst DedupPolicy = "keep_first"
	// KeepLast keeps the last row in the table's incoming order.
	KeepLast DedupPolicy = "keep_last"
)

// ParseDedupPolicy validates a policy name.
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch DedupPolicy(s) {
	case KeepFirst, KeepLast:
		return DedupPolicy(s), nil
	}
	return "", fmt.Errorf("unknown dedup policy %q (want %s or %s)", s, KeepFirst, KeepLast)
}

// RepresentativeItems collapses order items to one row per order according to
// the policy. The representative row supplies the item-grain attributes
// (product, seller, price, freight, shipping deadline) after the item join.
func RepresentativeItems(items []model.OrderItem, policy DedupPolicy) map[string]model.OrderItem {
	out := make(map[string]model.OrderItem)
	for _, it := range items {
		if _, seen := out[it.OrderID]; seen && policy == KeepFirst {
			continue
		}
		out[it.OrderID] = it
	}
	return out
}

// RepresentativeReviews collapses reviews to one row per order according to
// the policy.
func RepresentativeReviews(reviews []model.Review, policy DedupPolicy) map[string]model.Review {
	out := make(map[string]model.Review)
	for _, r := range reviews {
		if _, seen := out[r.OrderID]; seen && policy == KeepFirst {
			continue
		}
		out[r.OrderID] = r
	}
	return out
}
