package features

import "ofp/internal/model"

// Weight and volume thresholds for flagging bulky products.
const (
	largeWeightG   = 10000.0
	largeVolumeCM3 = 100000.0
)

// unknownCategory substitutes a missing product category.
const unknownCategory = "unknown"

// ProductFeatures are the product-level derivations attached to an order's
// representative item.
type ProductFeatures struct {
	Category        string
	CategoryMissing bool
	VolumeCM3       *float64
	LargeProduct    bool
}

// DeriveProduct computes product features for one product. Volume is defined
// only when all three dimensions are present; the large-product flag treats a
// missing weight or volume as not large.
func DeriveProduct(p model.Product) ProductFeatures {
	var f ProductFeatures
	if p.Category != nil && *p.Category != "" {
		f.Category = *p.Category
	} else {
		f.Category = unknownCategory
		f.CategoryMissing = true
	}
	if p.LengthCM != nil && p.HeightCM != nil && p.WidthCM != nil {
		v := *p.LengthCM * *p.HeightCM * *p.WidthCM
		f.VolumeCM3 = &v
	}
	if p.WeightG != nil && *p.WeightG > largeWeightG {
		f.LargeProduct = true
	}
	if f.VolumeCM3 != nil && *f.VolumeCM3 > largeVolumeCM3 {
		f.LargeProduct = true
	}
	return f
}
