package model

import "strings"

// Field names of a pricing request, in display and validation order
const (
	FieldCoupon                  = "coupon"
	FieldMaturityYears           = "maturity_years"
	FieldWeightedAverageCoupon   = "weighted_average_coupon"
	FieldWeightedAverageMaturity = "weighted_average_maturity"
	FieldOptionAdjustedSpread    = "option_adjusted_spread"
	FieldPSASpeed                = "psa_speed"
)

// Fields is the enumeration order of PricingRequest attributes
var Fields = []string{
	FieldCoupon,
	FieldMaturityYears,
	FieldWeightedAverageCoupon,
	FieldWeightedAverageMaturity,
	FieldOptionAdjustedSpread,
	FieldPSASpeed,
}

// PricingRequest represents the agency MBS parameters sent to the prediction backend
type PricingRequest struct {
	Coupon                  float64 `json:"coupon"`
	MaturityYears           float64 `json:"maturity_years"`
	WeightedAverageCoupon   float64 `json:"weighted_average_coupon"`
	WeightedAverageMaturity float64 `json:"weighted_average_maturity"` // months
	OptionAdjustedSpread    float64 `json:"option_adjusted_spread"`    // basis points
	PSASpeed                float64 `json:"psa_speed"`                 // percent of the PSA benchmark
}

// PredictionResult represents the price returned by the prediction backend
type PredictionResult struct {
	PredictedMarketPrice float64 `json:"predicted_market_price"`
}

// DefaultPricingRequest returns the values the form starts with
func DefaultPricingRequest() PricingRequest {
	return PricingRequest{
		Coupon:                  3.5,
		MaturityYears:           30,
		WeightedAverageCoupon:   3.5,
		WeightedAverageMaturity: 360,
		OptionAdjustedSpread:    18,
		PSASpeed:                100,
	}
}

// Get returns the value of the named field
func (r *PricingRequest) Get(name string) (float64, bool) {
	p := r.fieldPtr(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set replaces the value of the named field
func (r *PricingRequest) Set(name string, value float64) bool {
	p := r.fieldPtr(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (r *PricingRequest) fieldPtr(name string) *float64 {
	switch name {
	case FieldCoupon:
		return &r.Coupon
	case FieldMaturityYears:
		return &r.MaturityYears
	case FieldWeightedAverageCoupon:
		return &r.WeightedAverageCoupon
	case FieldWeightedAverageMaturity:
		return &r.WeightedAverageMaturity
	case FieldOptionAdjustedSpread:
		return &r.OptionAdjustedSpread
	case FieldPSASpeed:
		return &r.PSASpeed
	}
	return nil
}

// IsField reports whether name is one of the pricing request fields
func IsField(name string) bool {
	var r PricingRequest
	return r.fieldPtr(name) != nil
}

// FieldLabel turns a field name into its human readable label
func FieldLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
