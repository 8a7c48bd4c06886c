// Package render projects form state onto the pricing page.
package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mbs-pricing-ui/internal/form"
	"mbs-pricing-ui/internal/model"
)

const (
	SubmitLabel        = "Get Predicted Market Price"
	SubmitLabelWorking = "Predicting..."
)

// FieldView is one labeled numeric input
type FieldView struct {
	Name  string
	Label string
	Value string
}

// View is everything the page template needs
type View struct {
	BasePath    string
	Fields      []FieldView
	Loading     bool
	SubmitLabel string
	Price       string // "$104.25", empty when there is no result
	Error       string
}

// ShowPrice reports whether the price panel is rendered
func (v View) ShowPrice() bool {
	return v.Price != ""
}

// ShowError reports whether the error panel is rendered
func (v View) ShowError() bool {
	return v.Error != ""
}

// Prefix returns the base path with a trailing slash for building page links
func (v View) Prefix() string {
	return PathPrefix(v.BasePath)
}

// PathPrefix returns base with exactly one trailing slash
func PathPrefix(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

// NewView builds the page view for state
func NewView(state *form.State, basePath string) View {
	v := View{
		BasePath:    basePath,
		Fields:      make([]FieldView, 0, len(model.Fields)),
		Loading:     state.Loading,
		SubmitLabel: SubmitLabel,
		Error:       state.Error,
	}

	for _, name := range model.Fields {
		value, _ := state.Request.Get(name)
		v.Fields = append(v.Fields, FieldView{
			Name:  name,
			Label: model.FieldLabel(name),
			Value: FormatValue(value),
		})
	}

	if state.Loading {
		v.SubmitLabel = SubmitLabelWorking
	}
	if state.Result != nil {
		v.Price = FormatPrice(state.Result.PredictedMarketPrice)
	}

	return v
}

// FormatPrice renders a price with a dollar sign and two decimals. Rounding
// works on the exact binary value, so 1.005 (stored as 1.00499...) gives $1.00.
// A negative price that rounds to zero keeps its sign.
func FormatPrice(price float64) string {
	d := decimal.NewFromFloatWithExponent(price, -2)
	if d.IsZero() && price < 0 {
		return "$-" + d.StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatValue renders an input value in its shortest form
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
