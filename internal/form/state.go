// Package form holds the pricing form state and the checks applied before submission.
package form

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"mbs-pricing-ui/internal/model"
)

// numericPrefix matches the leading decimal number of keyboard text
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ErrUnknownField is returned when a setter names a field the form does not have
var ErrUnknownField = errors.New("unknown form field")

// State is the UI state of one pricing form
type State struct {
	Request model.PricingRequest    `json:"request"`
	Loading bool                    `json:"loading"`
	Error   string                  `json:"error,omitempty"`
	Result  *model.PredictionResult `json:"result,omitempty"`
}

// NewState returns a form initialized with the default parameters
func NewState() *State {
	return &State{Request: model.DefaultPricingRequest()}
}

// SetField replaces one field with the numeric value of raw.
// Only the leading number of raw counts ("12.5abc" stores 12.5); input
// without one, or whose number is not finite, is stored as 0.
func (s *State) SetField(name, raw string) error {
	if !model.IsField(name) {
		return ErrUnknownField
	}
	s.Request.Set(name, ParseValue(raw))
	return nil
}

// ParseValue coerces keyboard input into a field value
func ParseValue(raw string) float64 {
	m := numericPrefix.FindString(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Begin marks the start of a submission attempt
func (s *State) Begin() {
	s.Loading = true
	s.Error = ""
	s.Result = nil
}

// Fail ends a submission attempt with an error message
func (s *State) Fail(msg string) {
	s.Error = msg
	s.Loading = false
}

// Succeed ends a submission attempt with a predicted price
func (s *State) Succeed(result *model.PredictionResult) {
	s.Result = result
	s.Error = ""
	s.Loading = false
}
