package form

import (
	"fmt"

	"mbs-pricing-ui/internal/model"
)

// ValidationError names the first field that failed the sign check
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid value for %s", model.FieldLabel(e.Field))
}

// Validate checks the fields in enumeration order and stops at the first negative one.
// There are no upper bounds.
func Validate(req model.PricingRequest) error {
	for _, name := range model.Fields {
		v, _ := req.Get(name)
		if v < 0 {
			return &ValidationError{Field: name}
		}
	}
	return nil
}
