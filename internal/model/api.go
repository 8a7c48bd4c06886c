package model

// FieldUpdateRequest carries the raw text of one edited input
type FieldUpdateRequest struct {
	Value string `json:"value"`
}

// StateResponse is the JSON projection of a form session
type StateResponse struct {
	Request     PricingRequest    `json:"request"`
	Loading     bool              `json:"loading"`
	SubmitLabel string            `json:"submit_label"`
	Result      *PredictionResult `json:"result,omitempty"`
	Price       string            `json:"price,omitempty"` // formatted, e.g. "$104.25"
	Error       string            `json:"error,omitempty"`
}
