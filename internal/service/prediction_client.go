package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"mbs-pricing-ui/internal/config"
	"mbs-pricing-ui/internal/model"
)

var (
	// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected status from prediction backend")
	// ErrMalformedResponse is returned when the body has no numeric predicted_market_price
	ErrMalformedResponse = errors.New("malformed prediction response")
)

// Predictor prices a validated pricing request
type Predictor interface {
	Predict(ctx context.Context, req model.PricingRequest) (*model.PredictionResult, error)
}

// PredictionClient calls the remote agency MBS prediction endpoint
type PredictionClient struct {
	config *config.PredictionConfig
	client *resty.Client
	logger zerolog.Logger
}

// NewPredictionClient creates a client for the configured backend.
// Requests are never retried.
func NewPredictionClient(cfg *config.PredictionConfig, logger zerolog.Logger) *PredictionClient {
	client := resty.New().
		SetBaseURL(cfg.APIBase).
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &PredictionClient{
		config: cfg,
		client: client,
		logger: logger.With().Str("component", "prediction_client").Logger(),
	}
}

// predictResponse keeps the price as a pointer so a missing field is detectable
type predictResponse struct {
	PredictedMarketPrice *float64 `json:"predicted_market_price"`
}

// Predict sends req to the backend and returns the predicted market price
func (c *PredictionClient) Predict(ctx context.Context, req model.PricingRequest) (*model.PredictionResult, error) {
	c.logger.Debug().Interface("request", req).Str("url", c.config.PredictURL()).Msg("Requesting prediction")

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(config.PredictPath)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode(), truncate(resp.String(), 512))
	}

	var body predictResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.PredictedMarketPrice == nil {
		return nil, fmt.Errorf("%w: predicted_market_price missing", ErrMalformedResponse)
	}

	return &model.PredictionResult{PredictedMarketPrice: *body.PredictedMarketPrice}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Ensure PredictionClient implements Predictor
var _ Predictor = (*PredictionClient)(nil)
