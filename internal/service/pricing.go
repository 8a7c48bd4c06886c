package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mbs-pricing-ui/internal/form"
	"mbs-pricing-ui/internal/metrics"
	"mbs-pricing-ui/internal/repository"
)

// RemoteFailureMessage is shown for every transport, status or decoding failure
const RemoteFailureMessage = "Failed to fetch prediction. Check backend."

// PricingService runs the form lifecycle of a session
type PricingService struct {
	sessions  repository.SessionRepository
	predictor Predictor
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewPricingService creates a new pricing service. m may be nil.
func NewPricingService(
	sessions repository.SessionRepository,
	predictor Predictor,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PricingService {
	return &PricingService{
		sessions:  sessions,
		predictor: predictor,
		metrics:   m,
		logger:    logger.With().Str("component", "pricing_service").Logger(),
	}
}

// State returns the current form state of a session
func (s *PricingService) State(ctx context.Context, sessionID string) (*form.State, error) {
	return s.sessions.Load(ctx, sessionID)
}

// SetField stores one keystroke edit. Result and error text are left as they are.
func (s *PricingService) SetField(ctx context.Context, sessionID, name, raw string) (*form.State, error) {
	return s.sessions.Update(ctx, sessionID, func(state *form.State) error {
		return state.SetField(name, raw)
	})
}

// SubmitForm applies every posted field value and then submits.
// Fields absent from values keep their stored value.
func (s *PricingService) SubmitForm(ctx context.Context, sessionID string, values map[string]string) (*form.State, error) {
	return s.submit(ctx, sessionID, func(state *form.State) error {
		for name, raw := range values {
			if err := state.SetField(name, raw); err != nil && !errors.Is(err, form.ErrUnknownField) {
				return err
			}
		}
		return nil
	})
}

// Submit validates the stored form and, when valid, requests a prediction
func (s *PricingService) Submit(ctx context.Context, sessionID string) (*form.State, error) {
	return s.submit(ctx, sessionID, nil)
}

// submit moves the session into the working state, calls the backend and
// writes back only the outcome. Both writes are repository Updates: a
// keystroke landing mid-flight keeps its edit and cannot replace the outcome.
func (s *PricingService) submit(ctx context.Context, sessionID string, prepare func(*form.State) error) (*form.State, error) {
	var invalid bool
	started, err := s.sessions.Update(ctx, sessionID, func(state *form.State) error {
		invalid = false
		if prepare != nil {
			if err := prepare(state); err != nil {
				return err
			}
		}
		state.Begin()
		if err := form.Validate(state.Request); err != nil {
			state.Fail(err.Error())
			invalid = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if invalid {
		s.metrics.ObserveSubmission(metrics.OutcomeValidationError)
		return started, nil
	}

	// The in-flight request is not cancelled when the browser goes away
	callCtx := context.WithoutCancel(ctx)
	startTime := time.Now()
	result, callErr := s.predictor.Predict(callCtx, started.Request)
	s.metrics.ObservePrediction(time.Since(startTime))

	if callErr != nil {
		s.logger.Error().Err(callErr).Str("session_id", sessionID).Msg("Prediction request failed")
		s.metrics.ObserveSubmission(metrics.OutcomeRemoteError)
	} else {
		s.metrics.ObserveSubmission(metrics.OutcomeSuccess)
	}

	return s.sessions.Update(callCtx, sessionID, func(latest *form.State) error {
		if callErr != nil {
			latest.Fail(RemoteFailureMessage)
			latest.Result = nil
			return nil
		}
		latest.Succeed(result)
		return nil
	})
}
