// Package service implements the prediction pipeline: validation, feature
// assembly, predictor invocation and time formatting.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/smart-medicine-box/internal/model"
	"github.com/iliyamo/smart-medicine-box/internal/predictor"
	q "github.com/iliyamo/smart-medicine-box/internal/queue"
	"github.com/iliyamo/smart-medicine-box/internal/registry"
)

const publishTimeout = 2 * time.Second

// Meta identifies the caller of a prediction for logging and events.
type Meta struct {
	RequestID string
	DeviceID  string
}

// Service answers prediction requests from an immutable registry. It is
// safe for concurrent use.
type Service struct {
	reg    *registry.Registry
	events EventPublisher
	log    *zap.Logger
}

// New returns a Service. events may be nil.
func New(reg *registry.Registry, events EventPublisher, log *zap.Logger) *Service {
	if reg == nil {
		reg = registry.Empty()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reg: reg, events: events, log: log}
}

// Registry exposes the loaded models for status reporting.
func (s *Service) Registry() *registry.Registry { return s.reg }

// Handle runs the full pipeline for one raw request body.
func (s *Service) Handle(ctx context.Context, body []byte, meta Meta) (model.PredictionResult, error) {
	if !s.reg.Loaded() {
		return model.PredictionResult{}, ErrServiceUnavailable
	}
	in, err := Validate(body, s.reg.Periods())
	if err != nil {
		return model.PredictionResult{}, err
	}
	res, err := s.Predict(in.Period, AssembleFeatures(in.Fields))
	if err != nil {
		s.log.Warn("prediction failed",
			zap.String("request_id", meta.RequestID),
			zap.String("time_period", in.Period.String()),
			zap.Error(err))
		return model.PredictionResult{}, err
	}
	s.publish(ctx, res, meta)
	return res, nil
}

// Predict invokes the period's classifier and regressor on record.
func (s *Service) Predict(period model.TimePeriod, record model.FeatureRecord) (model.PredictionResult, error) {
	pair, ok := s.reg.Pair(period)
	if !ok {
		if !s.reg.Loaded() {
			return model.PredictionResult{}, ErrServiceUnavailable
		}
		return model.PredictionResult{}, validationf("Invalid time_period '%s'", period)
	}

	label, err := invoke(pair.Classifier, record)
	if err != nil {
		return model.PredictionResult{}, &PredictionError{Err: fmt.Errorf("classifier: %w", err)}
	}
	if math.IsNaN(label) || math.IsInf(label, 0) {
		return model.PredictionResult{}, &PredictionError{Err: fmt.Errorf("classifier returned non-finite label %v", label)}
	}
	minutes, err := invoke(pair.Regressor, record)
	if err != nil {
		return model.PredictionResult{}, &PredictionError{Err: fmt.Errorf("regressor: %w", err)}
	}
	formatted, err := MinutesToClock(minutes)
	if err != nil {
		return model.PredictionResult{}, &PredictionError{Err: err}
	}

	return model.PredictionResult{
		TimePeriod:             period,
		WillTakeMedicine:       int64(label) != 0,
		PredictedTimeMinutes:   minutes,
		PredictedTimeFormatted: formatted,
	}, nil
}

// invoke turns a predictor panic into an error.
func invoke(p predictor.Predictor, record model.FeatureRecord) (out float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Predict(record)
}

func (s *Service) publish(ctx context.Context, res model.PredictionResult, meta Meta) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := q.PredictionServedEvent{
		EventID:                uuid.NewString(),
		RequestID:              meta.RequestID,
		DeviceID:               meta.DeviceID,
		TimePeriod:             res.TimePeriod.String(),
		WillTakeMedicine:       res.WillTakeMedicine,
		PredictedTimeMinutes:   res.PredictedTimeMinutes,
		PredictedTimeFormatted: res.PredictedTimeFormatted,
		ServedAt:               time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishPredictionServed(ctx, event); err != nil {
		s.log.Warn("prediction event not published", zap.String("request_id", meta.RequestID), zap.Error(err))
	}
}
