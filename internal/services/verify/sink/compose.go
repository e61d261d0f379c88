package sink

import (
	"context"
	"errors"

	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/metrics"
	dom "addrcheck/internal/services/verify/domain"
)

// Fallback tries primary, then fallback. It never returns an error
type Fallback struct {
	Primary  dom.ResultSink
	Fallback dom.ResultSink
}

// Deliver implements dom.ResultSink
func (f Fallback) Deliver(ctx context.Context, d dom.Delivery) error {
	err := f.Primary.Deliver(ctx, d)
	if err == nil {
		return nil
	}
	log := logger.C(logger.WithCheck(ctx, string(d.RequestID)))
	log.Warn().Err(err).Msg("primary delivery failed; using fallback")
	if f.Fallback == nil {
		return nil
	}
	if ferr := f.Fallback.Deliver(ctx, d); ferr != nil {
		log.Error().Err(ferr).Msg("fallback delivery failed")
	}
	return nil
}

// Multi delivers to every sink and joins their errors
type Multi []dom.ResultSink

// Deliver implements dom.ResultSink
func (m Multi) Deliver(ctx context.Context, d dom.Delivery) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes deliveries to the process logger
type Log struct{}

// Deliver implements dom.ResultSink
func (Log) Deliver(ctx context.Context, d dom.Delivery) error {
	evt := logger.C(logger.WithCheck(ctx, string(d.RequestID))).Info().
		Str("address", string(d.Address)).
		Str("blockchain", string(d.Blockchain)).
		Int("attempts", d.Attempts)
	if d.Result != nil {
		evt = evt.Str("content", d.Result.Content).Str("detail", d.Result.Detail)
	} else {
		evt = evt.Str("failure", d.Failure)
	}
	evt.Msg("verification result")
	metrics.Deliveries.WithLabelValues("log", "ok").Inc()
	return nil
}
