package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"addrcheck/internal/core/address"
	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/metrics"
	dom "addrcheck/internal/services/verify/domain"
)

// User facing messages
const (
	msgRejected    = "address not recognized"
	msgExpired     = "request is no longer valid, submit the address again"
	msgTryAgain    = "verification service is unavailable, try again"
	msgInFlight    = "request is already being checked"
	msgWorkingTmpl = "Checking the address %s on blockchain %s"
)

// historyLimitMax caps History page size
const historyLimitMax = 100

// Submit validates text and admits it as a pending request
func (s *Svc) Submit(ctx context.Context, text string) (dom.Submission, error) {
	norm, ok := address.Normalize(text)
	if !ok {
		metrics.Submissions.WithLabelValues(string(dom.SubmissionRejected)).Inc()
		return dom.Submission{Status: dom.SubmissionRejected, Message: msgRejected}, nil
	}
	addr := dom.Address(norm)
	id := s.newID()
	if err := s.reg.Put(id, addr); err != nil {
		return dom.Submission{}, err
	}
	metrics.Submissions.WithLabelValues(string(dom.SubmissionAccepted)).Inc()
	metrics.PendingRequests.Set(float64(s.reg.Len()))

	logger.C(logger.WithCheck(ctx, string(id))).Debug().Str("address", norm).Msg("address admitted")
	return dom.Submission{
		Status:    dom.SubmissionAccepted,
		RequestID: id,
		Address:   addr,
		Choices:   chains.Options(),
	}, nil
}

// Choose dispatches the pending request id to the collaborator for code
func (s *Svc) Choose(ctx context.Context, id dom.RequestID, code chains.Code) (out dom.Outcome, err error) {
	if !chains.IsCode(string(code)) {
		return dom.Outcome{}, perr.WithField(perr.InvalidArgf("unknown blockchain code %q", code), "blockchain")
	}
	ctx = logger.WithCheck(ctx, string(id))
	log := logger.C(ctx).With().Str("blockchain", string(code)).Logger()
	defer func() {
		if err == nil {
			metrics.Choices.WithLabelValues(string(code), string(out.Status)).Inc()
		}
	}()

	// one dispatch per id at a time. A concurrent click is acknowledged and dropped;
	// the click that owns the Check answers for the request
	if _, busy := s.inflight.LoadOrStore(id, struct{}{}); busy {
		return dom.Outcome{Status: dom.OutcomeIgnored, RequestID: id, Message: msgInFlight}, nil
	}
	defer s.inflight.Delete(id)

	addr, ok := s.reg.Get(id)
	if !ok {
		return dom.Outcome{Status: dom.OutcomeExpired, RequestID: id, Message: msgExpired}, nil
	}
	// a poll loop already owns this entry
	if s.sup.Tracking(id) {
		return working(id, addr, code), nil
	}

	cctx := ctx
	if s.cfg.CheckTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.cfg.CheckTimeout)
		defer cancel()
	}
	start := time.Now()
	res, cerr := s.client.Check(cctx, []dom.Address{addr}, code)
	observe("check", start, cerr)
	if cerr != nil {
		log.Error().Err(cerr).Msg("verification check failed")
		return s.fail(id), nil
	}

	switch r := res.(type) {
	case dom.Immediate:
		s.reg.Remove(id)
		record(ctx, s.journal, dom.HistoryEntry{
			RequestID:  id,
			Address:    addr,
			Blockchain: code,
			Status:     dom.OutcomeDelivered,
			Content:    r.Content,
			Detail:     r.Detail,
			CreatedAt:  time.Now().UTC(),
		})
		return dom.Outcome{Status: dom.OutcomeDelivered, RequestID: id, Blockchain: code, Result: &r}, nil

	case dom.Postponed:
		if err := s.sup.Start(id, r.UID, addr, code); err != nil {
			if perr.IsCode(err, perr.ErrorCodeConflict) {
				return working(id, addr, code), nil
			}
			log.Error().Err(err).Msg("could not start poll loop")
			return s.fail(id), nil
		}
		log.Info().Str("uid", r.UID).Msg("result postponed; polling")
		return working(id, addr, code), nil

	default:
		log.Error().Type("result", res).Msg("collaborator returned an unknown result shape")
		return s.fail(id), nil
	}
}

// Callback parses a chat callback payload "<id>:<code>" and dispatches it.
// Unparsable payloads are acknowledged with no state change
func (s *Svc) Callback(ctx context.Context, data string) (dom.Outcome, error) {
	id, raw, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok || id == "" {
		return ignored(), nil
	}
	code, ok := chains.ParseCode(raw)
	if !ok {
		return ignored(), nil
	}
	return s.Choose(ctx, dom.RequestID(id), code)
}

// Result reports where id stands: delivered result, polling, awaiting a choice, or gone
func (s *Svc) Result(_ context.Context, id dom.RequestID) (dom.Outcome, error) {
	if s.reader != nil {
		if d, ok := s.reader.Lookup(id); ok {
			return d.Outcome(), nil
		}
	}
	if s.sup.Tracking(id) {
		return dom.Outcome{Status: dom.OutcomeWorking, RequestID: id}, nil
	}
	if _, ok := s.reg.Get(id); ok {
		return dom.Outcome{Status: dom.OutcomePending, RequestID: id}, nil
	}
	return dom.Outcome{Status: dom.OutcomeExpired, RequestID: id, Message: msgExpired}, nil
}

// History lists journaled outcomes for an address, newest first
func (s *Svc) History(ctx context.Context, addr string, limit int) ([]dom.HistoryEntry, error) {
	if s.journal == nil {
		return nil, perr.Unavailablef("history is disabled")
	}
	norm, ok := address.Normalize(addr)
	if !ok {
		return nil, perr.WithField(perr.InvalidArgf("%s", msgRejected), "address")
	}
	if limit <= 0 || limit > historyLimitMax {
		limit = historyLimitMax
	}
	return s.journal.ByAddress(ctx, dom.Address(norm), limit)
}

// Chains returns the selectable label table
func (s *Svc) Chains() []chains.Option { return chains.Options() }

// fail drops the entry so nothing is orphaned and asks the user to retry
func (s *Svc) fail(id dom.RequestID) dom.Outcome {
	s.reg.Remove(id)
	return dom.Outcome{Status: dom.OutcomeFailed, RequestID: id, Message: msgTryAgain}
}

func working(id dom.RequestID, addr dom.Address, code chains.Code) dom.Outcome {
	return dom.Outcome{
		Status:     dom.OutcomeWorking,
		RequestID:  id,
		Blockchain: code,
		Message:    fmt.Sprintf(msgWorkingTmpl, addr, code),
	}
}

func ignored() dom.Outcome { return dom.Outcome{Status: dom.OutcomeIgnored} }
