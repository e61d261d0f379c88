// Package http is the JSON front end of the verification service
package http

import (
	stdhttp "net/http"
	"strconv"
	"sync"

	"addrcheck/internal/core/chains"
	"addrcheck/internal/modkit/httpkit"
	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/net/http/bind"
	dom "addrcheck/internal/services/verify/domain"

	"github.com/go-playground/validator/v10"
)

var tagsOnce sync.Once

// registerTags installs the chaincode validation tag: a known label or code
func registerTags() {
	tagsOnce.Do(func() {
		err := bind.RegisterTag("chaincode", "{0} must be a supported blockchain label or code",
			func(fl validator.FieldLevel) bool {
				_, ok := chains.Resolve(fl.Field().String())
				return ok
			})
		if err != nil {
			logger.Named("verify").Error().Err(err).Msg("register chaincode tag")
		}
	})
}

// Register mounts the verification endpoints on r
func Register(r httpkit.Router, svc dom.ServicePort) {
	registerTags()
	h := &handlers{svc: svc}

	httpkit.PostJSON[dom.SubmitInput](r, "/checks", h.submit)
	httpkit.Get(r, "/checks/{id}", h.result)
	httpkit.PostJSON[dom.ChoiceInput](r, "/checks/{id}/choice", h.choose)
	httpkit.PostJSON[dom.CallbackInput](r, "/callbacks", h.callback)
	httpkit.Get(r, "/chains", h.chains)
	httpkit.Get(r, "/history", h.history)
}

type handlers struct{ svc dom.ServicePort }

// @Summary Submit an address for verification
// @Tags Checks
// @Param payload body domain.SubmitInput true "Address text"
// @Success 201 {object} domain.Submission "accepted, with blockchain choices"
// @Success 200 {object} domain.Submission "rejected"
// @Router /checks [post]
func (h *handlers) submit(r *stdhttp.Request, in dom.SubmitInput) (any, error) {
	sub, err := h.svc.Submit(r.Context(), in.Text)
	if err != nil {
		return nil, err
	}
	if sub.Status == dom.SubmissionAccepted {
		return httpkit.Created(sub), nil
	}
	return sub, nil
}

// @Summary Choose the blockchain for a pending request
// @Tags Checks
// @Param id path string true "Request id"
// @Param payload body domain.ChoiceInput true "Blockchain label or code"
// @Success 200 {object} domain.Outcome
// @Success 202 {object} domain.Outcome "working, result will be delivered later"
// @Router /checks/{id}/choice [post]
func (h *handlers) choose(r *stdhttp.Request, in dom.ChoiceInput) (any, error) {
	code, ok := chains.Resolve(in.Blockchain)
	if !ok {
		return nil, perr.WithField(perr.InvalidArgf("unknown blockchain %q", in.Blockchain), "blockchain")
	}
	id := dom.RequestID(httpkit.Param(r, "id"))
	ctx := logger.WithCheck(r.Context(), string(id))
	return outcome(h.svc.Choose(ctx, id, code))
}

// @Summary Apply a chat callback payload "<request id>:<code>"
// @Tags Checks
// @Param payload body domain.CallbackInput true "Callback data"
// @Success 200 {object} domain.Outcome
// @Router /callbacks [post]
func (h *handlers) callback(r *stdhttp.Request, in dom.CallbackInput) (any, error) {
	return outcome(h.svc.Callback(r.Context(), in.Data))
}

// @Summary Read the state or delivered result of a request
// @Tags Checks
// @Param id path string true "Request id"
// @Success 200 {object} domain.Outcome
// @Router /checks/{id} [get]
func (h *handlers) result(r *stdhttp.Request) (any, error) {
	id := dom.RequestID(httpkit.Param(r, "id"))
	return h.svc.Result(logger.WithCheck(r.Context(), string(id)), id)
}

// @Summary Supported blockchains, label to code
// @Tags Chains
// @Success 200 {array} chains.Option
// @Router /chains [get]
func (h *handlers) chains(*stdhttp.Request) (any, error) {
	return h.svc.Chains(), nil
}

// @Summary Journaled outcomes for an address, newest first
// @Tags History
// @Param address query string true "Address"
// @Param limit query int false "Max rows (1..100)"
// @Success 200 {array} domain.HistoryEntry
// @Router /history [get]
func (h *handlers) history(r *stdhttp.Request) (any, error) {
	q := dom.HistoryInput{Address: r.URL.Query().Get("address")}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be an integer"), "limit")
		}
		q.Limit = n
	}
	rows, err := h.svc.History(r.Context(), q.Address, q.Limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []dom.HistoryEntry{}
	}
	return rows, nil
}

// outcome answers 202 while the result is still being worked on
func outcome(o dom.Outcome, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if o.Status == dom.OutcomeWorking {
		return httpkit.Accepted(o), nil
	}
	return o, nil
}
