package amlbot

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"

	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	dom "addrcheck/internal/services/verify/domain"
)

// Stub answers without network access. Addresses containing "wait" (any case)
// are postponed and resolve on the first recheck
type Stub struct{}

var _ dom.VerificationClient = Stub{}

var stubResult = dom.Immediate{Content: "immediate_response", Detail: "stub_detail"}

// Check implements dom.VerificationClient
func (Stub) Check(_ context.Context, addrs []dom.Address, code chains.Code) (dom.CheckResult, error) {
	if len(addrs) == 0 {
		return nil, perr.InvalidArgf("no address to check")
	}
	if strings.Contains(strings.ToLower(string(addrs[0])), "wait") {
		return dom.Postponed{
			UID:        strconv.Itoa(1000 + rand.IntN(9000)),
			Address:    addrs[0],
			Blockchain: code,
		}, nil
	}
	return stubResult, nil
}

// PollRecheck implements dom.VerificationClient
func (Stub) PollRecheck(context.Context, string, dom.Address, chains.Code) (*dom.Immediate, error) {
	res := stubResult
	return &res, nil
}
