package domain

import (
	"context"

	"addrcheck/internal/core/chains"
)

// VerificationClient is the external verification collaborator
type VerificationClient interface {
	Check(ctx context.Context, addresses []Address, code chains.Code) (CheckResult, error)
	// PollRecheck returns nil while the deferred result is not ready
	PollRecheck(ctx context.Context, uid string, addr Address, code chains.Code) (*Immediate, error)
}

// ResultSink receives deferred results. Delivery is best effort
type ResultSink interface {
	Deliver(ctx context.Context, d Delivery) error
}

// ResultReader reads back delivered results kept by a sink
type ResultReader interface {
	Lookup(id RequestID) (Delivery, bool)
}

// Journal records terminal outcomes
type Journal interface {
	Record(ctx context.Context, e HistoryEntry) error
	ByAddress(ctx context.Context, addr Address, limit int) ([]HistoryEntry, error)
}

// ServicePort is what transports (HTTP, CLI) call
type ServicePort interface {
	Submit(ctx context.Context, text string) (Submission, error)
	Choose(ctx context.Context, id RequestID, code chains.Code) (Outcome, error)
	Callback(ctx context.Context, data string) (Outcome, error)
	Result(ctx context.Context, id RequestID) (Outcome, error)
	History(ctx context.Context, addr string, limit int) ([]HistoryEntry, error)
	Chains() []chains.Option
}
