// Package domain defines the types and ports of the address verification service
package domain

import (
	"time"

	"addrcheck/internal/core/chains"
)

// Address is a syntactically plausible chain address, trimmed
type Address string

// RequestID identifies one pending verification interaction
type RequestID string

// CheckResult is what the verification collaborator answers.
// It is closed: only Immediate and Postponed implement it
type CheckResult interface {
	isCheckResult()
}

// Immediate is a terminal result that can be delivered now
type Immediate struct {
	Content string `json:"content"`
	Detail  string `json:"detail,omitempty"`
}

// Postponed means the collaborator needs time; UID is its handle for rechecks
type Postponed struct {
	UID        string
	Address    Address
	Blockchain chains.Code
}

func (Immediate) isCheckResult() {}
func (Postponed) isCheckResult() {}

// SubmissionStatus is the admission verdict
type SubmissionStatus string

// Submission statuses
const (
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is the answer to an address submission
type Submission struct {
	Status    SubmissionStatus `json:"status" example:"accepted"`
	RequestID RequestID        `json:"request_id,omitempty" example:"0f8fad5bd9cb469fa16570867728950e"`
	Address   Address          `json:"address,omitempty"`
	Choices   []chains.Option  `json:"choices,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// OutcomeStatus is the state a request is reported in
type OutcomeStatus string

// Outcome statuses
const (
	OutcomeDelivered OutcomeStatus = "delivered"
	OutcomeWorking   OutcomeStatus = "working"
	OutcomeExpired   OutcomeStatus = "expired"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeIgnored   OutcomeStatus = "ignored"
	OutcomePending   OutcomeStatus = "pending" // admitted, no chain chosen yet
)

// Outcome is the answer to a blockchain choice or a status lookup
type Outcome struct {
	Status     OutcomeStatus `json:"status" example:"working"`
	RequestID  RequestID     `json:"request_id,omitempty"`
	Blockchain chains.Code   `json:"blockchain,omitempty"`
	Result     *Immediate    `json:"result,omitempty"`
	Message    string        `json:"message,omitempty"`
}

// Delivery is pushed to a ResultSink once a deferred request reaches a terminal state.
// Exactly one of Result and Failure is set
type Delivery struct {
	RequestID  RequestID   `json:"request_id"`
	Address    Address     `json:"address"`
	Blockchain chains.Code `json:"blockchain"`
	Result     *Immediate  `json:"result,omitempty"`
	Failure    string      `json:"failure,omitempty"`
	Attempts   int         `json:"attempts"`
	At         time.Time   `json:"at"`
}

// Outcome converts a delivery into the status shape returned to callers
func (d Delivery) Outcome() Outcome {
	o := Outcome{RequestID: d.RequestID, Blockchain: d.Blockchain}
	if d.Result != nil {
		o.Status = OutcomeDelivered
		o.Result = d.Result
		return o
	}
	o.Status = OutcomeFailed
	o.Message = d.Failure
	return o
}

// HistoryEntry is one journaled terminal outcome
type HistoryEntry struct {
	RequestID  RequestID     `json:"request_id"`
	Address    Address       `json:"address"`
	Blockchain chains.Code   `json:"blockchain"`
	Status     OutcomeStatus `json:"status"`
	Content    string        `json:"content,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Attempts   int           `json:"attempts"`
	CreatedAt  time.Time     `json:"created_at"`
}
