package submitter

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/mmynk/sharesplit/internal/apiclient"
	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
)

// ErrSubmissionInFlight is returned when Submit is called while an earlier
// submission has not finished.
var ErrSubmissionInFlight = errors.New("an expense submission is already in progress")

// ExpenseAPI is the part of the Remote Expense API the submitter needs.
type ExpenseAPI interface {
	CreateExpense(ctx context.Context, req apiclient.ExpenseRequest) (*apiclient.CreatedExpense, error)
}

// Submission is the outcome of a successful Submit.
type Submission struct {
	Result  *calculator.Result
	Payload apiclient.ExpenseRequest
	Created *apiclient.CreatedExpense
}

// Submitter validates, computes and posts group expenses. At most one
// submission runs at a time.
type Submitter struct {
	api      ExpenseAPI
	logger   *slog.Logger
	inFlight atomic.Bool
}

// New creates a Submitter.
func New(api ExpenseAPI, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{api: api, logger: logger}
}

// Preview computes the split without sending anything.
func Preview(form Form, group models.Group) (*calculator.Result, error) {
	req, err := BuildRequest(form, group)
	if err != nil {
		return nil, err
	}
	return calculator.Compute(req)
}

// Submit computes the split and posts it once. Validation errors are
// returned before any network call. API failures come back as
// *apiclient.Error and are not retried.
func (s *Submitter) Submit(ctx context.Context, form Form, group models.Group) (*Submission, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	result, err := Preview(form, group)
	if err != nil {
		s.logger.Debug("Expense rejected by validation", "group_id", group.ID, "error", err)
		return nil, err
	}

	payload := ToAPIPayload(result, MetaFromForm(form, group))

	s.logger.Info("Submitting expense",
		"group_id", group.ID,
		"split_type", payload.SplitType,
		"amount", payload.Amount,
		"shares", len(payload.Shares),
	)

	created, err := s.api.CreateExpense(ctx, payload)
	if err != nil {
		s.logger.Warn("Expense submission failed", "group_id", group.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Expense created", "group_id", group.ID, "expense_id", created.ID)
	return &Submission{Result: result, Payload: payload, Created: created}, nil
}

// InFlight reports whether a submission is running.
func (s *Submitter) InFlight() bool {
	return s.inFlight.Load()
}
