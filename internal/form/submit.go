package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyphera/address-relay/internal/address"
	"github.com/cyphera/address-relay/internal/events"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/outbound"

	"go.uber.org/zap"
)

// Status is the outcome of a submission attempt.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusDegraded  Status = "degraded"
	StatusRejected  Status = "rejected"
)

const (
	MessageNoSelection = "Please select at least one subscription."
	MessageSubmitted   = "Your address update has been submitted."
	MessageDegraded    = "We could not confirm your address update. Please try again later or contact support."
)

// Result is returned to the customer after Submit.
type Result struct {
	Status       Status                     `json:"status"`
	Message      string                     `json:"message"`
	SubmissionID string                     `json:"submission_id,omitempty"`
	Changes      int                        `json:"changes,omitempty"`
	Missing      map[string][]address.Field `json:"missing,omitempty"`
}

// submittedEvent is published after a submission has been dispatched.
type submittedEvent struct {
	SubmissionID string            `json:"submission_id"`
	Status       Status            `json:"status"`
	CustomerID   string            `json:"customer_id,omitempty"`
	Changes      []outbound.Change `json:"changes"`
}

// Submit validates the selection and sends it to the automation endpoint
// once. Local state is left as is whatever the outcome.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return Result{}, ErrNotLoaded
	}

	if len(s.selected) == 0 {
		s.mu.Unlock()
		return s.reject(Result{Status: StatusRejected, Message: MessageNoSelection}), nil
	}

	pairs := make([]outbound.Pair, 0, len(s.selected))
	missing := make(map[string][]address.Field)
	var incomplete []string
	for _, id := range s.selected {
		sub, _ := s.payload.Subscription(id)
		addr := s.addresses[id]
		if fields := addr.MissingFields(); len(fields) > 0 {
			missing[id] = fields
			incomplete = append(incomplete, describeMissing(sub.Name, fields))
			continue
		}
		pairs = append(pairs, outbound.Pair{Subscription: sub, Updated: addr})
	}
	customer := s.payload.Customer
	s.mu.Unlock()

	if len(missing) > 0 {
		return s.reject(Result{
			Status:  StatusRejected,
			Message: "Please complete the address: " + strings.Join(incomplete, "; ") + ".",
			Missing: missing,
		}), nil
	}

	submission, err := outbound.Encode(customer, pairs)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Status:       StatusSubmitted,
		Message:      MessageSubmitted,
		SubmissionID: submission.ID,
		Changes:      len(submission.Changes),
	}
	if err := s.deps.Dispatcher.Dispatch(ctx, submission); err != nil {
		logger.Error("Address update dispatch failed",
			zap.String("submission_id", submission.ID),
			zap.Error(err),
		)
		result.Status = StatusDegraded
		result.Message = MessageDegraded
	} else {
		logger.Info("Address update submitted",
			zap.String("submission_id", submission.ID),
			zap.Int("changes", len(submission.Changes)),
		)
	}

	s.deps.Metrics.RecordSubmission(string(result.Status))
	s.publish(ctx, submittedEvent{
		SubmissionID: submission.ID,
		Status:       result.Status,
		CustomerID:   customer.CustomerID,
		Changes:      submission.Changes,
	})

	return result, nil
}

func (s *Session) reject(result Result) Result {
	s.deps.Metrics.RecordSubmission(string(result.Status))
	return result
}

func (s *Session) publish(ctx context.Context, event submittedEvent) {
	if s.deps.Publisher == nil {
		return
	}
	if err := s.deps.Publisher.Publish(ctx, events.SubjectUpdateSubmitted, event); err != nil {
		logger.Warn("Failed to publish submission event",
			zap.String("submission_id", event.SubmissionID),
			zap.Error(err),
		)
	}
}

func describeMissing(name string, fields []address.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s is missing %s", name, strings.Join(names, ", "))
}
