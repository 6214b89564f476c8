// Package taxireply applies taxi office replies to pending dispatch attempts.
package taxireply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/signal"
)

// Service resolves attempts from (contact, text) replies.
type Service struct {
	repo             taxiRepo
	signals          signal.Notifier
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// New creates a Service. signals is told about every attempt this service resolves.
func New(repo taxiRepo, signals signal.Notifier, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		signals:          signals,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Handle applies one reply. Replies that change nothing are not errors; they carry a note.
func (s *Service) Handle(ctx context.Context, from, text string) (*domain.ReplyResult, error) {
	contact := domain.NormalizeContact(from)
	text = strings.TrimSpace(text)
	if contact == "" || text == "" {
		return nil, fmt.Errorf("from and text are required: %w", apperr.ErrInvalid)
	}

	opCtx, cancel := s.withTimeout(ctx)
	office, err := s.repo.FindActiveOfficeByContact(opCtx, contact)
	cancel()
	if err != nil {
		return nil, err
	}
	if office == nil {
		return nil, fmt.Errorf("taxi office %q: %w", contact, apperr.ErrNotFound)
	}

	opCtx, cancel = s.withTimeout(ctx)
	attempt, err := s.repo.LatestSentAttempt(opCtx, office.ID)
	cancel()
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return &domain.ReplyResult{Note: domain.ReplyNoPending}, nil
	}

	status, ok := domain.ReplyDecision(text)
	if !ok {
		return &domain.ReplyResult{AttemptID: attempt.ID, Status: attempt.Status, Note: domain.ReplyIgnoredText}, nil
	}

	opCtx, cancel = s.withTimeout(ctx)
	won, err := s.repo.ResolveAttempt(opCtx, attempt.ID, status, s.now())
	cancel()
	if err != nil {
		return nil, err
	}
	if !won {
		return s.alreadyResolved(ctx, attempt.ID)
	}

	s.logger.Info("attempt resolved by office", logx.Event("attempt_resolved"),
		logx.AttemptID(attempt.ID), logx.DeliveryID(attempt.DeliveryID),
		logx.String("taxi_office_id", office.ID), logx.String("status", string(status)))

	if err := s.signals.Notify(ctx, attempt.ID); err != nil {
		s.logger.Warn("attempt signal failed", logx.AttemptID(attempt.ID), logx.Err(err))
	}
	return &domain.ReplyResult{AttemptID: attempt.ID, Status: status, Note: domain.ReplyApplied}, nil
}

func (s *Service) alreadyResolved(ctx context.Context, attemptID string) (*domain.ReplyResult, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	current, err := s.repo.GetAttempt(opCtx, attemptID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("attempt %q: %w", attemptID, apperr.ErrNotFound)
	}
	return &domain.ReplyResult{AttemptID: attemptID, Status: current.Status, Note: domain.ReplyAlreadyResolved}, nil
}
