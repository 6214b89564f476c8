package jobs

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/notify"
	"food-dispatch/internal/logx"
)

const reminderBatch = 50

type dueMoves interface {
	ListDueTaxiMoves(ctx context.Context, now time.Time, limit int) ([]domain.Delivery, error)
	MarkMoveNotified(ctx context.Context, id string, at time.Time) (bool, error)
}

type officeLookup interface {
	GetOffice(ctx context.Context, id string) (*domain.TaxiOffice, error)
}

// MoveReminderJob tells taxi offices to head to the branch once a delivery's move time passes.
type MoveReminderJob struct {
	deliveries dueMoves
	offices    officeLookup
	sender     notify.Sender
	logger     logx.Logger
	now        func() time.Time
}

// NewMoveReminderJob creates a MoveReminderJob.
func NewMoveReminderJob(deliveries dueMoves, offices officeLookup, sender notify.Sender, logger logx.Logger) *MoveReminderJob {
	return &MoveReminderJob{
		deliveries: deliveries,
		offices:    offices,
		sender:     sender,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Name implements Job.
func (j *MoveReminderJob) Name() string { return "move_reminder" }

// Run reminds every due delivery at most once. The reminder is recorded before it is
// sent, so a worker that loses the record never sends a duplicate.
func (j *MoveReminderJob) Run(ctx context.Context) error {
	now := j.now()
	due, err := j.deliveries.ListDueTaxiMoves(ctx, now, reminderBatch)
	if err != nil {
		return err
	}
	for _, d := range due {
		if d.TaxiOfficeID == nil {
			continue
		}
		log := j.logger.With(logx.DeliveryID(d.ID), logx.OrderID(d.OrderID))

		office, err := j.offices.GetOffice(ctx, *d.TaxiOfficeID)
		if err != nil {
			return err
		}
		if office == nil {
			log.Warn("reminder office missing", logx.String("taxi_office_id", *d.TaxiOfficeID))
			continue
		}

		won, err := j.deliveries.MarkMoveNotified(ctx, d.ID, now)
		if err != nil {
			return err
		}
		if !won {
			continue
		}
		if err := j.sender.Send(ctx, office.Contact, notify.GoNowMessage(d.OrderID)); err != nil {
			log.Warn("go-now reminder not delivered", logx.Err(err))
			continue
		}
		log.Info("go-now reminder sent", logx.Event("move_reminded"), logx.String("taxi_office_id", office.ID))
	}
	return nil
}
