package jobs

import (
	"context"
	"time"

	"food-dispatch/internal/logx"
)

type contractExpirer interface {
	ExpireContracts(ctx context.Context, now time.Time) (int64, error)
}

// ContractExpiryJob marks ended ACTIVE contracts EXPIRED.
type ContractExpiryJob struct {
	repo   contractExpirer
	logger logx.Logger
	now    func() time.Time
}

// NewContractExpiryJob creates a ContractExpiryJob.
func NewContractExpiryJob(repo contractExpirer, logger logx.Logger) *ContractExpiryJob {
	return &ContractExpiryJob{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Name implements Job.
func (j *ContractExpiryJob) Name() string { return "contract_expiry" }

// Run implements Job.
func (j *ContractExpiryJob) Run(ctx context.Context) error {
	n, err := j.repo.ExpireContracts(ctx, j.now())
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("contracts expired", logx.Event("contracts_expired"), logx.Int("count", int(n)))
	}
	return nil
}
