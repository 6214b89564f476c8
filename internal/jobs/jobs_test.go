package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/repository/memory"
	testlog "food-dispatch/internal/testutil"
)

type recordingSender struct {
	mu   sync.Mutex
	sent map[string][]string
	err  error
}

func (s *recordingSender) Send(_ context.Context, contact, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = map[string][]string{}
	}
	s.sent[contact] = append(s.sent[contact], message)
	return s.err
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedTaxiDelivery(t *testing.T, store *memory.Store, id string, moveAt time.Time) {
	t.Helper()
	ctx := context.Background()
	office := "office-1"
	require.NoError(t, store.Deliveries().Create(ctx, &domain.Delivery{
		ID: id, OrderID: "o-" + id, ProviderType: domain.ProviderTaxiOffice,
		Status: domain.DeliveryConfirmed, TaxiOfficeID: &office, ScheduledMoveAt: &moveAt,
	}))
}

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Taxi().CreateOffice(context.Background(), domain.TaxiOffice{
		ID: "office-1", Contact: "970599111111", Priority: 1, IsActive: true,
	}))
	return store
}

func TestMoveReminder_RemindsDueOnce(t *testing.T) {
	store := newStore(t)
	seedTaxiDelivery(t, store, "due", now.Add(-time.Minute))
	seedTaxiDelivery(t, store, "later", now.Add(time.Hour))

	sender := &recordingSender{}
	rec := testlog.New()
	job := NewMoveReminderJob(store.Deliveries(), store.Taxi(), sender, rec.Logger())
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, sender.sent["970599111111"], 1)
	require.Contains(t, sender.sent["970599111111"][0], "GO NOW")
	require.Contains(t, sender.sent["970599111111"][0], "o-due")
	require.Equal(t, []string{"move_reminded"}, rec.Events())

	d, err := store.Deliveries().Get(context.Background(), "due")
	require.NoError(t, err)
	require.Equal(t, now, *d.MoveNotifiedAt)
}

func TestMoveReminder_ConcurrentWorkers(t *testing.T) {
	store := newStore(t)
	seedTaxiDelivery(t, store, "due", now.Add(-time.Minute))
	sender := &recordingSender{}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		job := NewMoveReminderJob(store.Deliveries(), store.Taxi(), sender, logx.Nop())
		job.now = func() time.Time { return now }
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = job.Run(context.Background())
		}()
	}
	wg.Wait()

	require.Len(t, sender.sent["970599111111"], 1)
}

func TestMoveReminder_SendFailureIsNotRetried(t *testing.T) {
	store := newStore(t)
	seedTaxiDelivery(t, store, "due", now.Add(-time.Minute))
	sender := &recordingSender{err: errors.New("queue down")}
	rec := testlog.New()

	job := NewMoveReminderJob(store.Deliveries(), store.Taxi(), sender, rec.Logger())
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sender.sent["970599111111"], 1)
	require.Len(t, rec.ByLevel("warn"), 1)
}

func TestContractExpiry(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Drivers().CreateContract(ctx, domain.DriverContract{
		ID: "c1", DriverUserID: "d1", Status: domain.ContractActive,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.Add(-time.Hour),
	}))
	require.NoError(t, store.Drivers().CreateContract(ctx, domain.DriverContract{
		ID: "c2", DriverUserID: "d2", Status: domain.ContractActive,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.Add(time.Hour),
	}))

	rec := testlog.New()
	job := NewContractExpiryJob(store.Drivers(), rec.Logger())
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(ctx))
	require.Equal(t, []string{"contracts_expired"}, rec.Events())
	v, _ := rec.Entries()[0].Field("count")
	require.Equal(t, 1, v)

	require.NoError(t, job.Run(ctx))
	require.Len(t, rec.Entries(), 1, "nothing left to expire")
}

type countingJob struct {
	n    atomic.Int32
	done chan struct{}
	once sync.Once
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.n.Add(1)
	j.once.Do(func() { close(j.done) })
	return nil
}

func TestManager_RunsScheduledJobs(t *testing.T) {
	m := NewManager(logx.Nop(), time.Second)
	job := &countingJob{done: make(chan struct{})}
	require.NoError(t, m.Add("* * * * * *", job))

	m.StartAll()
	select {
	case <-job.done:
	case <-time.After(3 * time.Second):
		t.Fatal("job never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.StopAll(ctx))
	require.GreaterOrEqual(t, job.n.Load(), int32(1))
}

func TestManager_RejectsBadSpec(t *testing.T) {
	m := NewManager(logx.Nop(), time.Second)
	err := m.Add("every minute", &countingJob{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "counting")
}
