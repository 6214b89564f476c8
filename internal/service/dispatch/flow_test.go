package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/travel"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
	"food-dispatch/internal/repository/memory"
	"food-dispatch/internal/service/cascade"
	"food-dispatch/internal/service/matcher"
	"food-dispatch/internal/service/schedule"
	"food-dispatch/internal/service/taxireply"
	"food-dispatch/internal/signal"
	testlog "food-dispatch/internal/testutil"
)

// officeBot answers offers through the reply intake, the way the webhook does.
type officeBot struct {
	replies *taxireply.Service
	answers map[string]string

	wg sync.WaitGroup
}

func (b *officeBot) Send(_ context.Context, contact, _ string) error {
	text, ok := b.answers[contact]
	if !ok {
		return nil
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		time.Sleep(5 * time.Millisecond)
		_, _ = b.replies.Handle(context.Background(), contact, text)
	}()
	return nil
}

type flowFixture struct {
	store *memory.Store
	bot   *officeBot
	rec   *testlog.Recorder
	o     *Orchestrator
	now   time.Time
}

func newFlowFixture(t *testing.T, answers map[string]string) *flowFixture {
	t.Helper()
	store := memory.New()
	hub := signal.NewHub()
	rec := testlog.New()
	bot := &officeBot{
		replies: taxireply.New(store.Taxi(), hub, time.Second, logx.Nop()),
		answers: answers,
	}
	t.Cleanup(bot.wg.Wait)

	dispatcher := cascade.New(store.Taxi(), store.Deliveries(), bot, hub, metrics.NewNopDispatch(), logx.Nop(), cascade.Config{
		Window:           60 * time.Millisecond,
		PollInterval:     10 * time.Millisecond,
		OperationTimeout: time.Second,
	})
	o := NewOrchestrator(Deps{
		Orders:     store.Orders(),
		Deliveries: store.Deliveries(),
		Offices:    store.Taxi(),
		Matcher:    matcher.NewOldestIdle(store.Drivers()),
		Cascade:    dispatcher,
		Scheduler:  schedule.New(travel.Constant(12), 12, logx.Nop()),
	}, time.Second, rec.Logger())

	now := time.Now().UTC().Truncate(time.Second)
	o.now = func() time.Time { return now }

	prep := 30
	require.NoError(t, store.Orders().Create(context.Background(), &domain.Order{
		ID:          "order-1",
		Status:      domain.OrderStoreAcceptedConditional,
		PrepMinutes: &prep,
		Branch:      domain.Branch{ID: "b1", PrepTimeMinutes: 20, Location: &domain.Point{Lat: 31.5, Lng: 34.46}},
	}))
	return &flowFixture{store: store, bot: bot, rec: rec, o: o, now: now}
}

func (f *flowFixture) addDriver(t *testing.T, id string, seen time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Drivers().CreateContract(ctx, domain.DriverContract{
		ID: "c-" + id, DriverUserID: id, Status: domain.ContractActive,
		StartDate: time.Now().Add(-24 * time.Hour), EndDate: time.Now().Add(30 * 24 * time.Hour),
	}))
	require.NoError(t, f.store.Drivers().UpsertPresence(ctx, domain.DriverPresence{
		DriverUserID: id, IsOnline: true, LastSeenAt: seen, LastPosition: &domain.Point{Lat: 31.52, Lng: 34.45},
	}))
}

func (f *flowFixture) addOffices(t *testing.T, contacts ...string) {
	t.Helper()
	for i, c := range contacts {
		require.NoError(t, f.store.Taxi().CreateOffice(context.Background(), domain.TaxiOffice{
			ID: "office-" + c, Name: c, Contact: c, Priority: i + 1, IsActive: true,
		}))
	}
}

func (f *flowFixture) delivery(t *testing.T) *domain.Delivery {
	t.Helper()
	d, err := f.store.Deliveries().GetByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	return d
}

func TestFlow_NoDriversNoOfficesCancelsBoth(t *testing.T) {
	f := newFlowFixture(t, nil)

	_, err := f.o.Dispatch(context.Background(), "order-1")
	require.ErrorIs(t, err, apperr.ErrNoCourierAvailable)

	require.Equal(t, domain.DeliveryCancelled, f.delivery(t).Status)
	require.Equal(t, []domain.OrderStatus{
		domain.OrderStoreAcceptedConditional, domain.OrderDeliveryConfirming, domain.OrderCancelled,
	}, f.store.OrderHistory("order-1"))
	require.Equal(t, []string{
		"order_delivery_confirming", "delivery_pending", "delivery_cancelled", "order_cancelled",
	}, f.rec.Events())
}

func TestFlow_EligibleDriverNeverRunsCascade(t *testing.T) {
	f := newFlowFixture(t, map[string]string{"111": "1"})
	f.addOffices(t, "111")
	f.addDriver(t, "driver-new", time.Now().Add(-time.Minute))
	f.addDriver(t, "driver-idle", time.Now().Add(-time.Hour))

	res, err := f.o.Dispatch(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, domain.ProviderInternalDriver, res.ProviderType)
	require.Equal(t, f.now.Add(18*time.Minute), res.ScheduledMoveAt)

	d := f.delivery(t)
	require.Equal(t, domain.DeliveryConfirmed, d.Status)
	require.Nil(t, d.DriverUserID)
	require.Nil(t, d.TaxiOfficeID)

	attempts, err := f.store.Taxi().ListAttempts(context.Background(), d.ID)
	require.NoError(t, err)
	require.Empty(t, attempts)

	v, ok := f.rec.Entries()[1].Field("matched_driver")
	require.True(t, ok)
	require.Equal(t, "driver-idle", v)
}

func TestFlow_CascadeTimeoutsThenAccept(t *testing.T) {
	f := newFlowFixture(t, map[string]string{"C": "1"})
	f.addOffices(t, "A", "B", "C")

	res, err := f.o.Dispatch(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, domain.ProviderTaxiOffice, res.ProviderType)
	require.Equal(t, "office-C", *res.TaxiOfficeID)
	require.Equal(t, f.now.Add(30*time.Minute), res.ScheduledMoveAt)

	d := f.delivery(t)
	require.Equal(t, domain.DeliveryConfirmed, d.Status)
	require.Equal(t, "office-C", *d.TaxiOfficeID)
	require.Nil(t, d.DriverUserID)
	require.NotNil(t, d.ConfirmedAt)

	attempts, err := f.store.Taxi().ListAttempts(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	wantOffices := []string{"office-A", "office-B", "office-C"}
	wantStatus := []domain.AttemptStatus{domain.AttemptTimeout, domain.AttemptTimeout, domain.AttemptAccepted}
	for i, a := range attempts {
		require.Equal(t, wantOffices[i], a.TaxiOfficeID)
		require.Equal(t, wantStatus[i], a.Status)
	}

	require.Equal(t, []domain.OrderStatus{
		domain.OrderStoreAcceptedConditional, domain.OrderDeliveryConfirming, domain.OrderPreparing,
	}, f.store.OrderHistory("order-1"))
}

func TestFlow_RejectAdvancesCascade(t *testing.T) {
	f := newFlowFixture(t, map[string]string{"A": "2", "B": "1"})
	f.addOffices(t, "A", "B")

	res, err := f.o.Dispatch(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "office-B", *res.TaxiOfficeID)

	attempts, err := f.store.Taxi().ListAttempts(context.Background(), res.DeliveryID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	require.Equal(t, domain.AttemptRejected, attempts[0].Status)
}

func TestFlow_OrderHistoryFollowsGraph(t *testing.T) {
	for name, setup := range map[string]func(*testing.T, *flowFixture){
		"driver":  func(t *testing.T, f *flowFixture) { f.addDriver(t, "d1", time.Now()) },
		"taxi":    func(t *testing.T, f *flowFixture) { f.addOffices(t, "C") },
		"nothing": func(*testing.T, *flowFixture) {},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFlowFixture(t, map[string]string{"C": "1"})
			setup(t, f)
			_, _ = f.o.Dispatch(context.Background(), "order-1")

			h := f.store.OrderHistory("order-1")
			for i := 1; i < len(h); i++ {
				require.True(t, h[i-1].CanTransitionTo(h[i]), "%s -> %s", h[i-1], h[i])
			}
			require.NotEqual(t, domain.OrderDeliveryConfirming, h[len(h)-1], "no order left dangling")
		})
	}
}

func TestFlow_SecondDispatchIsInvalidState(t *testing.T) {
	f := newFlowFixture(t, nil)
	f.addDriver(t, "d1", time.Now())

	_, err := f.o.Dispatch(context.Background(), "order-1")
	require.NoError(t, err)

	_, err = f.o.Dispatch(context.Background(), "order-1")
	require.ErrorIs(t, err, apperr.ErrInvalidState)
}

func (f *flowFixture) intake() *Intake {
	return NewIntake(f.store.Orders(), f.store.Deliveries(), nil, time.Second, logx.Nop())
}

// cancelOnMatch cancels the order right after matching, while the flow is between steps.
type cancelOnMatch struct {
	next   driverMatcher
	intake *Intake
	t      *testing.T
}

func (m cancelOnMatch) Match(ctx context.Context) (*domain.DriverPresence, error) {
	driver, err := m.next.Match(ctx)
	_, cerr := m.intake.Cancel(ctx, "order-1")
	require.NoError(m.t, cerr)
	return driver, err
}

func TestFlow_CancelWhileOfficeWaitsStopsCascade(t *testing.T) {
	f := newFlowFixture(t, map[string]string{"B": "1"})
	f.addOffices(t, "A", "B")

	done := make(chan error, 1)
	go func() {
		_, err := f.o.Dispatch(context.Background(), "order-1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		d, err := f.store.Deliveries().GetByOrderID(context.Background(), "order-1")
		if err != nil || d == nil {
			return false
		}
		attempts, err := f.store.Taxi().ListAttempts(context.Background(), d.ID)
		return err == nil && len(attempts) == 1
	}, time.Second, time.Millisecond)
	_, err := f.intake().Cancel(context.Background(), "order-1")
	require.NoError(t, err)

	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not stop after cancel")
	}
	require.ErrorIs(t, err, apperr.ErrCancelled)

	d := f.delivery(t)
	require.Equal(t, domain.DeliveryCancelled, d.Status)
	require.Nil(t, d.TaxiOfficeID)
	attempts, err := f.store.Taxi().ListAttempts(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1, "office B is never offered")
	require.Equal(t, "office-A", attempts[0].TaxiOfficeID)
	require.Equal(t, domain.AttemptTimeout, attempts[0].Status)

	order, err := f.store.Orders().Get(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderCancelled, order.Status)
}

func TestFlow_CancelBeforeDeliveryLeavesNothingClaimable(t *testing.T) {
	f := newFlowFixture(t, nil)
	f.addDriver(t, "d1", time.Now())
	f.o.matcher = cancelOnMatch{next: f.o.matcher, intake: f.intake(), t: t}

	_, err := f.o.Dispatch(context.Background(), "order-1")
	require.ErrorIs(t, err, apperr.ErrCancelled)

	require.Equal(t, domain.DeliveryCancelled, f.delivery(t).Status)
	available, err := f.store.Deliveries().ListAvailable(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, available)
	require.Equal(t, []domain.OrderStatus{
		domain.OrderStoreAcceptedConditional, domain.OrderDeliveryConfirming, domain.OrderCancelled,
	}, f.store.OrderHistory("order-1"))
}

func TestFlow_CancelBeforeTaxiDeliveryOffersNothing(t *testing.T) {
	f := newFlowFixture(t, map[string]string{"A": "1"})
	f.addOffices(t, "A")
	f.o.matcher = cancelOnMatch{next: f.o.matcher, intake: f.intake(), t: t}

	_, err := f.o.Dispatch(context.Background(), "order-1")
	require.ErrorIs(t, err, apperr.ErrCancelled)

	d := f.delivery(t)
	require.Equal(t, domain.DeliveryCancelled, d.Status)
	attempts, err := f.store.Taxi().ListAttempts(context.Background(), d.ID)
	require.NoError(t, err)
	require.Empty(t, attempts)
}
