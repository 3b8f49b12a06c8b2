package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

// memStore is an in-memory CycleStore and DuePlanScanner. It serializes
// cycles with one lock and hands the engine a fresh copy of the plan, the
// same contract the PostgreSQL store meets with row locks.
type memStore struct {
	mu      sync.Mutex
	plans   map[int64]*model.PMPlan
	orders  []*model.WorkOrder
	nextID  int64
	scanErr error
	// createErr fails CreateWorkOrder for the given plan ids.
	createErr map[int64]error
	// onCycle, when set, runs at the start of every cycle.
	onCycle func(planID int64)
}

func newMemStore(plans ...*model.PMPlan) *memStore {
	s := &memStore{
		plans:     make(map[int64]*model.PMPlan),
		createErr: make(map[int64]error),
	}
	for _, p := range plans {
		cp := *p
		s.plans[p.ID] = &cp
	}
	return s
}

func (s *memStore) ListDuePlans(_ context.Context, today time.Time) ([]model.PMPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanErr != nil {
		return nil, s.scanErr
	}

	var due []model.PMPlan
	for _, p := range s.plans {
		if !DateOnly(p.NextDueDate).After(DateOnly(today)) {
			due = append(due, *p)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (s *memStore) RunCycle(ctx context.Context, planID int64, fn func(ctx context.Context, c Cycle, plan *model.PMPlan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.onCycle != nil {
		s.onCycle(planID)
	}

	p, ok := s.plans[planID]
	if !ok {
		return ErrPlanGone
	}

	fresh := *p
	return fn(ctx, &memCycle{store: s, planID: planID}, &fresh)
}

type memCycle struct {
	store  *memStore
	planID int64
}

func (c *memCycle) HasActivePMOrder(_ context.Context, planID int64) (bool, error) {
	for _, w := range c.store.orders {
		if w.SourcePlanID != nil && *w.SourcePlanID == planID &&
			w.Type == model.WorkOrderTypePM && !model.IsTerminalStatus(w.Status) &&
			w.Status != model.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (c *memCycle) CreateWorkOrder(_ context.Context, w *model.WorkOrder) (int64, error) {
	if err := c.store.createErr[c.planID]; err != nil {
		return 0, err
	}
	c.store.nextID++
	w.ID = c.store.nextID
	cp := *w
	c.store.orders = append(c.store.orders, &cp)
	return w.ID, nil
}

func (c *memCycle) UpdatePlanNextDueDate(_ context.Context, planID int64, next time.Time) error {
	c.store.plans[planID].NextDueDate = next
	return nil
}

func plan(id int64, title string, freq int, due string) *model.PMPlan {
	return &model.PMPlan{
		ID:            id,
		AssetID:       id * 100,
		Title:         title,
		FrequencyDays: freq,
		NextDueDate:   date(due),
	}
}

func newTestEngine(s *memStore, catchUp bool) *Engine {
	return NewEngine(s, s, zap.NewNop(), catchUp)
}

func TestRunPass_GeneratesWorkOrderForDuePlan(t *testing.T) {
	s := newMemStore(plan(1, "Quarterly calibration", 90, "2024-06-01"))
	e := newTestEngine(s, false)

	res, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 1, Generated: 1}, res)

	require.Len(t, s.orders, 1)
	w := s.orders[0]
	assert.Equal(t, model.WorkOrderTypePM, w.Type)
	assert.Equal(t, model.PriorityMedium, w.Priority)
	assert.Equal(t, model.StatusOpen, w.Status)
	assert.Equal(t, "PM: Quarterly calibration", w.Description)
	require.NotNil(t, w.SourcePlanID)
	assert.Equal(t, int64(1), *w.SourcePlanID)
	require.NotNil(t, w.AssetID)
	assert.Equal(t, int64(100), *w.AssetID)
	require.NotNil(t, w.DueDate)
	assert.Equal(t, "2024-06-01", FormatDate(*w.DueDate))
}

func TestRunPass_OverduePlanGeneratesWithOriginalDueDate(t *testing.T) {
	s := newMemStore(plan(1, "Filter swap", 30, "2024-05-20"))
	e := newTestEngine(s, false)

	res, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)

	// Order due date is the plan's due date, not today.
	assert.Equal(t, "2024-05-20", FormatDate(*s.orders[0].DueDate))
	// Advancement is anchored on the due date as well.
	assert.Equal(t, "2024-06-19", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_FuturePlanNotTouched(t *testing.T) {
	s := newMemStore(plan(1, "Annual service", 365, "2024-07-01"))
	e := newTestEngine(s, false)

	res, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	assert.Equal(t, PassResult{}, res)
	assert.Empty(t, s.orders)
	assert.Equal(t, "2024-07-01", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_DuplicateGuardSkipsAndHoldsDate(t *testing.T) {
	s := newMemStore(plan(1, "Weekly check", 7, "2024-06-01"))
	e := newTestEngine(s, false)

	_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	require.Len(t, s.orders, 1)

	// The generated order is still open, so the advanced plan comes due
	// again a week later and must be skipped without touching the date.
	res, err := e.RunPass(context.Background(), date("2024-06-08"), "timer")
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 1, Skipped: 1}, res)
	assert.Len(t, s.orders, 1)
	assert.Equal(t, "2024-06-08", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_ResumesAfterOrderCloses(t *testing.T) {
	s := newMemStore(plan(1, "Weekly check", 7, "2024-06-01"))
	e := newTestEngine(s, false)

	_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)

	// Technician finishes the job; completed no longer blocks generation.
	s.orders[0].Status = model.StatusCompleted

	res, err := e.RunPass(context.Background(), date("2024-06-08"), "timer")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	assert.Len(t, s.orders, 2)
	assert.Equal(t, "2024-06-15", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_OnHoldOrderStillBlocks(t *testing.T) {
	s := newMemStore(plan(1, "Weekly check", 7, "2024-06-01"))
	e := newTestEngine(s, false)

	_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	s.orders[0].Status = model.StatusOnHold

	res, err := e.RunPass(context.Background(), date("2024-06-08"), "timer")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, s.orders, 1)
}

func TestRunPass_IdempotentWithinSameDay(t *testing.T) {
	s := newMemStore(plan(1, "Daily wipe-down", 1, "2024-06-01"))
	e := newTestEngine(s, false)

	for i := 0; i < 3; i++ {
		_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
		require.NoError(t, err)
	}

	// First pass generates and advances past today; later passes see
	// nothing due.
	assert.Len(t, s.orders, 1)
	assert.Equal(t, "2024-06-02", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_NoCatchUpAdvancesOneIntervalPerPass(t *testing.T) {
	// 30-day plan, three intervals overdue.
	s := newMemStore(plan(1, "Monthly PM", 30, "2024-01-01"))
	e := newTestEngine(s, false)

	_, err := e.RunPass(context.Background(), date("2024-04-01"), "timer")
	require.NoError(t, err)

	assert.Len(t, s.orders, 1)
	assert.Equal(t, "2024-01-31", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_CatchUpClearsBacklogInOnePass(t *testing.T) {
	s := newMemStore(plan(1, "Monthly PM", 30, "2024-01-01"))
	e := newTestEngine(s, true)

	_, err := e.RunPass(context.Background(), date("2024-04-01"), "timer")
	require.NoError(t, err)

	// Still a single order; catch-up compresses the backlog, it does not
	// generate one order per missed interval.
	assert.Len(t, s.orders, 1)
	assert.Equal(t, "2024-04-30", FormatDate(s.plans[1].NextDueDate))
}

func TestRunPass_FailureIsolation(t *testing.T) {
	s := newMemStore(
		plan(1, "First", 7, "2024-06-01"),
		plan(2, "Second", 7, "2024-06-01"),
		plan(3, "Third", 7, "2024-06-01"),
	)
	s.createErr[2] = errors.New("insert failed")
	e := newTestEngine(s, false)

	res, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 3, Generated: 2, Failed: 1}, res)

	// The failed plan keeps its due date for the next pass.
	assert.Equal(t, "2024-06-01", FormatDate(s.plans[2].NextDueDate))
	assert.Equal(t, "2024-06-08", FormatDate(s.plans[1].NextDueDate))
	assert.Equal(t, "2024-06-08", FormatDate(s.plans[3].NextDueDate))
}

func TestRunPass_PlanDeletedMidPassCountsAsSkip(t *testing.T) {
	s := newMemStore(
		plan(1, "First", 7, "2024-06-01"),
		plan(2, "Second", 7, "2024-06-01"),
	)
	s.onCycle = func(planID int64) {
		// Plan 2 vanishes after the scan but before its cycle.
		delete(s.plans, 2)
	}
	e := newTestEngine(s, false)

	res, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 2, Generated: 1, Skipped: 1}, res)
	assert.Len(t, s.orders, 1)
}

func TestRunPass_ScanErrorAbortsPass(t *testing.T) {
	s := newMemStore(plan(1, "First", 7, "2024-06-01"))
	s.scanErr = errors.New("db down")
	e := newTestEngine(s, false)

	_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
	assert.Error(t, err)
	assert.Empty(t, s.orders)
}

func TestRunPass_CancellationStopsEarly(t *testing.T) {
	s := newMemStore(
		plan(1, "First", 7, "2024-06-01"),
		plan(2, "Second", 7, "2024-06-01"),
		plan(3, "Third", 7, "2024-06-01"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cycles := 0
	s.onCycle = func(int64) {
		cycles++
		if cycles == 1 {
			cancel()
		}
	}
	e := newTestEngine(s, false)

	res, err := e.RunPass(ctx, date("2024-06-01"), "timer")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, res.Due)
	assert.Less(t, res.Generated+res.Skipped+res.Failed, 3)
}

func TestRunPass_ConcurrentPassesGenerateExactlyOnce(t *testing.T) {
	s := newMemStore(plan(1, "Weekly check", 7, "2024-06-01"))
	e := newTestEngine(s, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.RunPass(context.Background(), date("2024-06-01"), "timer")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// One pass wins the cycle; the rest re-read the advanced plan and
	// skip. Exactly one order exists and the date moved exactly once.
	assert.Len(t, s.orders, 1)
	assert.Equal(t, "2024-06-08", FormatDate(s.plans[1].NextDueDate))
}
