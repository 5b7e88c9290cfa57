package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildtrack/internal/model"
)

// recordingScheduler records the order of CancelAll/ScheduleOneShot calls.
// An optional hook runs before each schedule call so tests can interleave a
// competing Apply.
type recordingScheduler struct {
	mu         sync.Mutex
	calls      []string
	beforeNext func()
}

func (r *recordingScheduler) ScheduleOneShot(_ context.Context, job model.NotificationJob) error {
	if r.beforeNext != nil {
		r.beforeNext()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "schedule:"+job.Source.Name)
	return nil
}

func (r *recordingScheduler) CancelAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "cancel")
	return nil
}

func (r *recordingScheduler) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func jobNamed(name string) model.NotificationJob {
	return model.NotificationJob{
		FireAt: time.Now().Add(time.Hour),
		Title:  TitleRegular,
		Body:   name + " starts in 15 minutes!",
		Source: model.Occurrence{Name: name},
	}
}

func TestApplyCancelsBeforeScheduling(t *testing.T) {
	rec := &recordingScheduler{}
	a := NewApplier(rec)

	err := a.Apply(context.Background(), []model.NotificationJob{jobNamed("A"), jobNamed("B")})
	require.NoError(t, err)

	assert.Equal(t, []string{"cancel", "schedule:A", "schedule:B"}, rec.snapshot())
}

func TestApplyEmptyPlanStillCancels(t *testing.T) {
	rec := &recordingScheduler{}
	a := NewApplier(rec)

	require.NoError(t, a.Apply(context.Background(), nil))
	assert.Equal(t, []string{"cancel"}, rec.snapshot())
}

func TestApplySupersededRunStopsScheduling(t *testing.T) {
	rec := &recordingScheduler{}
	a := NewApplier(rec)

	// While the slow run is scheduling its first job, a competing empty
	// Apply runs to completion. The slow run must observe its stale token
	// afterwards and stop before scheduling job B.
	hooked := false
	rec.beforeNext = func() {
		if hooked {
			return
		}
		hooked = true
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Apply(context.Background(), nil)
		}()
		wg.Wait()
	}

	err := a.Apply(context.Background(), []model.NotificationJob{jobNamed("A"), jobNamed("B")})
	assert.ErrorIs(t, err, ErrSuperseded)

	calls := rec.snapshot()
	assert.NotContains(t, calls, "schedule:B")
}

func TestApplyHonorsContextCancellation(t *testing.T) {
	rec := &recordingScheduler{}
	a := NewApplier(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Apply(ctx, []model.NotificationJob{jobNamed("A")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"cancel"}, rec.snapshot())
}
