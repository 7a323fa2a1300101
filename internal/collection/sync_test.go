package collection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facetgrip/internal/domain"
)

type stubItem struct{ name string }

func (i *stubItem) SearchFragments() []string { return []string{i.name} }
func (i *stubItem) FacetTags(string) []string { return nil }

type listProvider struct {
	mu    sync.Mutex
	items []domain.Item
	calls int
}

func (p *listProvider) Items() []domain.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return append([]domain.Item(nil), p.items...)
}

func (p *listProvider) add(names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range names {
		p.items = append(p.items, &stubItem{name: n})
	}
}

type countingProvider struct {
	listProvider
	counts int
}

func (p *countingProvider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts++
	return len(p.items)
}

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) handle(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) all() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

func TestSnapshotReEnumeratesEveryCall(t *testing.T) {
	p := &listProvider{}
	p.add("a", "b")
	s := New(p)

	first := s.Snapshot()
	p.add("c")
	second := s.Snapshot()

	assert.Len(t, first, 2)
	assert.Len(t, second, 3)
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, 3, s.lastObserved())
}

func TestSnapshotIsAPointInTimeCopy(t *testing.T) {
	p := &listProvider{}
	p.add("a")
	s := New(p)

	snap := s.Snapshot()
	p.add("b")
	assert.Len(t, snap, 1)
}

func TestSnapshotWithoutProvider(t *testing.T) {
	s := New(nil)
	assert.Empty(t, s.Snapshot())
	assert.False(t, s.Reconcile())
}

func TestNotifyFiresPushedChange(t *testing.T) {
	p := &listProvider{}
	p.add("a")
	rec := &changeRecorder{}
	s := New(p, WithChangeHandler(rec.handle))
	s.Snapshot()

	p.add("b")
	s.Notify()

	changes := rec.all()
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Reason: ReasonPushed, PreviousCount: 1, CurrentCount: 2}, changes[0])
}

func TestReconcileOnlyFiresOnCardinalityChange(t *testing.T) {
	p := &countingProvider{}
	p.add("a")
	rec := &changeRecorder{}
	s := New(p, WithChangeHandler(rec.handle))
	s.Snapshot()

	assert.False(t, s.Reconcile())
	p.add("b")
	assert.True(t, s.Reconcile())
	assert.False(t, s.Reconcile())

	changes := rec.all()
	require.Len(t, changes, 1)
	assert.Equal(t, ReasonReconciled, changes[0].Reason)
	assert.Equal(t, 1, changes[0].PreviousCount)
	assert.Equal(t, 2, changes[0].CurrentCount)
	assert.Equal(t, 3, p.counts, "Counter is preferred over Items for polling")
}

func TestFirstReconcileOnlyRecordsBaseline(t *testing.T) {
	p := &listProvider{}
	p.add("a")
	rec := &changeRecorder{}
	s := New(p, WithChangeHandler(rec.handle))

	assert.False(t, s.Reconcile())
	assert.Empty(t, rec.all())
	assert.Equal(t, 1, s.lastObserved())
}

func TestStartPollsUntilStopped(t *testing.T) {
	p := &listProvider{}
	p.add("a")
	rec := &changeRecorder{}
	s := New(p, WithChangeHandler(rec.handle))
	s.Snapshot()

	s.Start(context.Background(), 10*time.Millisecond)
	assert.True(t, s.running())

	p.add("late")
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.False(t, s.running())

	p.add("after-stop")
	time.Sleep(40 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestStartStopsWithContext(t *testing.T) {
	s := New(&listProvider{})
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx, 5*time.Millisecond)
	cancel()

	// Stop must still return once the goroutine notices the cancellation
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
