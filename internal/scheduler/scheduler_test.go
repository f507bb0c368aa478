package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rongwang/sheet-tables-server/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSyncer struct {
	calls   atomic.Int32
	block   chan struct{}
	started chan struct{}
	err     error
	once    sync.Once

	// waitCtx makes SyncAll block until its context is done
	waitCtx bool
	ctxErr  atomic.Value
}

func (c *countingSyncer) SyncAll(ctx context.Context) (int, int, error) {
	c.calls.Add(1)
	if c.started != nil {
		c.once.Do(func() { close(c.started) })
	}
	if c.block != nil {
		<-c.block
	}
	if c.waitCtx {
		<-ctx.Done()
		c.ctxErr.Store(ctx.Err())
		return 0, 0, ctx.Err()
	}
	return 1, 0, c.err
}

func TestNew_EmptyScheduleDisabled(t *testing.T) {
	s, err := New("", &countingSyncer{}, utils.NewDiscardLogger(), time.Minute)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every now and then", &countingSyncer{}, utils.NewDiscardLogger(), time.Minute)
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("store down")}
	s, err := New("@every 1h", syncer, utils.NewDiscardLogger(), time.Minute)
	require.NoError(t, err)

	s.RunOnce()
	s.RunOnce()
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestRunOnce_SkipsOverlappingRuns(t *testing.T) {
	syncer := &countingSyncer{block: make(chan struct{}), started: make(chan struct{})}
	s, err := New("@every 1h", syncer, utils.NewDiscardLogger(), time.Minute)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunOnce()
		close(done)
	}()

	<-syncer.started
	s.RunOnce() // returns immediately, first run still holds the slot
	close(syncer.block)
	<-done

	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestStartStop(t *testing.T) {
	syncer := &countingSyncer{started: make(chan struct{})}
	s, err := New("@every 1s", syncer, utils.NewDiscardLogger(), time.Minute)
	require.NoError(t, err)

	s.Start()
	select {
	case <-syncer.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled sync never ran")
	}
	s.Stop()

	assert.GreaterOrEqual(t, syncer.calls.Load(), int32(1))
}

func TestStop_CancelsRunInProgress(t *testing.T) {
	syncer := &countingSyncer{started: make(chan struct{}), waitCtx: true}
	s, err := New("@every 1s", syncer, utils.NewDiscardLogger(), time.Hour)
	require.NoError(t, err)

	s.Start()
	select {
	case <-syncer.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled sync never ran")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not cancel the running sync")
	}

	assert.ErrorIs(t, syncer.ctxErr.Load().(error), context.Canceled)
}
