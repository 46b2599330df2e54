package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/tasks/mock"
	"go.uber.org/mock/gomock"
)

type funcJob struct {
	code  string
	every time.Duration
	runs  atomic.Int32
	fn    func(ctx context.Context) error
}

func (j *funcJob) Code() string            { return j.code }
func (j *funcJob) Interval() time.Duration { return j.every }

func (j *funcJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fn == nil {
		return nil
	}
	return j.fn(ctx)
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := mock.NewMockRecorder(ctrl)
	recorder.EXPECT().ObserveJob("TASK:PANIC", gomock.Any(), gomock.Not(gomock.Nil()))
	recorder.EXPECT().ObserveJob("TASK:OK", gomock.Any(), gomock.Nil())

	panicking := &funcJob{code: "TASK:PANIC", fn: func(context.Context) error { panic("boom") }}
	ok := &funcJob{code: "TASK:OK"}
	s := NewScheduler(recorder, panicking, ok)

	err := s.RunOnce(context.Background(), panicking)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NoError(t, s.RunOnce(context.Background(), ok))
}

func TestScheduler_RunAllIsolatesFailures(t *testing.T) {
	failing := &funcJob{code: CodeBackup, fn: func(context.Context) error { return errors.New("disk full") }}
	healthy := &funcJob{code: CodeUsers}
	s := NewScheduler(nil, failing, healthy)

	err := s.RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, int32(1), failing.runs.Load())
	assert.Equal(t, int32(1), healthy.runs.Load())

	require.NoError(t, s.RunAll(context.Background(), CodeUsers))
	assert.Equal(t, int32(2), healthy.runs.Load())
	assert.Equal(t, int32(1), failing.runs.Load())

	assert.Error(t, s.RunAll(context.Background(), "TASK:NOPE"))
}

func TestScheduler_RunKeepsLoopsAlive(t *testing.T) {
	failing := &funcJob{code: CodeQuests, every: 5 * time.Millisecond, fn: func(context.Context) error { return errors.New("locked") }}
	healthy := &funcJob{code: CodeTempFiles, every: 5 * time.Millisecond}
	disabled := &funcJob{code: CodeBackup}
	s := NewScheduler(nil, failing, healthy, disabled)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return failing.runs.Load() >= 3 && healthy.runs.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Zero(t, disabled.runs.Load())
}
