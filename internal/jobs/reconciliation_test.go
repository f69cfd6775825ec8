package jobs

import (
	"context"
	"errors"
	"testing"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) RunOnce(ctx context.Context, batchSize int) (reconcile.Summary, error) {
	args := m.Called(ctx, batchSize)
	return args.Get(0).(reconcile.Summary), args.Error(1)
}

func TestReconciliationJob_Run(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := new(MockReconciler)
	r.On("RunOnce", mock.Anything, 25).Return(reconcile.Summary{Processed: 3, Resolved: 2, Retrying: 1}, nil).Once()

	job := newReconciliationJob(r, zap.New(core), &config.Config{})
	summary, err := job.Run(context.Background(), 25)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Resolved)
	completed := logs.FilterMessage("Reconciliation run completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(3), completed[0].ContextMap()["processed"])
	r.AssertExpectations(t)
}

func TestReconciliationJob_RunError(t *testing.T) {
	r := new(MockReconciler)
	r.On("RunOnce", mock.Anything, 10).Return(reconcile.Summary{}, errors.New("ledger unavailable")).Once()

	job := newReconciliationJob(r, zap.NewNop(), &config.Config{})
	_, err := job.Run(context.Background(), 10)

	assert.EqualError(t, err, "ledger unavailable")
}

func TestReconciliationJob_SetupAndStart(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "no schedule disables the job", schedule: ""},
		{name: "valid schedule", schedule: "@every 1h"},
		{name: "invalid schedule", schedule: "every now and then", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newReconciliationJob(new(MockReconciler), zap.NewNop(), &config.Config{ReconcileJobSchedule: tt.schedule})
			err := job.SetupAndStart()
			defer job.Stop()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCronLogger_PairsKeysAndValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewCronLogger(zap.New(core))

	l.Info("tick", "entry", 1, "dangling")
	l.Error(errors.New("boom"), "job failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ContextMap()["entry"])
	assert.Equal(t, "MISSING_VALUE", entries[0].ContextMap()["dangling"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
