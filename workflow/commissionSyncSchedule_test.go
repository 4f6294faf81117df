package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	summary *Summary
	err     error
	calls   int
}

func (r *stubRunner) Run(ctx context.Context) (*Summary, error) {
	r.calls++
	return r.summary, r.err
}

func TestNewCommissionSyncScheduler_RegistersOneEntry(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c, err := NewCommissionSyncScheduler(context.Background(), &stubRunner{}, "0 */15 * * * *", logger)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}

func TestNewCommissionSyncScheduler_RejectsBadCronExpression(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := NewCommissionSyncScheduler(context.Background(), &stubRunner{}, "every quarter hour", logger)
	assert.Error(t, err)
}

func TestRunCommissionSyncTick(t *testing.T) {
	t.Run("Completed", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		runner := &stubRunner{summary: &Summary{CorrelationId: "c1", Scanned: 3, Fixed: 3}}

		runCommissionSyncTick(context.Background(), runner, logger)

		assert.Equal(t, 1, runner.calls)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
		assert.Equal(t, 3, hook.LastEntry().Data["fixed"])
	})

	t.Run("Locked", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		runner := &stubRunner{err: ErrCommissionSyncLocked}

		runCommissionSyncTick(context.Background(), runner, logger)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "another run holds the lock")
	})

	t.Run("Failed", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		runner := &stubRunner{err: errors.New("query error: table doesn't exist")}

		runCommissionSyncTick(context.Background(), runner, logger)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "runCommissionSyncTick", hook.LastEntry().Data["funcName"])
	})

	t.Run("CancelledContextSkipsRun", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		runner := &stubRunner{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runCommissionSyncTick(ctx, runner, logger)
		assert.Equal(t, 0, runner.calls)
	})
}
