package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/adapters/telemetry"
)

type flushRecorder struct {
	mu      sync.Mutex
	batches []string
}

func (f *flushRecorder) onFlush(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, string(data))
}

func (f *flushRecorder) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.batches...)
}

func TestBatchProcessor_SizeLimit(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(8, time.Hour, rec.onFlush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("1234"))
	require.NoError(t, err)
	assert.Empty(t, rec.snapshot())

	_, err = bp.Write([]byte("5678"))
	require.NoError(t, err)
	assert.Equal(t, []string{"12345678"}, rec.snapshot())
}

func TestBatchProcessor_TimeLimit(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(1024, 10*time.Millisecond, rec.onFlush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("tick"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"tick"}, rec.snapshot())
}

func TestBatchProcessor_CloseFlushes(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(1024, time.Hour, rec.onFlush)

	_, err := bp.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())
	assert.Equal(t, []string{"tail"}, rec.snapshot())

	_, err = bp.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrBatcherClosed)

	bp.Flush()
	assert.Len(t, rec.snapshot(), 1)
}

func TestBatchProcessor_Defaults(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(0, 0, rec.onFlush)

	big := make([]byte, telemetry.DefaultSizeLimit)
	_, err := bp.Write(big)
	require.NoError(t, err)
	require.NoError(t, bp.Close())

	batches := rec.snapshot()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], telemetry.DefaultSizeLimit)
}
