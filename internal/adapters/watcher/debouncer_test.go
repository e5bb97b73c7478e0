package watcher_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/adapters/watcher"
)

func TestDebouncer_NothingPending(t *testing.T) {
	d := watcher.NewDebouncer(time.Second)
	assert.Nil(t, d.C())
	assert.Empty(t, d.Drain())
	d.Stop()
}

func TestDebouncer_CoalescesPaths(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(100 * time.Millisecond)
		defer d.Stop()

		start := time.Now()
		d.Add("/sboms/b.json")
		time.Sleep(60 * time.Millisecond)
		d.Add("/sboms/a.json")
		d.Add("/sboms/b.json")

		<-d.C()
		assert.Equal(t, 160*time.Millisecond, time.Since(start))
		assert.Equal(t, []string{"/sboms/a.json", "/sboms/b.json"}, d.Drain())
		assert.Nil(t, d.C())
	})
}

func TestDebouncer_Reuse(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(50 * time.Millisecond)
		defer d.Stop()

		d.Add("/sboms/a.json")
		<-d.C()
		require.Equal(t, []string{"/sboms/a.json"}, d.Drain())

		start := time.Now()
		d.Add("/sboms/c.json")
		<-d.C()
		assert.Equal(t, 50*time.Millisecond, time.Since(start))
		assert.Equal(t, []string{"/sboms/c.json"}, d.Drain())
	})
}
