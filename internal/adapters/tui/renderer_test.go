package tui_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/adapters/tui"
)

func newRenderer() *tui.Renderer {
	return tui.NewRenderer(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

func TestRenderer_Lifecycle(t *testing.T) {
	renderer := newRenderer()

	require.NoError(t, renderer.Start(context.Background()))
	require.NoError(t, renderer.Stop())
}

func TestRenderer_StopWithoutStart(t *testing.T) {
	require.NoError(t, newRenderer().Stop())
}

func TestRenderer_EventsAfterStopAreDropped(t *testing.T) {
	renderer := newRenderer()
	require.NoError(t, renderer.Start(context.Background()))
	require.NoError(t, renderer.Stop())

	renderer.OnPlanEmit([]string{"app"})
	renderer.OnJobStart("span-1", "", "app", time.Now())
	renderer.OnJobLog("span-1", []byte("ignored"))
	renderer.OnJobComplete("span-1", time.Now(), nil)
}

func TestRenderer_JobEvents(t *testing.T) {
	renderer := newRenderer()
	require.NoError(t, renderer.Start(context.Background()))

	start := time.Now()
	renderer.OnPlanEmit([]string{"app", "db"})
	renderer.OnJobStart("span-1", "", "app", start)
	renderer.OnJobLog("span-1", []byte("matched 1\n"))
	renderer.OnJobComplete("span-1", start.Add(time.Millisecond), nil)
	renderer.OnJobStart("span-2", "", "db", start)
	renderer.OnJobComplete("span-2", start, errors.New("boom"))

	require.NoError(t, renderer.Stop())
}

func TestRenderer_RestartsForEachRun(t *testing.T) {
	renderer := newRenderer()

	for range 2 {
		require.NoError(t, renderer.Start(context.Background()))
		renderer.OnPlanEmit([]string{"app"})
		require.NoError(t, renderer.Stop())
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer := newRenderer()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, renderer.Start(ctx))
	cancel()
	require.NoError(t, renderer.Stop())
}
