package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/spectragraph/interaction"
	"github.com/TFMV/spectragraph/models"
	"github.com/TFMV/spectragraph/spectral"
)

func start(t *testing.T, opts Options) (*Session, context.CancelFunc) {
	t.Helper()
	s := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Error("loop did not stop")
		}
	})
	return s, cancel
}

func TestNewPublishesSeedFrame(t *testing.T) {
	s := New(DefaultOptions())

	f := s.Frame()
	assert.Len(t, f.Nodes, 7)
	assert.Len(t, f.Edges, 8)
	assert.Zero(t, f.Tick)
	for _, n := range f.Nodes {
		assert.False(t, n.X == 0 && n.Y == 0, "seed nodes are scattered")
	}
}

func TestEmptySession(t *testing.T) {
	opts := DefaultOptions()
	opts.Empty = true
	s := New(opts)
	assert.Empty(t, s.Frame().Nodes)
}

func TestDispatchRunsOnLoop(t *testing.T) {
	s, _ := start(t, DefaultOptions())
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, interaction.Event{
		Type: interaction.EventPointerDown, Target: interaction.OnBackground, X: 40, Y: 60,
	}))
	require.NoError(t, s.Dispatch(ctx, interaction.Event{Type: interaction.EventPointerUp}))

	var count int
	require.NoError(t, s.Do(ctx, func(g *models.Graph, _ *spectral.Analyzer) {
		count = g.NodeCount()
	}))
	assert.Equal(t, 8, count)
	assert.Len(t, s.Frame().Nodes, 8)

	err := s.Dispatch(ctx, interaction.Event{Type: "scroll"})
	require.ErrorIs(t, err, interaction.ErrUnknownEvent)
}

func TestSelectionAndSpectrum(t *testing.T) {
	s, _ := start(t, DefaultOptions())
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, interaction.Event{Type: interaction.EventPointerDown, Target: interaction.OnNode, Node: 2}))
	require.NoError(t, s.Dispatch(ctx, interaction.Event{Type: interaction.EventPointerUp, Target: interaction.OnNode, Node: 2}))
	sel, err := s.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, interaction.Selection{Kind: interaction.SelectNode, Node: 2}, sel)

	sp, err := s.Spectrum(ctx)
	require.NoError(t, err)
	assert.True(t, sp.Stale)

	require.NoError(t, s.Dispatch(ctx, interaction.Event{Type: interaction.EventKeyDown, Key: "l"}))
	require.NoError(t, s.Dispatch(ctx, interaction.Event{Type: interaction.EventKeyUp, Key: "l"}))

	sp, err = s.Spectrum(ctx)
	require.NoError(t, err)
	assert.False(t, sp.Stale)
	assert.Len(t, sp.Values, 7)
	assert.Equal(t, 1, sp.Components)

	for _, n := range s.Frame().Nodes {
		assert.NotNil(t, n.Value)
	}
}

func TestTicksAdvanceLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.TickInterval = time.Millisecond
	s, _ := start(t, opts)

	frames, cancel := s.Subscribe()
	defer cancel()

	<-frames // current frame
	assert.Eventually(t, func() bool {
		f := <-frames
		return f.Tick > 5
	}, 2*time.Second, time.Millisecond)
}

func TestLayoutGoesIdle(t *testing.T) {
	opts := DefaultOptions()
	opts.TickInterval = time.Millisecond
	s, _ := start(t, opts)

	assert.Eventually(t, func() bool {
		return s.Frame().Alpha < opts.Layout.AlphaMin
	}, 5*time.Second, 5*time.Millisecond)

	tick := s.Frame().Tick
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, tick, s.Frame().Tick, "idle layout does not tick")
}

func TestSubscribersClosedOnStop(t *testing.T) {
	s := New(DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	frames, unsubscribe := s.Subscribe()
	defer unsubscribe()

	cancel()
	<-done

	for range frames {
	}
	_, err := s.Spectrum(context.Background())
	require.ErrorIs(t, err, ErrClosed)

	late, _ := s.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}

func TestDoHonoursContext(t *testing.T) {
	s := New(DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Do(ctx, func(*models.Graph, *spectral.Analyzer) {})
	require.ErrorIs(t, err, context.Canceled)
}

func TestShortDeadlinesNeverLeaveWorkRunning(t *testing.T) {
	s, _ := start(t, DefaultOptions())

	for i := 0; i < 2000; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i%50)*time.Microsecond)
		sp, err := s.Spectrum(ctx)
		if err == nil {
			assert.True(t, sp.Stale)
		}
		sel, err := s.Selection(ctx)
		if err == nil {
			assert.Equal(t, interaction.SelectNone, sel.Kind)
		}
		cancel()
	}
}

func TestDoWaitsForAcceptedWork(t *testing.T) {
	s, _ := start(t, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	err := s.Do(ctx, func(*models.Graph, *spectral.Analyzer) {
		cancel()
		time.Sleep(5 * time.Millisecond)
		ran = true
	})
	require.NoError(t, err)
	assert.True(t, ran, "Do returns only after the accepted function finished")
}
