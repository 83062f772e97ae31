// Package session runs one editing session: a graph, its layout, its
// spectral analyzer and the controller, all owned by a single goroutine.
//
// Every mutation goes through Run's event loop, so tick and input handling
// never interleave. Readers get immutable render.Frame snapshots.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/TFMV/spectragraph/interaction"
	"github.com/TFMV/spectragraph/models"
	"github.com/TFMV/spectragraph/physics"
	"github.com/TFMV/spectragraph/render"
	"github.com/TFMV/spectragraph/spectral"
)

// ErrClosed is returned when the event loop is not running any more.
var ErrClosed = errors.New("session: closed")

// Options configures a Session.
type Options struct {
	Layout       physics.Config
	Frame        render.FrameOptions
	TickInterval time.Duration
	Empty        bool // start with an empty graph instead of the seed graph
}

// DefaultOptions returns the options used by the editor.
func DefaultOptions() Options {
	return Options{
		Layout:       physics.DefaultConfig(),
		Frame:        render.DefaultFrameOptions(),
		TickInterval: 16 * time.Millisecond,
	}
}

// Session is the single owner of the graph model.
type Session struct {
	graph    *models.Graph
	analyzer *spectral.Analyzer
	sim      *physics.Simulator
	ctrl     *interaction.Controller
	opts     Options

	actions chan func()
	stopped chan struct{}
	once    sync.Once
	dirty   bool

	mu    sync.RWMutex
	frame render.Frame
	subs  map[chan render.Frame]struct{}
}

// New creates a session. The layout starts hot so the seed graph spreads out
// once Run is called.
func New(opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}

	g := models.NewSeedGraph()
	if opts.Empty {
		g = models.NewGraph("Untitled")
	}

	s := &Session{
		graph:    g,
		analyzer: spectral.NewAnalyzer(),
		sim:      physics.NewSimulator(opts.Layout),
		opts:     opts,
		actions:  make(chan func()),
		stopped:  make(chan struct{}),
		subs:     make(map[chan render.Frame]struct{}),
	}
	s.ctrl = interaction.NewController(s.graph, s.analyzer, s)
	s.sim.Scatter(s.graph)
	s.sim.Restart()
	s.publish()
	return s
}

// RequestRender marks the frame dirty. It must only be called from the loop.
func (s *Session) RequestRender() {
	s.dirty = true
}

// RestartLayout reheats the simulation. It must only be called from the loop.
func (s *Session) RestartLayout() {
	s.sim.Restart()
}

// Run drives the session until ctx is done. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()
	defer s.close()

	log.Printf("session %s: loop started (tick %s)", s.graph.ID, s.opts.TickInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("session %s: loop stopped", s.graph.ID)
			return ctx.Err()
		case act := <-s.actions:
			act()
		case <-ticker.C:
			if s.sim.Alive() {
				s.sim.Step(s.graph)
				s.dirty = true
			}
		}
		if s.dirty {
			s.publish()
		}
	}
}

// Do runs fn on the event loop and waits for it to return. ctx only bounds
// the wait for the loop to accept fn.
func (s *Session) Do(ctx context.Context, fn func(g *models.Graph, a *spectral.Analyzer)) error {
	done := make(chan struct{})
	act := func() {
		defer close(done)
		fn(s.graph, s.analyzer)
		s.dirty = true
	}

	select {
	case s.actions <- act:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrClosed
	}

	// once received, the loop runs act to completion
	<-done
	return nil
}

// Dispatch feeds one input event to the controller.
func (s *Session) Dispatch(ctx context.Context, ev interaction.Event) error {
	var err error
	doErr := s.do(ctx, func() { err = s.ctrl.Dispatch(ev) })
	if doErr != nil {
		return doErr
	}
	return err
}

// Spectrum returns a summary of the spectral state.
func (s *Session) Spectrum(ctx context.Context) (spectral.Spectrum, error) {
	var sp spectral.Spectrum
	err := s.do(ctx, func() { sp = s.analyzer.Spectrum(s.graph) })
	return sp, err
}

// Selection returns the controller selection.
func (s *Session) Selection(ctx context.Context) (interaction.Selection, error) {
	var sel interaction.Selection
	err := s.do(ctx, func() { sel = s.ctrl.Selection() })
	return sel, err
}

// Frame returns the most recently published frame.
func (s *Session) Frame() render.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Subscribe returns a channel receiving every new frame. Slow readers only
// see the latest one. The channel is closed by cancel or when Run returns.
func (s *Session) Subscribe() (frames <-chan render.Frame, cancel func()) {
	ch := make(chan render.Frame, 1)

	s.mu.Lock()
	select {
	case <-s.stopped:
		close(ch)
	default:
		s.subs[ch] = struct{}{}
		ch <- s.frame
	}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Session) do(ctx context.Context, fn func()) error {
	return s.Do(ctx, func(*models.Graph, *spectral.Analyzer) { fn() })
}

func (s *Session) publish() {
	f := render.BuildFrame(s.graph, s.ctrl.Highlight(), s.opts.Frame)
	f.Tick = s.sim.Ticks()
	f.Alpha = s.sim.Alpha()
	s.dirty = false

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- f
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		close(s.stopped)
		for ch := range s.subs {
			delete(s.subs, ch)
			close(ch)
		}
	})
}
