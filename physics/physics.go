// Package physics positions graph nodes with a force-directed simulation.
package physics

import (
	"math"

	"github.com/TFMV/spectragraph/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Layout defines an interface for layout algorithms driven one tick at a time
type Layout interface {
	Restart()
	Step(graph *models.Graph) bool // Returns true while the layout is still moving
	Alive() bool
	Name() string
}

// Config holds the tunable constants of the simulation.
type Config struct {
	Width        float64 `toml:"width" yaml:"width"`
	Height       float64 `toml:"height" yaml:"height"`
	LinkDistance float64 `toml:"link_distance" yaml:"link_distance"` // spring rest length
	LinkStrength float64 `toml:"link_strength" yaml:"link_strength"`
	Charge       float64 `toml:"charge" yaml:"charge"`     // negative repels
	Gravity      float64 `toml:"gravity" yaml:"gravity"`   // pull toward the centre
	Friction     float64 `toml:"friction" yaml:"friction"` // velocity retained per tick
	AlphaStart   float64 `toml:"alpha_start" yaml:"alpha_start"`
	AlphaDecay   float64 `toml:"alpha_decay" yaml:"alpha_decay"` // alpha multiplier per tick
	AlphaMin     float64 `toml:"alpha_min" yaml:"alpha_min"`
	Seed         int64   `toml:"seed" yaml:"seed"`
}

// DefaultConfig returns the constants the editor ships with.
func DefaultConfig() Config {
	return Config{
		Width:        800,
		Height:       500,
		LinkDistance: 150,
		LinkStrength: 1,
		Charge:       -500,
		Gravity:      0.1,
		Friction:     0.9,
		AlphaStart:   0.1,
		AlphaDecay:   0.99,
		AlphaMin:     0.005,
		Seed:         1,
	}
}

// minDistance2 bounds the squared distance used by the repulsion term.
const minDistance2 = 1.0

// Simulator implements a force-directed layout with repulsion between all
// node pairs, springs along edges, centering and velocity damping.
type Simulator struct {
	cfg   Config
	alpha float64
	ticks int
	noise opensimplex.Noise
}

// NewSimulator creates a simulator at rest. Call Restart to start it.
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		cfg:   cfg,
		noise: opensimplex.New(cfg.Seed),
	}
}

// Name returns the name of the layout algorithm
func (s *Simulator) Name() string {
	return "Force-Directed Layout"
}

// Config returns the simulation constants.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Alpha returns the current simulation energy.
func (s *Simulator) Alpha() float64 {
	return s.alpha
}

// Ticks returns how many steps have run since construction.
func (s *Simulator) Ticks() int {
	return s.ticks
}

// Alive reports whether the simulation still has energy to spend.
func (s *Simulator) Alive() bool {
	return s.alpha >= s.cfg.AlphaMin
}

// Restart reinjects energy. Positions and velocities are left as they are.
func (s *Simulator) Restart() {
	s.alpha = s.cfg.AlphaStart
}

// Stop drains all energy.
func (s *Simulator) Stop() {
	s.alpha = 0
}

// Scatter places nodes that are still at the origin somewhere on the canvas.
func (s *Simulator) Scatter(graph *models.Graph) {
	for _, n := range graph.Nodes() {
		if n.X != 0 || n.Y != 0 {
			continue
		}
		id := float64(n.ID)
		n.X = s.cfg.Width * (0.5 + 0.4*s.noise.Eval2(id*0.7, 0.3))
		n.Y = s.cfg.Height * (0.5 + 0.4*s.noise.Eval2(0.3, id*0.7))
	}
}

// Step performs one tick. The node and edge sets are read fresh from graph
// so edits between ticks are picked up. Returns whether the layout is alive.
func (s *Simulator) Step(graph *models.Graph) bool {
	nodes := graph.Nodes()
	if len(nodes) == 0 {
		s.Stop()
		return false
	}
	if !s.Alive() {
		return false
	}

	s.ticks++
	alpha := s.alpha

	byID := make(map[models.NodeID]*models.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	s.applyLinks(graph, byID, alpha)
	s.applyCharge(nodes, alpha)
	s.applyGravity(nodes, alpha)

	for _, n := range nodes {
		if n.Pinned {
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.cfg.Friction
		n.VY *= s.cfg.Friction
		n.X += n.VX
		n.Y += n.VY
	}

	s.alpha *= s.cfg.AlphaDecay
	return s.Alive()
}

// Settle runs ticks until the layout goes idle or maxTicks is reached.
func (s *Simulator) Settle(graph *models.Graph, maxTicks int) int {
	ran := 0
	for ran < maxTicks && s.Step(graph) {
		ran++
	}
	return ran
}

// Energy returns the total kinetic energy of all nodes. Pinned nodes carry
// no velocity and contribute nothing.
func Energy(graph *models.Graph) float64 {
	total := 0.0
	for _, n := range graph.Nodes() {
		total += 0.5 * (n.VX*n.VX + n.VY*n.VY)
	}
	return total
}

func (s *Simulator) applyLinks(graph *models.Graph, byID map[models.NodeID]*models.Node, alpha float64) {
	for _, e := range graph.Edges() {
		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if !okS || !okT {
			continue
		}

		dx := dst.X + dst.VX - src.X - src.VX
		dy := dst.Y + dst.VY - src.Y - src.VY
		if dx == 0 && dy == 0 {
			dx, dy = s.jitter(e.Source, e.Target)
		}
		l := math.Sqrt(dx*dx + dy*dy)

		degS := float64(graph.Degree(e.Source))
		degT := float64(graph.Degree(e.Target))
		strength := s.cfg.LinkStrength / math.Min(degS, degT)
		bias := degS / (degS + degT)

		k := (l - s.cfg.LinkDistance) / l * alpha * strength
		dx *= k
		dy *= k
		push(dst, -dx*bias, -dy*bias)
		push(src, dx*(1-bias), dy*(1-bias))
	}
}

func (s *Simulator) applyCharge(nodes []*models.Node, alpha float64) {
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			dx := b.X - a.X
			dy := b.Y - a.Y
			if dx == 0 && dy == 0 {
				dx, dy = s.jitter(a.ID, b.ID)
			}
			l := dx*dx + dy*dy
			if l < minDistance2 {
				l = math.Sqrt(minDistance2 * l)
			}

			// charge < 0, so a moves away from b and b away from a
			w := alpha * s.cfg.Charge / l
			push(a, dx*w, dy*w)
			push(b, -dx*w, -dy*w)
		}
	}
}

func (s *Simulator) applyGravity(nodes []*models.Node, alpha float64) {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	k := alpha * s.cfg.Gravity
	for _, n := range nodes {
		push(n, (cx-n.X)*k, (cy-n.Y)*k)
	}
}

// jitter returns a tiny deterministic offset that separates coincident nodes.
func (s *Simulator) jitter(a, b models.NodeID) (float64, float64) {
	t := float64(s.ticks)
	jx := s.noise.Eval3(float64(a), float64(b), t)
	jy := s.noise.Eval3(float64(b), float64(a), t+0.5)
	if jx == 0 && jy == 0 {
		jx = 1
	}
	return jx * 1e-6, jy * 1e-6
}

func push(n *models.Node, fx, fy float64) {
	if n.Pinned {
		return
	}
	n.VX += fx
	n.VY += fy
}
