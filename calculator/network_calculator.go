package calculator

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"thermloop/deque"
	"thermloop/errors"
	"thermloop/heatflux"
	"thermloop/loop"
	"thermloop/metric"
	"thermloop/model"
	"thermloop/network"
	"thermloop/recorder"
	"thermloop/units"
)

// NetworkCalculator steps a network with heat inputs evaluated from its
// sources and keeps a bounded history of the results.
type NetworkCalculator struct {
	mu sync.Mutex

	net     *network.Network
	sources []heatflux.Source
	heat    []units.Power

	history   *deque.ArrDeque[model.TemperatureData]
	recorder  *recorder.Recorder
	metrics   *metric.Metrics
	session   string
	pushEvery int
	minStep   time.Duration

	calcHub *CalcHub
}

var _ Calculator = (*NetworkCalculator)(nil)

type Option func(*NetworkCalculator)

// WithMetrics reports every step to m under the given session label.
func WithMetrics(m *metric.Metrics, session string) Option {
	return func(c *NetworkCalculator) {
		c.metrics = m
		c.session = session
	}
}

func WithRecorder(r *recorder.Recorder) Option {
	return func(c *NetworkCalculator) { c.recorder = r }
}

func WithHistory(n int) Option {
	return func(c *NetworkCalculator) {
		if n < 1 {
			n = 1
		}
		c.history = deque.NewArrDeque[model.TemperatureData](n)
	}
}

// WithPushEvery signals the hub after every n completed steps of Run. Zero
// disables pushes.
func WithPushEvery(n int) Option {
	return func(c *NetworkCalculator) {
		if n < 0 {
			n = 0
		}
		c.pushEvery = n
	}
}

// WithMinStepDuration makes Run spend at least d of wall clock time on each
// step, so a live client sees the loop evolve instead of its end state.
func WithMinStepDuration(d time.Duration) Option {
	return func(c *NetworkCalculator) {
		if d < 0 {
			d = 0
		}
		c.minStep = d
	}
}

// NewCalculator needs one source per entity of net. A nil source means no
// heat input.
func NewCalculator(net *network.Network, sources []heatflux.Source, opts ...Option) (*NetworkCalculator, error) {
	if net == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "calculator", "NewCalculator", "check network")
	}
	if len(sources) != net.Len() {
		return nil, errors.Wrap(fmt.Errorf("%w: %d sources for %d entities", errors.ErrInputLength, len(sources), net.Len()),
			"calculator", "NewCalculator", "check sources")
	}
	c := &NetworkCalculator{
		net:       net,
		sources:   make([]heatflux.Source, len(sources)),
		heat:      make([]units.Power, len(sources)),
		history:   deque.NewArrDeque[model.TemperatureData](64),
		pushEvery: 10,
		calcHub:   NewCalcHub(),
	}
	for i, src := range sources {
		if src == nil {
			src = heatflux.FixedHeat(0)
		}
		c.sources[i] = src
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromLoop builds the loop and wraps it in a calculator. Settings missing
// from the loop document are taken from cfg.
func FromLoop(l *loop.Loop, cfg Config, opts ...Option) (*NetworkCalculator, error) {
	if l.Timestep == "" {
		l.Timestep = fmt.Sprintf("%g s", cfg.Timestep)
	}
	if l.InitialTemperature == "" {
		l.InitialTemperature = fmt.Sprintf("%g K", cfg.InitialTemperature)
	}
	if l.Workers == 0 {
		l.Workers = cfg.Workers
	}
	net, sources, err := l.Build()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{
		WithHistory(cfg.HistoryLength),
		WithPushEvery(cfg.PushEvery),
		WithMinStepDuration(cfg.MinStepDuration),
	}, opts...)
	return NewCalculator(net, sources, opts...)
}

func (c *NetworkCalculator) GetCalcHub() *CalcHub {
	return c.calcHub
}

// Network exposes the driven network. Callers must not step it while Run
// is active.
func (c *NetworkCalculator) Network() *network.Network {
	return c.net
}

func (c *NetworkCalculator) SetHeatInput(i int, q units.Power) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.sources) {
		return fmt.Errorf("%w: index %d of %d", errors.ErrUnknownEntity, i, len(c.sources))
	}
	c.sources[i] = heatflux.FixedHeat(q)
	return nil
}

func (c *NetworkCalculator) SetMassFlow(i int, m units.MassRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.SetMassFlow(i, m)
}

func (c *NetworkCalculator) SetWorkInput(i int, w units.Power) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.SetWorkInput(i, w)
}

// Step evaluates every source at its entity's bulk temperature and advances
// the network by one timestep.
func (c *NetworkCalculator) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	_, work, mass := c.net.Inputs()
	heat := make([]units.Power, len(c.sources))
	for i, src := range c.sources {
		bulk, err := c.net.BulkTemperature(i)
		if err != nil {
			return c.fail(err)
		}
		q, err := src.HeatInput(c.net.Fluid(), bulk, mass[i])
		if err != nil {
			return c.fail(&errors.EntityError{Index: i, Op: "evaluate heat source", Err: err})
		}
		heat[i] = q
	}
	if err := c.net.Step(heat, work, mass); err != nil {
		return c.fail(err)
	}
	c.heat = heat

	c.history.Push(c.buildData())
	if c.recorder != nil {
		c.recorder.Record(c.net)
	}
	if c.metrics != nil {
		c.metrics.Observe(c.session, c.net, time.Since(start))
	}
	return nil
}

func (c *NetworkCalculator) fail(err error) error {
	if c.metrics != nil {
		c.metrics.ObserveError()
	}
	return errors.Wrap(err, "Calculator", "Step", "advance network")
}

// Run steps until maxSteps steps are done, Stop is called or a step fails.
// A maxSteps of zero runs until stopped. Steps shorter than the minimum step
// duration are padded with an interruptible wait.
func (c *NetworkCalculator) Run(maxSteps int) error {
	stop := c.calcHub.stopChan()
	start := time.Now()
	count := 0
	log.WithFields(log.Fields{
		"max_steps": maxSteps,
	}).Info("calculation started")
LOOP:
	for maxSteps == 0 || count < maxSteps {
		select {
		case <-stop:
			break LOOP
		default:
			begin := time.Now()
			if err := c.Step(); err != nil {
				log.WithFields(log.Fields{
					"steps": count,
					"error": err,
				}).Error("calculation failed")
				return err
			}
			count++
			if c.pushEvery > 0 && count%c.pushEvery == 0 {
				c.calcHub.PushSignal()
			}
			if wait := c.minStep - time.Since(begin); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-stop:
					timer.Stop()
					break LOOP
				case <-timer.C:
				}
			}
		}
	}
	log.WithFields(log.Fields{
		"steps":   count,
		"elapsed": time.Since(start),
	}).Info("calculation finished")
	return nil
}

func (c *NetworkCalculator) Stop() {
	c.calcHub.StopSignal()
}

// BuildData returns the network state after the last completed step.
func (c *NetworkCalculator) BuildData() *model.TemperatureData {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.buildData()
	return &data
}

func (c *NetworkCalculator) buildData() model.TemperatureData {
	snap := c.net.Snapshot()
	data := model.TemperatureData{
		Step:     c.net.StepCount(),
		Time:     float64(c.net.ElapsedTime()),
		Entities: make([]model.EntityTemperature, len(snap)),
	}
	for i, s := range snap {
		data.Entities[i] = model.EntityTemperature{
			Index:  s.Index,
			Name:   s.Name,
			Inlet:  float64(s.Inlet),
			Outlet: float64(s.Outlet),
			Bulk:   float64(s.Bulk),
			Heat:   float64(c.heat[i]),
		}
	}
	return data
}

// History returns the retained snapshots, oldest first.
func (c *NetworkCalculator) History() []model.TemperatureData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Slice()
}
