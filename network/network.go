// Package network chains control volumes into lines and rings and advances
// them together, one explicit timestep at a time.
package network

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"thermloop/controlvolume"
	"thermloop/errors"
	"thermloop/fluid"
	"thermloop/units"
)

// Network owns its entities in a dense array addressed by index. Indices
// are assigned in insertion order and never reused.
type Network struct {
	timestep units.Time
	initial  units.Temperature
	props    fluid.Properties
	workers  int

	entities []*controlvolume.Entity
	names    []string
	byName   map[string]int

	heat []units.Power
	work []units.Power
	mass []units.MassRate

	steps int
}

type Option func(*Network)

// WithWorkers spreads the per-entity passes of a step over n goroutines.
// Values below 2 keep the step on the calling goroutine.
func WithWorkers(n int) Option {
	return func(net *Network) {
		if n < 1 {
			n = 1
		}
		net.workers = n
	}
}

// New creates an empty network whose entities share timestep, initial
// temperature and working fluid.
func New(timestep units.Time, t0 units.Temperature, props fluid.Properties, opts ...Option) (*Network, error) {
	if props == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "Network", "New", "check fluid")
	}
	if !(timestep > 0) || math.IsInf(float64(timestep), 1) {
		return nil, errors.Wrap(fmt.Errorf("%w: timestep %g s", errors.ErrPhysicallyInvalidInput, float64(timestep)),
			"Network", "New", "check timestep")
	}
	if _, err := props.Enthalpy(t0); err != nil {
		return nil, errors.Wrap(err, "Network", "New", "check initial temperature")
	}
	net := &Network{
		timestep: timestep,
		initial:  t0,
		props:    props,
		workers:  1,
		byName:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(net)
	}
	log.WithFields(log.Fields{
		"timestep": float64(timestep),
		"initial":  float64(t0),
		"fluid":    props.Name(),
		"workers":  net.workers,
	}).Info("network created")
	return net, nil
}

// AddEntity appends a control volume named "cv-<index>".
func (n *Network) AddEntity(volume units.Volume) (int, error) {
	return n.AddNamedEntity(fmt.Sprintf("cv-%d", len(n.entities)), volume)
}

// AddNamedEntity appends a control volume and returns its index.
func (n *Network) AddNamedEntity(name string, volume units.Volume) (int, error) {
	if _, ok := n.byName[name]; ok {
		return 0, errors.Wrap(fmt.Errorf("%w: duplicate entity name %q", errors.ErrInvalidConfig, name),
			"Network", "AddNamedEntity", "register name")
	}
	index := len(n.entities)
	e, err := controlvolume.New(n.timestep, n.initial, volume, index, n.props)
	if err != nil {
		return 0, errors.Wrap(err, "Network", "AddNamedEntity", "create entity")
	}
	n.entities = append(n.entities, e)
	n.names = append(n.names, name)
	n.byName[name] = index
	n.heat = append(n.heat, 0)
	n.work = append(n.work, 0)
	n.mass = append(n.mass, 0)
	log.WithFields(log.Fields{
		"index":  index,
		"name":   name,
		"volume": float64(volume),
	}).Info("entity added")
	return index, nil
}

// Connect feeds the outlet of outletOf into the inlet of inletOf, updating
// both entities.
func (n *Network) Connect(outletOf, inletOf int) error {
	if err := n.check(outletOf); err != nil {
		return errors.Wrap(err, "Network", "Connect", "resolve upstream")
	}
	if err := n.check(inletOf); err != nil {
		return errors.Wrap(err, "Network", "Connect", "resolve downstream")
	}
	up, down := n.entities[outletOf], n.entities[inletOf]
	up.ConnectOutlet(down)
	down.ConnectInlet(up)
	log.WithFields(log.Fields{
		"from": n.names[outletOf],
		"to":   n.names[inletOf],
	}).Info("entities connected")
	return nil
}

// ConnectNames is Connect addressed by entity name.
func (n *Network) ConnectNames(from, to string) error {
	a, err := n.Index(from)
	if err != nil {
		return err
	}
	b, err := n.Index(to)
	if err != nil {
		return err
	}
	return n.Connect(a, b)
}

// Index resolves an entity name.
func (n *Network) Index(name string) (int, error) {
	i, ok := n.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errors.ErrUnknownEntity, name)
	}
	return i, nil
}

func (n *Network) check(i int) error {
	if i < 0 || i >= len(n.entities) {
		return fmt.Errorf("%w: index %d of %d", errors.ErrUnknownEntity, i, len(n.entities))
	}
	return nil
}

func (n *Network) SetHeatInput(i int, q units.Power) error {
	if err := n.check(i); err != nil {
		return err
	}
	n.heat[i] = q
	return nil
}

func (n *Network) SetWorkInput(i int, w units.Power) error {
	if err := n.check(i); err != nil {
		return err
	}
	n.work[i] = w
	return nil
}

func (n *Network) SetMassFlow(i int, m units.MassRate) error {
	if err := n.check(i); err != nil {
		return err
	}
	n.mass[i] = m
	return nil
}

// Inputs returns copies of the stored heat, work and mass flow vectors.
func (n *Network) Inputs() ([]units.Power, []units.Power, []units.MassRate) {
	heat := append([]units.Power(nil), n.heat...)
	work := append([]units.Power(nil), n.work...)
	mass := append([]units.MassRate(nil), n.mass...)
	return heat, work, mass
}

func (n *Network) Len() int { return len(n.entities) }

func (n *Network) Name(i int) (string, error) {
	if err := n.check(i); err != nil {
		return "", err
	}
	return n.names[i], nil
}

// Entity returns a copy of entity i.
func (n *Network) Entity(i int) (*controlvolume.Entity, error) {
	if err := n.check(i); err != nil {
		return nil, err
	}
	return n.entities[i].Clone(), nil
}

func (n *Network) committed(i int) (controlvolume.Temperatures, error) {
	if err := n.check(i); err != nil {
		return controlvolume.Temperatures{}, err
	}
	prev, _ := n.entities[i].Temperatures()
	return prev, nil
}

// OutletTemperature is the outlet temperature after the last completed step.
func (n *Network) OutletTemperature(i int) (units.Temperature, error) {
	t, err := n.committed(i)
	return t.Outlet, err
}

func (n *Network) InletTemperature(i int) (units.Temperature, error) {
	t, err := n.committed(i)
	return t.Inlet, err
}

func (n *Network) BulkTemperature(i int) (units.Temperature, error) {
	t, err := n.committed(i)
	return t.Bulk, err
}

func (n *Network) StepCount() int { return n.steps }

func (n *Network) Timestep() units.Time { return n.timestep }

func (n *Network) ElapsedTime() units.Time {
	return units.Time(float64(n.steps) * float64(n.timestep))
}

func (n *Network) Fluid() fluid.Properties { return n.props }

// EntityState is a read-only view of one entity after the last step.
type EntityState struct {
	Index       int
	Name        string
	InletIndex  int
	OutletIndex int
	Inlet       units.Temperature
	Outlet      units.Temperature
	Bulk        units.Temperature
}

func (n *Network) Snapshot() []EntityState {
	out := make([]EntityState, len(n.entities))
	for i, e := range n.entities {
		prev, _ := e.Temperatures()
		out[i] = EntityState{
			Index:       i,
			Name:        n.names[i],
			InletIndex:  e.InletIndex(),
			OutletIndex: e.OutletIndex(),
			Inlet:       prev.Inlet,
			Outlet:      prev.Outlet,
			Bulk:        prev.Bulk,
		}
	}
	return out
}

func (n *Network) inventory() (masses, enthalpies []float64, err error) {
	masses = make([]float64, len(n.entities))
	enthalpies = make([]float64, len(n.entities))
	for i, e := range n.entities {
		m, merr := e.Mass()
		if merr != nil {
			return nil, nil, &errors.EntityError{Index: i, Op: "mass", Err: merr}
		}
		prev, _ := e.Enthalpies()
		masses[i] = float64(m)
		enthalpies[i] = float64(prev.Outlet)
	}
	return masses, enthalpies, nil
}

// TotalEnthalpy is the energy inventory of the network, the sum over
// entities of mass times outlet specific enthalpy. Mass is re-evaluated from
// the committed bulk temperature, while a step weighs each entity with the
// density of the previous one. With a temperature-dependent density the
// total therefore drifts by a small relative amount even in a closed ring
// without heat input; it is exact only for constant-density fluids.
func (n *Network) TotalEnthalpy() (units.Energy, error) {
	masses, enthalpies, err := n.inventory()
	if err != nil {
		return 0, errors.Wrap(err, "Network", "TotalEnthalpy", "evaluate inventory")
	}
	return units.Energy(floats.Dot(masses, enthalpies)), nil
}

// TotalMass is the fluid mass held in the network.
func (n *Network) TotalMass() (units.Mass, error) {
	masses, _, err := n.inventory()
	if err != nil {
		return 0, errors.Wrap(err, "Network", "TotalMass", "evaluate inventory")
	}
	return units.Mass(floats.Sum(masses)), nil
}
