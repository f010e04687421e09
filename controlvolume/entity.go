// Package controlvolume implements a lumped, well-mixed fluid control volume
// advanced with an explicit energy balance.
//
// One timestep runs in this order:
//
//	ComputeCurrentEnthalpies
//	AdvanceEnthalpy
//	ResolveNewTemperature
//	SetInletTemperatureNew / SetOutletTemperatureNew
//	CommitTimestep
//
// Old fields hold the last completed step, new fields the step in progress.
package controlvolume

import (
	"fmt"
	"math"

	"thermloop/errors"
	"thermloop/fluid"
	"thermloop/units"
)

// Unconnected marks a neighbour index that has not been assigned yet. The
// entity's own index is a valid neighbour, since a single volume may loop
// back on itself.
const Unconnected = -1

// Temperatures of the inlet, outlet and bulk of a control volume.
type Temperatures struct {
	Inlet  units.Temperature
	Outlet units.Temperature
	Bulk   units.Temperature
}

// Enthalpies holds specific enthalpies matching Temperatures.
type Enthalpies struct {
	Inlet  units.SpecificEnthalpy
	Outlet units.SpecificEnthalpy
	Bulk   units.SpecificEnthalpy
}

// Entity is one pipe segment.
type Entity struct {
	index  int
	inlet  int
	outlet int

	timestep units.Time
	volume   units.Volume
	props    fluid.Properties

	tOld, tNew Temperatures
	hOld, hNew Enthalpies
}

// New creates an unconnected entity at a uniform temperature t0.
func New(timestep units.Time, t0 units.Temperature, volume units.Volume, index int, props fluid.Properties) (*Entity, error) {
	if props == nil {
		return nil, fmt.Errorf("%w: nil fluid properties", errors.ErrInvalidConfig)
	}
	if !(timestep > 0) || math.IsInf(float64(timestep), 0) {
		return nil, fmt.Errorf("%w: timestep %g s", errors.ErrPhysicallyInvalidInput, float64(timestep))
	}
	if !(volume > 0) || math.IsInf(float64(volume), 0) {
		return nil, fmt.Errorf("%w: fluid volume %g m3", errors.ErrPhysicallyInvalidInput, float64(volume))
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", errors.ErrInvalidConfig, index)
	}
	h0, err := props.Enthalpy(t0)
	if err != nil {
		return nil, err
	}
	t := Temperatures{Inlet: t0, Outlet: t0, Bulk: t0}
	h := Enthalpies{Inlet: h0, Outlet: h0, Bulk: h0}
	return &Entity{
		index:    index,
		inlet:    Unconnected,
		outlet:   Unconnected,
		timestep: timestep,
		volume:   volume,
		props:    props,
		tOld:     t,
		tNew:     t,
		hOld:     h,
		hNew:     h,
	}, nil
}

// ConnectInlet records other as the entity feeding this one. It does not
// touch other.
func (e *Entity) ConnectInlet(other *Entity) {
	e.inlet = other.index
}

// ConnectOutlet records other as the entity this one discharges into.
func (e *Entity) ConnectOutlet(other *Entity) {
	e.outlet = other.index
}

// ComputeCurrentEnthalpies derives the old enthalpies from the old inlet and
// outlet temperatures. The bulk temperature is their mean and only serves
// as the point where density is evaluated.
func (e *Entity) ComputeCurrentEnthalpies() error {
	e.tOld.Bulk = units.Mean(e.tOld.Inlet, e.tOld.Outlet)
	var err error
	if e.hOld.Inlet, err = e.props.Enthalpy(e.tOld.Inlet); err != nil {
		return err
	}
	if e.hOld.Outlet, err = e.props.Enthalpy(e.tOld.Outlet); err != nil {
		return err
	}
	if e.hOld.Bulk, err = e.props.Enthalpy(e.tOld.Bulk); err != nil {
		return err
	}
	return nil
}

// Mass is the fluid mass held in the volume at the old bulk temperature.
func (e *Entity) Mass() (units.Mass, error) {
	rho, err := e.props.Density(e.tOld.Bulk)
	if err != nil {
		return 0, err
	}
	m := rho.Of(e.volume)
	if !(m > 0) {
		return 0, fmt.Errorf("%w: control volume mass %g kg", errors.ErrPhysicallyInvalidInput, float64(m))
	}
	return m, nil
}

// AdvanceEnthalpy integrates the energy balance over dt:
//
//	M h_new = M h_out,old + dt (m h_in,old - m h_out,old + Q + W)
//
// The perfectly mixed volume holds fluid at its outlet enthalpy, so h_out,old
// is the pre-step specific enthalpy of the whole volume.
func (e *Entity) AdvanceEnthalpy(heat, work units.Power, dt units.Time, m units.MassRate) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: timestep %g s", errors.ErrPhysicallyInvalidInput, float64(dt))
	}
	for _, v := range []float64{float64(heat), float64(work), float64(m)} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite input %g", errors.ErrPhysicallyInvalidInput, v)
		}
	}
	mass, err := e.Mass()
	if err != nil {
		return err
	}
	in := m.Flow(e.hOld.Inlet)
	out := m.Flow(e.hOld.Outlet)
	delta := (in - out + heat + work).Over(dt)
	total := mass.Times(e.hOld.Outlet) + delta
	e.hNew.Bulk = total.Per(mass)
	return nil
}

// ResolveNewTemperature inverts the new bulk enthalpy. The result is also the
// new outlet temperature.
func (e *Entity) ResolveNewTemperature() (units.Temperature, error) {
	t, err := e.props.TemperatureFromEnthalpy(e.hNew.Bulk)
	if err != nil {
		return 0, err
	}
	e.tNew.Bulk = t
	return t, nil
}

func (e *Entity) SetInletTemperatureNew(t units.Temperature) error {
	h, err := e.props.Enthalpy(t)
	if err != nil {
		return err
	}
	e.tNew.Inlet, e.hNew.Inlet = t, h
	return nil
}

func (e *Entity) SetOutletTemperatureNew(t units.Temperature) error {
	h, err := e.props.Enthalpy(t)
	if err != nil {
		return err
	}
	e.tNew.Outlet, e.hNew.Outlet = t, h
	return nil
}

// CommitTimestep resets the new bulk temperature to the mean of the new
// inlet and outlet, then promotes every new field to old. Committing twice
// changes nothing the second time.
func (e *Entity) CommitTimestep() {
	e.tNew.Bulk = units.Mean(e.tNew.Inlet, e.tNew.Outlet)
	e.tOld = e.tNew
	e.hOld = e.hNew
}

// Clone returns an independent copy sharing the fluid provider.
func (e *Entity) Clone() *Entity {
	c := *e
	return &c
}

func (e *Entity) Index() int { return e.index }

func (e *Entity) InletIndex() int { return e.inlet }

func (e *Entity) OutletIndex() int { return e.outlet }

// Connected reports whether both neighbours are assigned.
func (e *Entity) Connected() bool {
	return e.inlet != Unconnected && e.outlet != Unconnected
}

// Temperatures returns the old and new temperature sets.
func (e *Entity) Temperatures() (prev, next Temperatures) {
	return e.tOld, e.tNew
}

// Enthalpies returns the old and new specific enthalpy sets.
func (e *Entity) Enthalpies() (prev, next Enthalpies) {
	return e.hOld, e.hNew
}

func (e *Entity) Volume() units.Volume { return e.volume }

func (e *Entity) Timestep() units.Time { return e.timestep }

func (e *Entity) Fluid() fluid.Properties { return e.props }
