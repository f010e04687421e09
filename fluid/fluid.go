// Package fluid provides working-fluid property providers. A control volume
// only sees the Properties interface, so fluids can be swapped without
// touching the energy balance.
package fluid

import (
	"fmt"
	"strings"

	"thermloop/errors"
	"thermloop/units"
)

// Properties converts between temperature and the state properties of one
// working fluid. Every lookup fails with errors.ErrOutOfRange outside the
// range its correlation or table is valid for.
type Properties interface {
	Name() string
	Density(t units.Temperature) (units.MassDensity, error)
	Viscosity(t units.Temperature) (units.DynamicViscosity, error)
	SpecificHeatCapacity(t units.Temperature) (units.SpecificHeatCapacity, error)
	ThermalConductivity(t units.Temperature) (units.ThermalConductivity, error)
	// Enthalpy is specific enthalpy relative to the fluid's reference state.
	Enthalpy(t units.Temperature) (units.SpecificEnthalpy, error)
	TemperatureFromEnthalpy(h units.SpecificEnthalpy) (units.Temperature, error)
}

// Lookup resolves a fluid by the name used in loop files.
func Lookup(name string) (Properties, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dowtherm_a", "dowtherm-a", "therminol_vp1", "therminol-vp1":
		return DowthermA{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown fluid %q", errors.ErrInvalidConfig, name)
	}
}
