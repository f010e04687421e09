package heatflux

import (
	"thermloop/correlation"
	"thermloop/fluid"
	"thermloop/units"
)

// Source produces the heat input of one control volume for the coming step
// from its current fluid temperature and mass flow.
type Source interface {
	HeatInput(props fluid.Properties, t units.Temperature, m units.MassRate) (units.Power, error)
}

// FixedHeat is a constant power, such as an electrical heater.
type FixedHeat units.Power

func (f FixedHeat) HeatInput(fluid.Properties, units.Temperature, units.MassRate) (units.Power, error) {
	return units.Power(f), nil
}

// AmbientExchange exchanges heat with surroundings through a fixed overall
// heat transfer coefficient.
type AmbientExchange struct {
	U           units.HeatTransferCoefficient
	Area        units.Area
	Surrounding units.Temperature
}

func (a AmbientExchange) HeatInput(_ fluid.Properties, t units.Temperature, _ units.MassRate) (units.Power, error) {
	return OverallPower(a.U, a.Surrounding, t, a.Area), nil
}

// ConvectiveExchange derives the film coefficient of a pipe from a Nusselt
// correlation evaluated at the fluid temperature, then exchanges heat with
// a wall held at Surrounding over the area pi D L.
type ConvectiveExchange struct {
	Diameter    units.Length
	Length      units.Length
	Nusselt     correlation.Nusselt
	Surrounding units.Temperature
}

func (c ConvectiveExchange) HeatInput(props fluid.Properties, t units.Temperature, m units.MassRate) (units.Power, error) {
	mu, err := props.Viscosity(t)
	if err != nil {
		return 0, err
	}
	cp, err := props.SpecificHeatCapacity(t)
	if err != nil {
		return 0, err
	}
	k, err := props.ThermalConductivity(t)
	if err != nil {
		return 0, err
	}
	re, err := Reynolds(m, c.Diameter, mu)
	if err != nil {
		return 0, err
	}
	pr, err := Prandtl(cp, mu, k)
	if err != nil {
		return 0, err
	}
	nu, err := c.Nusselt(re, pr)
	if err != nil {
		return 0, err
	}
	h, err := CoefficientFromNusselt(nu, k, c.Diameter)
	if err != nil {
		return 0, err
	}
	return ConvectionPower(h, c.Surrounding, t, c.Diameter.Circumference().Times(c.Length)), nil
}
