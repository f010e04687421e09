package fluid

import (
	"math"

	"thermloop/errors"
	"thermloop/units"
)

// Constant is an incompressible liquid with temperature-independent
// properties and h = cp (T - Reference). Min and Max bound the valid
// temperatures; leaving both zero means unbounded.
type Constant struct {
	Label     string
	Rho       units.MassDensity
	Mu        units.DynamicViscosity
	Cp        units.SpecificHeatCapacity
	K         units.ThermalConductivity
	Reference units.Temperature
	Min, Max  units.Temperature
}

// Water returns liquid water near room temperature as a Constant fluid.
func Water() Constant {
	return Constant{
		Label:     "water",
		Rho:       997,
		Mu:        8.9e-4,
		Cp:        4181,
		K:         0.607,
		Reference: units.Celsius(20),
		Min:       units.Celsius(1),
		Max:       units.Celsius(99),
	}
}

func (c Constant) Name() string {
	if c.Label == "" {
		return "constant"
	}
	return c.Label
}

func (c Constant) check(t units.Temperature) error {
	if c.Min == 0 && c.Max == 0 {
		return errors.CheckRange(c.Name()+" temperature (K)", float64(t), math.Inf(-1), math.Inf(1))
	}
	return errors.CheckRange(c.Name()+" temperature (K)", float64(t), float64(c.Min), float64(c.Max))
}

func (c Constant) Density(t units.Temperature) (units.MassDensity, error) {
	return c.Rho, c.check(t)
}

func (c Constant) Viscosity(t units.Temperature) (units.DynamicViscosity, error) {
	return c.Mu, c.check(t)
}

func (c Constant) SpecificHeatCapacity(t units.Temperature) (units.SpecificHeatCapacity, error) {
	return c.Cp, c.check(t)
}

func (c Constant) ThermalConductivity(t units.Temperature) (units.ThermalConductivity, error) {
	return c.K, c.check(t)
}

func (c Constant) Enthalpy(t units.Temperature) (units.SpecificEnthalpy, error) {
	if err := c.check(t); err != nil {
		return 0, err
	}
	return units.SpecificEnthalpy(float64(c.Cp) * float64(t-c.Reference)), nil
}

func (c Constant) TemperatureFromEnthalpy(h units.SpecificEnthalpy) (units.Temperature, error) {
	if c.Cp == 0 || math.IsNaN(float64(h)) {
		return 0, errors.ErrPhysicallyInvalidInput
	}
	t := c.Reference + units.Temperature(float64(h)/float64(c.Cp))
	if err := c.check(t); err != nil {
		return 0, err
	}
	return t, nil
}
