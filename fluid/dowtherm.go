package fluid

import (
	"math"

	"thermloop/errors"
	"thermloop/units"
)

// Dowtherm A correlations, also used for Therminol VP-1. Valid 20-180 °C.
const (
	DowthermMinCelsius = 20.0
	DowthermMaxCelsius = 180.0

	// slack absorbs kelvin/celsius round-off at the range ends.
	slack = 1e-9
)

// DowthermA implements Properties for Dowtherm A.
type DowthermA struct{}

func (DowthermA) Name() string { return "dowtherm_a" }

func dowthermCelsius(t units.Temperature) (float64, error) {
	c := t.Celsius()
	if err := errors.CheckRange("dowtherm_a temperature (degC)", c, DowthermMinCelsius-slack, DowthermMaxCelsius+slack); err != nil {
		return 0, err
	}
	return math.Min(math.Max(c, DowthermMinCelsius), DowthermMaxCelsius), nil
}

func (DowthermA) Density(t units.Temperature) (units.MassDensity, error) {
	c, err := dowthermCelsius(t)
	if err != nil {
		return 0, err
	}
	return units.MassDensity(1078 - 0.85*c), nil
}

func (DowthermA) Viscosity(t units.Temperature) (units.DynamicViscosity, error) {
	c, err := dowthermCelsius(t)
	if err != nil {
		return 0, err
	}
	return units.DynamicViscosity(0.130 / math.Pow(c, 1.072)), nil
}

func (DowthermA) SpecificHeatCapacity(t units.Temperature) (units.SpecificHeatCapacity, error) {
	c, err := dowthermCelsius(t)
	if err != nil {
		return 0, err
	}
	return units.SpecificHeatCapacity(1518 + 2.82*c), nil
}

func (DowthermA) ThermalConductivity(t units.Temperature) (units.ThermalConductivity, error) {
	c, err := dowthermCelsius(t)
	if err != nil {
		return 0, err
	}
	return units.ThermalConductivity(0.142 - 0.00016*c), nil
}

// dowthermEnthalpy integrates cp from 20 °C, so h(20 °C) = 0.
func dowthermEnthalpy(c float64) float64 {
	return 1518*c + 1.41*c*c - 30924
}

func (DowthermA) Enthalpy(t units.Temperature) (units.SpecificEnthalpy, error) {
	c, err := dowthermCelsius(t)
	if err != nil {
		return 0, err
	}
	return units.SpecificEnthalpy(dowthermEnthalpy(c)), nil
}

// TemperatureFromEnthalpy takes the positive root of
// 1.41 c² + 1518 c - (30924 + h) = 0.
func (DowthermA) TemperatureFromEnthalpy(h units.SpecificEnthalpy) (units.Temperature, error) {
	hMin := dowthermEnthalpy(DowthermMinCelsius - slack)
	hMax := dowthermEnthalpy(DowthermMaxCelsius + slack)
	if err := errors.CheckRange("dowtherm_a enthalpy (J/kg)", float64(h), hMin, hMax); err != nil {
		return 0, err
	}
	const a, b = 1.41, 1518.0
	disc := b*b + 4*a*(30924+float64(h))
	c := (-b + math.Sqrt(disc)) / (2 * a)
	return units.Celsius(c), nil
}
