// Package units wraps physical values in typed float64 quantities stored in
// SI base units. Arithmetic that crosses dimensions goes through methods, so
// the compiler rejects a Power passed where an Energy is expected.
package units

import "math"

// ZeroCelsius is 0 °C expressed in kelvin.
const ZeroCelsius = 273.15

// Temperature is a thermodynamic temperature in kelvin.
type Temperature float64

// TemperatureInterval is a temperature difference in kelvin.
type TemperatureInterval float64

// Power in watts.
type Power float64

// Energy in joules.
type Energy float64

// MassRate in kg/s.
type MassRate float64

// Time in seconds.
type Time float64

// Mass in kg.
type Mass float64

// Volume in m³.
type Volume float64

// Area in m².
type Area float64

// Length in m.
type Length float64

// MassDensity in kg/m³.
type MassDensity float64

// SpecificEnthalpy in J/kg.
type SpecificEnthalpy float64

// SpecificHeatCapacity in J/(kg K).
type SpecificHeatCapacity float64

// ThermalConductivity in W/(m K).
type ThermalConductivity float64

// DynamicViscosity in Pa s.
type DynamicViscosity float64

// HeatTransferCoefficient in W/(m² K).
type HeatTransferCoefficient float64

func Kelvin(k float64) Temperature { return Temperature(k) }

func Celsius(c float64) Temperature { return Temperature(c + ZeroCelsius) }

func Fahrenheit(f float64) Temperature { return Temperature((f-32)*5/9 + ZeroCelsius) }

func (t Temperature) Kelvin() float64 { return float64(t) }

func (t Temperature) Celsius() float64 { return float64(t) - ZeroCelsius }

// Sub returns t - o.
func (t Temperature) Sub(o Temperature) TemperatureInterval {
	return TemperatureInterval(t - o)
}

// Add shifts t by an interval.
func (t Temperature) Add(d TemperatureInterval) Temperature {
	return t + Temperature(d)
}

// Mean is the arithmetic mean of two temperatures.
func Mean(a, b Temperature) Temperature {
	return (a + b) / 2
}

// IntervalToTemperature reads an interval as a Celsius value and returns the
// matching absolute temperature (adds 273.15 K).
func IntervalToTemperature(d TemperatureInterval) Temperature {
	return Temperature(float64(d) + ZeroCelsius)
}

// TemperatureToInterval is the inverse of IntervalToTemperature.
func TemperatureToInterval(t Temperature) TemperatureInterval {
	return TemperatureInterval(float64(t) - ZeroCelsius)
}

// Flow is the enthalpy flow m·h.
func (m MassRate) Flow(h SpecificEnthalpy) Power {
	return Power(float64(m) * float64(h))
}

// Over integrates a constant power over dt.
func (p Power) Over(dt Time) Energy {
	return Energy(float64(p) * float64(dt))
}

// Of returns the mass of fluid of density rho filling v.
func (rho MassDensity) Of(v Volume) Mass {
	return Mass(float64(rho) * float64(v))
}

// Times returns the total enthalpy m·h.
func (m Mass) Times(h SpecificEnthalpy) Energy {
	return Energy(float64(m) * float64(h))
}

// Per returns the specific enthalpy e/m.
func (e Energy) Per(m Mass) SpecificEnthalpy {
	return SpecificEnthalpy(float64(e) / float64(m))
}

// Circumference of a circle of diameter d.
func (d Length) Circumference() Length {
	return Length(math.Pi * float64(d))
}

// CrossSection is the flow area of a circular pipe of diameter d.
func (d Length) CrossSection() Area {
	return Area(math.Pi * float64(d) * float64(d) / 4)
}

// Times returns the lateral area of a perimeter swept over length l.
func (d Length) Times(l Length) Area {
	return Area(float64(d) * float64(l))
}
