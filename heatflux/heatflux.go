// Package heatflux holds the convection and conduction formulas that turn a
// temperature difference into a Power, and the heat sources built on them.
package heatflux

import (
	"fmt"
	"math"

	"thermloop/errors"
	"thermloop/units"
)

// ConvectionPower is Q = h (T_surface - T_fluid) A.
func ConvectionPower(h units.HeatTransferCoefficient, surface, fluid units.Temperature, a units.Area) units.Power {
	return units.Power(float64(h) * float64(surface.Sub(fluid)) * float64(a))
}

// OverallPower is Q = U (T_surrounding - T_fluid) A.
func OverallPower(u units.HeatTransferCoefficient, surrounding, fluid units.Temperature, a units.Area) units.Power {
	return units.Power(float64(u) * float64(surrounding.Sub(fluid)) * float64(a))
}

// powerThrough returns the heat flowing into the recipient across resistance r (K/W).
func powerThrough(recipient, source units.Temperature, r float64) (units.Power, error) {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: thermal resistance %g K/W", errors.ErrPhysicallyInvalidInput, r)
	}
	return units.Power(float64(source.Sub(recipient)) / r), nil
}

// SingleConvectionResistancePower uses R = 1/(hA).
func SingleConvectionResistancePower(recipient, source units.Temperature, a units.Area, h units.HeatTransferCoefficient) (units.Power, error) {
	return powerThrough(recipient, source, 1/(float64(a)*float64(h)))
}

// WallResistancePower uses R = L/(kA).
func WallResistancePower(recipient, source units.Temperature, k units.ThermalConductivity, a units.Area, l units.Length) (units.Power, error) {
	return powerThrough(recipient, source, float64(l)/(float64(k)*float64(a)))
}

// Layer is one slab of a composite wall.
type Layer struct {
	Conductivity units.ThermalConductivity
	Area         units.Area
	Thickness    units.Length
}

func (l Layer) resistance() float64 {
	return float64(l.Thickness) / (float64(l.Conductivity) * float64(l.Area))
}

// TwoLayerWallPower puts two wall layers in series.
func TwoLayerWallPower(recipient, source units.Temperature, first, second Layer) (units.Power, error) {
	return powerThrough(recipient, source, first.resistance()+second.resistance())
}

// LogMeanTemperatureDifference takes the hot and cold stream temperatures at
// ends A and B of an exchanger.
func LogMeanTemperatureDifference(hotA, coldA, hotB, coldB units.Temperature) (units.TemperatureInterval, error) {
	dA := float64(hotA.Sub(coldA))
	dB := float64(hotB.Sub(coldB))
	if dA < 0 || dB < 0 {
		return 0, fmt.Errorf("%w: hot stream colder than cold stream (end A %g K, end B %g K)",
			errors.ErrPhysicallyInvalidInput, dA, dB)
	}
	if dA == 0 || dB == 0 {
		return 0, nil
	}
	if dA == dB {
		return units.TemperatureInterval(dA), nil
	}
	return units.TemperatureInterval((dA - dB) / math.Log(dA/dB)), nil
}

// Reynolds is Re = 4 m / (pi D mu) for a full circular pipe.
func Reynolds(m units.MassRate, d units.Length, mu units.DynamicViscosity) (float64, error) {
	if d <= 0 || mu <= 0 {
		return 0, fmt.Errorf("%w: diameter %g m, viscosity %g Pa s", errors.ErrPhysicallyInvalidInput, float64(d), float64(mu))
	}
	return 4 * math.Abs(float64(m)) / (math.Pi * float64(d) * float64(mu)), nil
}

// Prandtl is Pr = cp mu / k.
func Prandtl(cp units.SpecificHeatCapacity, mu units.DynamicViscosity, k units.ThermalConductivity) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("%w: thermal conductivity %g W/m K", errors.ErrPhysicallyInvalidInput, float64(k))
	}
	return float64(cp) * float64(mu) / float64(k), nil
}

// CoefficientFromNusselt is h = Nu k / D.
func CoefficientFromNusselt(nu float64, k units.ThermalConductivity, d units.Length) (units.HeatTransferCoefficient, error) {
	if d <= 0 {
		return 0, fmt.Errorf("%w: diameter %g m", errors.ErrPhysicallyInvalidInput, float64(d))
	}
	return units.HeatTransferCoefficient(nu * float64(k) / float64(d)), nil
}
