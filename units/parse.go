package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"thermloop/errors"
)

// Dimension identifies the physical dimension of a parsed quantity.
type Dimension int

const (
	DimTemperature Dimension = iota
	DimPower
	DimEnergy
	DimMassRate
	DimTime
	DimMass
	DimVolume
	DimArea
	DimLength
	DimMassDensity
	DimSpecificEnthalpy
	DimHeatTransferCoefficient
	DimThermalConductivity
)

var dimensionNames = map[Dimension]string{
	DimTemperature:             "temperature",
	DimPower:                   "power",
	DimEnergy:                  "energy",
	DimMassRate:                "mass rate",
	DimTime:                    "time",
	DimMass:                    "mass",
	DimVolume:                  "volume",
	DimArea:                    "area",
	DimLength:                  "length",
	DimMassDensity:             "mass density",
	DimSpecificEnthalpy:        "specific enthalpy",
	DimHeatTransferCoefficient: "heat transfer coefficient",
	DimThermalConductivity:     "thermal conductivity",
}

func (d Dimension) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return "unknown"
}

// unit converts a value to SI as value*scale + offset.
type unit struct {
	dim    Dimension
	scale  float64
	offset float64
}

var unitTable = map[string]unit{
	"K":     {DimTemperature, 1, 0},
	"degC":  {DimTemperature, 1, ZeroCelsius},
	"degF":  {DimTemperature, 5.0 / 9.0, ZeroCelsius - 32*5.0/9.0},
	"W":     {DimPower, 1, 0},
	"kW":    {DimPower, 1e3, 0},
	"J":     {DimEnergy, 1, 0},
	"kJ":    {DimEnergy, 1e3, 0},
	"kg/s":  {DimMassRate, 1, 0},
	"g/s":   {DimMassRate, 1e-3, 0},
	"s":     {DimTime, 1, 0},
	"ms":    {DimTime, 1e-3, 0},
	"min":   {DimTime, 60, 0},
	"kg":    {DimMass, 1, 0},
	"g":     {DimMass, 1e-3, 0},
	"m3":    {DimVolume, 1, 0},
	"L":     {DimVolume, 1e-3, 0},
	"cm3":   {DimVolume, 1e-6, 0},
	"m2":    {DimArea, 1, 0},
	"cm2":   {DimArea, 1e-4, 0},
	"m":     {DimLength, 1, 0},
	"cm":    {DimLength, 1e-2, 0},
	"mm":    {DimLength, 1e-3, 0},
	"kg/m3": {DimMassDensity, 1, 0},
	"J/kg":  {DimSpecificEnthalpy, 1, 0},
	"kJ/kg": {DimSpecificEnthalpy, 1e3, 0},
	"W/m2K": {DimHeatTransferCoefficient, 1, 0},
	"W/mK":  {DimThermalConductivity, 1, 0},
}

// Quantity is a parsed value in SI units together with its dimension.
type Quantity struct {
	Value float64
	Dim   Dimension
}

// Parse reads "<number> <unit>", e.g. "0.18 kg/s" or "27 degC".
func Parse(text string) (Quantity, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Quantity{}, fmt.Errorf("%w: quantity %q must be \"<number> <unit>\"", errors.ErrInvalidConfig, text)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: quantity %q: %v", errors.ErrInvalidConfig, text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Quantity{}, fmt.Errorf("%w: quantity %q is not finite", errors.ErrInvalidConfig, text)
	}
	u, ok := unitTable[fields[1]]
	if !ok {
		return Quantity{}, fmt.Errorf("%w: unknown unit %q", errors.ErrInvalidConfig, fields[1])
	}
	return Quantity{Value: v*u.scale + u.offset, Dim: u.dim}, nil
}

// ParseAs parses text and checks that it carries the wanted dimension.
func ParseAs(text string, want Dimension) (float64, error) {
	q, err := Parse(text)
	if err != nil {
		return 0, err
	}
	if q.Dim != want {
		return 0, fmt.Errorf("%w: %q is a %s, expected a %s", errors.ErrDimensionalMismatch, text, q.Dim, want)
	}
	return q.Value, nil
}
