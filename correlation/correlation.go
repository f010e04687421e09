// Package correlation holds Nusselt number correlations for pipe flow.
// Every function checks its documented validity range and returns an
// errors.RangeError instead of extrapolating.
package correlation

import (
	"math"

	"thermloop/errors"
)

// Nusselt evaluates a Nusselt number from Reynolds and Prandtl numbers.
type Nusselt func(re, pr float64) (float64, error)

// CIETHeaterV1 is the fitted heater correlation for the CIET loop:
// Nu = 8 in laminar flow, 5.44 + 0.034 Re^0.82 above Re = 2000.
func CIETHeaterV1(re float64) (float64, error) {
	if re < 0 || math.IsNaN(re) {
		return 0, errors.CheckRange("ciet heater Re", re, 0, math.Inf(1))
	}
	if re >= 2000 {
		return 5.44 + 0.034*math.Pow(re, 0.82), nil
	}
	return 8.0, nil
}

// DittusBoelter returns 0.023 Re^0.8 Pr^n with n = 0.4 for a heated fluid
// and 0.3 for a cooled one.
func DittusBoelter(re, pr float64, heating bool) (float64, error) {
	if err := errors.CheckRange("dittus-boelter Re", re, 1e4, math.Inf(1)); err != nil {
		return 0, err
	}
	if err := errors.CheckRange("dittus-boelter Pr", pr, 0.6, 160); err != nil {
		return 0, err
	}
	n := 0.3
	if heating {
		n = 0.4
	}
	return 0.023 * math.Pow(re, 0.8) * math.Pow(pr, n), nil
}

// SiederTate returns 0.027 Re^0.8 Pr^(1/3) (mu_f/mu_w)^0.14.
func SiederTate(re, pr, viscosityRatio float64) (float64, error) {
	if err := errors.CheckRange("sieder-tate Pr", pr, 0.7, 16700); err != nil {
		return 0, err
	}
	if err := errors.CheckRange("sieder-tate Re", re, 4000, 10000); err != nil {
		return 0, err
	}
	if err := errors.CheckRange("sieder-tate viscosity ratio", viscosityRatio, 0.0044, 9.75); err != nil {
		return 0, err
	}
	return 0.027 * math.Pow(re, 0.8) * math.Cbrt(pr) * math.Pow(viscosityRatio, 0.14), nil
}

// GnielinskiLiquids is the Gnielinski correlation with the (Pr_f/Pr_w)^0.11
// liquid property correction. darcy is the Darcy friction factor.
func GnielinskiLiquids(re, prFluid, prWall, darcy float64) (float64, error) {
	if err := errors.CheckRange("gnielinski Pr fluid", prFluid, 0.5, 1e5); err != nil {
		return 0, err
	}
	if err := errors.CheckRange("gnielinski Pr wall", prWall, 0.5, 1e5); err != nil {
		return 0, err
	}
	ratio := prFluid / prWall
	if err := errors.CheckRange("gnielinski Pr ratio", ratio, 0.05, 20); err != nil {
		return 0, err
	}
	if err := errors.CheckRange("gnielinski Re", re, 2300, 1e6); err != nil {
		return 0, err
	}
	if darcy <= 0 {
		return 0, errors.CheckRange("gnielinski friction factor", darcy, math.SmallestNonzeroFloat64, math.Inf(1))
	}
	f8 := darcy / 8
	num := f8 * (re - 1000) * prFluid * math.Pow(ratio, 0.11)
	den := 1 + 12.7*math.Sqrt(f8)*(math.Pow(prFluid, 2.0/3.0)-1)
	return num / den, nil
}

// ForCIETHeater adapts CIETHeaterV1, which ignores Pr.
func ForCIETHeater() Nusselt {
	return func(re, _ float64) (float64, error) {
		return CIETHeaterV1(re)
	}
}

func ForDittusBoelter(heating bool) Nusselt {
	return func(re, pr float64) (float64, error) {
		return DittusBoelter(re, pr, heating)
	}
}

// ByName resolves the correlation names accepted in loop files.
func ByName(name string) (Nusselt, error) {
	switch name {
	case "", "ciet_heater_v1":
		return ForCIETHeater(), nil
	case "dittus_boelter_heating":
		return ForDittusBoelter(true), nil
	case "dittus_boelter_cooling":
		return ForDittusBoelter(false), nil
	default:
		return nil, errors.Wrap(errors.ErrInvalidConfig, "correlation", "ByName", "resolve "+name)
	}
}
