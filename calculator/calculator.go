package calculator

import (
	"thermloop/model"
	"thermloop/units"
)

// Calculator drives a network forward in time and exposes its state to the
// websocket hub.
type Calculator interface {
	// 构建data
	BuildData() *model.TemperatureData

	// 获取CalcHub
	GetCalcHub() *CalcHub

	// recent snapshots, oldest first
	History() []model.TemperatureData

	// external inputs of entity i; SetHeatInput replaces its heat source
	SetHeatInput(i int, q units.Power) error
	SetMassFlow(i int, m units.MassRate) error
	SetWorkInput(i int, w units.Power) error

	// one timestep
	Step() error

	// steps until maxSteps (0 for no limit), Stop or the first error
	Run(maxSteps int) error

	Stop()
}
