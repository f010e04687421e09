package controlvolume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermloop/errors"
	"thermloop/fluid"
	"thermloop/units"
)

func newPipe(t *testing.T, index int) *Entity {
	t.Helper()
	e, err := New(0.1, units.Kelvin(300), 1e-6, index, fluid.DowthermA{})
	require.NoError(t, err)
	return e
}

func TestNewInitialState(t *testing.T) {
	e := newPipe(t, 2)
	assert.Equal(t, 2, e.Index())
	assert.Equal(t, Unconnected, e.InletIndex())
	assert.Equal(t, Unconnected, e.OutletIndex())
	assert.False(t, e.Connected())

	h0, err := fluid.DowthermA{}.Enthalpy(units.Kelvin(300))
	require.NoError(t, err)

	prev, next := e.Temperatures()
	assert.Equal(t, Temperatures{Inlet: 300, Outlet: 300, Bulk: 300}, prev)
	assert.Equal(t, prev, next)
	hPrev, _ := e.Enthalpies()
	assert.Equal(t, Enthalpies{Inlet: h0, Outlet: h0, Bulk: h0}, hPrev)

	mass, err := e.Mass()
	require.NoError(t, err)
	assert.InDelta(t, 1.05518e-3, float64(mass), 1e-8)
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := New(0, 300, 1e-6, 0, fluid.DowthermA{})
	assert.ErrorIs(t, err, errors.ErrPhysicallyInvalidInput)
	_, err = New(0.1, 300, -1, 0, fluid.DowthermA{})
	assert.ErrorIs(t, err, errors.ErrPhysicallyInvalidInput)
	_, err = New(0.1, 300, 1e-6, 0, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	_, err = New(0.1, units.Celsius(5), 1e-6, 0, fluid.DowthermA{})
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestConnectIsOneSided(t *testing.T) {
	a, b := newPipe(t, 0), newPipe(t, 1)
	a.ConnectOutlet(b)
	assert.Equal(t, 1, a.OutletIndex())
	assert.Equal(t, Unconnected, b.InletIndex())

	b.ConnectInlet(a)
	assert.Equal(t, 0, b.InletIndex())

	self := newPipe(t, 0)
	self.ConnectInlet(self)
	self.ConnectOutlet(self)
	assert.True(t, self.Connected())
}

// Drives three pipes in a ring through the protocol by hand.
func TestThreePipeProtocol(t *testing.T) {
	pipes := []*Entity{newPipe(t, 0), newPipe(t, 1), newPipe(t, 2)}
	for i, p := range pipes {
		next := pipes[(i+1)%3]
		p.ConnectOutlet(next)
		next.ConnectInlet(p)
	}
	heat := []units.Power{100, -20, -80}

	outlets := make([]units.Temperature, 3)
	for i, p := range pipes {
		require.NoError(t, p.ComputeCurrentEnthalpies())
		require.NoError(t, p.AdvanceEnthalpy(heat[i], 0, 0.1, 0.18))
		temp, err := p.ResolveNewTemperature()
		require.NoError(t, err)
		outlets[i] = temp
	}
	for _, p := range pipes {
		require.NoError(t, p.SetInletTemperatureNew(outlets[p.InletIndex()]))
		require.NoError(t, p.SetOutletTemperatureNew(outlets[p.Index()]))
		p.CommitTimestep()
	}

	want := []float64{305.91, 298.8, 295.2}
	for i, p := range pipes {
		prev, _ := p.Temperatures()
		assert.InEpsilon(t, want[i], float64(prev.Outlet), 0.01, "pipe %d outlet", i)
		assert.Equal(t, outlets[(i+2)%3], prev.Inlet, "pipe %d inlet", i)
		assert.Equal(t, units.Mean(prev.Inlet, prev.Outlet), prev.Bulk)
	}
}

func TestAdvanceEnthalpyZeroInputsKeepsState(t *testing.T) {
	e := newPipe(t, 0)
	require.NoError(t, e.ComputeCurrentEnthalpies())
	require.NoError(t, e.AdvanceEnthalpy(0, 0, 0.1, 0.18))
	temp, err := e.ResolveNewTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 300.0, float64(temp), 1e-9)
}

func TestAdvanceEnthalpyUsesOutletBasis(t *testing.T) {
	e := newPipe(t, 0)
	require.NoError(t, e.SetInletTemperatureNew(units.Kelvin(320)))
	require.NoError(t, e.SetOutletTemperatureNew(units.Kelvin(300)))
	e.CommitTimestep()
	require.NoError(t, e.ComputeCurrentEnthalpies())

	hPrev, _ := e.Enthalpies()
	mass, err := e.Mass()
	require.NoError(t, err)
	require.NoError(t, e.AdvanceEnthalpy(0, 0, 0.1, 0))
	_, hNext := e.Enthalpies()
	assert.InDelta(t, float64(hPrev.Outlet), float64(hNext.Bulk), 1e-9)

	require.NoError(t, e.AdvanceEnthalpy(0, 0, 0.1, 0.01))
	_, hNext = e.Enthalpies()
	want := float64(hPrev.Outlet) + 0.1*0.01*float64(hPrev.Inlet-hPrev.Outlet)/float64(mass)
	assert.InDelta(t, want, float64(hNext.Bulk), 1e-6)
}

func TestCommitTimestepIdempotent(t *testing.T) {
	e := newPipe(t, 0)
	e.ConnectInlet(e)
	e.ConnectOutlet(e)
	require.NoError(t, e.ComputeCurrentEnthalpies())
	require.NoError(t, e.AdvanceEnthalpy(50, 0, 0.1, 0.18))
	temp, err := e.ResolveNewTemperature()
	require.NoError(t, err)
	require.NoError(t, e.SetInletTemperatureNew(temp))
	require.NoError(t, e.SetOutletTemperatureNew(temp))

	e.CommitTimestep()
	t1, _ := e.Temperatures()
	h1, _ := e.Enthalpies()
	e.CommitTimestep()
	t2, _ := e.Temperatures()
	h2, _ := e.Enthalpies()
	assert.Equal(t, t1, t2)
	assert.Equal(t, h1, h2)
}

func TestOutOfRangeFailsFast(t *testing.T) {
	e := newPipe(t, 0)
	require.NoError(t, e.ComputeCurrentEnthalpies())
	// 1 MW into a milligram-scale volume drives the enthalpy past 180 degC.
	require.NoError(t, e.AdvanceEnthalpy(1e6, 0, 0.1, 0.18))
	_, err := e.ResolveNewTemperature()
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	assert.ErrorIs(t, e.SetInletTemperatureNew(units.Celsius(500)), errors.ErrOutOfRange)
}

func TestCloneIsIndependent(t *testing.T) {
	e := newPipe(t, 0)
	c := e.Clone()
	require.NoError(t, c.SetOutletTemperatureNew(units.Kelvin(310)))
	c.CommitTimestep()

	prev, _ := e.Temperatures()
	assert.Equal(t, units.Temperature(300), prev.Outlet)
	cPrev, _ := c.Temperatures()
	assert.Equal(t, units.Temperature(310), cPrev.Outlet)
}
