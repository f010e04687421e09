// Package loop reads declarative loop descriptions and builds networks and
// heat sources from them.
//
// Quantities are written with their unit, for example "0.18 kg/s" or
// "20 degC", and are checked against the dimension each field expects.
package loop

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"thermloop/correlation"
	"thermloop/errors"
	"thermloop/fluid"
	"thermloop/heatflux"
	"thermloop/network"
	"thermloop/units"
)

// Loop is the document form of a network.
type Loop struct {
	Name               string       `yaml:"name"`
	Timestep           string       `yaml:"timestep"`
	InitialTemperature string       `yaml:"initial_temperature"`
	Fluid              string       `yaml:"fluid"`
	FluidTable         string       `yaml:"fluid_table"`
	Workers            int          `yaml:"workers"`
	Components         []Component  `yaml:"components"`
	Connections        []Connection `yaml:"connections"`
}

// Component is one control volume. At most one of Heat, Ambient and
// Convection may be set; none means no heat input.
type Component struct {
	Name       string      `yaml:"name"`
	Volume     string      `yaml:"volume"`
	MassFlow   string      `yaml:"mass_flow"`
	Work       string      `yaml:"work"`
	Heat       string      `yaml:"heat"`
	Ambient    *Ambient    `yaml:"ambient"`
	Convection *Convection `yaml:"convection"`
}

type Ambient struct {
	Temperature string `yaml:"temperature"`
	HTC         string `yaml:"htc"`
	Area        string `yaml:"area"`
}

type Convection struct {
	Temperature string `yaml:"temperature"`
	Diameter    string `yaml:"diameter"`
	Length      string `yaml:"length"`
	Correlation string `yaml:"correlation"`
}

// Connection feeds the outlet of From into the inlet of To.
type Connection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and parses a loop file.
func Load(path string) (*Loop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loop", "Load", "read "+path)
	}
	return Parse(data)
}

// Parse decodes a loop document. Unknown fields are rejected.
func Parse(data []byte) (*Loop, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var l Loop
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: loop document: %v", errors.ErrInvalidConfig, err)
	}
	if len(l.Components) == 0 {
		return nil, fmt.Errorf("%w: loop %q has no components", errors.ErrInvalidConfig, l.Name)
	}
	return &l, nil
}

// quantity parses text as dim, falling back to def when text is empty.
func quantity(field, text string, dim units.Dimension, def float64) (float64, error) {
	if text == "" {
		return def, nil
	}
	v, err := units.ParseAs(text, dim)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func (l *Loop) resolveFluid() (fluid.Properties, error) {
	if l.FluidTable != "" {
		return fluid.LoadTable(l.FluidTable)
	}
	return fluid.Lookup(l.Fluid)
}

// Build creates the network, stores each component's mass flow and work
// input, and returns one heat source per entity in index order.
func (l *Loop) Build() (*network.Network, []heatflux.Source, error) {
	props, err := l.resolveFluid()
	if err != nil {
		return nil, nil, errors.Wrap(err, "Loop", "Build", "resolve fluid")
	}
	dt, err := quantity("timestep", l.Timestep, units.DimTime, 0.1)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Loop", "Build", "parse timestep")
	}
	t0, err := quantity("initial_temperature", l.InitialTemperature, units.DimTemperature, 300)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Loop", "Build", "parse initial temperature")
	}
	net, err := network.New(units.Time(dt), units.Temperature(t0), props, network.WithWorkers(l.Workers))
	if err != nil {
		return nil, nil, err
	}

	sources := make([]heatflux.Source, 0, len(l.Components))
	for _, c := range l.Components {
		src, err := l.addComponent(net, c)
		if err != nil {
			return nil, nil, errors.Wrap(err, "Loop", "Build", "add component "+c.Name)
		}
		sources = append(sources, src)
	}
	for _, conn := range l.Connections {
		if err := net.ConnectNames(conn.From, conn.To); err != nil {
			return nil, nil, errors.Wrap(err, "Loop", "Build", "connect "+conn.From+" to "+conn.To)
		}
	}
	log.WithFields(log.Fields{
		"loop":        l.Name,
		"components":  net.Len(),
		"connections": len(l.Connections),
	}).Info("loop built")
	return net, sources, nil
}

func (l *Loop) addComponent(net *network.Network, c Component) (heatflux.Source, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: component without name", errors.ErrInvalidConfig)
	}
	vol, err := quantity("volume", c.Volume, units.DimVolume, 0)
	if err != nil {
		return nil, err
	}
	m, err := quantity("mass_flow", c.MassFlow, units.DimMassRate, 0)
	if err != nil {
		return nil, err
	}
	w, err := quantity("work", c.Work, units.DimPower, 0)
	if err != nil {
		return nil, err
	}
	src, err := c.source()
	if err != nil {
		return nil, err
	}
	idx, err := net.AddNamedEntity(c.Name, units.Volume(vol))
	if err != nil {
		return nil, err
	}
	if err := net.SetMassFlow(idx, units.MassRate(m)); err != nil {
		return nil, err
	}
	if err := net.SetWorkInput(idx, units.Power(w)); err != nil {
		return nil, err
	}
	return src, nil
}

func (c Component) source() (heatflux.Source, error) {
	modes := 0
	if c.Heat != "" {
		modes++
	}
	if c.Ambient != nil {
		modes++
	}
	if c.Convection != nil {
		modes++
	}
	if modes > 1 {
		return nil, fmt.Errorf("%w: component %q sets more than one heat mode", errors.ErrInvalidConfig, c.Name)
	}

	switch {
	case c.Ambient != nil:
		t, err := quantity("ambient.temperature", c.Ambient.Temperature, units.DimTemperature, 0)
		if err != nil {
			return nil, err
		}
		u, err := quantity("ambient.htc", c.Ambient.HTC, units.DimHeatTransferCoefficient, 0)
		if err != nil {
			return nil, err
		}
		a, err := quantity("ambient.area", c.Ambient.Area, units.DimArea, 0)
		if err != nil {
			return nil, err
		}
		return heatflux.AmbientExchange{
			U:           units.HeatTransferCoefficient(u),
			Area:        units.Area(a),
			Surrounding: units.Temperature(t),
		}, nil
	case c.Convection != nil:
		t, err := quantity("convection.temperature", c.Convection.Temperature, units.DimTemperature, 0)
		if err != nil {
			return nil, err
		}
		d, err := quantity("convection.diameter", c.Convection.Diameter, units.DimLength, 0)
		if err != nil {
			return nil, err
		}
		length, err := quantity("convection.length", c.Convection.Length, units.DimLength, 0)
		if err != nil {
			return nil, err
		}
		nu, err := correlation.ByName(c.Convection.Correlation)
		if err != nil {
			return nil, err
		}
		return heatflux.ConvectiveExchange{
			Diameter:    units.Length(d),
			Length:      units.Length(length),
			Nusselt:     nu,
			Surrounding: units.Temperature(t),
		}, nil
	default:
		q, err := quantity("heat", c.Heat, units.DimPower, 0)
		if err != nil {
			return nil, err
		}
		return heatflux.FixedHeat(q), nil
	}
}
