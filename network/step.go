package network

import (
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"thermloop/controlvolume"
	"thermloop/errors"
	"thermloop/units"
)

// StepStored advances one timestep with the inputs set through SetHeatInput,
// SetWorkInput and SetMassFlow.
func (n *Network) StepStored() error {
	return n.Step(n.heat, n.work, n.mass)
}

// Step advances every entity by one timestep. Each pass finishes on all
// entities before the next starts:
//
//  1. compute current enthalpies
//  2. advance bulk enthalpy with the external inputs
//  3. resolve new bulk temperatures into the outlet table
//  4. set each inlet from the upstream entry of the outlet table
//  5. set each outlet from its own entry
//  6. commit
//
// The passes run on copies of the entities. On any error the network keeps
// its previous state.
func (n *Network) Step(heat, work []units.Power, mass []units.MassRate) error {
	start := time.Now()
	count := len(n.entities)
	if len(heat) != count || len(work) != count || len(mass) != count {
		return errors.Wrap(errors.ErrInputLength, "Network", "Step", "check inputs")
	}
	for i, e := range n.entities {
		if !e.Connected() {
			return errors.Wrap(&errors.EntityError{Index: i, Op: "validate", Err: errors.ErrUnconnectedEntity},
				"Network", "Step", "validate topology")
		}
	}

	next := make([]*controlvolume.Entity, count)
	for i, e := range n.entities {
		next[i] = e.Clone()
	}

	err := n.forEach(next, "compute enthalpies", func(_ int, e *controlvolume.Entity) error {
		return e.ComputeCurrentEnthalpies()
	})
	if err != nil {
		return n.fail(err)
	}
	err = n.forEach(next, "advance enthalpy", func(i int, e *controlvolume.Entity) error {
		return e.AdvanceEnthalpy(heat[i], work[i], n.timestep, mass[i])
	})
	if err != nil {
		return n.fail(err)
	}
	outlets := make([]units.Temperature, count)
	err = n.forEach(next, "resolve temperature", func(i int, e *controlvolume.Entity) error {
		t, err := e.ResolveNewTemperature()
		outlets[i] = t
		return err
	})
	if err != nil {
		return n.fail(err)
	}

	// outlets is read-only from here on.
	for i, e := range next {
		if err := e.SetInletTemperatureNew(outlets[e.InletIndex()]); err != nil {
			return n.fail(&errors.EntityError{Index: i, Op: "set inlet", Err: err})
		}
	}
	for i, e := range next {
		if err := e.SetOutletTemperatureNew(outlets[i]); err != nil {
			return n.fail(&errors.EntityError{Index: i, Op: "set outlet", Err: err})
		}
	}
	for _, e := range next {
		e.CommitTimestep()
	}

	n.entities = next
	n.steps++
	log.WithFields(log.Fields{
		"step":    n.steps,
		"time":    float64(n.ElapsedTime()),
		"elapsed": time.Since(start),
	}).Debug("network stepped")
	return nil
}

// forEach runs fn on every entity and returns once all have finished. With
// more than one worker the entities are spread over an errgroup.
func (n *Network) forEach(entities []*controlvolume.Entity, op string, fn func(i int, e *controlvolume.Entity) error) error {
	wrap := func(i int, e *controlvolume.Entity) error {
		if err := fn(i, e); err != nil {
			return &errors.EntityError{Index: i, Op: op, Err: err}
		}
		return nil
	}
	if n.workers < 2 || len(entities) < 2 {
		for i, e := range entities {
			if err := wrap(i, e); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(n.workers)
	for i, e := range entities {
		i, e := i, e
		g.Go(func() error {
			return wrap(i, e)
		})
	}
	return g.Wait()
}

func (n *Network) fail(err error) error {
	log.WithFields(log.Fields{
		"step":  n.steps + 1,
		"error": err,
	}).Error("network step failed")
	return errors.Wrap(err, "Network", "Step", "advance")
}
