package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"thermloop/calculator"
	"thermloop/errors"
	"thermloop/loop"
	"thermloop/metric"
	"thermloop/model"
	"thermloop/units"
)

// Hub serves one websocket session. Requests are handled one at a time;
// only handleResponse writes to the connection.
type Hub struct {
	session string
	cfg     calculator.Config
	metrics *metric.Metrics

	c        calculator.Calculator
	runDone  chan struct{}
	pushDone chan struct{}

	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg

	done      chan struct{}
	closeOnce sync.Once
}

func NewHub(session string, cfg calculator.Config, metrics *metric.Metrics) *Hub {
	return &Hub{
		session: session,
		cfg:     cfg,
		metrics: metrics,
		msg:     make(chan model.Msg, 10),
		reply:   make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

func (h *Hub) close() {
	h.closeOnce.Do(func() {
		close(h.done)
		log.WithFields(log.Fields{
			"session": h.session,
		}).Info("session closed")
	})
}

func (h *Hub) send(reply model.Msg) {
	select {
	case h.reply <- reply:
	case <-h.done:
	}
}

func (h *Hub) sendJSON(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.sendError(err)
		return
	}
	h.send(model.Msg{Type: typ, Content: string(data)})
}

func (h *Hub) sendError(err error) {
	log.WithFields(log.Fields{
		"session": h.session,
		"error":   err,
	}).Warn("request failed")
	h.send(model.Msg{Type: model.TypeError, Content: err.Error()})
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithFields(log.Fields{
					"session": h.session,
					"error":   err,
				}).Warn("write failed")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			if err := h.dispatch(msg); err != nil {
				h.sendError(err)
			}
		case <-h.done:
			h.stopRun()
			h.metrics.Forget(h.session)
			return
		}
	}
}

func (h *Hub) dispatch(msg model.Msg) error {
	switch msg.Type {
	case model.TypeEnv:
		return h.handleEnv(msg.Content)
	case model.TypeInput:
		return h.handleInput(msg.Content)
	case model.TypeStep:
		return h.handleStep(msg.Content)
	case model.TypeStart:
		return h.handleStart()
	case model.TypeStop:
		return h.handleStop()
	default:
		return fmt.Errorf("%w: no such message type %q", errors.ErrInvalidConfig, msg.Type)
	}
}

func (h *Hub) running() bool {
	if h.runDone == nil {
		return false
	}
	select {
	case <-h.runDone:
		return false
	default:
		return true
	}
}

func (h *Hub) current() (calculator.Calculator, error) {
	if h.c == nil {
		return nil, fmt.Errorf("%w: no loop set, send %q first", errors.ErrInvalidConfig, model.TypeEnv)
	}
	return h.c, nil
}

func (h *Hub) handleEnv(content string) error {
	var env model.Env
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return fmt.Errorf("%w: env: %v", errors.ErrInvalidConfig, err)
	}
	l, err := loop.Parse([]byte(env.Loop))
	if err != nil {
		return err
	}
	c, err := calculator.FromLoop(l, h.cfg, calculator.WithMetrics(h.metrics, h.session))
	if err != nil {
		return err
	}
	h.stopRun()
	h.metrics.Forget(h.session)
	h.c = c

	net := c.Network()
	set := model.EnvSet{
		Session:  h.session,
		Entities: make([]string, net.Len()),
		Timestep: float64(net.Timestep()),
	}
	for _, s := range net.Snapshot() {
		set.Entities[s.Index] = s.Name
	}
	log.WithFields(log.Fields{
		"session":  h.session,
		"loop":     l.Name,
		"entities": net.Len(),
	}).Info("env set")
	h.sendJSON(model.TypeEnvSet, set)
	return nil
}

func (h *Hub) handleInput(content string) error {
	c, err := h.current()
	if err != nil {
		return err
	}
	var in model.Input
	if err := json.Unmarshal([]byte(content), &in); err != nil {
		return fmt.Errorf("%w: input: %v", errors.ErrInvalidConfig, err)
	}
	if in.Heat != nil {
		if err := c.SetHeatInput(in.Index, units.Power(*in.Heat)); err != nil {
			return err
		}
	}
	if in.Work != nil {
		if err := c.SetWorkInput(in.Index, units.Power(*in.Work)); err != nil {
			return err
		}
	}
	if in.MassFlow != nil {
		if err := c.SetMassFlow(in.Index, units.MassRate(*in.MassFlow)); err != nil {
			return err
		}
	}
	h.sendJSON(model.TypeInputSet, in)
	return nil
}

func (h *Hub) handleStep(content string) error {
	c, err := h.current()
	if err != nil {
		return err
	}
	if h.running() {
		return fmt.Errorf("%w: calculation is running", errors.ErrInvalidConfig)
	}
	req := model.StepRequest{Steps: 1}
	if content != "" {
		if err := json.Unmarshal([]byte(content), &req); err != nil {
			return fmt.Errorf("%w: step: %v", errors.ErrInvalidConfig, err)
		}
	}
	if req.Steps < 1 {
		req.Steps = 1
	}
	for i := 0; i < req.Steps; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	h.sendJSON(model.TypeData, c.BuildData())
	return nil
}

func (h *Hub) handleStart() error {
	c, err := h.current()
	if err != nil {
		return err
	}
	if h.running() {
		return fmt.Errorf("%w: calculation is already running", errors.ErrInvalidConfig)
	}
	calcHub := c.GetCalcHub()
	calcHub.StartSignal()
	runDone, pushDone := make(chan struct{}), make(chan struct{})
	h.runDone, h.pushDone = runDone, pushDone
	h.send(model.Msg{Type: model.TypeStarted, Content: "started"})

	go func() {
		defer close(runDone)
		if err := c.Run(0); err != nil {
			h.sendError(err)
		}
	}()
	go func() {
		defer close(pushDone)
		for {
			select {
			case <-calcHub.PeriodCalcResult:
				h.sendJSON(model.TypeData, c.BuildData())
			case <-runDone:
				return
			case <-h.done:
				return
			}
		}
	}()
	return nil
}

func (h *Hub) stopRun() {
	if h.running() {
		h.c.Stop()
		<-h.runDone
		<-h.pushDone
	}
}

func (h *Hub) handleStop() error {
	c, err := h.current()
	if err != nil {
		return err
	}
	h.stopRun()
	h.sendJSON(model.TypeStopped, c.BuildData())
	return nil
}
