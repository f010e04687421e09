package calculator

import "sync"

// CalcHub carries the stop and push signals between a running calculator
// and its consumer.
type CalcHub struct {
	// 温度场推送
	PeriodCalcResult chan struct{}

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

func NewCalcHub() *CalcHub {
	return &CalcHub{
		stop:             make(chan struct{}),
		PeriodCalcResult: make(chan struct{}, 1),
	}
}

// PushSignal announces new results. A push that is still pending absorbs
// the new one.
func (ch *CalcHub) PushSignal() {
	select {
	case ch.PeriodCalcResult <- struct{}{}:
	default:
	}
}

func (ch *CalcHub) StopSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.stopped {
		close(ch.stop)
		ch.stopped = true
	}
}

// StartSignal re-arms the stop channel after a StopSignal.
func (ch *CalcHub) StartSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.stopped {
		ch.stop = make(chan struct{})
		ch.stopped = false
	}
}

// stopChan is closed by StopSignal.
func (ch *CalcHub) stopChan() <-chan struct{} {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.stop
}
