package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"thermloop/calculator"
	"thermloop/errors"
	"thermloop/metric"
	"thermloop/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	cfg      calculator.Config

	registry *prometheus.Registry
	metrics  *metric.Metrics
}

// NewServer registers one set of metrics shared by every session.
func NewServer(addr string, upgrader websocket.Upgrader, cfg calculator.Config) (*Server, error) {
	registry := prometheus.NewRegistry()
	metrics := metric.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, errors.Wrap(err, "Server", "NewServer", "register metrics")
	}
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		cfg:      cfg,
		registry: registry,
		metrics:  metrics,
	}, nil
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"error":  err,
		}).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(uuid.New().String(), s.cfg, s.metrics)
	hub.conn = conn
	log.WithFields(log.Fields{
		"session": hub.session,
		"remote":  r.RemoteAddr,
	}).Info("session opened")

	go hub.handleRequest()
	go hub.handleResponse()
	defer hub.close()
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithFields(log.Fields{
					"session": hub.session,
					"error":   err,
				}).Warn("read failed")
			}
			return
		}
		select {
		case hub.msg <- msg:
		case <-hub.done:
			return
		}
	}
}

// Handler routes /ws to the websocket hub and /metrics to the registry.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) Serve() error {
	log.WithFields(log.Fields{
		"addr": s.addr,
	}).Info("server listening")
	if err := http.ListenAndServe(s.addr, s.Handler()); err != nil {
		return errors.Wrap(err, "Server", "Serve", "listen")
	}
	return nil
}
