package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"thermloop/calculator"
	"thermloop/loop"
	"thermloop/recorder"
	"thermloop/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	configPath := flag.String("config", "conf/config.ini", "run configuration")
	loopPath := flag.String("loop", "conf/three_pipe.yaml", "loop description")
	steps := flag.Int("steps", 100, "timesteps to run in batch mode")
	out := flag.String("out", "", "history csv, overrides [recorder] Path")
	serve := flag.Bool("serve", false, "start the websocket server instead of a batch run")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	cfg, err := calculator.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *serve {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		s, err := server.NewServer(cfg.Addr, upgrader, cfg)
		if err != nil {
			log.Fatal(err)
		}
		if err := s.Serve(); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *out != "" {
		cfg.RecorderPath = *out
	}
	if err := runBatch(cfg, *loopPath, *steps); err != nil {
		log.Fatal(err)
	}
}

func runBatch(cfg calculator.Config, loopPath string, steps int) error {
	l, err := loop.Load(loopPath)
	if err != nil {
		return err
	}
	rec := recorder.New()
	c, err := calculator.FromLoop(l, cfg,
		calculator.WithRecorder(rec),
		calculator.WithPushEvery(0),
		calculator.WithMinStepDuration(0))
	if err != nil {
		return err
	}
	runErr := c.Run(steps)
	if cfg.RecorderPath != "" {
		if err := rec.Save(cfg.RecorderPath); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	for _, e := range c.BuildData().Entities {
		log.WithFields(log.Fields{
			"entity": e.Name,
			"inlet":  e.Inlet,
			"outlet": e.Outlet,
			"bulk":   e.Bulk,
		}).Info("final temperature")
	}
	return nil
}

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
