package calculator

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"thermloop/errors"
)

type Config struct {
	// [calculator]
	Timestep           float64 // s
	InitialTemperature float64 // K
	Workers            int
	PushEvery          int
	HistoryLength      int
	MinStepDuration    time.Duration

	// [server]
	Addr string

	// [recorder]
	RecorderPath string
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() Config {
	return loadCfg(ini.Empty())
}

// LoadConfig reads an ini run configuration. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithFields(log.Fields{
			"path": path,
		}).Warn("config file not found, using defaults")
		return DefaultConfig(), nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "calculator", "LoadConfig", "parse "+path)
	}
	cfg := loadCfg(file)
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrap(err, "calculator", "LoadConfig", "validate "+path)
	}
	return cfg, nil
}

func loadCfg(file *ini.File) Config {
	calc := file.Section("calculator")
	return Config{
		Timestep:           calc.Key("Timestep").MustFloat64(0.1),
		InitialTemperature: calc.Key("InitialTemperature").MustFloat64(300),
		Workers:            calc.Key("Workers").MustInt(1),
		PushEvery:          calc.Key("PushEvery").MustInt(10),
		HistoryLength:      calc.Key("HistoryLength").MustInt(64),
		MinStepDuration:    calc.Key("MinStepDuration").MustDuration(0),
		Addr:               file.Section("server").Key("Addr").MustString(":9000"),
		RecorderPath:       file.Section("recorder").Key("Path").MustString(""),
	}
}

func (cfg Config) validate() error {
	if !(cfg.Timestep > 0) {
		return errors.ErrInvalidConfig
	}
	if !(cfg.InitialTemperature > 0) {
		return errors.ErrInvalidConfig
	}
	if cfg.Workers < 1 || cfg.PushEvery < 0 || cfg.HistoryLength < 1 || cfg.MinStepDuration < 0 {
		return errors.ErrInvalidConfig
	}
	return nil
}
