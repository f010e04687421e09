// Package recorder accumulates per-step entity temperatures and exports
// them as CSV.
package recorder

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"thermloop/errors"
	"thermloop/network"
)

// Row is one entity at one completed step.
type Row struct {
	Step   int     `csv:"step"`
	Time   float64 `csv:"time_s"`
	Index  int     `csv:"index"`
	Name   string  `csv:"name"`
	Inlet  float64 `csv:"inlet_k"`
	Outlet float64 `csv:"outlet_k"`
	Bulk   float64 `csv:"bulk_k"`
}

type Recorder struct {
	rows []Row
}

func New() *Recorder {
	return &Recorder{}
}

// Record appends the current state of every entity in net.
func (r *Recorder) Record(net *network.Network) {
	step := net.StepCount()
	t := float64(net.ElapsedTime())
	for _, s := range net.Snapshot() {
		r.rows = append(r.rows, Row{
			Step:   step,
			Time:   t,
			Index:  s.Index,
			Name:   s.Name,
			Inlet:  float64(s.Inlet),
			Outlet: float64(s.Outlet),
			Bulk:   float64(s.Bulk),
		})
	}
}

// Rows returns the recorded rows in order.
func (r *Recorder) Rows() []Row {
	return append([]Row(nil), r.rows...)
}

func (r *Recorder) Len() int { return len(r.rows) }

func (r *Recorder) Write(w io.Writer) error {
	if err := gocsv.Marshal(&r.rows, w); err != nil {
		return errors.Wrap(err, "Recorder", "Write", "marshal rows")
	}
	return nil
}

// Save writes the history to path, replacing any existing file.
func (r *Recorder) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Recorder", "Save", "create file")
	}
	defer file.Close()
	if err := r.Write(file); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"path": path,
		"rows": len(r.rows),
	}).Info("history saved")
	return nil
}

// Read parses a history previously produced by Write.
func Read(rd io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(rd, &rows); err != nil {
		return nil, errors.Wrap(err, "recorder", "Read", "unmarshal rows")
	}
	return rows, nil
}
