package fluid

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"thermloop/errors"
	"thermloop/units"
)

// TableRow is one tabulated property point.
type TableRow struct {
	Temperature         float64 `csv:"temperature_k"`
	Density             float64 `csv:"density_kg_m3"`
	Enthalpy            float64 `csv:"enthalpy_j_kg"`
	Viscosity           float64 `csv:"viscosity_pa_s"`
	SpecificHeat        float64 `csv:"cp_j_kg_k"`
	ThermalConductivity float64 `csv:"conductivity_w_m_k"`
}

// Table interpolates linearly between tabulated property points.
type Table struct {
	label string
	rows  []TableRow
}

// NewTable sorts rows by temperature and checks that enthalpy increases
// strictly, which the inverse lookup depends on.
func NewTable(label string, rows []TableRow) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: property table %q needs at least two rows", errors.ErrInvalidConfig, label)
	}
	sorted := make([]TableRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Temperature < sorted[j].Temperature
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Temperature == sorted[i-1].Temperature {
			return nil, fmt.Errorf("%w: property table %q repeats temperature %g K", errors.ErrInvalidConfig, label, sorted[i].Temperature)
		}
		if sorted[i].Enthalpy <= sorted[i-1].Enthalpy {
			return nil, fmt.Errorf("%w: property table %q enthalpy not increasing at %g K", errors.ErrInvalidConfig, label, sorted[i].Temperature)
		}
	}
	return &Table{label: label, rows: sorted}, nil
}

// ReadTable unmarshals a CSV property table.
func ReadTable(label string, r io.Reader) (*Table, error) {
	var rows []TableRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: property table %q: %v", errors.ErrInvalidConfig, label, err)
	}
	return NewTable(label, rows)
}

// LoadTable reads a CSV property table from disk.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTable(path, file)
}

// Sample tabulates p at n evenly spaced temperatures over [from, to].
func Sample(p Properties, from, to units.Temperature, n int) ([]TableRow, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least two samples", errors.ErrInvalidConfig)
	}
	rows := make([]TableRow, 0, n)
	step := float64(to-from) / float64(n-1)
	for i := 0; i < n; i++ {
		t := from + units.Temperature(step*float64(i))
		if i == n-1 {
			t = to
		}
		rho, err := p.Density(t)
		if err != nil {
			return nil, err
		}
		h, err := p.Enthalpy(t)
		if err != nil {
			return nil, err
		}
		mu, err := p.Viscosity(t)
		if err != nil {
			return nil, err
		}
		cp, err := p.SpecificHeatCapacity(t)
		if err != nil {
			return nil, err
		}
		k, err := p.ThermalConductivity(t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TableRow{
			Temperature:         float64(t),
			Density:             float64(rho),
			Enthalpy:            float64(h),
			Viscosity:           float64(mu),
			SpecificHeat:        float64(cp),
			ThermalConductivity: float64(k),
		})
	}
	return rows, nil
}

// WriteTable marshals rows as CSV.
func WriteTable(w io.Writer, rows []TableRow) error {
	return gocsv.Marshal(&rows, w)
}

func (t *Table) Name() string { return t.label }

// Range returns the tabulated temperature span.
func (t *Table) Range() (units.Temperature, units.Temperature) {
	return units.Temperature(t.rows[0].Temperature), units.Temperature(t.rows[len(t.rows)-1].Temperature)
}

// bracket returns i and the weight w so that the value at temp is
// rows[i] + w (rows[i+1] - rows[i]).
func (t *Table) bracket(temp units.Temperature) (int, float64, error) {
	lo, hi := t.Range()
	if err := errors.CheckRange(t.label+" temperature (K)", float64(temp), float64(lo), float64(hi)); err != nil {
		return 0, 0, err
	}
	i := sort.Search(len(t.rows), func(k int) bool {
		return t.rows[k].Temperature > float64(temp)
	}) - 1
	if i >= len(t.rows)-1 {
		i = len(t.rows) - 2
	}
	w := (float64(temp) - t.rows[i].Temperature) / (t.rows[i+1].Temperature - t.rows[i].Temperature)
	return i, w, nil
}

func (t *Table) interpolate(temp units.Temperature, field func(TableRow) float64) (float64, error) {
	i, w, err := t.bracket(temp)
	if err != nil {
		return 0, err
	}
	a, b := field(t.rows[i]), field(t.rows[i+1])
	return a + w*(b-a), nil
}

func (t *Table) Density(temp units.Temperature) (units.MassDensity, error) {
	v, err := t.interpolate(temp, func(r TableRow) float64 { return r.Density })
	return units.MassDensity(v), err
}

func (t *Table) Viscosity(temp units.Temperature) (units.DynamicViscosity, error) {
	v, err := t.interpolate(temp, func(r TableRow) float64 { return r.Viscosity })
	return units.DynamicViscosity(v), err
}

func (t *Table) SpecificHeatCapacity(temp units.Temperature) (units.SpecificHeatCapacity, error) {
	v, err := t.interpolate(temp, func(r TableRow) float64 { return r.SpecificHeat })
	return units.SpecificHeatCapacity(v), err
}

func (t *Table) ThermalConductivity(temp units.Temperature) (units.ThermalConductivity, error) {
	v, err := t.interpolate(temp, func(r TableRow) float64 { return r.ThermalConductivity })
	return units.ThermalConductivity(v), err
}

func (t *Table) Enthalpy(temp units.Temperature) (units.SpecificEnthalpy, error) {
	v, err := t.interpolate(temp, func(r TableRow) float64 { return r.Enthalpy })
	return units.SpecificEnthalpy(v), err
}

// TemperatureFromEnthalpy binary-searches the enthalpy column and
// interpolates inside the bracketing interval.
func (t *Table) TemperatureFromEnthalpy(h units.SpecificEnthalpy) (units.Temperature, error) {
	n := len(t.rows)
	if err := errors.CheckRange(t.label+" enthalpy (J/kg)", float64(h), t.rows[0].Enthalpy, t.rows[n-1].Enthalpy); err != nil {
		return 0, err
	}
	left, right := 0, n-1
	for left < right {
		m := left + (right-left+1)>>1
		if t.rows[m].Enthalpy <= float64(h) {
			left = m
		} else {
			right = m - 1
		}
	}
	if left == n-1 {
		return units.Temperature(t.rows[left].Temperature), nil
	}
	a, b := t.rows[left], t.rows[left+1]
	w := (float64(h) - a.Enthalpy) / (b.Enthalpy - a.Enthalpy)
	return units.Temperature(a.Temperature + w*(b.Temperature-a.Temperature)), nil
}
