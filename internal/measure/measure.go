// Package measure holds the running statistics kept per station.
package measure

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Measurements, as there is no need to keep all numbers around, we can compute
// them on the fly. The average is derived from Sum and Count only when
// reporting, so that merging stays exact.
type Measurements struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int
}

// New returns measurements for a single observed value.
func New(v float64) *Measurements {
	return &Measurements{
		Min:   v,
		Max:   v,
		Sum:   v,
		Count: 1,
	}
}

func (m *Measurements) Add(v float64) {
	if v > m.Max {
		m.Max = v
	} else if v < m.Min {
		m.Min = v
	}
	m.Sum = m.Sum + v
	m.Count++
}

func (m *Measurements) Merge(o *Measurements) {
	if o.Min < m.Min {
		m.Min = o.Min
	}
	if o.Max > m.Max {
		m.Max = o.Max
	}
	m.Sum = m.Sum + o.Sum
	m.Count = m.Count + o.Count
}

// Avg returns the mean of all values seen. Count is at least one for any
// measurements created through New.
func (m *Measurements) Avg() float64 {
	return m.Sum / float64(m.Count)
}

// Table maps a station name to its measurements.
type Table map[string]*Measurements

// Observe folds a single value into the table. The key is only copied into a
// string when it is seen for the first time.
func (t Table) Observe(key []byte, v float64) {
	if m, ok := t[string(key)]; ok {
		m.Add(v)
		return
	}
	t[string(key)] = New(v)
}

// Merge folds all entries of o into t. Entries are copied, t never shares a
// value with o.
func (t Table) Merge(o Table) {
	for k, v := range o {
		if m, ok := t[k]; ok {
			m.Merge(v)
			continue
		}
		c := *v
		t[k] = &c
	}
}

// Keys returns the station names in ascending byte order.
func (t Table) Keys() []string {
	keys := maps.Keys(t)
	sort.Strings(keys)
	return keys
}
