// Package reduce folds the per chunk tables into a single table.
package reduce

import (
	"github.com/miku/brcreduce/internal/chunk"
	"github.com/miku/brcreduce/internal/measure"
	"github.com/miku/brcreduce/internal/partition"
)

// Result is what a worker hands over to the reducer. Ownership of Table moves
// to the reducer.
type Result struct {
	Chunk partition.Chunk
	Table measure.Table
	Stats chunk.Stats
}

// Reducer owns the global table. Merging is commutative and associative, so
// results may arrive in any order.
type Reducer struct {
	data   measure.Table
	stats  chunk.Stats
	chunks int
}

func New() *Reducer {
	return &Reducer{data: make(measure.Table)}
}

// Add merges a single result.
func (r *Reducer) Add(res Result) {
	r.chunks++
	r.stats.Add(res.Stats)
	if len(r.data) == 0 {
		// nothing to merge with yet, take over the table
		if res.Table != nil {
			r.data = res.Table
		}
		return
	}
	r.data.Merge(res.Table)
}

// Run merges results until the channel is closed.
func (r *Reducer) Run(results <-chan Result) {
	for res := range results {
		r.Add(res)
	}
}

func (r *Reducer) Table() measure.Table { return r.data }
func (r *Reducer) Stats() chunk.Stats   { return r.stats }
func (r *Reducer) Chunks() int          { return r.chunks }

// Fold merges tables into a new table, leaving the inputs untouched.
func Fold(tables ...measure.Table) measure.Table {
	data := make(measure.Table)
	for _, t := range tables {
		data.Merge(t)
	}
	return data
}
