package bench

import (
	"encoding/csv"
	"io"
	"math/rand"
	"runtime"
	"strconv"
	"time"
)

// Result is one workload measured against one store.
type Result struct {
	Store     string
	Workload  Workload
	Ops       int
	LatencyNs int64 // mean per operation
	MemMB     uint64
}

// NamedStore labels a store in results.
type NamedStore struct {
	Name  string
	Store Store
}

type Config struct {
	Keys int   // size of the key space, all loaded first
	Ops  int   // operations per mixed workload
	Seed int64 // same seed for every store
}

// Run loads every store then drives the read-heavy and write-heavy mixes,
// in that order, with identical random sequences per store.
func Run(cfg Config, stores []NamedStore) ([]Result, error) {
	var results []Result

	for _, ns := range stores {
		rng := rand.New(rand.NewSource(cfg.Seed))

		plan := []struct {
			w   Workload
			ops int
		}{
			{Load, cfg.Keys},
			{ReadHeavy, cfg.Ops},
			{WriteHeavy, cfg.Ops},
		}

		for _, step := range plan {
			start := time.Now()
			if err := Execute(ns.Store, step.w, step.ops, cfg.Keys, rng); err != nil {
				return nil, err
			}
			elapsed := time.Since(start)

			results = append(results, Result{
				Store:     ns.Name,
				Workload:  step.w,
				Ops:       step.ops,
				LatencyNs: elapsed.Nanoseconds() / int64(max(step.ops, 1)),
				MemMB:     allocMB(),
			})
		}
	}

	return results, nil
}

func allocMB() uint64 {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024
}

var csvHeader = []string{"Store", "Workload", "Ops", "LatencyNs", "MemMB"}

// WriteCSV writes results with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		err := cw.Write([]string{
			r.Store,
			string(r.Workload),
			strconv.Itoa(r.Ops),
			strconv.FormatInt(r.LatencyNs, 10),
			strconv.FormatUint(r.MemMB, 10),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
