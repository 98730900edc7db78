// Command depot-bench runs the same point read and write workloads against a
// depot file and a Pebble database and reports mean latencies.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/0xRadioAc7iv/go-depot/core"
	"github.com/0xRadioAc7iv/go-depot/internal/bench"
)

func main() {
	dir := flag.String("dir", "bench-data", "Working directory for the databases, removed afterwards")
	keys := flag.Int("keys", 100000, "Number of keys loaded before the mixed workloads")
	ops := flag.Int("ops", 100000, "Operations per mixed workload")
	capacity := flag.Int64("capacity", 131071, "Requested depot bucket count")
	align := flag.Int("align", 0, "Depot padding policy")
	seed := flag.Int64("seed", 1, "Random seed")
	csvPath := flag.String("csv", "bench_results.csv", "CSV output path")
	chartPath := flag.String("chart", "bench_latency.png", "Chart output path, empty to skip")
	flag.Parse()

	logger.New("INFO")
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("depot-bench")

	if err := run(*dir, *keys, *ops, *capacity, *align, *seed, *csvPath, *chartPath, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.OnExit()
		os.Exit(1)
	}
}

func run(dir string, keys, ops int, capacity int64, align int, seed int64, csvPath, chartPath string, log logger.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	depotStore, err := bench.OpenDepotStore(filepath.Join(dir, "bench.depot"), core.WithCapacity(capacity), core.WithAlignment(align))
	if err != nil {
		return err
	}
	defer depotStore.Close()

	pebbleStore, err := bench.OpenPebbleStore(filepath.Join(dir, "pebble"))
	if err != nil {
		return err
	}
	defer pebbleStore.Close()

	log.Infof("running %d keys, %d ops per workload", keys, ops)
	results, err := bench.Run(bench.Config{Keys: keys, Ops: ops, Seed: seed}, []bench.NamedStore{
		{Name: "depot", Store: depotStore},
		{Name: "pebble", Store: pebbleStore},
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		log.Infof("%-7s %-20s %8d ns/op", r.Store, r.Workload, r.LatencyNs)
	}

	f, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := bench.WriteCSV(f, results); err != nil {
		return err
	}

	if chartPath != "" {
		if err := bench.SaveChart(chartPath, results); err != nil {
			return err
		}
	}

	log.Infof("benchmark complete, results in %s", csvPath)
	return nil
}
