/*
	Basic Script that churns a running depot server with overwrites of
	varying size, so both in-place rewrites and grown records get exercised.
*/

package main

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/0xRadioAc7iv/go-depot/depot"
)

const (
	concurrency = 6

	// Fixed universe
	totalKeys   = 100
	totalValues = 100

	// Per-cycle behavior
	keysPerCycleWrite = 20
	keysPerCycleGrow  = 5
	keysPerCycleRead  = 10
	cyclesPerWorker   = 5000

	sleepBetweenCycles = 10 * time.Millisecond

	progressEvery = 500
)

func main() {
	start := time.Now()
	fmt.Println("Starting depot churn-heavy load generator")

	keys := makeKeys(totalKeys)
	values := makeValues(totalValues)

	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(id, keys, values)
		}(i)
	}

	wg.Wait()
	fmt.Printf("Load finished in %v\n", time.Since(start))
}

func runWorker(id int, keys [][]byte, values [][]byte) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

	client, err := depot.Connect()
	if err != nil {
		fmt.Printf("[worker %d] connect error: %v\n", id, err)
		return
	}
	defer client.Close()

	for cycle := 1; cycle <= cyclesPerWorker; cycle++ {

		// ---- WRITE / OVERWRITE PHASE ----
		for i := 0; i < keysPerCycleWrite; i++ {
			key := keys[rng.Intn(len(keys))]
			val := values[rng.Intn(len(values))]

			if err := client.Set(key, val); err != nil {
				fmt.Printf("[worker %d] SET error: %v\n", id, err)
				return
			}
		}

		// ---- GROW PHASE (values larger than any record's space) ----
		for i := 0; i < keysPerCycleGrow; i++ {
			key := keys[rng.Intn(len(keys))]
			val := []byte(strings.Repeat("g", 64+rng.Intn(cycle+1)))

			if err := client.Set(key, val); err != nil {
				fmt.Printf("[worker %d] GROW error: %v\n", id, err)
				return
			}
		}

		// ---- READ PHASE ----
		for i := 0; i < keysPerCycleRead; i++ {
			key := keys[rng.Intn(len(keys))]

			if _, _, err := client.Get(key); err != nil {
				fmt.Printf("[worker %d] GET error: %v\n", id, err)
				return
			}
		}

		if cycle%progressEvery == 0 {
			fmt.Printf("[worker %d] completed %d cycles\n", id, cycle)
		}

		if sleepBetweenCycles > 0 {
			time.Sleep(sleepBetweenCycles)
		}
	}
}

func makeKeys(n int) [][]byte {
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		keys[i] = []byte(fmt.Sprintf("key-%03d", i))
	}
	return keys
}

func makeValues(n int) [][]byte {
	values := make([][]byte, n)
	for i := 0; i < n; i++ {
		values[i] = []byte(fmt.Sprintf("value-%03d-%s", i, strings.Repeat("x", i%32)))
	}
	return values
}
