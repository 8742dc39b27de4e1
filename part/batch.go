package part

import (
	"runtime"
	"sync"

	"github.com/partmark/partmark/gf"
)

// Candidate pairs a label (typically the source file name) with its raw
// signal for batch verification.
type Candidate struct {
	Label  string
	Signal []float64
}

// BatchResult is one candidate's verdict in input order.
type BatchResult struct {
	Label   string
	Verdict Verdict
}

// AuthenticateBatch runs Authenticate over all candidates with a bounded
// worker pool. The Field and Reference are read-only, so workers share them
// without locking; results come back in input order. workers <= 0 means one
// worker per CPU.
func AuthenticateBatch(f *gf.Field, ref *Reference, candidates []Candidate, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	results := make([]BatchResult, len(candidates))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := candidates[i]
				results[i] = BatchResult{
					Label:   c.Label,
					Verdict: Authenticate(f, ref, c.Signal),
				}
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
