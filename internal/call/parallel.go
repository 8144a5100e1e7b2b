package call

import (
	"context"
	"runtime"
	"sync"
)

// Pair identifies one reference/query input pair in a batch.
type Pair struct {
	Seq       int
	RefPath   string
	QueryPath string
}

// PairResult holds the call outcome for a single pair.
type PairResult struct {
	Seq    int
	Pair   Pair
	Result *Result
	Err    error
}

// CallPairs runs calls for the given pairs using a pool of workers.
// Results are sent to the returned channel in completion order (not
// sequence order); use OrderedCollect to consume them in sequence order.
// If workers is 0, runtime.NumCPU() is used. Each pair is independent:
// a failed pair reports its error in PairResult and does not stop the
// batch, while context cancellation abandons all in-flight alignments.
func (c *Caller) CallPairs(ctx context.Context, pairs <-chan Pair, workers int) <-chan PairResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan PairResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for p := range pairs {
				res, err := c.Call(ctx, p.RefPath, p.QueryPath)
				results <- PairResult{
					Seq:    p.Seq,
					Pair:   p,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results are buffered in a pending map and emitted as soon
// as the next expected sequence number arrives. Blocks until the results
// channel is closed.
func OrderedCollect(results <-chan PairResult, fn func(PairResult) error) error {
	pending := make(map[int]PairResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
