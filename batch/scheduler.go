// Package batch runs signing and verification over many messages on a
// bounded worker pool. Per-item randomness is derived from a single
// seed and the item index, so the output of a deterministic batch does
// not depend on worker count or scheduling order.
package batch

import (
	"context"
	"runtime"
	"sync"

	"fourpath-signature/keys"
	"fourpath-signature/lattice"
	"fourpath-signature/measure"
	"fourpath-signature/signverify"
)

// Scheduler configures a batch run. The zero value uses one worker per
// CPU and keeps going after individual failures.
type Scheduler struct {
	// Workers is the pool size; <= 0 selects GOMAXPROCS.
	Workers int
	// FailFast cancels outstanding items after the first failure.
	// Items already in flight finish; items not yet started report
	// context.Canceled.
	FailFast bool
}

// SignResult is the outcome for one message of a signing batch.
type SignResult struct {
	Index int
	Sig   *keys.Signature
	Err   error
}

// VerifyResult is the outcome for one signature of a verification
// batch. Err is set only when the item was skipped; an invalid
// signature is OK=false with a nil Err.
type VerifyResult struct {
	Index int
	OK    bool
	Err   error
}

// NewScheduler sizes the pool from the parameter hint.
func NewScheduler(par lattice.Params) *Scheduler {
	return &Scheduler{Workers: par.Parallelism}
}

func (s *Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// run distributes indices [0, n) over the pool. Every index is handed
// to do exactly once; do is responsible for honoring cancellation.
// A non-nil return from do triggers cancel under FailFast.
func (s *Scheduler) run(n int, cancel context.CancelFunc, do func(i int) error) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := do(i); err != nil && s.FailFast {
					cancel()
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Sign signs every message with randomness derived from seed and the
// item index. Two runs with the same inputs and seed produce identical
// signatures regardless of Workers.
func (s *Scheduler) Sign(ctx context.Context, sk *keys.SecretKey, pk *keys.PublicKey, msgs [][]byte, seed []byte) []SignResult {
	cctx, cancel := context.WithCancel(orBackground(ctx))
	defer cancel()
	results := make([]SignResult, len(msgs))
	s.run(len(msgs), cancel, func(i int) error {
		results[i].Index = i
		if err := cctx.Err(); err != nil {
			results[i].Err = err
			return nil
		}
		src, err := lattice.NewDerivedSource(seed, uint64(i))
		if err != nil {
			results[i].Err = err
			return err
		}
		sig, err := signverify.Sign(sk, pk, msgs[i], src)
		results[i].Sig, results[i].Err = sig, err
		if err == nil {
			measure.Global.Add("batch/signed", 1)
		}
		return err
	})
	return results
}

// Verify checks each (message, signature) pair under pk. Under
// FailFast the first invalid pair cancels the rest of the batch.
func (s *Scheduler) Verify(ctx context.Context, pk *keys.PublicKey, msgs [][]byte, sigs []*keys.Signature) []VerifyResult {
	n := len(msgs)
	if len(sigs) < n {
		n = len(sigs)
	}
	cctx, cancel := context.WithCancel(orBackground(ctx))
	defer cancel()
	results := make([]VerifyResult, n)
	s.run(n, cancel, func(i int) error {
		results[i].Index = i
		if err := cctx.Err(); err != nil {
			results[i].Err = err
			return nil
		}
		results[i].OK = signverify.Verify(pk, msgs[i], sigs[i])
		if !results[i].OK {
			return context.Canceled
		}
		return nil
	})
	return results
}
