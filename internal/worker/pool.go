// Package worker runs cfg.Finalize calls across a fixed-size goroutine
// pool, the caller a complete repository needs to exercise the
// finalization pipeline's concurrency story. Modeled on
// phanngoc-security-scanner's Scanner.worker/findingCollector split: a
// buffered job channel drained by N workers, a WaitGroup to know when
// they're done, except the unit of work here is a whole *cfg.CFG rather
// than a source file.
package worker

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/crypto/blake2b"

	"github.com/solalang/solatype/internal/cfg"
)

// Job is one raw CFG to finalize.
type Job struct {
	CFG *cfg.CFG
}

// Result is what comes back off a Submit'd job: the same *cfg.CFG,
// finalized in place (or, with WithDedup, an earlier structurally
// identical CFG this Pool already finalized), or the error a bad input
// contract violation produced instead.
type Result struct {
	CFG *cfg.CFG
	Err error
}

// Pool runs Finalize calls against a Context shared by every worker, the
// way workers each own one CFG but share one error queue, the sole
// shared-mutable resource across the pool.
type Pool struct {
	ctx       *cfg.Context
	size      int
	cancelled *atomic.Bool

	jobs chan enqueued
	wg   sync.WaitGroup

	dedup     bool
	dedupMu   sync.Mutex
	dedupSeen map[[blake2b.Size]byte]*cfg.CFG
}

type enqueued struct {
	job Job
	out chan<- Result
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithDedup enables the in-memory, Pool-scoped dedup cache: a CFG whose
// structural digest matches one this Pool already finalized (through
// Submit or SubmitAll) is answered with that earlier CFG without a second
// Finalize call. Never persisted across Pool instances or processes.
func WithDedup() Option {
	return func(p *Pool) {
		p.dedup = true
		p.dedupSeen = make(map[[blake2b.Size]byte]*cfg.CFG)
	}
}

// New creates a Pool of size workers (runtime.NumCPU() if size <= 0)
// sharing ctx across every Finalize call they make.
func New(ctx *cfg.Context, size int, opts ...Option) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		ctx:       ctx,
		size:      size,
		cancelled: atomic.NewBool(false),
		jobs:      make(chan enqueued, size*2),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for e := range p.jobs {
		e.out <- p.run(e.job.CFG)
		close(e.out)
	}
}

func (p *Pool) run(g *cfg.CFG) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{CFG: g, Err: &PanicError{Cause: r}}
		}
	}()

	if p.dedup {
		digest := Digest(g)
		p.dedupMu.Lock()
		if cached, ok := p.dedupSeen[digest]; ok {
			p.dedupMu.Unlock()
			return Result{CFG: cached}
		}
		p.dedupMu.Unlock()
		defer func() {
			if res.Err == nil {
				p.dedupMu.Lock()
				p.dedupSeen[digest] = res.CFG
				p.dedupMu.Unlock()
			}
		}()
	}

	if err := cfg.FinalizeWithCancel(p.ctx, g, p.cancelled); err != nil {
		return Result{CFG: g, Err: err}
	}
	return Result{CFG: g}
}

// Submit enqueues job for finalization and returns a channel the caller
// can read exactly one Result from.
func (p *Pool) Submit(job Job) <-chan Result {
	out := make(chan Result, 1)
	p.jobs <- enqueued{job: job, out: out}
	return out
}

// SubmitAll submits every CFG in gs and blocks until all results are in,
// aggregating any per-job errors with multierr rather than stopping at
// the first failure - one malformed CFG in a batch must not hide failures
// in its siblings.
func (p *Pool) SubmitAll(gs []*cfg.CFG) ([]*cfg.CFG, error) {
	chans := make([]<-chan Result, len(gs))
	for i, g := range gs {
		chans[i] = p.Submit(Job{CFG: g})
	}
	out := make([]*cfg.CFG, len(gs))
	var errs error
	for i, ch := range chans {
		res := <-ch
		out[i] = res.CFG
		if res.Err != nil {
			errs = multierr.Append(errs, res.Err)
		}
	}
	return out, errs
}

// Cancel flips the pool's cancellation flag; in-flight and queued jobs
// observe it at the next pass boundary inside Finalize - cancellation is
// checked between passes only, a pass itself is never interrupted mid-pass.
func (p *Pool) Cancel() {
	p.cancelled.Store(true)
}

// Close stops accepting new jobs and waits for every worker to drain the
// queue and exit.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// PanicError wraps a recovered panic (typically an *diag.EnforceViolation
// from a failed debug-mode assertion) as an error, so a worker goroutine's
// panic surfaces through Result instead of taking the whole pool down.
type PanicError struct {
	Cause any
}

func (e *PanicError) Error() string {
	if err, ok := e.Cause.(error); ok {
		return "worker panicked: " + err.Error()
	}
	return "worker panicked"
}
