package discovery

import (
	"context"
	"sync"
	"time"
)

// Engine runs grid sampling on one persistent background goroutine.
// Submissions coalesce: the worker wakes on a debounce tick and samples only
// the newest pending request, so a burst of changes costs one evaluation.
// Responses arrive on a small buffered channel; when the consumer falls
// behind, older responses are dropped in favor of newer ones. Discovery is a
// commutative union, so dropped or reordered responses lose nothing
// permanent.
type Engine struct {
	ambient        float64
	blockerOpacity float64
	workers        int
	debounce       time.Duration

	mu      sync.Mutex
	pending *Request

	responses chan Response
}

// NewEngine creates an engine with the given sampling parameters. Start must
// be called before submissions produce responses.
func NewEngine(ambient, blockerOpacity float64, workers int, debounce time.Duration) *Engine {
	if workers < 1 {
		workers = 1
	}
	if debounce <= 0 {
		debounce = 80 * time.Millisecond
	}
	return &Engine{
		ambient:        ambient,
		blockerOpacity: blockerOpacity,
		workers:        workers,
		debounce:       debounce,
		responses:      make(chan Response, 4),
	}
}

// Start launches the sampling goroutine. It runs until ctx is cancelled;
// in-flight work is not awaited on teardown.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
}

// Submit replaces the pending request. The worker picks up whatever is
// newest on its next tick.
func (e *Engine) Submit(req Request) {
	e.mu.Lock()
	e.pending = &req
	e.mu.Unlock()
}

// Responses returns the channel sampling results arrive on.
func (e *Engine) Responses() <-chan Response {
	return e.responses
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			req := e.pending
			e.pending = nil
			e.mu.Unlock()
			if req == nil {
				continue
			}
			e.publish(Sample(*req, e.ambient, e.blockerOpacity, e.workers))
		}
	}
}

// publish delivers a response without ever blocking the worker. If the
// buffer is full the oldest queued response is discarded first; failing
// that, the new response is dropped and the cycle simply discovers nothing.
func (e *Engine) publish(resp Response) {
	select {
	case e.responses <- resp:
		return
	default:
	}
	select {
	case <-e.responses:
	default:
	}
	select {
	case e.responses <- resp:
	default:
	}
}
