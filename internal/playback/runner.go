package playback

import (
	"container/heap"
	"context"
	"time"
)

// Command is an input applied to the Sequencer between ticks, such as a
// key press read from stdin.
type Command func(*Sequencer) []Wake

type pendingWake struct {
	wake Wake
	at   time.Time
	seq  uint64
}

type wakeQueue []pendingWake

func (q wakeQueue) Len() int { return len(q) }
func (q wakeQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}
func (q wakeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *wakeQueue) Push(x any)   { *q = append(*q, x.(pendingWake)) }
func (q *wakeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Runner drives a Sequencer without a UI. Wakes are kept in a time-ordered
// queue; wakes at the same instant fire in the order they were scheduled.
type Runner struct {
	seq     *Sequencer
	clock   Clock
	input   <-chan Command
	onFrame func(State, time.Time)
	stop    func(State) bool

	queue wakeQueue
	n     uint64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock. The default is RealClock.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithInput sets a channel of commands applied as they arrive. A closed
// channel is treated as no further input.
func WithInput(ch <-chan Command) RunnerOption {
	return func(r *Runner) { r.input = ch }
}

// WithFrame sets a callback invoked after every applied tick or command.
func WithFrame(fn func(State, time.Time)) RunnerOption {
	return func(r *Runner) { r.onFrame = fn }
}

// WithStop sets a predicate checked after every frame; Run returns nil once
// it reports true.
func WithStop(fn func(State) bool) RunnerOption {
	return func(r *Runner) { r.stop = fn }
}

// NewRunner wraps seq.
func NewRunner(seq *Sequencer, opts ...RunnerOption) *Runner {
	r := &Runner{seq: seq, clock: RealClock{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schedule queues wakes relative to the clock's current time.
func (r *Runner) Schedule(wakes []Wake) {
	now := r.clock.Now()
	for _, w := range wakes {
		r.n++
		heap.Push(&r.queue, pendingWake{wake: w, at: now.Add(w.After), seq: r.n})
	}
}

// Run mounts the sequencer and processes wakes until the context is done,
// the stop predicate holds, or nothing is left to do. The sequencer is
// unmounted on return.
func (r *Runner) Run(ctx context.Context, autoplay bool) error {
	r.Schedule(r.seq.Mount(autoplay))
	defer r.seq.Unmount()
	r.frame()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.stop != nil && r.stop(r.seq.State()) {
			return nil
		}

		r.dropStale()

		if r.queue.Len() == 0 {
			if r.input == nil {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd, ok := <-r.input:
				r.apply(cmd, ok)
			}
			continue
		}

		// Commands already waiting are applied at the current time, before
		// the clock moves to the next wake.
		if r.input != nil {
			select {
			case cmd, ok := <-r.input:
				r.apply(cmd, ok)
				continue
			default:
			}
		}

		if sc, ok := r.clock.(steppingClock); ok {
			sc.AdvanceTo(r.queue[0].at)
			r.fireNext()
			continue
		}

		delay := r.queue[0].at.Sub(r.clock.Now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-r.input:
			r.apply(cmd, ok)
		case <-r.clock.After(delay):
			r.fireNext()
		}
	}
}

func (r *Runner) fireNext() {
	next := heap.Pop(&r.queue).(pendingWake)
	r.Schedule(r.seq.Fire(next.wake.Timer, next.wake.Gen))
	r.frame()
}

func (r *Runner) apply(cmd Command, ok bool) {
	if !ok {
		r.input = nil
		return
	}
	if cmd == nil {
		return
	}
	r.Schedule(cmd(r.seq))
	r.frame()
}

func (r *Runner) dropStale() {
	for r.queue.Len() > 0 && !r.seq.Current(r.queue[0].wake) {
		heap.Pop(&r.queue)
	}
}

func (r *Runner) frame() {
	if r.onFrame != nil {
		r.onFrame(r.seq.State(), r.clock.Now())
	}
}
