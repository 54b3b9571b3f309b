// Package packet drives asynchronous packet-processing jobs to a
// terminal state by polling the backend status endpoint, handling the
// backend's mid-flight reassignment of the tracking identifier.
package packet

import (
	"context"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"

	"golang.org/x/time/rate"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePolling
	StateCompleted
	StateCompletedWithErrors
	StateFailed
	StateTimedOut
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateCompletedWithErrors:
		return "completed_with_errors"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	case StateCanceled:
		return "canceled"
	}

	return "unknown"
}

// Terminal reports whether the poll loop has stopped in this state.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCompletedWithErrors, StateFailed, StateTimedOut, StateCanceled:
		return true
	}

	return false
}

// StatusFunc fetches the processing status for a tracking identifier.
// Normally backend.Client.Packets.Status.
type StatusFunc func(ctx context.Context, id string) (*backend.ProcessingStatus, error)

// UpdateFunc observes every status snapshot the poller accepts.
type UpdateFunc func(status *backend.ProcessingStatus)

type Poller struct {
	status StatusFunc

	interval time.Duration
	timeout  time.Duration

	limiter  *rate.Limiter
	onUpdate UpdateFunc
}

type Option func(*Poller)

func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithTimeout bounds the total polling duration. Expiry is a soft
// timeout, reported as StateTimedOut rather than a failure.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Poller) {
		p.timeout = timeout
	}
}

func WithLimiter(limiter *rate.Limiter) Option {
	return func(p *Poller) {
		p.limiter = limiter
	}
}

func WithUpdateFunc(fn UpdateFunc) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

func New(status StatusFunc, opts ...Option) *Poller {
	p := &Poller{
		status: status,

		interval: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Watch runs the poller in a goroutine and streams every accepted
// snapshot. The snapshot channel closes when polling stops; the final
// Result is then delivered on the result channel. The caller must
// drain the snapshots or cancel the context.
func (p *Poller) Watch(ctx context.Context, id string) (<-chan *backend.ProcessingStatus, <-chan Result) {
	updates := make(chan *backend.ProcessingStatus)
	results := make(chan Result, 1)

	watcher := &Poller{
		status: p.status,

		interval: p.interval,
		timeout:  p.timeout,

		limiter: p.limiter,

		onUpdate: func(status *backend.ProcessingStatus) {
			if p.onUpdate != nil {
				p.onUpdate(status)
			}

			select {
			case updates <- status:
			case <-ctx.Done():
			}
		},
	}

	go func() {
		result := watcher.Run(ctx, id)

		close(updates)

		results <- result
	}()

	return updates, results
}

// Result is the poller's final outcome. Status holds the last accepted
// snapshot, PatientID the identifier in effect when polling stopped.
type Result struct {
	State State

	PatientID string
	Status    *backend.ProcessingStatus

	Err error
}

// Run polls until a terminal status, cancellation or timeout. Fetch
// errors during a tick are swallowed and the tick retried on the next
// interval; polling only stops for a terminal status, the caller's
// context, or the configured timeout. When a snapshot carries a
// final_patient_id different from the identifier being polled, every
// subsequent poll targets the new identifier.
func (p *Poller) Run(ctx context.Context, id string) Result {
	current := id

	var last *backend.ProcessingStatus

	var timeoutC <-chan time.Time

	if p.timeout > 0 {
		timer := time.NewTimer(p.timeout)
		defer timer.Stop()

		timeoutC = timer.C
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{State: StateCanceled, PatientID: current, Status: last}

		case <-timeoutC:
			return Result{State: StateTimedOut, PatientID: current, Status: last}

		case <-ticker.C:
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return Result{State: StateCanceled, PatientID: current, Status: last}
			}
		}

		status, err := p.status(ctx, current)

		if err != nil {
			if ctx.Err() != nil {
				return Result{State: StateCanceled, PatientID: current, Status: last}
			}

			continue
		}

		last = status

		if p.onUpdate != nil {
			p.onUpdate(status)
		}

		if status.FinalPatientID != "" && status.FinalPatientID != current {
			current = status.FinalPatientID
		}

		switch status.Status {
		case backend.StatusCompleted:
			return Result{State: StateCompleted, PatientID: current, Status: status}

		case backend.StatusCompletedWithErrors:
			return Result{State: StateCompletedWithErrors, PatientID: current, Status: status}

		case backend.StatusFailed:
			message := status.Message

			if message == "" {
				message = "Elaborazione fallita"
			}

			return Result{
				State: StateFailed,

				PatientID: current,
				Status:    status,

				Err: &backend.ProcessingError{PatientID: current, Message: message},
			}
		}
	}
}
