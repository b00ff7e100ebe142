package query

import "time"

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of one entry. Every transition installs a new
// pointer, so observers of the same key share one *State until it changes.
type State struct {
	Key       Key
	Status    Status
	Data      any
	Err       error
	Enabled   bool
	Fetching  bool
	UpdatedAt time.Time
}

// Result is a typed view over a State.
type Result[T any] struct {
	State *State
	Data  T
}

func resultOf[T any](state *State) Result[T] {
	result := Result[T]{State: state}
	if value, ok := state.Data.(T); ok {
		result.Data = value
	}
	return result
}

func (r Result[T]) Status() Status {
	if r.State == nil {
		return StatusIdle
	}
	return r.State.Status
}

func (r Result[T]) Err() error {
	if r.State == nil {
		return nil
	}
	return r.State.Err
}

func (r Result[T]) Fetching() bool {
	return r.State != nil && r.State.Fetching
}
