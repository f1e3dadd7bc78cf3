// Package form binds a validator and a submit action to form state.
//
// A submit always validates first. An invalid value set never reaches the
// submit action; it populates field errors and the form returns to Idle.
// A failed submit sets one form-level message and leaves input alone.
package form

import (
	"context"
	"errors"
)

// State of a form between user actions.
type State int

const (
	Idle State = iota
	Validating
	Valid
	Invalid
	Submitting
	SubmitSucceeded
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Submitting:
		return "submitting"
	case SubmitSucceeded:
		return "submit-succeeded"
	case SubmitFailed:
		return "submit-failed"
	}
	return "unknown"
}

// ErrBusy is returned by Submit while a previous submit is in flight.
var ErrBusy = errors.New("form: submit in progress")

// ErrInvalid is returned by Submit when validation failed.
var ErrInvalid = errors.New("form: invalid input")

// Config wires a form. Decode reads the current input, converts it to the
// submitted value and validates it in one go.
type Config[V any] struct {
	Decode func() (V, Errors)
	Submit func(context.Context, V) error
	// RootMessage turns a submit failure into the form-level message.
	// Defaults to err.Error().
	RootMessage func(error) string
	// OnTransition observes every state change, including transient ones.
	OnTransition func(from, to State)
}

// Form is not safe for concurrent use; drive it from one event loop.
type Form[V any] struct {
	cfg         Config[V]
	state       State
	errors      Errors
	rootError   string
	submitCount int
}

// New returns an Idle form with no errors.
func New[V any](cfg Config[V]) *Form[V] {
	if cfg.RootMessage == nil {
		cfg.RootMessage = func(err error) string { return err.Error() }
	}
	return &Form[V]{cfg: cfg, errors: Errors{}}
}

func (f *Form[V]) State() State               { return f.state }
func (f *Form[V]) Errors() Errors             { return f.errors }
func (f *Form[V]) RootError() string          { return f.rootError }
func (f *Form[V]) SubmitCount() int           { return f.submitCount }
func (f *Form[V]) Disabled() bool             { return f.state == Submitting }
func (f *Form[V]) FieldError(p string) string { return f.errors.Get(p) }

// SubmitLabel picks the submit control caption for the current state.
func (f *Form[V]) SubmitLabel(idle, busy string) string {
	if f.state == Submitting {
		return busy
	}
	return idle
}

// Begin validates and, when valid, moves to Submitting and hands back the
// value to submit. Callers that run the submit themselves report the
// outcome with Finish.
func (f *Form[V]) Begin() (V, bool) {
	var zero V
	if f.state == Submitting {
		return zero, false
	}
	f.submitCount++
	f.rootError = ""
	f.to(Validating)

	v, errs := f.cfg.Decode()
	if errs == nil {
		errs = Errors{}
	}
	f.errors = errs
	if len(errs) > 0 {
		f.to(Invalid)
		f.to(Idle)
		return zero, false
	}
	f.to(Valid)
	f.to(Submitting)
	return v, true
}

// Finish records the submit outcome. It is a no-op outside Submitting.
func (f *Form[V]) Finish(err error) {
	if f.state != Submitting {
		return
	}
	if err != nil {
		f.rootError = f.cfg.RootMessage(err)
		f.to(SubmitFailed)
		return
	}
	f.to(SubmitSucceeded)
}

// Submit runs Begin, the configured submit action and Finish in place.
func (f *Form[V]) Submit(ctx context.Context) error {
	if f.state == Submitting {
		return ErrBusy
	}
	v, ok := f.Begin()
	if !ok {
		return ErrInvalid
	}
	err := f.Run(ctx, v)
	f.Finish(err)
	return err
}

// Run calls the submit action without touching state. Event loops call
// it off the loop between Begin and Finish.
func (f *Form[V]) Run(ctx context.Context, v V) error {
	if f.cfg.Submit == nil {
		return nil
	}
	return f.cfg.Submit(ctx, v)
}

// ValidateField refreshes the errors at path and below, leaving every
// other field's message as it was. Before the first submit it does
// nothing, so untouched fields stay quiet.
func (f *Form[V]) ValidateField(path string) {
	if f.submitCount == 0 {
		return
	}
	_, errs := f.cfg.Decode()
	f.errors.ClearUnder(path)
	for p, msg := range errs {
		if under(p, path) {
			f.errors[p] = msg
		}
	}
}

// RowRemoved keeps errors aligned after array[i] was removed and the
// array now holds n rows.
func (f *Form[V]) RowRemoved(array string, i, n int) {
	f.errors.ShiftIndex(array, i)
	f.errors.Truncate(array, n)
}

// RowAppended clears whatever sat at the new row's index and revalidates
// that row only.
func (f *Form[V]) RowAppended(path string) {
	f.errors.ClearUnder(path)
	f.ValidateField(path)
}

func (f *Form[V]) to(s State) {
	from := f.state
	f.state = s
	if f.cfg.OnTransition != nil {
		f.cfg.OnTransition(from, s)
	}
}
