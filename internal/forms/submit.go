package forms

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/learn/internal/form"
)

// DefaultSubmitDelay is the simulated API latency of a submit.
const DefaultSubmitDelay = time.Second

// Submitter fakes the backend both forms post to.
type Submitter struct {
	Delay     time.Duration
	FailLogin bool
	Logger    *log.Logger
}

var discard = log.New(io.Discard)

func (s *Submitter) logger() *log.Logger {
	if s.Logger == nil {
		return discard
	}
	return s.Logger
}

func (s *Submitter) transition(name string) func(from, to form.State) {
	return func(from, to form.State) {
		s.logger().Debug("form state", "form", name, "from", from, "to", to)
	}
}

func (s *Submitter) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
