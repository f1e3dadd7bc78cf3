package query

import "context"

// Mutation wraps a write. OnSuccess runs only when Fn succeeds, typically
// to invalidate the reads the write made outdated.
type Mutation[In, Out any] struct {
	Fn        func(context.Context, In) (Out, error)
	OnSuccess func(Out)
}

// Do runs the mutation once. Errors are returned to the caller untouched.
func (m Mutation[In, Out]) Do(ctx context.Context, in In) (Out, error) {
	out, err := m.Fn(ctx, in)
	if err != nil {
		return out, err
	}
	if m.OnSuccess != nil {
		m.OnSuccess(out)
	}
	return out, nil
}
