package form

import (
	"fmt"
	"strconv"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Row is one entry of a field array. Key identifies the row for the
// lifetime of the form no matter how its content or position changes.
type Row[T any] struct {
	Key   string
	Value T
}

// FieldArray is an ordered, resizable list of structurally identical
// sub-forms.
type FieldArray[T any] struct {
	name string
	rows []Row[T]
}

// NewFieldArray starts the array named name with the given rows.
func NewFieldArray[T any](name string, initial ...T) *FieldArray[T] {
	a := &FieldArray[T]{name: name}
	for _, v := range initial {
		a.Append(v)
	}
	return a
}

// Name is the path segment the array lives under.
func (a *FieldArray[T]) Name() string { return a.name }

// Len is the number of rows.
func (a *FieldArray[T]) Len() int { return len(a.rows) }

// Append adds v at the end and returns its row.
func (a *FieldArray[T]) Append(v T) Row[T] {
	r := Row[T]{Key: newKey(), Value: v}
	a.rows = append(a.rows, r)
	return r
}

// Remove deletes row i; later rows shift down. Out of range is a no-op.
func (a *FieldArray[T]) Remove(i int) bool {
	if i < 0 || i >= len(a.rows) {
		return false
	}
	a.rows = append(a.rows[:i], a.rows[i+1:]...)
	return true
}

// At returns row i.
func (a *FieldArray[T]) At(i int) (Row[T], bool) {
	if i < 0 || i >= len(a.rows) {
		return Row[T]{}, false
	}
	return a.rows[i], true
}

// Set replaces the value of row i, keeping its key.
func (a *FieldArray[T]) Set(i int, v T) bool {
	if i < 0 || i >= len(a.rows) {
		return false
	}
	a.rows[i].Value = v
	return true
}

// IndexOf finds the current position of the row with key.
func (a *FieldArray[T]) IndexOf(key string) int {
	for i, r := range a.rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the rows.
func (a *FieldArray[T]) Rows() []Row[T] {
	return append([]Row[T](nil), a.rows...)
}

// Values returns the row contents in order.
func (a *FieldArray[T]) Values() []T {
	out := make([]T, 0, len(a.rows))
	for _, r := range a.rows {
		out = append(out, r.Value)
	}
	return out
}

// Path addresses a field of row i, e.g. friends[2].name.
func (a *FieldArray[T]) Path(i int, field string) string {
	p := fmt.Sprintf("%s[%d]", a.name, i)
	if field != "" {
		p += "." + field
	}
	return p
}

var fallbackKey atomic.Uint64

func newKey() string {
	id, err := gonanoid.New()
	if err != nil {
		return "row-" + strconv.FormatUint(fallbackKey.Add(1), 10)
	}
	return id
}
