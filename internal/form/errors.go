package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/idilsaglam/learn/internal/schema"
)

// Errors maps a field path (email, friends[0].name) to the message shown
// next to that field. Only the first failure per field is kept.
type Errors map[string]string

// FromSchema folds a validation outcome into per-field messages.
func FromSchema(errs schema.Errors) Errors {
	out := make(Errors, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Path]; !seen {
			out[fe.Path] = fe.Message
		}
	}
	return out
}

// Get returns the message for path, or "".
func (e Errors) Get(path string) string { return e[path] }

// Paths returns the failing paths in sorted order.
func (e Errors) Paths() []string {
	out := make([]string, 0, len(e))
	for p := range e {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ClearUnder deletes path and everything nested below it.
func (e Errors) ClearUnder(path string) {
	for p := range e {
		if under(p, path) {
			delete(e, p)
		}
	}
}

// ShiftIndex follows the removal of array[removed]: that row's errors go
// away and rows after it move down one index.
func (e Errors) ShiftIndex(array string, removed int) {
	moved := make(Errors)
	for p, msg := range e {
		idx, rest, ok := splitIndex(p, array)
		if !ok || idx < removed {
			continue
		}
		delete(e, p)
		if idx > removed {
			moved[fmt.Sprintf("%s[%d]%s", array, idx-1, rest)] = msg
		}
	}
	for p, msg := range moved {
		e[p] = msg
	}
}

// Truncate drops errors for array rows at index n and beyond.
func (e Errors) Truncate(array string, n int) {
	for p := range e {
		if idx, _, ok := splitIndex(p, array); ok && idx >= n {
			delete(e, p)
		}
	}
}

func under(p, path string) bool {
	return p == path || strings.HasPrefix(p, path+".") || strings.HasPrefix(p, path+"[")
}

// splitIndex parses "friends[3].name" into 3 and ".name".
func splitIndex(p, array string) (int, string, bool) {
	prefix := array + "["
	if !strings.HasPrefix(p, prefix) {
		return 0, "", false
	}
	tail := p[len(prefix):]
	end := strings.IndexByte(tail, ']')
	if end < 0 {
		return 0, "", false
	}
	idx, err := strconv.Atoi(tail[:end])
	if err != nil {
		return 0, "", false
	}
	return idx, tail[end+1:], true
}
