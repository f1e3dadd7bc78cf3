package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/learn/internal/store/memstore"
	"github.com/idilsaglam/learn/internal/tui"
	"github.com/idilsaglam/learn/internal/ui"
)

type harness struct {
	out, err bytes.Buffer
	opt      Options
	tuiCalls int
}

func newHarness(storeOpts ...memstore.Option) *harness {
	ui.SetColorForcing(false, true)
	h := &harness{}
	h.opt = Options{
		Deps:   tui.Deps{Store: memstore.New(append([]memstore.Option{memstore.WithLatency(0)}, storeOpts...)...)},
		Stdout: &h.out,
		Stderr: &h.err,
		TUI: func(context.Context, tui.Deps) error {
			h.tuiCalls++
			return nil
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	return Run(context.Background(), args, h.opt)
}

func TestNoArgsStartsTUI(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 0, h.run())
	assert.Equal(t, 0, h.run("tui"))
	assert.Equal(t, 2, h.tuiCalls)
}

func TestTUIErrorExitsOne(t *testing.T) {
	h := newHarness()
	h.opt.TUI = func(context.Context, tui.Deps) error { return errors.New("no tty") }
	assert.Equal(t, 1, h.run("tui"))
	assert.Contains(t, h.err.String(), "no tty")
}

func TestHelp(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 0, h.run("help"))
	assert.Contains(t, h.out.String(), "Subcommands:")
}

func TestUnknownSubcommand(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 2, h.run("frobnicate"))
	assert.Contains(t, h.err.String(), "unknown subcommand: frobnicate")
}

func TestList(t *testing.T) {
	h := newHarness()
	require.Equal(t, 0, h.run("ls"))
	out := h.out.String()
	assert.Contains(t, out, "Total 5")
	assert.Contains(t, out, "Learn Next.js")
}

func TestListFilter(t *testing.T) {
	h := newHarness()
	require.Equal(t, 0, h.run("ls", "REACT"))
	out := h.out.String()
	assert.Contains(t, out, "Learn React")
	assert.NotContains(t, out, "Learn CSS")
	assert.Contains(t, out, "search: REACT")
}

func TestListFailure(t *testing.T) {
	h := newHarness(memstore.WithListFailure(true))
	assert.Equal(t, 1, h.run("ls"))
	assert.Contains(t, h.err.String(), "service unavailable")
}

func TestAdd(t *testing.T) {
	h := newHarness()
	require.Equal(t, 0, h.run("add", "Learn", "Go"))
	out := h.out.String()
	assert.Contains(t, out, "added #6")
	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "Total 6")
}

func TestAddRefreshesCachedList(t *testing.T) {
	h := newHarness()
	require.Equal(t, 0, h.run("ls"))
	h.out.Reset()
	require.Equal(t, 0, h.run("add", "Learn Go"))
	assert.Contains(t, h.out.String(), "Total 6")
}

func TestAddUsage(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 2, h.run("add"))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     int
		contains []string
	}{
		{"login defaults need a password", []string{"login"}, 1, []string{"password: String must contain at least 8 character(s)"}},
		{"login valid", []string{"login", "password=secret123"}, 0, []string{"login: valid"}},
		{"login bad email", []string{"login", "email=nope", "password=secret123"}, 1, []string{"email: Invalid email"}},
		{"login unknown field", []string{"login", "user=x"}, 2, []string{"unknown field user"}},
		{"profile defaults", []string{"profile"}, 1, []string{
			"firstName: Nome é obrigatório",
			"email: Email inválido",
			"friends[0].name: Nome do amigo é obrigatório",
		}},
		{"profile valid", []string{"profile", "firstName=Ana", "email=ana@example.com", "age=30", "friend=Bia", "subscribed=true"}, 0, []string{"profile: valid"}},
		{"profile blank age", []string{"profile", "firstName=Ana", "email=ana@example.com", "friend=Bia"}, 0, []string{"profile: valid"}},
		{"profile minor", []string{"profile", "firstName=Ana", "email=ana@example.com", "age=17", "friend=Bia"}, 1, []string{"age: Idade mínima é 18 anos"}},
		{"profile age text", []string{"profile", "firstName=Ana", "email=ana@example.com", "age=abc", "friend=Bia"}, 1, []string{"age: Idade mínima é 18 anos"}},
		{"profile second friend", []string{"profile", "firstName=Ana", "email=ana@example.com", "friend=Bia", "friend="}, 1, []string{"friends[1].name: Nome do amigo é obrigatório"}},
		{"profile bad bool", []string{"profile", "subscribed=maybe"}, 2, []string{"subscribed"}},
		{"not a pair", []string{"login", "email"}, 2, []string{"expected key=value"}},
		{"unknown form", []string{"signup"}, 2, []string{"unknown form signup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			code := h.run(append([]string{"check"}, tt.args...)...)
			assert.Equal(t, tt.code, code)
			all := h.out.String() + h.err.String()
			for _, s := range tt.contains {
				assert.Contains(t, all, s)
			}
		})
	}
}
