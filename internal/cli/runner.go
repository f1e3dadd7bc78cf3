package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/forms"
	"github.com/idilsaglam/learn/internal/model"
	"github.com/idilsaglam/learn/internal/query"
	"github.com/idilsaglam/learn/internal/schema"
	"github.com/idilsaglam/learn/internal/store/memstore"
	"github.com/idilsaglam/learn/internal/tui"
)

// Options carry the wired dependencies from main into the subcommands.
type Options struct {
	Deps   tui.Deps
	Stdout io.Writer
	Stderr io.Writer
	// TUI starts the interactive program. Defaults to tui.Run.
	TUI func(context.Context, tui.Deps) error
}

func (o *Options) fill() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.TUI == nil {
		o.TUI = func(ctx context.Context, d tui.Deps) error { return tui.Run(ctx, d) }
	}
	if o.Deps.Logger == nil {
		o.Deps.Logger = log.New(io.Discard)
	}
	if o.Deps.Store == nil {
		o.Deps.Store = memstore.New()
	}
	if o.Deps.Query == nil {
		o.Deps.Query = query.NewClient(query.Options{Logger: o.Deps.Logger})
	}
	if o.Deps.Submitter == nil {
		o.Deps.Submitter = &forms.Submitter{Delay: forms.DefaultSubmitDelay, Logger: o.Deps.Logger}
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// No arguments starts the TUI.
func Run(ctx context.Context, args []string, opt Options) int {
	opt.fill()
	if len(args) == 0 {
		return doTUI(ctx, opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "tui":
		return doTUI(ctx, opt)

	case "ls":
		return doList(ctx, opt, strings.Join(a, " "))

	case "add":
		if len(a) == 0 {
			fail(opt, "usage: learn add <title...>")
			return 2
		}
		return doAdd(ctx, opt, strings.Join(a, " "))

	case "check":
		if len(a) == 0 {
			fail(opt, "usage: learn check login|profile [key=value...]")
			return 2
		}
		return doCheck(opt, a[0], a[1:])
	}

	fail(opt, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `learn - the Learn exercises in a terminal

Usage:
  learn [flags] [subcommand] [args]

Subcommands:
  tui                        Start the interactive pages (default)
  ls [filter...]             List todos whose title contains filter
  add <title...>             Add a todo and print the list
  check login|profile k=v    Validate a form and print field errors
  help                       Show this help

Examples:
  learn ls react
  learn add "Learn Go"
  learn check login email=me@example.com password=secret123
  learn check profile firstName=Ana email=ana@example.com age=30 friend=Bia
`)
}

// -------------- subcommand impls ----------------

func doTUI(ctx context.Context, opt Options) int {
	if err := opt.TUI(ctx, opt.Deps); err != nil {
		fail(opt, err.Error())
		return 1
	}
	return 0
}

func listTodos(ctx context.Context, opt Options, filter string) ([]model.Record, error) {
	key := query.NewKey("todos", "search", filter)
	return query.Fetch(ctx, opt.Deps.Query, key, func(ctx context.Context) ([]model.Record, error) {
		return opt.Deps.Store.List(ctx, filter)
	})
}

func doList(ctx context.Context, opt Options, filter string) int {
	recs, err := listTodos(ctx, opt, filter)
	if err != nil {
		opt.Deps.Logger.Error("list todos", "err", err)
		fail(opt, "ls: "+err.Error())
		return 1
	}
	printList(opt, filter, recs)
	return 0
}

func doAdd(ctx context.Context, opt Options, title string) int {
	add := query.Mutation[model.NewRecord, model.Record]{
		Fn:        opt.Deps.Store.Append,
		OnSuccess: func(model.Record) { opt.Deps.Query.Invalidate("todos") },
	}
	r, err := add.Do(ctx, model.NewRecord{Title: title})
	if err != nil {
		opt.Deps.Logger.Error("add todo", "err", err)
		fail(opt, "add: "+err.Error())
		return 1
	}
	ok(opt, fmt.Sprintf("added #%d", r.ID))
	return doList(ctx, opt, "")
}

func doCheck(opt Options, which string, pairs []string) int {
	kv, err := parsePairs(pairs)
	if err != nil {
		fail(opt, "check: "+err.Error())
		return 2
	}

	var errs schema.Errors
	switch which {
	case "login":
		v := forms.DefaultLogin()
		for k, vals := range kv {
			switch k {
			case "email":
				v.Email = last(vals)
			case "password":
				v.Password = last(vals)
			default:
				fail(opt, "check login: unknown field "+k)
				return 2
			}
		}
		errs = forms.ValidateLogin(v)

	case "profile":
		in, err := profileInput(kv)
		if err != nil {
			fail(opt, "check profile: "+err.Error())
			return 2
		}
		errs = forms.ValidateProfile(in)

	default:
		fail(opt, "check: unknown form "+which+" (want login or profile)")
		return 2
	}

	if errs.Valid() {
		ok(opt, which+": valid")
		return 0
	}
	fe := form.FromSchema(errs)
	for _, p := range fe.Paths() {
		fail(opt, fmt.Sprintf("%s: %s", p, fe.Get(p)))
	}
	return 1
}

func profileInput(kv map[string][]string) (*forms.ProfileInput, error) {
	in := forms.NewProfileInput()
	if names, ok := kv["friend"]; ok {
		in.Friends.Remove(0)
		for _, n := range names {
			in.Friends.Append(model.Friend{Name: n})
		}
	}
	for k, vals := range kv {
		v := last(vals)
		switch k {
		case "firstName":
			in.FirstName = v
		case "email":
			in.Email = v
		case "profileUrl":
			in.ProfileURL = v
		case "age":
			in.Age = v
		case "subscribed":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("subscribed: %w", err)
			}
			in.IsSubscribed = b
		case "friend":
		default:
			return nil, fmt.Errorf("unknown field %s", k)
		}
	}
	return in, nil
}

// parsePairs reads key=value arguments; a key may repeat.
func parsePairs(args []string) (map[string][]string, error) {
	out := make(map[string][]string, len(args))
	for _, a := range args {
		k, v, found := strings.Cut(a, "=")
		if !found || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}

func last(vals []string) string { return vals[len(vals)-1] }
