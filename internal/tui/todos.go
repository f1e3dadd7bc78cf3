package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/learn/internal/debounce"
	"github.com/idilsaglam/learn/internal/model"
	"github.com/idilsaglam/learn/internal/query"
)

// todosOp is the query operation every todos list key shares.
const todosOp = "todos"

const (
	todosSearch = iota
	todosTitle
	todosAdd
	todosList
	todosControls
)

type (
	searchSettledMsg struct {
		from  *todosPage
		value string
	}
	todosLoadedMsg struct {
		from    *todosPage
		seq     int
		records []model.Record
		err     error
	}
	todoAddedMsg struct {
		from   *todosPage
		record model.Record
		err    error
	}
)

func todosKey(search string) query.Key {
	return query.NewKey(todosOp, "search", search)
}

// todosPage is Learn 2: a debounced search over the store, cached by
// the query client, and an add box that invalidates the list.
type todosPage struct {
	ctx  context.Context
	deps *Deps

	search textinput.Model
	title  textinput.Model
	spin   spinner.Model
	focus  focusRing
	deb    *debounce.Debouncer[string]
	add    query.Mutation[model.NewRecord, model.Record]

	key     query.Key
	seq     int
	loading bool
	err     error
	records []model.Record
	checked map[int]bool
	cursor  int
	adding  bool
}

func newTodosPage(ctx context.Context, d *Deps) *todosPage {
	p := &todosPage{
		ctx:     ctx,
		deps:    d,
		deb:     debounce.New[string](d.Debounce),
		key:     todosKey(""),
		checked: make(map[int]bool),
	}
	p.add = query.Mutation[model.NewRecord, model.Record]{
		Fn: d.Store.Append,
		OnSuccess: func(model.Record) {
			d.Query.Invalidate(todosOp)
		},
	}

	p.search = textinput.New()
	p.search.Prompt = "Search: "
	p.search.Placeholder = "filter by title"

	p.title = textinput.New()
	p.title.Prompt = "> "
	p.title.Placeholder = "New todo"
	p.title.CharLimit = 200

	p.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))

	p.focus = focusRing{size: todosControls}
	p.applyFocus()
	return p
}

func (p *todosPage) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.spin.Tick, p.load(), p.waitSearch())
}

func (p *todosPage) Close() {
	p.deb.Stop()
	p.deps.Query.Release(p.key)
}

// waitSearch blocks on the debouncer until a search value settles. It
// returns nil once the debouncer is stopped.
func (p *todosPage) waitSearch() tea.Cmd {
	c := p.deb.C()
	return func() tea.Msg {
		v, ok := <-c
		if !ok {
			return nil
		}
		return searchSettledMsg{from: p, value: v}
	}
}

// load shows the cached list for the current key or starts fetching it.
// While fetching no rows are shown.
func (p *todosPage) load() tea.Cmd {
	p.seq++
	p.err = nil
	if recs, ok := query.Peek[[]model.Record](p.deps.Query, p.key); ok {
		p.records, p.loading = recs, false
		return nil
	}
	p.records, p.loading = nil, true

	ctx, client, key, seq := p.ctx, p.deps.Query, p.key, p.seq
	store := p.deps.Store
	search := key.Params.Get("search")
	return func() tea.Msg {
		recs, err := query.Fetch(ctx, client, key, func(ctx context.Context) ([]model.Record, error) {
			return store.List(ctx, search)
		})
		return todosLoadedMsg{from: p, seq: seq, records: recs, err: err}
	}
}

func (p *todosPage) submit() tea.Cmd {
	if p.adding {
		return nil
	}
	p.adding = true
	ctx, in := p.ctx, model.NewRecord{Title: p.title.Value()}
	return func() tea.Msg {
		r, err := p.add.Do(ctx, in)
		return todoAddedMsg{from: p, record: r, err: err}
	}
}

func (p *todosPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd

	case searchSettledMsg:
		if msg.from != p {
			return p, nil
		}
		next := todosKey(msg.value)
		if next.String() == p.key.String() {
			return p, p.waitSearch()
		}
		p.deps.Query.Release(p.key)
		p.key = next
		p.cursor = 0
		p.deps.Logger.Debug("search settled", "key", next)
		return p, tea.Batch(p.load(), p.waitSearch())

	case todosLoadedMsg:
		if msg.from != p || msg.seq != p.seq {
			return p, nil
		}
		p.loading = false
		p.records, p.err = msg.records, msg.err
		if p.err != nil {
			p.deps.Logger.Error("list todos", "key", p.key, "err", p.err)
		}
		if p.cursor >= len(p.records) {
			p.cursor = max(len(p.records)-1, 0)
		}
		return p, nil

	case todoAddedMsg:
		if msg.from != p {
			return p, nil
		}
		p.adding = false
		if msg.err != nil {
			p.deps.Logger.Error("add todo", "err", msg.err)
			return p, nil
		}
		p.deps.Logger.Info("todo added", "id", msg.record.ID, "title", msg.record.Title)
		p.title.SetValue("")
		return p, p.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, back
		case "tab":
			p.focus.next()
			p.applyFocus()
			return p, nil
		case "shift+tab":
			p.focus.prev()
			p.applyFocus()
			return p, nil
		}
		switch p.focus.index {
		case todosTitle, todosAdd:
			if msg.String() == "enter" {
				return p, p.submit()
			}
		case todosList:
			p.listKey(msg.String())
			return p, nil
		}
	}

	var cmd tea.Cmd
	switch p.focus.index {
	case todosSearch:
		before := p.search.Value()
		p.search, cmd = p.search.Update(msg)
		if v := p.search.Value(); v != before {
			p.deb.Push(v)
		}
	case todosTitle:
		p.title, cmd = p.title.Update(msg)
	}
	return p, cmd
}

// listKey moves the cursor and toggles the local completed state. The
// store is never told.
func (p *todosPage) listKey(k string) {
	switch k {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.records)-1 {
			p.cursor++
		}
	case " ", "space", "x":
		if p.cursor < len(p.records) {
			id := p.records[p.cursor].ID
			p.checked[id] = !p.done(p.records[p.cursor])
		}
	}
}

func (p *todosPage) done(r model.Record) bool {
	if v, ok := p.checked[r.ID]; ok {
		return v
	}
	return r.Completed
}

func (p *todosPage) applyFocus() {
	p.search.Blur()
	p.title.Blur()
	switch p.focus.index {
	case todosSearch:
		p.search.Focus()
	case todosTitle:
		p.title.Focus()
	}
}

func (p *todosPage) View() string {
	return joinBlocks(
		titleStyle.Render("Learn 2 - Fetching, caching and invalidating"),
		"",
		p.search.View(),
		p.title.View(),
		button("Add Todo", p.focus.index == todosAdd, p.adding),
		"",
		p.listView(),
		"",
		hint("tab next", "enter add", "↑/↓ move", "space toggle", "esc back"),
	)
}

func (p *todosPage) listView() string {
	switch {
	case p.loading:
		return p.spin.View() + " Loading..."
	case p.err != nil:
		return errorStyle.Render(p.err.Error())
	case len(p.records) == 0:
		return mutedStyle.Render("No todos")
	}
	lines := make([]string, 0, len(p.records))
	for i, r := range p.records {
		title := r.Title
		if p.done(r) {
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s", checkbox(p.done(r)), title)
		if p.focus.index == todosList && i == p.cursor {
			line = selectedStyle.Render(">") + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return joinBlocks(lines...)
}
