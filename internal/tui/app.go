// Package tui is the terminal shell: a home menu and the three Learn pages.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/learn/internal/debounce"
	"github.com/idilsaglam/learn/internal/forms"
	"github.com/idilsaglam/learn/internal/query"
	"github.com/idilsaglam/learn/internal/store/memstore"
)

// Deps are the long-lived pieces shared by every page visit. The store
// and the query cache outlive the pages, like the mock API module and
// the query client of the browser version.
type Deps struct {
	Store     *memstore.Store
	Query     *query.Client
	Submitter *forms.Submitter
	Debounce  time.Duration
	Logger    *log.Logger
}

func (d *Deps) fill() {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Store == nil {
		d.Store = memstore.New()
	}
	if d.Query == nil {
		d.Query = query.NewClient(query.Options{Logger: d.Logger})
	}
	if d.Submitter == nil {
		d.Submitter = &forms.Submitter{Delay: forms.DefaultSubmitDelay, Logger: d.Logger}
	}
	if d.Debounce <= 0 {
		d.Debounce = debounce.DefaultWait
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	m := newRoot(ctx, deps)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	final, err := p.Run()
	if fm, ok := final.(*root); ok {
		fm.leave()
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// page is one screen. Pages are pointers so forms can hold on to their
// input values across updates.
type page interface {
	Init() tea.Cmd
	Update(tea.Msg) (page, tea.Cmd)
	View() string
	// Close releases timers and cache observations.
	Close()
}

// backMsg asks the root to return to the menu.
type backMsg struct{}

func back() tea.Msg { return backMsg{} }

// menuItem adapts a page entry to bubbles/list.Item
type menuItem struct {
	title, desc string
	open        func(context.Context, *Deps) page
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// Custom delegate to control how entries render (two lines)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(menuItem)
	prefix := "  "
	title := it.title
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		title = accentStyle.Render(title)
	}
	fmt.Fprintf(w, "%s%s\n  %s", prefix, title, mutedStyle.Render(it.desc))
}

func menuItems() []list.Item {
	return []list.Item{
		menuItem{
			title: "Learn 1",
			desc:  "Form with schema validation",
			open:  func(ctx context.Context, d *Deps) page { return newLoginPage(ctx, d) },
		},
		menuItem{
			title: "Learn 2",
			desc:  "Fetching, caching and invalidating todos",
			open:  func(ctx context.Context, d *Deps) page { return newTodosPage(ctx, d) },
		},
		menuItem{
			title: "Learn 3",
			desc:  "Nested form with a list of friends",
			open:  func(ctx context.Context, d *Deps) page { return newProfilePage(ctx, d) },
		},
	}
}

type root struct {
	ctx    context.Context
	deps   Deps
	menu   list.Model
	active page
	width  int
	height int
}

func newRoot(ctx context.Context, deps Deps) *root {
	deps.fill()

	l := list.New(menuItems(), itemDelegate{}, 0, 0)
	l.Title = "Home"
	l.SetShowHelp(true)
	l.SetShowPagination(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	openBind := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{openBind} }

	return &root{ctx: ctx, deps: deps, menu: l, width: 80, height: 24}
}

func (m *root) Init() tea.Cmd { return nil }

func (m *root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-4)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.leave()
			return m, tea.Quit
		}
	case backMsg:
		m.leave()
		return m, nil
	}

	if m.active != nil {
		var cmd tea.Cmd
		m.active, cmd = m.active.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			if it, ok := m.menu.SelectedItem().(menuItem); ok {
				m.active = it.open(m.ctx, &m.deps)
				m.deps.Logger.Debug("open page", "page", it.title)
				return m, m.active.Init()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *root) View() string {
	if m.active != nil {
		return panelString(m.active.View())
	}
	return panelString(m.menu.View())
}

func (m *root) leave() {
	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
}

// focusRing tracks which of n controls has focus.
type focusRing struct {
	index int
	size  int
}

func (f *focusRing) next() { f.index = (f.index + 1) % f.size }
func (f *focusRing) prev() { f.index = (f.index - 1 + f.size) % f.size }

// resize keeps the focus in range when controls come and go.
func (f *focusRing) resize(n int) {
	f.size = n
	if f.index >= n {
		f.index = n - 1
	}
	if f.index < 0 {
		f.index = 0
	}
}

func hint(keys ...string) string {
	return helpStyle.Render(strings.Join(keys, " • "))
}
