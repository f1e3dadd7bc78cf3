package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/forms"
	"github.com/idilsaglam/learn/internal/model"
)

// Fixed controls before the friend rows.
const (
	profileFirstName = iota
	profileEmail
	profileURL
	profileAge
	profileFixed
)

type profileDoneMsg struct {
	from *profilePage
	err  error
}

type profileField struct {
	path  string
	input textinput.Model
	bind  func(*forms.ProfileInput) *string
}

// profilePage is Learn 3: nested fields plus a list of friends that
// grows and shrinks.
type profilePage struct {
	ctx     context.Context
	in      *forms.ProfileInput
	form    *form.Form[model.Profile]
	fields  []profileField
	friends map[string]textinput.Model
	focus   focusRing
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	return ti
}

func newProfilePage(ctx context.Context, d *Deps) *profilePage {
	p := &profilePage{
		ctx:     ctx,
		in:      forms.NewProfileInput(),
		friends: make(map[string]textinput.Model),
	}
	p.form = forms.NewProfileForm(p.in, d.Submitter)
	p.fields = []profileField{
		{path: "firstName", input: newInput("Nome"), bind: func(in *forms.ProfileInput) *string { return &in.FirstName }},
		{path: "email", input: newInput("Email"), bind: func(in *forms.ProfileInput) *string { return &in.Email }},
		{path: "profileUrl", input: newInput("URL do perfil"), bind: func(in *forms.ProfileInput) *string { return &in.ProfileURL }},
		{path: "age", input: newInput("Idade"), bind: func(in *forms.ProfileInput) *string { return &in.Age }},
	}
	for _, r := range p.in.Friends.Rows() {
		p.friends[r.Key] = newInput("Nome do amigo")
	}
	p.focus = focusRing{size: p.controls()}
	p.applyFocus()
	return p
}

// controls counts the fixed inputs, one per friend, the checkbox and
// the submit button.
func (p *profilePage) controls() int { return profileFixed + p.in.Friends.Len() + 2 }

func (p *profilePage) subscribeIndex() int { return profileFixed + p.in.Friends.Len() }
func (p *profilePage) submitIndex() int    { return p.subscribeIndex() + 1 }

// friendAt maps the focus index to a friend row, or -1.
func (p *profilePage) friendAt(i int) int {
	if i >= profileFixed && i < p.subscribeIndex() {
		return i - profileFixed
	}
	return -1
}

func (p *profilePage) Init() tea.Cmd { return textinput.Blink }

func (p *profilePage) Close() {}

func (p *profilePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case profileDoneMsg:
		if msg.from == p {
			p.form.Finish(msg.err)
		}
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, back
		case "tab", "down":
			p.focus.next()
			p.applyFocus()
			return p, nil
		case "shift+tab", "up":
			p.focus.prev()
			p.applyFocus()
			return p, nil
		case "enter":
			return p, p.submit()
		case "ctrl+n":
			p.appendFriend()
			return p, nil
		case "ctrl+x":
			if i := p.friendAt(p.focus.index); i >= 0 {
				p.removeFriend(i)
			}
			return p, nil
		case " ":
			if p.focus.index == p.subscribeIndex() {
				p.in.IsSubscribed = !p.in.IsSubscribed
				p.form.ValidateField("settings")
				return p, nil
			}
		}
	}
	return p, p.updateFocused(msg)
}

func (p *profilePage) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i := p.focus.index
	if i < profileFixed {
		f := &p.fields[i]
		f.input, cmd = f.input.Update(msg)
		if dst := f.bind(p.in); *dst != f.input.Value() {
			*dst = f.input.Value()
			p.form.ValidateField(f.path)
		}
		return cmd
	}
	if j := p.friendAt(i); j >= 0 {
		row, _ := p.in.Friends.At(j)
		ti := p.friends[row.Key]
		ti, cmd = ti.Update(msg)
		p.friends[row.Key] = ti
		if ti.Value() != row.Value.Name {
			p.in.Friends.Set(j, model.Friend{Name: ti.Value()})
			p.form.ValidateField(p.in.Friends.Path(j, "name"))
		}
	}
	return cmd
}

func (p *profilePage) appendFriend() {
	row := p.in.Friends.Append(model.Friend{})
	p.friends[row.Key] = newInput("Nome do amigo")
	n := p.in.Friends.Len()
	p.form.RowAppended(p.in.Friends.Path(n-1, ""))
	p.focus.resize(p.controls())
	p.focus.index = profileFixed + n - 1
	p.applyFocus()
}

func (p *profilePage) removeFriend(i int) {
	row, ok := p.in.Friends.At(i)
	if !ok {
		return
	}
	p.in.Friends.Remove(i)
	delete(p.friends, row.Key)
	p.form.RowRemoved(forms.FriendsField, i, p.in.Friends.Len())
	p.focus.resize(p.controls())
	p.applyFocus()
}

func (p *profilePage) submit() tea.Cmd {
	v, ok := p.form.Begin()
	if !ok {
		return nil
	}
	ctx, f := p.ctx, p.form
	return func() tea.Msg {
		return profileDoneMsg{from: p, err: f.Run(ctx, v)}
	}
}

func (p *profilePage) applyFocus() {
	for i := range p.fields {
		p.fields[i].input.Blur()
		if i == p.focus.index {
			p.fields[i].input.Focus()
		}
	}
	for j, r := range p.in.Friends.Rows() {
		ti := p.friends[r.Key]
		ti.Blur()
		if profileFixed+j == p.focus.index {
			ti.Focus()
		}
		p.friends[r.Key] = ti
	}
}

func (p *profilePage) View() string {
	blocks := []string{titleStyle.Render("Learn 3 - Nested form with friends"), ""}
	for _, f := range p.fields {
		blocks = append(blocks, f.input.View()+fieldError(p.form.FieldError(f.path)))
	}

	blocks = append(blocks, "", accentStyle.Render("Amigos"))
	for j, r := range p.in.Friends.Rows() {
		line := fmt.Sprintf("%d. %s", j+1, p.friends[r.Key].View())
		if msg := p.form.FieldError(p.in.Friends.Path(j, "name")); msg != "" {
			line += fieldError(fmt.Sprintf("Amigo %d: %s", j+1, msg))
		}
		blocks = append(blocks, line)
	}

	sub := checkbox(p.in.IsSubscribed) + " Receber novidades"
	if p.focus.index == p.subscribeIndex() {
		sub = selectedStyle.Render(">") + " " + sub
	} else {
		sub = "  " + sub
	}

	status := ""
	if p.form.State() == form.SubmitSucceeded {
		status = successStyle.Render("Formulário enviado com sucesso!")
	}
	blocks = append(blocks,
		"",
		sub,
		"",
		button(p.form.SubmitLabel("Enviar", "Enviando..."), p.focus.index == p.submitIndex(), p.form.Disabled()),
		fieldError(p.form.RootError()),
		status,
		"",
		hint("tab next", "ctrl+n add friend", "ctrl+x remove friend", "space toggle", "enter submit", "esc back"),
	)
	return joinBlocks(blocks...)
}
