package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/forms"
	"github.com/idilsaglam/learn/internal/model"
)

const (
	loginEmail = iota
	loginPassword
	loginSubmit
	loginControls
)

type loginDoneMsg struct {
	from *loginPage
	err  error
}

// loginPage is Learn 1: email + password validated on submit.
type loginPage struct {
	ctx      context.Context
	values   model.Login
	form     *form.Form[model.Login]
	email    textinput.Model
	password textinput.Model
	focus    focusRing
}

func newLoginPage(ctx context.Context, d *Deps) *loginPage {
	p := &loginPage{ctx: ctx, values: forms.DefaultLogin()}
	p.form = forms.NewLoginForm(&p.values, d.Submitter)

	p.email = textinput.New()
	p.email.Prompt = "> "
	p.email.Placeholder = "Email"
	p.email.SetValue(p.values.Email)
	p.email.CharLimit = 200

	p.password = textinput.New()
	p.password.Prompt = "> "
	p.password.Placeholder = "Password"
	p.password.EchoMode = textinput.EchoPassword
	p.password.EchoCharacter = '•'
	p.password.CharLimit = 200

	p.focus = focusRing{size: loginControls}
	p.applyFocus()
	return p
}

func (p *loginPage) Init() tea.Cmd { return textinput.Blink }

func (p *loginPage) Close() {}

func (p *loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
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
		}
	}

	var cmd tea.Cmd
	switch p.focus.index {
	case loginEmail:
		p.email, cmd = p.email.Update(msg)
		if v := p.email.Value(); v != p.values.Email {
			p.values.Email = v
			p.form.ValidateField("email")
		}
	case loginPassword:
		p.password, cmd = p.password.Update(msg)
		if v := p.password.Value(); v != p.values.Password {
			p.values.Password = v
			p.form.ValidateField("password")
		}
	}
	return p, cmd
}

// submit validates and, if valid, runs the slow submit off the loop.
// While it runs the button is disabled and enter does nothing.
func (p *loginPage) submit() tea.Cmd {
	v, ok := p.form.Begin()
	if !ok {
		return nil
	}
	ctx, f := p.ctx, p.form
	return func() tea.Msg {
		return loginDoneMsg{from: p, err: f.Run(ctx, v)}
	}
}

func (p *loginPage) applyFocus() {
	p.email.Blur()
	p.password.Blur()
	switch p.focus.index {
	case loginEmail:
		p.email.Focus()
	case loginPassword:
		p.password.Focus()
	}
}

func (p *loginPage) View() string {
	status := ""
	if p.form.State() == form.SubmitSucceeded {
		status = successStyle.Render("✔ submitted")
	}
	return joinBlocks(
		titleStyle.Render("Learn 1 - Form with schema validation"),
		"",
		p.email.View()+fieldError(p.form.FieldError("email")),
		p.password.View()+fieldError(p.form.FieldError("password")),
		"",
		button(p.form.SubmitLabel("Submit", "Submitting..."), p.focus.index == loginSubmit, p.form.Disabled()),
		fieldError(p.form.RootError()),
		status,
		"",
		hint("tab next", "enter submit", "esc back"),
	)
}
