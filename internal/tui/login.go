package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/validation"
)

type loginDoneMsg struct{ err error }

type loginPage struct {
	env   env
	scope *screen.Scope
	form  *form
	busy  bool
}

func newLoginPage(e env) *loginPage {
	return &loginPage{
		env:   e,
		scope: screen.NewScope(e.ctx),
		form: newForm(e.keys,
			textField("Username", ""),
			passwordField("Password"),
		),
	}
}

func (p *loginPage) Init() tea.Cmd { return nil }

func (p *loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, resetTo(newFeedPage(p.env))

	case tea.KeyMsg:
		if key.Matches(msg, p.env.keys.register) {
			return p, push(newRegisterPage(p.env))
		}
	}

	submitted, cmd := p.form.Update(msg)
	if !submitted || p.busy {
		return p, cmd
	}
	p.busy = true
	username, password := p.form.Value(0), p.form.Raw(1)
	return p, load(p.scope, func(ctx context.Context) (int, error) {
		return p.env.deps.Auth.Login(ctx, username, password)
	}, func(_ int, err error) tea.Msg {
		return loginDoneMsg{err: err}
	})
}

func (p *loginPage) View(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("QuickFix"))
	b.WriteString("\n")
	b.WriteString(st.subtitle.Render("Local services, fixed quickly"))
	b.WriteString("\n\n")
	b.WriteString(p.form.View(st))
	if p.busy {
		b.WriteString(st.muted.Render("Signing in…"))
	}
	return st.panel.Render(b.String())
}

func (p *loginPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.nextField, k.submit, k.register}
}

func (p *loginPage) Close() { p.scope.Close() }

type registerDoneMsg struct {
	message string
	err     error
}

// registerPage: регистрация. После успеха пользователь возвращается ко входу.
type registerPage struct {
	env   env
	scope *screen.Scope
	form  *form
	busy  bool
}

func newRegisterPage(e env) *registerPage {
	return &registerPage{
		env:   e,
		scope: screen.NewScope(e.ctx),
		form: newForm(e.keys,
			textField("Name", ""),
			textField("Username", ""),
			textField("Email", "name@example.com"),
			textField("Location", "City, Country"),
			passwordField("Password"),
			passwordField("Confirm password"),
		),
	}
}

func (p *registerPage) Init() tea.Cmd { return nil }

func (p *registerPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), pop(false))

	case tea.KeyMsg:
		if key.Matches(msg, p.env.keys.back) {
			return p, pop(false)
		}
	}

	submitted, cmd := p.form.Update(msg)
	if !submitted || p.busy {
		return p, cmd
	}
	p.busy = true
	in := userInput(p.form)
	return p, load(p.scope, func(ctx context.Context) (string, error) {
		return p.env.deps.Profile.Register(ctx, in)
	}, func(message string, err error) tea.Msg {
		return registerDoneMsg{message: message, err: err}
	})
}

func (p *registerPage) View(st styles) string {
	return st.panel.Render(st.title.Render("Sign up") + "\n\n" + p.form.View(st))
}

func (p *registerPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.nextField, k.submit, k.back}
}

func (p *registerPage) Close() { p.scope.Close() }

// userInput читает форму профиля: поля идут в порядке Name, Username, Email,
// Location, Password, Confirm.
func userInput(f *form) validation.UserInput {
	return validation.UserInput{
		Name:     f.Value(0),
		Username: f.Value(1),
		Email:    f.Value(2),
		Location: f.Value(3),
		Password: f.Raw(4),
		Confirm:  f.Raw(5),
	}
}
