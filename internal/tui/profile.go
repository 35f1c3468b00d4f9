package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/session"
)

type (
	profileLoadedMsg struct {
		profile models.UserProfile
		picture string
		err     error
	}
	themeToggledMsg struct {
		message string
		err     error
	}
	loggedOutMsg struct {
		message string
		err     error
	}
)

// profilePage: профиль текущего пользователя и действия с аккаунтом.
type profilePage struct {
	env   env
	scope *screen.Scope

	profile models.UserProfile
	picture string
	loaded  bool
	busy    bool
	// confirmDelete взводится первым нажатием D; второе удаляет аккаунт.
	confirmDelete bool
}

func newProfilePage(e env) *profilePage {
	return &profilePage{env: e, scope: screen.NewScope(e.ctx)}
}

func (p *profilePage) Init() tea.Cmd {
	p.busy = true
	uc := p.env.deps.Profile
	return load(p.scope, func(ctx context.Context) (profileLoadedMsg, error) {
		me, err := uc.Me(ctx)
		if err != nil {
			return profileLoadedMsg{}, err
		}
		// Аватар необязателен: ошибка не мешает показать профиль.
		pic, _ := uc.Picture(ctx)
		return profileLoadedMsg{profile: me, picture: pic}, nil
	}, func(m profileLoadedMsg, err error) tea.Msg {
		m.err = err
		return m
	})
}

func (p *profilePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		p.profile, p.picture, p.loaded = msg.profile, msg.picture, true
		return p, nil

	case themeToggledMsg:
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), func() tea.Msg { return themeMsg{} })

	case loggedOutMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), resetTo(newLoginPage(p.env)))

	case tea.KeyMsg:
		return p.updateKeys(msg)
	}
	return p, nil
}

func (p *profilePage) updateKeys(msg tea.KeyMsg) (page, tea.Cmd) {
	k := p.env.keys
	confirming := p.confirmDelete
	p.confirmDelete = false

	switch {
	case key.Matches(msg, k.back):
		return p, pop(false)
	case key.Matches(msg, k.refresh):
		return p, p.Init()
	case key.Matches(msg, k.theme):
		return p, load(p.scope, func(ctx context.Context) (string, error) {
			_, message, err := p.env.deps.Profile.ToggleTheme(ctx)
			return message, err
		}, func(message string, err error) tea.Msg {
			return themeToggledMsg{message: message, err: err}
		})
	case key.Matches(msg, k.logout):
		p.busy = true
		return p, load(p.scope, func(ctx context.Context) (string, error) {
			return "Logged out.", p.env.deps.Auth.Logout(ctx)
		}, func(message string, err error) tea.Msg {
			return loggedOutMsg{message: message, err: err}
		})
	case key.Matches(msg, k.deleteMe):
		if !confirming {
			p.confirmDelete = true
			return p, notice("Press D again to delete your account.")
		}
		p.busy = true
		return p, load(p.scope, p.env.deps.Profile.Delete, func(message string, err error) tea.Msg {
			return loggedOutMsg{message: message, err: err}
		})
	}

	if !p.loaded {
		return p, nil
	}
	switch {
	case key.Matches(msg, k.edit):
		return p, push(newProfileEditPage(p.env, p.profile))
	case key.Matches(msg, k.roles):
		return p, push(newRolesPage(p.env))
	case key.Matches(msg, k.picture):
		return p, push(newPicturePage(p.env))
	}
	return p, nil
}

// Returned перечитывает профиль: его могли изменить на вложенном экране.
func (p *profilePage) Returned(bool) tea.Cmd {
	return p.Init()
}

func (p *profilePage) View(st styles) string {
	if !p.loaded {
		if p.busy {
			return st.muted.Render("Loading…")
		}
		return st.muted.Render("Profile is not available. Press r to retry.")
	}
	u := p.profile
	var b strings.Builder
	b.WriteString(st.title.Render(u.Name))
	b.WriteString("  " + st.subtitle.Render("@"+u.Username))
	b.WriteString("\n\n")
	picture := p.picture
	if picture == "" {
		picture = "none"
	}
	theme := "Light"
	if p.env.deps.Session.Theme() == session.ThemeDark {
		theme = "Dark"
	}
	for _, row := range [][2]string{
		{"Email", u.Email},
		{"Location", u.Location},
		{"Rating", fmt.Sprintf("%.1f", u.Rating)},
		{"Picture", picture},
		{"Theme", theme},
	} {
		b.WriteString(st.label.Render(row[0]))
		b.WriteString(st.text.Render(row[1]))
		b.WriteString("\n")
	}
	if len(u.Roles) > 0 {
		b.WriteString("\n" + st.subtitle.Render("Provider roles") + "\n")
		for _, r := range u.Roles {
			b.WriteString(st.text.Render(fmt.Sprintf("  %s · %.2f €/h · %s", r.Role, r.PricePerHour, r.Location)))
			b.WriteString("\n")
		}
	}
	return st.panel.Render(b.String())
}

func (p *profilePage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.back, k.edit, k.roles, k.picture, k.theme, k.logout, k.deleteMe}
}

func (p *profilePage) Close() { p.scope.Close() }

type savedMsg struct {
	message string
	err     error
}

// profileEditPage: изменение профиля. Пустой пароль оставляет прежний.
type profileEditPage struct {
	env   env
	scope *screen.Scope
	form  *form
	busy  bool
}

func newProfileEditPage(e env, u models.UserProfile) *profileEditPage {
	f := newForm(e.keys,
		textField("Name", ""),
		textField("Username", ""),
		textField("Email", ""),
		textField("Location", "City, Country"),
		passwordField("New password"),
		passwordField("Confirm password"),
	)
	for i, v := range []string{u.Name, u.Username, u.Email, u.Location} {
		f.fields[i].SetValue(v)
	}
	return &profileEditPage{env: e, scope: screen.NewScope(e.ctx), form: f}
}

func (p *profileEditPage) Init() tea.Cmd { return nil }

func (p *profileEditPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), pop(true))
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
		return p.env.deps.Profile.Update(ctx, in)
	}, func(message string, err error) tea.Msg {
		return savedMsg{message: message, err: err}
	})
}

func (p *profileEditPage) View(st styles) string {
	return st.panel.Render(st.title.Render("Edit profile") + "\n\n" + p.form.View(st))
}

func (p *profileEditPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.nextField, k.submit, k.back}
}

func (p *profileEditPage) Close() { p.scope.Close() }

// picturePage спрашивает путь к файлу и загружает его как аватар.
type picturePage struct {
	env   env
	scope *screen.Scope
	form  *form
	busy  bool
}

func newPicturePage(e env) *picturePage {
	return &picturePage{
		env:   e,
		scope: screen.NewScope(e.ctx),
		form:  newForm(e.keys, textField("Image file", "/path/to/photo.jpg")),
	}
}

func (p *picturePage) Init() tea.Cmd { return nil }

func (p *picturePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), pop(true))
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
	path := p.form.Value(0)
	return p, load(p.scope, func(ctx context.Context) (string, error) {
		if _, err := p.env.deps.Profile.UploadPicture(ctx, path); err != nil {
			return "", err
		}
		return "Profile picture updated.", nil
	}, func(message string, err error) tea.Msg {
		return savedMsg{message: message, err: err}
	})
}

func (p *picturePage) View(st styles) string {
	return st.panel.Render(st.title.Render("Profile picture") + "\n\n" + p.form.View(st))
}

func (p *picturePage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.submit, k.back}
}

func (p *picturePage) Close() { p.scope.Close() }
