package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/account"
	"github.com/ignatzorin/quickfix/internal/validation"
)

type (
	rolesLoadedMsg struct {
		roles []models.ProviderListing
		err   error
	}
	editorOpenedMsg struct {
		editor account.RoleEditor
		err    error
	}
)

// rolesPage: роли исполнителя текущего пользователя.
type rolesPage struct {
	env   env
	scope *screen.Scope

	roles  []models.ProviderListing
	cursor cursor
	busy   bool
}

func newRolesPage(e env) *rolesPage {
	return &rolesPage{env: e, scope: screen.NewScope(e.ctx)}
}

func (p *rolesPage) Init() tea.Cmd {
	p.busy = true
	return load(p.scope, p.env.deps.Roles.List, func(roles []models.ProviderListing, err error) tea.Msg {
		return rolesLoadedMsg{roles: roles, err: err}
	})
}

func (p *rolesPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case rolesLoadedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		p.roles = msg.roles
		p.cursor.Clamp(len(p.roles))
		return p, nil

	case editorOpenedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, push(newRoleEditorPage(p.env, msg.editor))

	case savedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.message), p.Init())

	case tea.KeyMsg:
		k := p.env.keys
		if p.cursor.Update(k, msg, len(p.roles)) {
			return p, nil
		}
		if p.busy && !key.Matches(msg, k.back) {
			return p, nil
		}
		switch {
		case key.Matches(msg, k.back):
			return p, pop(true)
		case key.Matches(msg, k.create):
			return p, push(newRoleEditorPage(p.env, account.RoleEditor{Mode: account.ModeAdd}))
		case key.Matches(msg, k.open) && len(p.roles) > 0:
			name := p.roles[p.cursor.row].Role
			p.busy = true
			return p, load(p.scope, func(ctx context.Context) (account.RoleEditor, error) {
				return p.env.deps.Roles.Open(ctx, name)
			}, func(ed account.RoleEditor, err error) tea.Msg {
				return editorOpenedMsg{editor: ed, err: err}
			})
		case key.Matches(msg, k.remove) && len(p.roles) > 0:
			name := p.roles[p.cursor.row].Role
			p.busy = true
			return p, load(p.scope, func(ctx context.Context) (string, error) {
				return p.env.deps.Roles.Remove(ctx, name)
			}, func(message string, err error) tea.Msg {
				return savedMsg{message: message, err: err}
			})
		}
	}
	return p, nil
}

// Returned перечитывает роли после редактора.
func (p *rolesPage) Returned(bool) tea.Cmd {
	return p.Init()
}

func (p *rolesPage) View(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("Provider roles"))
	b.WriteString("\n\n")
	if len(p.roles) == 0 {
		if p.busy {
			b.WriteString(st.muted.Render("Loading…"))
		} else {
			b.WriteString(st.muted.Render("No roles yet. Press n to add one."))
		}
		return b.String()
	}
	for i, r := range p.roles {
		line := fmt.Sprintf("%-20s %12s  %s", r.Role, valueobject.Money(r.PricePerHour).PerHour(), r.Location)
		if i == p.cursor.row {
			b.WriteString(st.selected.Render("› " + line))
		} else {
			b.WriteString(st.text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (p *rolesPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.up, k.down, k.open, k.create, k.remove, k.back}
}

func (p *rolesPage) Close() { p.scope.Close() }

const (
	roleName = iota
	roleLocation
	roleDescription
	rolePrice
)

// roleEditorPage добавляет роль или меняет существующую с тем же именем.
type roleEditorPage struct {
	env   env
	scope *screen.Scope
	mode  account.EditorMode
	form  *form
	busy  bool
}

func newRoleEditorPage(e env, ed account.RoleEditor) *roleEditorPage {
	f := newForm(e.keys,
		textField("Role", "Plumbing"),
		textField("Location", "City, Country"),
		textField("Description", ""),
		textField("Price per hour (€)", ""),
	)
	for i, v := range []string{ed.Input.Role, ed.Input.Location, ed.Input.Description, ed.Input.Price} {
		f.fields[i].SetValue(v)
	}
	return &roleEditorPage{env: e, scope: screen.NewScope(e.ctx), mode: ed.Mode, form: f}
}

func (p *roleEditorPage) Init() tea.Cmd { return nil }

func (p *roleEditorPage) Update(msg tea.Msg) (page, tea.Cmd) {
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
	in := validation.RoleInput{
		Role:        p.form.Value(roleName),
		Location:    p.form.Value(roleLocation),
		Description: p.form.Value(roleDescription),
		Price:       p.form.Value(rolePrice),
	}
	return p, load(p.scope, func(ctx context.Context) (string, error) {
		return p.env.deps.Roles.Save(ctx, in)
	}, func(message string, err error) tea.Msg {
		return savedMsg{message: message, err: err}
	})
}

func (p *roleEditorPage) View(st styles) string {
	title := "Add role"
	if p.mode == account.ModeEdit {
		title = "Edit role"
	}
	return st.panel.Render(st.title.Render(title) + "\n\n" + p.form.View(st))
}

func (p *roleEditorPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.nextField, k.submit, k.back}
}

func (p *roleEditorPage) Close() { p.scope.Close() }
