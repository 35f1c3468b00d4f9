package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/detail"
)

type (
	detailLoadedMsg struct {
		view detail.View
		err  error
	}
	decideMsg struct {
		message string
		err     error
	}
	removeMsg struct {
		outcome detail.Outcome
		err     error
	}
	statusMsg struct {
		view detail.View
		err  error
	}
)

// detailPage: заявка или услуга с действиями, доступными текущему пользователю.
type detailPage struct {
	env   env
	uc    *detail.LifecycleUseCase
	scope *screen.Scope

	view    detail.View
	loaded  bool
	busy    bool
	picking bool
	options []valueobject.Status
	cursor  cursor
}

func newRequestDetailPage(e env, requestID int) *detailPage {
	return &detailPage{
		env:   e,
		uc:    detail.NewRequestDetail(e.deps.Gateway, e.deps.Session, requestID),
		scope: screen.NewScope(e.ctx),
	}
}

func newServiceDetailPage(e env, serviceID int) *detailPage {
	return &detailPage{
		env:   e,
		uc:    detail.NewServiceDetail(e.deps.Gateway, e.deps.Session, serviceID),
		scope: screen.NewScope(e.ctx),
	}
}

func (p *detailPage) Init() tea.Cmd {
	p.busy = true
	return load(p.scope, p.uc.Load, func(v detail.View, err error) tea.Msg {
		return detailLoadedMsg{view: v, err: err}
	})
}

func (p *detailPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		p.busy = false
		// При ошибке проверки владельца заявка всё равно показывается, но без действий.
		if msg.view.Kind != 0 {
			p.view, p.loaded = msg.view, true
		}
		return p, failure(msg.err)

	case decideMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		if v, ok := p.uc.View(); ok {
			p.view = v
		}
		return p, notice(msg.message)

	case removeMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.outcome.Message), pop(msg.outcome.RefreshList))

	case statusMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		p.view = msg.view
		return p, notice("Status updated to " + msg.view.Status.Title())

	case tea.KeyMsg:
		if p.picking {
			return p.updatePicker(msg)
		}
		return p.updateActions(msg)
	}
	return p, nil
}

func (p *detailPage) updateActions(msg tea.KeyMsg) (page, tea.Cmd) {
	k := p.env.keys
	if key.Matches(msg, k.back) {
		return p, pop(false)
	}
	if key.Matches(msg, k.refresh) {
		return p, p.Init()
	}
	if !p.loaded || p.busy {
		return p, nil
	}

	switch {
	case key.Matches(msg, k.accept) && p.view.Has(detail.ActionAcceptToggle):
		p.busy = true
		return p, load(p.scope, p.uc.Decide, func(message string, err error) tea.Msg {
			return decideMsg{message: message, err: err}
		})

	case key.Matches(msg, k.remove) && p.view.Has(detail.ActionRemove):
		p.busy = true
		return p, load(p.scope, p.uc.Remove, func(o detail.Outcome, err error) tea.Msg {
			return removeMsg{outcome: o, err: err}
		})

	case key.Matches(msg, k.edit) && p.view.Has(detail.ActionEdit):
		id, err := p.uc.EditTarget()
		if err != nil {
			return p, failure(err)
		}
		return p, push(newRequestFormPage(p.env, id))

	case key.Matches(msg, k.status) && p.view.Has(detail.ActionUpdateStatus):
		p.options = p.uc.StatusOptions()
		if len(p.options) == 0 {
			return p, nil
		}
		p.picking, p.cursor = true, cursor{}
		return p, nil

	case key.Matches(msg, k.viewPro):
		if id, role, ok := p.uc.ProviderTarget(); ok {
			return p, push(newProviderPage(p.env, id, role))
		}
	}
	return p, nil
}

func (p *detailPage) updatePicker(msg tea.KeyMsg) (page, tea.Cmd) {
	k := p.env.keys
	if p.cursor.Update(k, msg, len(p.options)) {
		return p, nil
	}
	switch {
	case key.Matches(msg, k.back):
		p.picking = false
	case key.Matches(msg, k.open):
		p.picking, p.busy = false, true
		chosen := p.options[p.cursor.row]
		return p, load(p.scope, func(ctx context.Context) (detail.View, error) {
			return p.uc.UpdateStatus(ctx, chosen)
		}, func(v detail.View, err error) tea.Msg {
			return statusMsg{view: v, err: err}
		})
	}
	return p, nil
}

// Returned перезагружает экран после редактирования заявки.
func (p *detailPage) Returned(refresh bool) tea.Cmd {
	if !refresh {
		return nil
	}
	return p.Init()
}

func (p *detailPage) View(st styles) string {
	if !p.loaded {
		if p.busy {
			return st.muted.Render("Loading…")
		}
		return st.muted.Render("Nothing to show. Press r to retry.")
	}

	v := p.view
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(st.label.Render(label))
		b.WriteString(st.text.Render(value))
		b.WriteString("\n")
	}

	if v.Kind == detail.KindService {
		s := v.Service
		b.WriteString(st.title.Render(s.Title))
		b.WriteString("\n\n")
		line("Type", s.Type)
		line("Description", s.Description)
		line("Location", s.Location)
		line("Deadline", render.FormatDeadlineLong(s.Deadline))
		line("Price", render.Price(s.Price))
		line("Status", render.StatusIcon(v.Status)+" "+v.Status.Title())
		line("Client", personLine(v.Counterpart))
	} else {
		r := v.Request
		b.WriteString(st.title.Render(r.Title))
		b.WriteString("\n\n")
		line("Type", r.Type)
		line("Description", r.Description)
		line("Location", r.Location)
		line("Deadline", render.FormatDeadlineLong(r.Deadline))
		line("Price", render.Price(r.Price))
		if v.IsOwner {
			line("Status", render.StatusIcon(v.Status)+" "+render.StatusText(r.Status))
			if v.Provider != nil {
				line("Provider", personLine(v.Provider.Person))
				if v.Provider.Note != "" {
					line("Provider note", v.Provider.Note)
				}
			}
		} else {
			line("Requested by", personLine(v.Counterpart))
			if v.Has(detail.ActionAcceptToggle) {
				state := "not accepted"
				if v.Accepted {
					state = "accepted by you"
				}
				line("Your decision", state)
			}
		}
	}

	if p.picking {
		b.WriteString("\n")
		b.WriteString(st.subtitle.Render("Choose the new status"))
		b.WriteString("\n")
		for i, s := range p.options {
			entry := render.StatusIcon(s) + " " + s.Title()
			if i == p.cursor.row {
				b.WriteString(st.selected.Render("› " + entry))
			} else {
				b.WriteString(st.text.Render("  " + entry))
			}
			b.WriteString("\n")
		}
	}
	if p.busy {
		b.WriteString(st.muted.Render("Working…"))
	}
	return st.panel.Render(b.String())
}

func personLine(person detail.Person) string {
	return fmt.Sprintf("%s (rating %s)", person.Name, person.Rating)
}

func (p *detailPage) Help() helpKeys {
	k := p.env.keys
	if p.picking {
		return helpKeys{k.up, k.down, k.open, k.back}
	}
	out := helpKeys{k.back, k.refresh}
	actions := map[detail.Action]key.Binding{
		detail.ActionEdit:         k.edit,
		detail.ActionRemove:       k.remove,
		detail.ActionAcceptToggle: k.accept,
		detail.ActionUpdateStatus: k.status,
	}
	for _, a := range p.view.Actions {
		out = append(out, actions[a])
	}
	if _, _, ok := p.uc.ProviderTarget(); ok {
		out = append(out, k.viewPro)
	}
	return out
}

func (p *detailPage) Close() { p.scope.Close() }
