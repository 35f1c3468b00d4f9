package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/feed"
)

type (
	feedOptionsMsg struct {
		ticket screen.Ticket
		err    error
	}
	feedTicketMsg struct {
		ticket screen.Ticket
		err    error
	}
	feedResultMsg struct {
		res feed.Result
		err error
	}
)

const (
	filterType = iota
	filterQuery
	filterBudget
	filterDistance
)

// feedPage: главная лента: заявки или исполнители с фильтром.
type feedPage struct {
	env   env
	uc    *feed.ListingUseCase
	scope *screen.Scope

	ready     bool
	loading   bool
	cursor    cursor
	filtering bool
	filter    *form
}

func newFeedPage(e env) *feedPage {
	return &feedPage{
		env:   e,
		uc:    e.deps.Feed,
		scope: screen.NewScope(e.ctx),
		filter: newForm(e.keys,
			choiceField("Service type", []string{valueobject.AnyType}),
			textField("Search", ""),
			textField("Max budget (€)", ""),
			textField("Max distance (km)", ""),
		),
	}
}

// Init загружает типы услуг, затем восстанавливает фильтр текущего режима.
func (p *feedPage) Init() tea.Cmd {
	p.loading = true
	return load(p.scope, func(ctx context.Context) (screen.Ticket, error) {
		if _, err := p.uc.LoadOptions(ctx); err != nil {
			return 0, err
		}
		return p.uc.Returned(ctx)
	}, func(t screen.Ticket, err error) tea.Msg {
		return feedOptionsMsg{ticket: t, err: err}
	})
}

func (p *feedPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case feedOptionsMsg:
		if msg.err != nil {
			p.loading = false
			return p, failure(msg.err)
		}
		p.ready = true
		p.filter.fields[filterType].SetOptions(p.uc.Options())
		p.syncFilter()
		return p, p.fetch(msg.ticket)

	case feedTicketMsg:
		if msg.err != nil {
			p.loading = false
			return p, failure(msg.err)
		}
		p.syncFilter()
		return p, p.fetch(msg.ticket)

	case feedResultMsg:
		p.loading = false
		if msg.err != nil {
			// Коллекция остаётся прежней.
			return p, failure(msg.err)
		}
		if p.uc.Apply(msg.res) {
			p.cursor.Clamp(p.rowCount())
		}
		return p, nil

	case tea.KeyMsg:
		if p.filtering {
			return p.updateFilter(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p *feedPage) updateList(msg tea.KeyMsg) (page, tea.Cmd) {
	k := p.env.keys
	if p.cursor.Update(k, msg, p.rowCount()) {
		return p, nil
	}
	if !p.ready {
		if key.Matches(msg, k.refresh) {
			return p, p.Init()
		}
		return p, nil
	}

	switch {
	case key.Matches(msg, k.switchMode):
		mode := p.uc.Mode().Other()
		p.cursor = cursor{}
		return p, p.issue(func(ctx context.Context) (screen.Ticket, error) {
			return p.uc.SwitchMode(ctx, mode)
		})
	case key.Matches(msg, k.filter):
		p.filtering = true
		p.syncFilter()
		return p, p.filter.setFocus(filterQuery)
	case key.Matches(msg, k.reset):
		return p, p.issue(p.uc.Reset)
	case key.Matches(msg, k.refresh):
		return p, p.issue(p.uc.Returned)
	case key.Matches(msg, k.open):
		target, err := p.uc.Open(p.cursor.row)
		if err != nil {
			return p, nil
		}
		if target.Kind == feed.TargetProvider {
			return p, push(newProviderPage(p.env, target.ID, target.Role))
		}
		return p, push(newRequestDetailPage(p.env, target.ID))
	case key.Matches(msg, k.create):
		return p, push(newRequestFormPage(p.env, 0))
	case key.Matches(msg, k.mine):
		return p, push(newMinePage(p.env))
	case key.Matches(msg, k.profile):
		return p, push(newProfilePage(p.env))
	}
	return p, nil
}

func (p *feedPage) updateFilter(msg tea.KeyMsg) (page, tea.Cmd) {
	if key.Matches(msg, p.env.keys.back) {
		p.filtering = false
		p.syncFilter()
		return p, nil
	}
	before := p.filter.Value(filterType)
	submitted, cmd := p.filter.Update(msg)
	if submitted {
		commit, ok := p.commitFilter()
		if ok {
			p.filtering = false
		}
		return p, commit
	}
	// Смена типа услуги применяет фильтр сразу, не дожидаясь Enter.
	if p.filter.Value(filterType) != before {
		commit, _ := p.commitFilter()
		return p, commit
	}
	return p, cmd
}

// commitFilter разбирает поля формы и сохраняет фильтр. При ошибке ввода
// загрузка не запускается, а ok равно false.
func (p *feedPage) commitFilter() (tea.Cmd, bool) {
	in := feed.Input{
		Type:     p.filter.Value(filterType),
		Query:    p.filter.Value(filterQuery),
		Budget:   p.filter.Value(filterBudget),
		Distance: p.filter.Value(filterDistance),
	}
	f, err := p.uc.ParseInput(in)
	if err != nil {
		return failure(err), false
	}
	return p.issue(func(ctx context.Context) (screen.Ticket, error) {
		return p.uc.Commit(ctx, f)
	}), true
}

// Returned перечитывает фильтр и ленту после возврата с другого экрана.
func (p *feedPage) Returned(bool) tea.Cmd {
	if !p.ready {
		return p.Init()
	}
	return p.issue(p.uc.Returned)
}

// issue выполняет шаг, выдающий билет, затем загрузку по этому билету.
func (p *feedPage) issue(step func(context.Context) (screen.Ticket, error)) tea.Cmd {
	p.loading = true
	return load(p.scope, step, func(t screen.Ticket, err error) tea.Msg {
		return feedTicketMsg{ticket: t, err: err}
	})
}

func (p *feedPage) fetch(ticket screen.Ticket) tea.Cmd {
	return load(p.scope, func(ctx context.Context) (feed.Result, error) {
		return p.uc.Fetch(ctx, ticket)
	}, func(res feed.Result, err error) tea.Msg {
		return feedResultMsg{res: res, err: err}
	})
}

// syncFilter переносит действующий фильтр в поля формы.
func (p *feedPage) syncFilter() {
	f := p.uc.Filter().Normalize()
	p.filter.fields[filterType].SetValue(f.Type)
	p.filter.fields[filterQuery].SetValue(f.Query)
	p.filter.fields[filterBudget].SetValue(f.Budget.String())
	p.filter.fields[filterDistance].SetValue(f.Distance.String())
}

func (p *feedPage) rowCount() int {
	if p.uc.Mode() == valueobject.ViewProviders {
		return len(p.uc.Providers())
	}
	return len(p.uc.Requests())
}

func (p *feedPage) rows() []render.Row {
	if p.uc.Mode() == valueobject.ViewProviders {
		providers := p.uc.Providers()
		rows := make([]render.Row, 0, len(providers))
		for _, pr := range providers {
			rows = append(rows, render.ProviderRow(pr))
		}
		return rows
	}
	requests := p.uc.Requests()
	rows := make([]render.Row, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, render.RequestRow(r))
	}
	return rows
}

func (p *feedPage) View(st styles) string {
	var b strings.Builder

	title := "Service requests"
	if p.uc.Mode() == valueobject.ViewProviders {
		title = "Service providers"
	}
	b.WriteString(st.title.Render(title))
	if p.uc.ActiveIndicator() {
		b.WriteString("  " + st.badge.Render("● filters active"))
	}
	if p.loading {
		b.WriteString("  " + st.muted.Render("loading…"))
	}
	b.WriteString("\n\n")

	if p.filtering {
		b.WriteString(st.panel.Render(p.filter.View(st)))
		b.WriteString("\n")
	}

	empty := "Nothing here yet."
	if !p.ready && !p.loading {
		empty = "Service types are not loaded. Press r to retry."
	}
	b.WriteString(renderRows(st, p.rows(), p.cursor.row, empty))
	return b.String()
}

func (p *feedPage) Help() helpKeys {
	k := p.env.keys
	if p.filtering {
		return helpKeys{k.nextField, k.submit, k.back}
	}
	return helpKeys{k.up, k.down, k.open, k.switchMode, k.filter, k.reset, k.refresh, k.create, k.mine, k.profile}
}

func (p *feedPage) Close() { p.scope.Close() }
