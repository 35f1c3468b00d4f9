package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/mine"
)

type mineResultMsg struct {
	res mine.Result
	err error
}

const (
	mineStatus = iota
	mineQuery
	mineBudget
)

// minePage: собственные заявки пользователя и услуги, которые он выполняет.
type minePage struct {
	env   env
	uc    *mine.ListUseCase
	scope *screen.Scope

	loading   bool
	cursor    cursor
	filtering bool
	filter    *form
}

func newMinePage(e env) *minePage {
	return &minePage{
		env:   e,
		uc:    e.deps.Mine,
		scope: screen.NewScope(e.ctx),
		filter: newForm(e.keys,
			choiceField("Status", mine.StatusOptions()),
			textField("Search", ""),
			textField(mine.TabRequests.BudgetHint(), ""),
		),
	}
}

func (p *minePage) Init() tea.Cmd {
	return p.fetch(p.uc.Refresh())
}

func (p *minePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case mineResultMsg:
		p.loading = false
		if msg.err != nil {
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

func (p *minePage) updateList(msg tea.KeyMsg) (page, tea.Cmd) {
	k := p.env.keys
	if p.cursor.Update(k, msg, p.rowCount()) {
		return p, nil
	}
	switch {
	case key.Matches(msg, k.back):
		return p, pop(false)
	case key.Matches(msg, k.nextTab):
		tab := mine.TabServices
		if p.uc.Tab() == mine.TabServices {
			tab = mine.TabRequests
		}
		p.cursor = cursor{}
		p.filter.fields[mineBudget].label = tab.BudgetHint()
		return p, p.fetch(p.uc.SwitchTab(tab))
	case key.Matches(msg, k.filter):
		p.filtering = true
		return p, p.filter.setFocus(mineQuery)
	case key.Matches(msg, k.refresh):
		return p, p.fetch(p.uc.Refresh())
	case key.Matches(msg, k.open):
		tab, id, err := p.uc.Open(p.cursor.row)
		if err != nil {
			return p, nil
		}
		if tab == mine.TabServices {
			return p, push(newServiceDetailPage(p.env, id))
		}
		return p, push(newRequestDetailPage(p.env, id))
	}
	return p, nil
}

func (p *minePage) updateFilter(msg tea.KeyMsg) (page, tea.Cmd) {
	if key.Matches(msg, p.env.keys.back) {
		p.filtering = false
		return p, nil
	}
	submitted, cmd := p.filter.Update(msg)
	if !submitted {
		return p, cmd
	}
	ticket, err := p.uc.Commit(mine.Input{
		Status: p.filter.Value(mineStatus),
		Query:  p.filter.Value(mineQuery),
		Budget: p.filter.Value(mineBudget),
	})
	if err != nil {
		return p, failure(err)
	}
	p.filtering = false
	return p, p.fetch(ticket)
}

// Returned перезагружает вкладку после возврата с детального экрана.
func (p *minePage) Returned(bool) tea.Cmd {
	return p.fetch(p.uc.Refresh())
}

func (p *minePage) fetch(ticket screen.Ticket) tea.Cmd {
	p.loading = true
	return load(p.scope, func(ctx context.Context) (mine.Result, error) {
		return p.uc.Fetch(ctx, ticket)
	}, func(res mine.Result, err error) tea.Msg {
		return mineResultMsg{res: res, err: err}
	})
}

func (p *minePage) rowCount() int {
	if p.uc.Tab() == mine.TabServices {
		return len(p.uc.Services())
	}
	return len(p.uc.Requests())
}

func (p *minePage) rows() []render.Row {
	if p.uc.Tab() == mine.TabServices {
		services := p.uc.Services()
		rows := make([]render.Row, 0, len(services))
		for _, s := range services {
			rows = append(rows, render.ServiceRow(s))
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

func (p *minePage) View(st styles) string {
	var b strings.Builder
	tabs := []string{"My requests", "My services"}
	for i, t := range tabs {
		if mine.Tab(i) == p.uc.Tab() {
			b.WriteString(st.title.Render("[" + t + "]"))
		} else {
			b.WriteString(st.muted.Render(" " + t + " "))
		}
		b.WriteString("  ")
	}
	if p.loading {
		b.WriteString(st.muted.Render("loading…"))
	}
	b.WriteString("\n\n")
	if p.filtering {
		b.WriteString(st.panel.Render(p.filter.View(st)))
		b.WriteString("\n")
	}
	b.WriteString(renderRows(st, p.rows(), p.cursor.row, "Nothing here yet."))
	return b.String()
}

func (p *minePage) Help() helpKeys {
	k := p.env.keys
	if p.filtering {
		return helpKeys{k.nextField, k.submit, k.back}
	}
	return helpKeys{k.up, k.down, k.open, k.nextTab, k.filter, k.refresh, k.back}
}

func (p *minePage) Close() { p.scope.Close() }
