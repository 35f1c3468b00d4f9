package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/detail"
)

type providerLoadedMsg struct {
	provider models.ProviderListing
	err      error
}

// providerPage: карточка роли исполнителя.
type providerPage struct {
	env   env
	uc    *detail.ProviderUseCase
	scope *screen.Scope

	provider models.ProviderListing
	loaded   bool
	busy     bool
	hire     detail.HireState
}

func newProviderPage(e env, providerID int, role string) *providerPage {
	return &providerPage{
		env:   e,
		uc:    detail.NewProviderDetail(e.deps.Gateway, providerID, role),
		scope: screen.NewScope(e.ctx),
	}
}

func (p *providerPage) Init() tea.Cmd {
	p.busy = true
	return load(p.scope, p.uc.Load, func(pr models.ProviderListing, err error) tea.Msg {
		return providerLoadedMsg{provider: pr, err: err}
	})
}

func (p *providerPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case providerLoadedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		p.provider, p.loaded = msg.provider, true
		return p, nil

	case tea.KeyMsg:
		k := p.env.keys
		switch {
		case key.Matches(msg, k.back):
			return p, pop(false)
		case key.Matches(msg, k.refresh):
			return p, p.Init()
		case key.Matches(msg, k.hire) && p.loaded:
			state, err := p.uc.ToggleHire()
			if err != nil {
				return p, failure(err)
			}
			p.hire = state
			if state.OpenRequestForm {
				return p, tea.Batch(notice(state.Message), push(newRequestFormPage(p.env, 0)))
			}
			return p, notice(state.Message)
		}
	}
	return p, nil
}

func (p *providerPage) View(st styles) string {
	if !p.loaded {
		if p.busy {
			return st.muted.Render("Loading…")
		}
		return st.muted.Render("Provider is not available. Press r to retry.")
	}
	pr := p.provider
	var b strings.Builder
	b.WriteString(st.title.Render(pr.Name))
	b.WriteString("  " + st.subtitle.Render(pr.Role))
	b.WriteString("\n\n")
	for _, row := range [][2]string{
		{"Rating", fmt.Sprintf("%.1f", pr.Rating)},
		{"Location", pr.Location},
		{"Rate", valueobject.Money(pr.PricePerHour).PerHour()},
		{"Distance", render.Distance(pr.DistanceKm)},
		{"About", pr.Description},
	} {
		b.WriteString(st.label.Render(row[0]))
		b.WriteString(st.text.Render(row[1]))
		b.WriteString("\n")
	}
	if p.hire.Hired {
		b.WriteString("\n" + st.badge.Render("Hire requested"))
	}
	return st.panel.Render(b.String())
}

func (p *providerPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.back, k.refresh, k.hire}
}

func (p *providerPage) Close() { p.scope.Close() }
