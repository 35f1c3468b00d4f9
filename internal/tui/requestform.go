package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/usecase/requestform"
)

type (
	formLoadedMsg struct {
		input requestform.Input
		err   error
	}
	formSubmittedMsg struct {
		outcome requestform.Outcome
		err     error
	}
)

const (
	reqTitle = iota
	reqType
	reqDescription
	reqLocation
	reqPrice
	reqDate
	reqTime
)

// requestFormPage: создание заявки или изменение существующей.
type requestFormPage struct {
	env   env
	uc    *requestform.FormUseCase
	scope *screen.Scope
	form  *form
	busy  bool
}

// newRequestFormPage открывает форму создания, а при requestID > 0 форму изменения.
func newRequestFormPage(e env, requestID int) *requestFormPage {
	uc := requestform.NewCreateForm(e.deps.Gateway)
	if requestID > 0 {
		uc = requestform.NewEditForm(e.deps.Gateway, requestID)
	}

	typeField := textField("Service type", "Plumbing")
	if types := serviceTypes(e.deps.Feed.Options()); len(types) > 0 {
		typeField = choiceField("Service type", types)
	}

	return &requestFormPage{
		env:   e,
		uc:    uc,
		scope: screen.NewScope(e.ctx),
		form: newForm(e.keys,
			textField("Title", ""),
			typeField,
			textField("Description", ""),
			textField("Location", "City, Country"),
			textField("Price (€)", "0"),
			textField("Date", "YYYY-MM-DD"),
			textField("Time", "HH:MM"),
		),
	}
}

// serviceTypes: варианты типа без подстановочного Any.
func serviceTypes(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o != valueobject.AnyType {
			out = append(out, o)
		}
	}
	return out
}

func (p *requestFormPage) Init() tea.Cmd {
	if !p.uc.EditMode() {
		return nil
	}
	p.busy = true
	return load(p.scope, p.uc.Load, func(in requestform.Input, err error) tea.Msg {
		return formLoadedMsg{input: in, err: err}
	})
}

func (p *requestFormPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case formLoadedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		in := msg.input
		for i, v := range []string{in.Title, in.Type, in.Description, in.Location, in.Price, in.Date, in.Time} {
			p.form.fields[i].SetValue(v)
		}
		return p, nil

	case formSubmittedMsg:
		p.busy = false
		if msg.err != nil {
			return p, failure(msg.err)
		}
		return p, tea.Batch(notice(msg.outcome.Message), pop(msg.outcome.RefreshList))

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
	in := requestform.Input{
		Title:       p.form.Value(reqTitle),
		Type:        p.form.Value(reqType),
		Description: p.form.Value(reqDescription),
		Location:    p.form.Value(reqLocation),
		Price:       p.form.Value(reqPrice),
		Date:        p.form.Value(reqDate),
		Time:        p.form.Value(reqTime),
	}
	return p, load(p.scope, func(ctx context.Context) (requestform.Outcome, error) {
		return p.uc.Submit(ctx, in)
	}, func(o requestform.Outcome, err error) tea.Msg {
		return formSubmittedMsg{outcome: o, err: err}
	})
}

func (p *requestFormPage) View(st styles) string {
	title := "New request"
	if p.uc.EditMode() {
		title = "Edit request"
	}
	var b strings.Builder
	b.WriteString(st.title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(p.form.View(st))
	if p.busy {
		b.WriteString(st.muted.Render("Working…"))
	}
	return st.panel.Render(b.String())
}

func (p *requestFormPage) Help() helpKeys {
	k := p.env.keys
	return helpKeys{k.nextField, k.prevField, k.submit, k.back}
}

func (p *requestFormPage) Close() { p.scope.Close() }
