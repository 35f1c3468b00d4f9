// Package tui реализует терминальный интерфейс клиента на Bubble Tea.
// Экраны лежат в стеке; сетевые вызовы выполняются командами вне цикла Update
// и возвращают сообщения.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/session"
	"github.com/ignatzorin/quickfix/internal/usecase/account"
	"github.com/ignatzorin/quickfix/internal/usecase/detail"
	"github.com/ignatzorin/quickfix/internal/usecase/feed"
	"github.com/ignatzorin/quickfix/internal/usecase/mine"
	"github.com/ignatzorin/quickfix/internal/usecase/requestform"
)

// Gateway: вызовы сервера, из которых экраны собирают свои сценарии.
type Gateway interface {
	detail.Gateway
	detail.ProviderGateway
	requestform.Gateway
}

// Deps: готовые сценарии и сервисы, общие для всех экранов.
type Deps struct {
	Gateway Gateway
	Session *session.Service
	Auth    *account.AuthUseCase
	Profile *account.ProfileUseCase
	Roles   *account.RolesUseCase
	Feed    *feed.ListingUseCase
	Mine    *mine.ListUseCase
}

// page: один экран в стеке.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View(st styles) string
	Help() helpKeys
	// Close отменяет незавершённые вызовы экрана.
	Close()
}

// returner получает управление, когда экран над ним закрылся.
type returner interface {
	Returned(refresh bool) tea.Cmd
}

// env: то, что экраны получают при создании.
type env struct {
	ctx  context.Context
	deps Deps
	keys keyMap
}

// App: корневая модель программы.
type App struct {
	env    env
	styles styles
	help   help.Model
	stack  []page
	status noticeMsg
	width  int
}

func New(ctx context.Context, deps Deps) *App {
	h := help.New()
	h.ShortSeparator = " · "
	return &App{
		env:    env{ctx: ctx, deps: deps, keys: newKeyMap()},
		styles: newStyles(deps.Session.Theme()),
		help:   h,
	}
}

// Run запускает интерфейс и блокируется до выхода.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	if a.env.deps.Auth.Resume() {
		return a.open(newFeedPage(a.env))
	}
	return a.open(newLoginPage(a.env))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.env.keys.quit) {
			a.closeAll()
			return a, tea.Quit
		}
		a.status = noticeMsg{}

	case noticeMsg:
		a.status = msg
		if msg.isErr {
			logger.Log.WithField("message", msg.text).Debug("tui: ошибка показана пользователю")
		}
		return a, nil

	case themeMsg:
		a.styles = newStyles(a.env.deps.Session.Theme())
		return a, nil

	case pushMsg:
		return a, a.open(msg.next)

	case replaceMsg:
		if top := a.top(); top != nil {
			top.Close()
			a.stack = a.stack[:len(a.stack)-1]
		}
		return a, a.open(msg.next)

	case resetMsg:
		a.closeAll()
		return a, a.open(msg.next)

	case popMsg:
		if len(a.stack) <= 1 {
			return a, nil
		}
		a.top().Close()
		a.stack = a.stack[:len(a.stack)-1]
		if r, ok := a.top().(returner); ok {
			return a, r.Returned(msg.refresh)
		}
		return a, nil
	}

	top := a.top()
	if top == nil {
		return a, nil
	}
	next, cmd := top.Update(msg)
	a.stack[len(a.stack)-1] = next
	return a, cmd
}

func (a *App) View() string {
	top := a.top()
	if top == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(top.View(a.styles))
	b.WriteString("\n")
	if a.status.text != "" {
		if a.status.isErr {
			b.WriteString(a.styles.errText.Render(a.status.text))
		} else {
			b.WriteString(a.styles.notice.Render(a.status.text))
		}
		b.WriteString("\n")
	}
	keys := append(top.Help(), a.env.keys.quit)
	b.WriteString(a.styles.help.Render(a.help.View(keys)))
	return b.String()
}

func (a *App) open(p page) tea.Cmd {
	a.stack = append(a.stack, p)
	return p.Init()
}

func (a *App) top() page {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

func (a *App) closeAll() {
	for _, p := range a.stack {
		p.Close()
	}
	a.stack = nil
}
