package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/screen"
)

// Сообщения навигации между экранами.
type (
	pushMsg    struct{ next page }
	popMsg     struct{ refresh bool }
	replaceMsg struct{ next page }
	resetMsg   struct{ next page }
)

// noticeMsg: короткое уведомление в строке состояния.
type noticeMsg struct {
	text  string
	isErr bool
}

type themeMsg struct{}

func push(next page) tea.Cmd {
	return func() tea.Msg { return pushMsg{next: next} }
}

func pop(refresh bool) tea.Cmd {
	return func() tea.Msg { return popMsg{refresh: refresh} }
}

func replace(next page) tea.Cmd {
	return func() tea.Msg { return replaceMsg{next: next} }
}

func resetTo(next page) tea.Cmd {
	return func() tea.Msg { return resetMsg{next: next} }
}

func notice(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg { return noticeMsg{text: text} }
}

func failure(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg { return noticeMsg{text: apperror.UserMessage(err), isErr: true} }
}

// load выполняет fn вне цикла Update в рамках scope экрана.
// Если экран закрылся раньше, чем пришёл ответ, сообщение не отправляется.
func load[T any](s *screen.Scope, fn func(context.Context) (T, error), wrap func(T, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		out := make(chan tea.Msg, 1)
		screen.Go(s, fn, func(v T, err error) {
			out <- wrap(v, err)
		})
		select {
		case msg := <-out:
			return msg
		case <-s.Context().Done():
			return nil
		}
	}
}
