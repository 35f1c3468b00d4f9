package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit      key.Binding
	back      key.Binding
	up        key.Binding
	down      key.Binding
	open      key.Binding
	nextField key.Binding
	prevField key.Binding
	submit    key.Binding

	switchMode key.Binding
	filter     key.Binding
	reset      key.Binding
	refresh    key.Binding
	create     key.Binding
	mine       key.Binding
	profile    key.Binding

	edit    key.Binding
	remove  key.Binding
	accept  key.Binding
	status  key.Binding
	hire    key.Binding
	viewPro key.Binding

	theme    key.Binding
	roles    key.Binding
	picture  key.Binding
	logout   key.Binding
	deleteMe key.Binding
	register key.Binding
	nextTab  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		nextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		prevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		switchMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "requests/providers"),
		),
		filter: key.NewBinding(
			key.WithKeys("f", "/"),
			key.WithHelp("f", "filter"),
		),
		reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset filter"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new request"),
		),
		mine: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "my requests"),
		),
		profile: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "profile"),
		),
		edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept/decline"),
		),
		status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "change status"),
		),
		hire: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hire"),
		),
		viewPro: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "view provider"),
		),
		theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		roles: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "provider roles"),
		),
		picture: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "upload picture"),
		),
		logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		deleteMe: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete account"),
		),
		register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "sign up"),
		),
		nextTab: key.NewBinding(
			key.WithKeys("]", "["),
			key.WithHelp("[/]", "switch tab"),
		),
	}
}

// helpKeys: подсказка по клавишам для одного экрана.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding {
	return h
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{h}
}
