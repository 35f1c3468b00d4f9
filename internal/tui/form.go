package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field: одно поле формы: текстовое или выбор из списка.
type field struct {
	label   string
	input   textinput.Model
	options []string
	choice  int
}

func textField(label, placeholder string) *field {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 256
	return &field{label: label, input: in}
}

func passwordField(label string) *field {
	f := textField(label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// choiceField переключается стрелками влево и вправо.
func choiceField(label string, options []string) *field {
	return &field{label: label, options: options}
}

func (f *field) isChoice() bool {
	return f.options != nil
}

func (f *field) Value() string {
	if f.isChoice() {
		if len(f.options) == 0 {
			return ""
		}
		return f.options[f.choice]
	}
	return f.input.Value()
}

// SetValue задаёт значение; для списка выбирается совпадающий вариант, иначе первый.
func (f *field) SetValue(v string) {
	if !f.isChoice() {
		f.input.SetValue(v)
		return
	}
	f.choice = 0
	for i, o := range f.options {
		if strings.EqualFold(o, v) {
			f.choice = i
			return
		}
	}
}

func (f *field) SetOptions(options []string) {
	current := f.Value()
	f.options = options
	f.SetValue(current)
}

// form: набор полей с фокусом. Enter на последнем поле отправляет форму.
type form struct {
	fields []*field
	focus  int
	keys   keyMap
}

func newForm(keys keyMap, fields ...*field) *form {
	f := &form{fields: fields, keys: keys}
	f.setFocus(0)
	return f
}

func (f *form) Value(i int) string {
	return strings.TrimSpace(f.fields[i].Value())
}

// Raw возвращает значение без обрезки пробелов: нужно для паролей.
func (f *form) Raw(i int) string {
	return f.fields[i].Value()
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for idx, fl := range f.fields {
		if fl.isChoice() {
			continue
		}
		if idx == f.focus {
			cmd = fl.input.Focus()
		} else {
			fl.input.Blur()
		}
	}
	return cmd
}

// Update обрабатывает клавиши формы. submitted=true означает, что пользователь
// нажал Enter на последнем поле.
func (f *form) Update(msg tea.Msg) (submitted bool, cmd tea.Cmd) {
	if len(f.fields) == 0 {
		return false, nil
	}
	current := f.fields[f.focus]

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case km.String() == "enter":
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			return false, f.setFocus(f.focus + 1)
		case key.Matches(km, f.keys.nextField):
			return false, f.setFocus(f.focus + 1)
		case key.Matches(km, f.keys.prevField):
			return false, f.setFocus(f.focus - 1)
		}

		if current.isChoice() {
			switch km.String() {
			case "left", "h":
				if n := len(current.options); n > 0 {
					current.choice = (current.choice - 1 + n) % n
				}
			case "right", "l":
				if n := len(current.options); n > 0 {
					current.choice = (current.choice + 1) % n
				}
			}
			return false, nil
		}
	}

	if current.isChoice() {
		return false, nil
	}
	current.input, cmd = current.input.Update(msg)
	return false, cmd
}

func (f *form) View(st styles) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := st.label
		if i == f.focus {
			label = st.focused
		}
		b.WriteString(label.Render(fl.label))
		if fl.isChoice() {
			value := "‹ " + fl.Value() + " ›"
			if i == f.focus {
				b.WriteString(st.selected.Render(value))
			} else {
				b.WriteString(st.text.Render(value))
			}
		} else {
			b.WriteString(fl.input.View())
		}
		b.WriteString("\n")
	}
	return b.String()
}
