package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldMasked
	fieldChoice
)

type choice struct {
	label string
	value string
}

type formField struct {
	label    string
	kind     fieldKind
	input    textinput.Model
	choices  []choice
	selected int
}

// formValues holds submitted values in field order. Choice fields report the
// selected choice's value.
type formValues []string

func (v formValues) get(i int) string {
	if i < 0 || i >= len(v) {
		return ""
	}
	return v[i]
}

// submitFunc applies a form. It returns the status line on success and may
// chain into another dialog.
type submitFunc func(v formValues) (status string, next *form, err error)

// form is the dialog component shared by every tab.
type form struct {
	title    string
	fields   []formField
	focus    int
	err      string
	preview  func(v formValues) string
	onSubmit submitFunc
}

func newForm(title string, onSubmit submitFunc) *form {
	return &form{title: title, onSubmit: onSubmit}
}

func (f *form) text(label, value string) *form {
	return f.addInput(label, value, fieldText)
}

func (f *form) masked(label string) *form {
	return f.addInput(label, "", fieldMasked)
}

func (f *form) addInput(label, value string, kind fieldKind) *form {
	ti := textinput.New()
	ti.Prompt = ""
	ti.SetValue(value)
	ti.CursorEnd()
	if kind == fieldMasked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	f.fields = append(f.fields, formField{label: label, kind: kind, input: ti})
	f.refocus()
	return f
}

func (f *form) choose(label string, choices []choice, selected int) *form {
	if selected < 0 || selected >= len(choices) {
		selected = 0
	}
	f.fields = append(f.fields, formField{label: label, kind: fieldChoice, choices: choices, selected: selected})
	f.refocus()
	return f
}

func (f *form) withPreview(fn func(v formValues) string) *form {
	f.preview = fn
	return f
}

func (f *form) values() formValues {
	out := make(formValues, len(f.fields))
	for i, field := range f.fields {
		if field.kind == fieldChoice {
			if len(field.choices) > 0 {
				out[i] = field.choices[field.selected].value
			}
			continue
		}
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

func (f *form) refocus() {
	for i := range f.fields {
		if f.fields[i].kind == fieldChoice {
			continue
		}
		if i == f.focus {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.refocus()
}

// formOutcome tells the app what a key did to the dialog.
type formOutcome int

const (
	formEditing formOutcome = iota
	formCancelled
	formSubmitted
)

func (f *form) update(msg tea.KeyMsg) (formOutcome, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return formCancelled, nil
	case "enter":
		return formSubmitted, nil
	case "tab", "down":
		f.move(1)
		return formEditing, nil
	case "shift+tab", "up":
		f.move(-1)
		return formEditing, nil
	}
	if len(f.fields) == 0 {
		return formEditing, nil
	}
	field := &f.fields[f.focus]
	if field.kind == fieldChoice {
		n := len(field.choices)
		if n == 0 {
			return formEditing, nil
		}
		switch msg.String() {
		case "left", "h":
			field.selected = (field.selected - 1 + n) % n
		case "right", "l", " ":
			field.selected = (field.selected + 1) % n
		}
		return formEditing, nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	f.err = ""
	return formEditing, cmd
}

func (f *form) view(width int) string {
	lines := []string{dialogTitleStyle.Render(f.title), ""}
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = focusMarkerStyle.Render("▸ ")
		}
		var value string
		switch field.kind {
		case fieldChoice:
			if len(field.choices) == 0 {
				value = mutedStyle.Render("(none)")
			} else {
				value = fmt.Sprintf("‹ %s ›", field.choices[field.selected].label)
			}
		default:
			value = field.input.View()
		}
		lines = append(lines, fmt.Sprintf("%s%-12s %s", marker, field.label+":", value))
	}
	if f.preview != nil {
		if p := strings.TrimSpace(f.preview(f.values())); p != "" {
			lines = append(lines, "", mutedStyle.Render(p))
		}
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render("⚠ "+f.err))
	}
	lines = append(lines, "", hintStyle.Render("Enter → save    Tab → next field    ←/→ → change choice    Esc → cancel"))
	return dialogStyle.Width(max(30, min(width, 72))).Render(strings.Join(lines, "\n"))
}
