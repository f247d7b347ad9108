// Package form renders validated input fields in the terminal. Field state
// and validation live in internal/field; this package only maps key presses
// onto it and draws the result.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imgajeed76/gridview/internal/field"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// Result is the outcome of a form session.
type Result struct {
	// Values maps field names to their final values.
	Values map[string]string
	// Submitted is false when the user cancelled.
	Submitted bool
}

// Submit blurs every field, which marks it touched and runs its rules, and
// collects the values. problems lists "Label: message" for each failing
// field in form order.
func Submit(fields []*field.Field) (values map[string]string, problems []string) {
	values = make(map[string]string, len(fields))
	for _, f := range fields {
		f.Blur()
		values[f.Name()] = f.Value()
		if msg := f.DisplayError(); msg != "" {
			problems = append(problems, fmt.Sprintf("%s: %s", f.Label(), msg))
		}
	}
	return values, problems
}

type formKeyMap struct {
	Next           key.Binding
	Prev           key.Binding
	Submit         key.Binding
	TogglePassword key.Binding
	Cancel         key.Binding
}

var formKeys = formKeyMap{
	Next:           key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:           key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("⇧tab", "previous field")),
	Submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next / submit")),
	TogglePassword: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show password")),
	Cancel:         key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

type formModel struct {
	title     string
	fields    []*field.Field
	inputs    []textinput.Model
	focus     int
	submitted bool
	cancelled bool
	problems  []string
}

// Run shows the form and blocks until it is submitted with every field
// valid, or cancelled.
func Run(title string, fields []*field.Field) (Result, error) {
	m := newFormModel(title, fields)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return Result{}, err
	}
	fm := final.(formModel)
	values := make(map[string]string, len(fm.fields))
	for _, f := range fm.fields {
		values[f.Name()] = f.Value()
	}
	return Result{Values: values, Submitted: fm.submitted}, nil
}

func newFormModel(title string, fields []*field.Field) formModel {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder()
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(f.Value())
		inputs[i] = ti
	}
	m := formModel{title: title, fields: fields, inputs: inputs, focus: -1}
	start := 0
	if len(fields) > 0 && fields[0].Disabled() {
		start = m.nextEnabled(0, 1)
	}
	m.moveFocus(start)
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, formKeys.Cancel):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(keyMsg, formKeys.Next):
		m.moveFocus(m.nextEnabled(m.focus, 1))
		return m, nil

	case key.Matches(keyMsg, formKeys.Prev):
		m.moveFocus(m.nextEnabled(m.focus, -1))
		return m, nil

	case key.Matches(keyMsg, formKeys.TogglePassword):
		if f := m.current(); f != nil {
			f.TogglePassword()
			m.syncEcho(m.focus)
		}
		return m, nil

	case key.Matches(keyMsg, formKeys.Submit):
		if f := m.current(); f != nil {
			f.Enter()
		}
		if next := m.nextEnabled(m.focus, 1); next > m.focus {
			m.moveFocus(next)
			return m, nil
		}
		return m.submit()
	}

	f := m.current()
	if f == nil || f.Disabled() || f.ReadOnly() {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
	if v := m.inputs[m.focus].Value(); v != f.Value() {
		f.Change(v)
	}
	return m, cmd
}

// submit validates every field. The form quits when all pass; otherwise
// focus jumps to the first failing field.
func (m formModel) submit() (tea.Model, tea.Cmd) {
	if len(m.fields) > 0 && m.focus >= 0 {
		m.inputs[m.focus].Blur()
	}
	_, m.problems = Submit(m.fields)
	if len(m.problems) == 0 {
		m.submitted = true
		return m, tea.Quit
	}
	for i, f := range m.fields {
		if f.HasError() {
			m.focus = -1
			m.moveFocus(i)
			break
		}
	}
	return m, nil
}

func (m *formModel) current() *field.Field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return m.fields[m.focus]
}

// nextEnabled returns the next focusable field from i in direction dir, or
// i itself when there is none.
func (m formModel) nextEnabled(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.fields); j += dir {
		if !m.fields[j].Disabled() {
			return j
		}
	}
	return i
}

// moveFocus blurs the focused field, which runs its validation, and focuses
// field i.
func (m *formModel) moveFocus(i int) {
	if i == m.focus || i < 0 || i >= len(m.fields) {
		return
	}
	if f := m.current(); f != nil {
		f.Blur()
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	m.fields[i].Focus()
	m.inputs[i].Focus()
	m.syncEcho(i)
}

func (m *formModel) syncEcho(i int) {
	if m.fields[i].InputType() == field.Password {
		m.inputs[i].EchoMode = textinput.EchoPassword
	} else {
		m.inputs[i].EchoMode = textinput.EchoNormal
	}
}

func (m formModel) View() string {
	var sb strings.Builder

	if m.title != "" {
		sb.WriteString(styles.SectionHeader(m.title))
		sb.WriteString("\n\n")
	}

	for i, f := range m.fields {
		label := f.Label()
		if f.Required() {
			label += " *"
		}
		marker := "  "
		if i == m.focus {
			marker = styles.Render(styles.HelpKey, "> ")
		}
		sb.WriteString(marker + styles.Render(styles.LabelStyle, label) + "\n")

		input := m.inputs[i].View()
		if f.Disabled() {
			input = styles.MutedMsg(f.Value() + " (disabled)")
		}
		sb.WriteString("  " + input)
		if f.IsValid() {
			sb.WriteString(" " + styles.SuccessText(styles.SymbolSuccess))
		}
		sb.WriteString("\n")

		switch {
		case f.HasError():
			sb.WriteString("  " + styles.ErrorText(f.DisplayError()) + "\n")
		case f.HelperText() != "":
			sb.WriteString("  " + styles.Render(styles.HelperStyle, f.HelperText()) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(m.problems) > 0 {
		sb.WriteString(styles.WarningMsg(fmt.Sprintf("%d field(s) need attention", len(m.problems))))
		sb.WriteString("\n")
	}
	sb.WriteString(styles.MutedMsg("tab next  ⇧tab prev  enter submit  ctrl+t show password  esc cancel"))
	return sb.String()
}
