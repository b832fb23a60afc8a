// Package tui is a terminal front end for the contact form.
package tui

import (
	"context"
	"strings"

	"asperro-contact-backend/internal/contactform"
	"asperro-contact-backend/pkg/logger"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form is the part of the controller the model drives.
type Form interface {
	State() contactform.State
	UpdateField(field contactform.Field, value string) error
	Submit(ctx context.Context) contactform.Status
}

var fieldOrder = []contactform.Field{
	contactform.FieldName,
	contactform.FieldEmail,
	contactform.FieldPhone,
	contactform.FieldMessage,
}

var fieldLabels = map[contactform.Field]string{
	contactform.FieldName:    "Jméno *",
	contactform.FieldEmail:   "Email *",
	contactform.FieldPhone:   "Telefon",
	contactform.FieldMessage: "Zpráva *",
}

// Model renders the form and feeds keystrokes into the controller.
type Model struct {
	ctx   context.Context
	form  Form
	state contactform.State

	inputs  map[contactform.Field]*textinput.Model
	message textarea.Model
	focus   int
}

func NewModel(ctx context.Context, form Form) Model {
	m := Model{
		ctx:    ctx,
		form:   form,
		state:  form.State(),
		inputs: make(map[contactform.Field]*textinput.Model, 3),
	}

	limits := map[contactform.Field]int{
		contactform.FieldName:  100,
		contactform.FieldEmail: 254,
		contactform.FieldPhone: 20,
	}
	placeholders := map[contactform.Field]string{
		contactform.FieldName:  "Jan Novák",
		contactform.FieldEmail: "jan@example.com",
		contactform.FieldPhone: "+420 777 123 456",
	}
	for _, f := range fieldOrder[:3] {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[f]
		ti.CharLimit = limits[f]
		m.inputs[f] = &ti
	}

	ta := textarea.New()
	ta.Placeholder = "Popište svůj projekt..."
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetWidth(52)
	ta.SetHeight(6)
	m.message = ta

	m.syncInputs()
	m.applyFocus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "down":
			if msg.String() == "down" && m.focusedField() == contactform.FieldMessage {
				break
			}
			m.focus = (m.focus + 1) % len(fieldOrder)
			m.applyFocus()
			return m, nil
		case "shift+tab", "up":
			if msg.String() == "up" && m.focusedField() == contactform.FieldMessage {
				break
			}
			m.focus = (m.focus + len(fieldOrder) - 1) % len(fieldOrder)
			m.applyFocus()
			return m, nil
		case "ctrl+s":
			if m.state.Status == contactform.StatusSubmitting {
				return m, nil
			}
			return m, SubmitCmd(m.ctx, m.form)
		}
		return m.updateFocused(msg)

	case StateMsg:
		m.refresh()
		return m, nil

	case SubmitDoneMsg:
		m.refresh()
		return m, nil
	}

	return m, nil
}

// updateFocused forwards a key to the focused widget and pushes the new value
// to the controller when it changed.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	field := m.focusedField()

	var cmd tea.Cmd
	var value string
	if field == contactform.FieldMessage {
		m.message, cmd = m.message.Update(msg)
		value = m.message.Value()
	} else {
		ti := m.inputs[field]
		*ti, cmd = ti.Update(msg)
		value = ti.Value()
	}

	if value != fieldValue(m.state.Values, field) {
		if err := m.form.UpdateField(field, value); err != nil {
			logger.Log.Debug("Form field update rejected", "field", field, "error", err)
		}
		m.state = m.form.State()
	}
	return m, cmd
}

// refresh re-reads the controller, which is the source of truth. Notifications
// may arrive out of order, so the payload of StateMsg is not trusted.
func (m *Model) refresh() {
	m.state = m.form.State()
	m.syncInputs()
}

// syncInputs copies controller values into widgets that disagree, which is how
// a successful submission clears the screen.
func (m *Model) syncInputs() {
	for f, ti := range m.inputs {
		if v := fieldValue(m.state.Values, f); ti.Value() != v {
			ti.SetValue(v)
		}
	}
	if m.message.Value() != m.state.Message {
		m.message.SetValue(m.state.Message)
	}
}

func (m *Model) applyFocus() {
	for i, f := range fieldOrder {
		if f == contactform.FieldMessage {
			if i == m.focus {
				m.message.Focus()
			} else {
				m.message.Blur()
			}
			continue
		}
		if i == m.focus {
			m.inputs[f].Focus()
		} else {
			m.inputs[f].Blur()
		}
	}
}

func (m Model) focusedField() contactform.Field {
	return fieldOrder[m.focus]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Napište nám"))
	b.WriteString("\n\n")

	for i, f := range fieldOrder {
		label := LabelStyle
		if i == m.focus {
			label = FocusedLabelStyle
		}
		b.WriteString(label.Render(fieldLabels[f]))
		b.WriteString("\n")
		if f == contactform.FieldMessage {
			b.WriteString(m.message.View())
		} else {
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n\n")
	}

	b.WriteString(statusLine(m.state))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab/shift+tab: pole • ctrl+s: odeslat • esc: konec"))

	return FormStyle.Render(b.String())
}

func statusLine(st contactform.State) string {
	switch st.Status {
	case contactform.StatusSubmitting:
		return SubmittingStyle.Render("Odesílání...")
	case contactform.StatusSuccess:
		return SuccessStyle.Render("Zpráva byla úspěšně odeslána! Ozveme se vám co nejdříve.")
	case contactform.StatusError:
		return ErrorStyle.Render(st.ErrorMessage)
	default:
		return ""
	}
}

func fieldValue(v contactform.Values, f contactform.Field) string {
	switch f {
	case contactform.FieldName:
		return v.Name
	case contactform.FieldEmail:
		return v.Email
	case contactform.FieldPhone:
		return v.Phone
	case contactform.FieldMessage:
		return v.Message
	}
	return ""
}
