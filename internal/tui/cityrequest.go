package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mietradar/mietradar/internal/cityrequest"
	"github.com/mietradar/mietradar/internal/form"
)

// cityRequestDoneMsg reports the outcome of a city-request submission
type cityRequestDoneMsg struct {
	text string
	err  error
}

// fallbackCityRequestError is shown when a city request fails without a
// usable message from the hook.
const fallbackCityRequestError = "Stadt konnte nicht hinzugefügt werden."

// cityField indexes the focusable elements of the city-request form
type cityField int

const (
	cityFieldZip cityField = iota
	cityFieldName
)

// CityRequestFormModel asks for a postal code and city name and submits
// them to the ingestion hook.
type CityRequestFormModel struct {
	zipInput  textinput.Model
	nameInput textinput.Model
	data      form.CityRequestData

	focus      cityField
	errors     form.Errors
	submitting bool
	spinner    spinner.Model

	client *cityrequest.Client
}

// NewCityRequestForm creates a fresh city-request form
func NewCityRequestForm(client *cityrequest.Client) CityRequestFormModel {
	zip := textinput.New()
	zip.Placeholder = "04103"
	zip.Width = 16
	zip.Focus()

	name := textinput.New()
	name.Placeholder = "Leipzig"
	name.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return CityRequestFormModel{
		zipInput:  zip,
		nameInput: name,
		errors:    form.Errors{},
		spinner:   sp,
		client:    client,
	}
}

// Data returns the current form state
func (m CityRequestFormModel) Data() form.CityRequestData {
	return m.data
}

// Init starts the cursor blink
func (m CityRequestFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key and completion messages for the city-request form
func (m CityRequestFormModel) Update(msg tea.Msg) (CityRequestFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cityRequestDoneMsg:
		m.submitting = false
		if msg.err == nil {
			// Inputs clear only after a confirmed request
			m.zipInput.SetValue("")
			m.nameInput.SetValue("")
			m.data = form.CityRequestData{}
			m.errors = form.Errors{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m CityRequestFormModel) handleKey(msg tea.KeyMsg) (CityRequestFormModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.setFocus(cityFieldName), nil

	case "shift+tab", "up":
		return m.setFocus(cityFieldZip), nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case cityFieldZip:
		prev := m.data.ZipCode
		m.zipInput, cmd = m.zipInput.Update(msg)
		clean := form.SanitizeNumeric(form.ZipCodeRule, prev, m.zipInput.Value())
		if clean != m.zipInput.Value() {
			m.zipInput.SetValue(clean)
			m.zipInput.CursorEnd()
		}
		m.data.ZipCode = clean

	case cityFieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		clean := form.SanitizeCityName(m.nameInput.Value())
		if clean != m.nameInput.Value() {
			m.nameInput.SetValue(clean)
			m.nameInput.CursorEnd()
		}
		m.data.CityName = clean
	}

	return m, cmd
}

func (m CityRequestFormModel) submit() (CityRequestFormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	m.errors = form.ValidateCityRequest(m.data)
	if len(m.errors) > 0 {
		return m, nil
	}

	m.submitting = true
	req := cityrequest.Request{PLZ: m.data.ZipCode, CityName: m.data.CityName}
	return m, tea.Batch(m.spinner.Tick, submitCityRequestCmd(m.client, req))
}

// submitCityRequestCmd performs the hook request off the update loop
func submitCityRequestCmd(client *cityrequest.Client, req cityrequest.Request) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Submit(req)
		if err != nil {
			return cityRequestDoneMsg{err: err}
		}
		text := fmt.Sprintf(" %s aus %s wurde gefunden und wird aktuell hinzugefügt. (ca. 5-10 Minuten)",
			resp.Data.Name, resp.Data.FederalState)
		return cityRequestDoneMsg{text: text}
	}
}

func (m CityRequestFormModel) setFocus(f cityField) CityRequestFormModel {
	if f == cityFieldZip {
		m.zipInput.Focus()
		m.nameInput.Blur()
	} else {
		m.zipInput.Blur()
		m.nameInput.Focus()
	}
	m.focus = f
	return m
}

// View renders the two fields, validation messages and the submit hint
func (m CityRequestFormModel) View() string {
	var b strings.Builder

	b.WriteString(SubtitleStyle.Render("Stadt anfragen"))
	b.WriteString("\n\n")

	fields := []struct {
		key   string
		label string
		view  string
	}{
		{form.FieldZipCode, "Postleitzahl", m.zipInput.View()},
		{form.FieldCityName, "Stadtname", m.nameInput.View()},
	}
	for _, f := range fields {
		label := LabelStyle
		if m.errors.Has(f.key) {
			label = LabelErrorStyle
		}
		b.WriteString(label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.view)
		b.WriteString("\n")
		if msg, ok := m.errors[f.key]; ok {
			b.WriteString(FieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(m.spinner.View())
		b.WriteString(" Sende Anfrage...")
	} else {
		b.WriteString(HintStyle.Render("enter: Anfrage senden · esc: zurück"))
	}

	return b.String()
}

// cityRequestErrorText maps a submission failure to the user-facing
// message. Hook-reported messages pass through verbatim; anything else
// gets the generic fallback.
func cityRequestErrorText(err error) string {
	var reqErr *cityrequest.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallbackCityRequestError
}
