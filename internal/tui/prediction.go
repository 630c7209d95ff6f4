package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mietradar/mietradar/internal/form"
	"github.com/mietradar/mietradar/internal/prediction"
	"github.com/mietradar/mietradar/internal/refdata"
)

// predictionDoneMsg reports the outcome of a prediction submission
type predictionDoneMsg struct {
	text string
	err  error
}

// genericPredictionError is shown for any failed prediction request;
// the service's error body is deliberately not surfaced.
const genericPredictionError = "Preis konnte nicht berechnet werden. Bitte versuche es später erneut."

// predictionField indexes the focusable elements of the prediction form
type predictionField int

const (
	fieldSize predictionField = iota
	fieldRooms
	fieldZip
	fieldYear
	fieldBalcony
	fieldKitchen
	fieldElevator
	fieldGarage
)

// predLabels maps fields to their display labels
var predLabels = map[predictionField]string{
	fieldSize:     "Wohnfläche (m²)",
	fieldRooms:    "Zimmer",
	fieldZip:      "Postleitzahl",
	fieldYear:     "Baujahr",
	fieldBalcony:  "Balkon/Terrasse",
	fieldKitchen:  "Einbauküche",
	fieldElevator: "Personenaufzug",
	fieldGarage:   "Garage/Stellplatz",
}

// predRules maps text fields to their sanitization rules
var predRules = map[predictionField]form.FieldRule{
	fieldSize:  form.SizeRule,
	fieldRooms: form.RoomsRule,
	fieldZip:   form.ZipCodeRule,
	fieldYear:  form.YearRule,
}

// errorKeys maps text fields to their validation error map keys
var errorKeys = map[predictionField]string{
	fieldSize:  form.FieldSize,
	fieldRooms: form.FieldRooms,
	fieldZip:   form.FieldZipCode,
	fieldYear:  form.FieldYear,
}

// PredictionFormModel is the apartment attribute entry form.
// It owns its input, validation, autocomplete and in-flight state; the
// shared result/error display belongs to the coordinator.
type PredictionFormModel struct {
	inputs map[predictionField]*textinput.Model
	data   form.PredictionData

	focus      predictionField
	advanced   bool
	errors     form.Errors
	submitting bool
	spinner    spinner.Model

	table  *refdata.Table
	client *prediction.Client

	// Autocomplete dropdown state
	dropdownOpen   bool
	dropdownCursor int
	matches        []refdata.Row
}

// NewPredictionForm creates a fresh prediction form.
// The reference table may be nil when no snapshot was supplied.
func NewPredictionForm(client *prediction.Client, table *refdata.Table, advanced bool) PredictionFormModel {
	inputs := make(map[predictionField]*textinput.Model, 4)
	placeholders := map[predictionField]string{
		fieldSize:  "60",
		fieldRooms: "2",
		fieldZip:   "04103",
		fieldYear:  "1990",
	}
	for _, f := range []predictionField{fieldSize, fieldRooms, fieldZip, fieldYear} {
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.CharLimit = 0 // the sanitizer enforces digit caps
		ti.Width = 16
		inputs[f] = &ti
	}
	inputs[fieldSize].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return PredictionFormModel{
		inputs:   inputs,
		advanced: advanced,
		errors:   form.Errors{},
		spinner:  sp,
		table:    table,
		client:   client,
	}
}

// Data returns the current form state as raw display strings plus the
// amenity flags.
func (m PredictionFormModel) Data() form.PredictionData {
	return m.data
}

// SetAdvanced toggles advanced mode. Leaving advanced mode moves focus
// back into the always-visible fields.
func (m PredictionFormModel) SetAdvanced(advanced bool) PredictionFormModel {
	m.advanced = advanced
	if !advanced && m.focus > fieldYear {
		m = m.setFocus(fieldYear)
	}
	return m
}

// Init starts the cursor blink
func (m PredictionFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key and completion messages for the prediction form
func (m PredictionFormModel) Update(msg tea.Msg) (PredictionFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case predictionDoneMsg:
		// Always re-enable the form, success or failure
		m.submitting = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m PredictionFormModel) handleKey(msg tea.KeyMsg) (PredictionFormModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.setFocus(m.nextField(1)), nil

	case "shift+tab":
		return m.setFocus(m.nextField(-1)), nil

	case "up":
		if m.dropdownActive() {
			if m.dropdownCursor > 0 {
				m.dropdownCursor--
			}
			return m, nil
		}
		return m.setFocus(m.nextField(-1)), nil

	case "down":
		if m.dropdownActive() {
			if m.dropdownCursor < len(m.matches)-1 {
				m.dropdownCursor++
			}
			return m, nil
		}
		return m.setFocus(m.nextField(1)), nil

	case "esc":
		if m.dropdownOpen {
			m.dropdownOpen = false
			return m, nil
		}
		return m, nil

	case " ":
		if m.focus >= fieldBalcony {
			m.toggleCheckbox(m.focus)
			return m, nil
		}
		// Spaces in text fields are stripped by the sanitizer below

	case "enter":
		if m.dropdownActive() && len(m.matches) > 0 {
			// Selecting an entry overwrites the field and closes the dropdown
			selected := m.matches[m.dropdownCursor].PLZ
			m.inputs[fieldZip].SetValue(selected)
			m.inputs[fieldZip].CursorEnd()
			m.data.ZipCode = selected
			m.dropdownOpen = false
			return m, nil
		}
		return m.submit()
	}

	// Route everything else to the focused text input and re-apply the
	// field grammar afterwards; an edit that violates the grammar is
	// rolled back to the previous value.
	if m.focus > fieldYear {
		return m, nil
	}

	input := m.inputs[m.focus]
	prev := m.fieldValue(m.focus)

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)

	clean := form.SanitizeNumeric(predRules[m.focus], prev, input.Value())
	if clean != input.Value() {
		input.SetValue(clean)
		input.CursorEnd()
	}
	m.setFieldValue(m.focus, clean)

	if m.focus == fieldZip && clean != prev {
		m.refreshDropdown(clean)
	}

	return m, cmd
}

// submit validates all fields and, if everything passes, issues the
// prediction request. While a request is outstanding further submits are
// ignored.
func (m PredictionFormModel) submit() (PredictionFormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	m.errors = form.ValidatePrediction(m.data, m.table, time.Now())
	if len(m.errors) > 0 {
		return m, nil
	}

	req, err := prediction.NewRequest(m.data, m.advanced)
	if err != nil {
		return m, func() tea.Msg { return predictionDoneMsg{err: err} }
	}

	m.submitting = true
	m.dropdownOpen = false
	return m, tea.Batch(m.spinner.Tick, submitPredictionCmd(m.client, req))
}

// submitPredictionCmd performs the prediction request off the update loop
func submitPredictionCmd(client *prediction.Client, req prediction.Request) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Predict(req)
		if err != nil {
			return predictionDoneMsg{err: err}
		}
		estimate := strconv.FormatFloat(resp.EstimatedRentCold, 'f', -1, 64)
		return predictionDoneMsg{text: fmt.Sprintf("Empfohlene Kaltmiete: %s€", estimate)}
	}
}

// dropdownActive reports whether the autocomplete dropdown is receiving
// navigation keys: zip field focused, dropdown open, table supplied.
func (m PredictionFormModel) dropdownActive() bool {
	return m.focus == fieldZip && m.dropdownOpen && m.table.Len() > 0
}

// refreshDropdown recomputes the suggestion list for the typed digits and
// opens the dropdown. Rows keep their table order.
func (m *PredictionFormModel) refreshDropdown(query string) {
	if m.table.Len() == 0 {
		return
	}
	m.matches = m.table.Filter(query)
	m.dropdownCursor = 0
	m.dropdownOpen = true
}

func (m PredictionFormModel) fieldValue(f predictionField) string {
	switch f {
	case fieldSize:
		return m.data.Size
	case fieldRooms:
		return m.data.Rooms
	case fieldZip:
		return m.data.ZipCode
	case fieldYear:
		return m.data.YearConstructed
	}
	return ""
}

func (m *PredictionFormModel) setFieldValue(f predictionField, v string) {
	switch f {
	case fieldSize:
		m.data.Size = v
	case fieldRooms:
		m.data.Rooms = v
	case fieldZip:
		m.data.ZipCode = v
	case fieldYear:
		m.data.YearConstructed = v
	}
}

func (m *PredictionFormModel) toggleCheckbox(f predictionField) {
	switch f {
	case fieldBalcony:
		m.data.HasBalcony = !m.data.HasBalcony
	case fieldKitchen:
		m.data.HasKitchen = !m.data.HasKitchen
	case fieldElevator:
		m.data.HasElevator = !m.data.HasElevator
	case fieldGarage:
		m.data.HasGarage = !m.data.HasGarage
	}
}

// nextField computes the next focusable field in the given direction,
// wrapping around and skipping the amenity checkboxes in basic mode.
func (m PredictionFormModel) nextField(dir int) predictionField {
	last := fieldYear
	if m.advanced {
		last = fieldGarage
	}
	count := int(last) + 1

	next := (int(m.focus) + dir + count) % count
	return predictionField(next)
}

// setFocus moves focus, closing the dropdown when the zip field is left
// and opening it when the zip field is entered.
func (m PredictionFormModel) setFocus(f predictionField) PredictionFormModel {
	if m.focus == fieldZip && f != fieldZip {
		m.dropdownOpen = false
	}

	for field, input := range m.inputs {
		if field == f {
			input.Focus()
		} else {
			input.Blur()
		}
	}
	m.focus = f

	if f == fieldZip {
		m.refreshDropdown(m.data.ZipCode)
	}
	return m
}

// View renders the form fields, validation messages, the autocomplete
// dropdown and the submit hint
func (m PredictionFormModel) View() string {
	var b strings.Builder

	for _, f := range []predictionField{fieldSize, fieldRooms, fieldZip, fieldYear} {
		label := LabelStyle
		if m.errors.Has(errorKeys[f]) {
			label = LabelErrorStyle
		}
		b.WriteString(label.Render(predLabels[f]))
		if f == fieldZip && m.table.Len() > 0 {
			b.WriteString(HintStyle.Render("  (Nicht vorhanden? ctrl+n)"))
		}
		b.WriteString("\n")
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n")

		if msg, ok := m.errors[errorKeys[f]]; ok {
			b.WriteString(FieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}

		if f == fieldZip && m.dropdownActive() {
			b.WriteString(m.renderDropdown())
			b.WriteString("\n")
		}
	}

	if m.advanced {
		b.WriteString("\n")
		for _, f := range []predictionField{fieldBalcony, fieldKitchen, fieldElevator, fieldGarage} {
			b.WriteString(RenderCheckbox(predLabels[f]+":", m.checked(f), m.focus == f))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(m.spinner.View())
		b.WriteString(" Berechne...")
	} else {
		b.WriteString(HintStyle.Render("enter: Preis schätzen"))
	}

	return b.String()
}

// renderDropdown renders the suggestion list or the no-match placeholder
func (m PredictionFormModel) renderDropdown() string {
	if len(m.matches) == 0 {
		return DropdownStyle.Render(DropdownEmptyStyle.Render("Keine passende PLZ gefunden"))
	}

	rows := m.matches
	offset := 0
	if len(rows) > MaxDropdownRows {
		// Keep the cursor visible inside the window
		if m.dropdownCursor >= MaxDropdownRows {
			offset = m.dropdownCursor - MaxDropdownRows + 1
		}
		rows = rows[offset : offset+MaxDropdownRows]
	}

	var lines []string
	for i, row := range rows {
		text := row.PLZ
		if row.City != "" {
			text += "  " + row.City
		}
		if i+offset == m.dropdownCursor {
			lines = append(lines, DropdownSelectedStyle.Render(text))
		} else {
			lines = append(lines, DropdownItemStyle.Render(text))
		}
	}
	return DropdownStyle.Render(strings.Join(lines, "\n"))
}

func (m PredictionFormModel) checked(f predictionField) bool {
	switch f {
	case fieldBalcony:
		return m.data.HasBalcony
	case fieldKitchen:
		return m.data.HasKitchen
	case fieldElevator:
		return m.data.HasElevator
	case fieldGarage:
		return m.data.HasGarage
	}
	return false
}
