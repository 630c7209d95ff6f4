package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mietradar/mietradar/internal/form"
	"github.com/mietradar/mietradar/internal/prediction"
	"github.com/mietradar/mietradar/internal/refdata"
)

func testRefTable() *refdata.Table {
	return refdata.New([]refdata.Row{
		{PLZ: "04103", City: "Leipzig"},
		{PLZ: "04105", City: "Leipzig"},
		{PLZ: "10115", City: "Berlin"},
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeInto(m PredictionFormModel, s string) PredictionFormModel {
	for _, r := range s {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func validFormData() form.PredictionData {
	return form.PredictionData{
		Size:            "62,5",
		Rooms:           "2",
		ZipCode:         "04103",
		YearConstructed: "1995",
	}
}

func TestPredictionFormSanitizesTyping(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)

	// Invalid characters are stripped as they are typed
	m = typeInto(m, "6x2,5")
	if got := m.Data().Size; got != "62,5" {
		t.Errorf("Size = %q, want %q", got, "62,5")
	}

	// A second separator rejects the keystroke, keeping the prior value
	m = typeInto(m, ",")
	if got := m.Data().Size; got != "62,5" {
		t.Errorf("Size after second comma = %q, want %q", got, "62,5")
	}

	// A third decimal digit rejects the keystroke too
	m = typeInto(m, "5")
	if got := m.Data().Size; got != "62,5" {
		t.Errorf("Size after decimal overflow = %q, want %q", got, "62,5")
	}
}

func TestPredictionFormYearFieldIsIntegerOnly(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m = m.setFocus(fieldYear)

	m = typeInto(m, "1,9b95")
	if got := m.Data().YearConstructed; got != "1995" {
		t.Errorf("YearConstructed = %q, want %q", got, "1995")
	}
}

func TestPredictionFormFieldNavigation(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)

	order := []predictionField{fieldRooms, fieldZip, fieldYear, fieldSize}
	for _, want := range order {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != want {
			t.Fatalf("focus = %v, want %v", m.focus, want)
		}
	}

	// Backwards wraps to the last field
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldYear {
		t.Errorf("focus = %v, want %v", m.focus, fieldYear)
	}
}

func TestPredictionFormAdvancedNavigationIncludesCheckboxes(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), true)

	for i := 0; i < 4; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != fieldBalcony {
		t.Fatalf("focus = %v, want %v", m.focus, fieldBalcony)
	}

	// Space toggles the focused checkbox
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Data().HasBalcony {
		t.Error("space should toggle the balcony checkbox")
	}
}

func TestPredictionFormLeavingAdvancedMovesFocusBack(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), true)
	m = m.setFocus(fieldElevator)

	m = m.SetAdvanced(false)
	if m.focus != fieldYear {
		t.Errorf("focus = %v, want %v", m.focus, fieldYear)
	}
}

func TestPredictionFormDropdown(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m = m.setFocus(fieldZip)

	m = typeInto(m, "041")
	if !m.dropdownOpen {
		t.Fatal("dropdown should open while typing in the zip field")
	}
	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want 04103 and 04105", m.matches)
	}

	// Down moves the cursor, enter selects and closes
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.Data().ZipCode; got != "04105" {
		t.Errorf("ZipCode = %q, want %q", got, "04105")
	}
	if m.dropdownOpen {
		t.Error("dropdown should close after selection")
	}
}

func TestPredictionFormDropdownClosesOnFocusLeave(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m = m.setFocus(fieldZip)
	m = typeInto(m, "041")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.dropdownOpen {
		t.Error("dropdown should close when the zip field loses focus")
	}
}

func TestPredictionFormDropdownEscCloses(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m = m.setFocus(fieldZip)
	m = typeInto(m, "041")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.dropdownOpen {
		t.Error("esc should close the dropdown")
	}
}

func TestPredictionFormDropdownNoMatchPlaceholder(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m = m.setFocus(fieldZip)
	m = typeInto(m, "9")

	view := m.View()
	if !strings.Contains(view, "Keine passende PLZ gefunden") {
		t.Errorf("view missing no-match placeholder:\n%s", view)
	}
}

func TestPredictionFormSubmitValidation(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid form should not produce a command")
	}
	if m.submitting {
		t.Error("invalid form should not enter the submitting state")
	}
	if !m.errors.Has(form.FieldSize) || !m.errors.Has(form.FieldYear) {
		t.Errorf("errors = %v, want all fields flagged", m.errors)
	}

	// Error messages show up under the fields
	view := m.View()
	if !strings.Contains(view, form.MsgSizeTooSmall) {
		t.Errorf("view missing validation message:\n%s", view)
	}
}

func TestPredictionFormSubmitIssuesOneRequest(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"estimated_rent_cold": 850}`))
	}))
	defer server.Close()

	m := NewPredictionForm(prediction.NewClient(server.URL), testRefTable(), false)
	m.data = validFormData()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("valid form should produce a command")
	}
	if !m.submitting {
		t.Fatal("form should enter the submitting state")
	}

	// A second enter while in flight is ignored
	m, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd2 != nil {
		t.Error("submit while in flight should not produce a command")
	}

	// Run the request and feed the result back
	req, err := prediction.NewRequest(m.data, false)
	if err != nil {
		t.Fatal(err)
	}
	msg := submitPredictionCmd(m.client, req)()
	done, ok := msg.(predictionDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want predictionDoneMsg", msg)
	}
	if done.text != "Empfohlene Kaltmiete: 850€" {
		t.Errorf("text = %q, want %q", done.text, "Empfohlene Kaltmiete: 850€")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}

	m, _ = m.Update(done)
	if m.submitting {
		t.Error("done message should clear the submitting state")
	}
}

func TestPredictionFormDoneClearsSubmittingOnFailure(t *testing.T) {
	m := NewPredictionForm(prediction.NewClient("http://localhost:1"), testRefTable(), false)
	m.submitting = true

	m, _ = m.Update(predictionDoneMsg{err: prediction.NewHTTPError(500, "boom")})
	if m.submitting {
		t.Error("failed request should re-enable the form")
	}
}

func TestPredictionFormEstimateFormatting(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"estimated_rent_cold": 850}`, "Empfohlene Kaltmiete: 850€"},
		{`{"estimated_rent_cold": 850.5}`, "Empfohlene Kaltmiete: 850.5€"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tt.body))
		}))

		msg := submitPredictionCmd(prediction.NewClient(server.URL), prediction.Request{})()
		server.Close()

		done := msg.(predictionDoneMsg)
		if done.text != tt.want {
			t.Errorf("text = %q, want %q", done.text, tt.want)
		}
	}
}
