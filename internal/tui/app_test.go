package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mietradar/mietradar/internal/cityrequest"
	"github.com/mietradar/mietradar/internal/config"
	"github.com/mietradar/mietradar/internal/prediction"
)

func newTestApp(t *testing.T) AppModel {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewAppModel(config.NewSettings(), testRefTable())
}

func updateApp(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	app, ok := model.(AppModel)
	if !ok {
		t.Fatalf("Update() returned %T, want AppModel", model)
	}
	return app, cmd
}

func TestAppQuit(t *testing.T) {
	m := newTestApp(t)

	_, cmd := updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce a quit command")
	}
}

func TestAppPredictionResult(t *testing.T) {
	m := newTestApp(t)

	m, _ = updateApp(t, m, predictionDoneMsg{text: "Empfohlene Kaltmiete: 850€"})
	if m.result != "Empfohlene Kaltmiete: 850€" {
		t.Errorf("result = %q, want the estimate", m.result)
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q, want empty", m.errMsg)
	}
	if !strings.Contains(m.View(), "Empfohlene Kaltmiete: 850€") {
		t.Error("view should show the estimate")
	}
}

func TestAppPredictionFailureShowsGenericError(t *testing.T) {
	m := newTestApp(t)
	m.result = "Empfohlene Kaltmiete: 700€"

	m, _ = updateApp(t, m, predictionDoneMsg{err: prediction.NewHTTPError(500, "boom")})
	if m.errMsg != genericPredictionError {
		t.Errorf("errMsg = %q, want %q", m.errMsg, genericPredictionError)
	}
	// A new failure replaces the previous result
	if m.result != "" {
		t.Errorf("result = %q, want empty", m.result)
	}
}

func TestAppCityRequestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "hook message passes through",
			err:  &cityrequest.RequestError{StatusCode: 400, Message: "PLZ nicht gefunden"},
			want: "PLZ nicht gefunden",
		},
		{
			name: "transport error gets the fallback",
			err:  errors.New("connection refused"),
			want: fallbackCityRequestError,
		},
		{
			name: "empty hook message gets the fallback",
			err:  &cityrequest.RequestError{StatusCode: 500},
			want: fallbackCityRequestError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestApp(t)
			m, _ = updateApp(t, m, cityRequestDoneMsg{err: tt.err})
			if m.errMsg != tt.want {
				t.Errorf("errMsg = %q, want %q", m.errMsg, tt.want)
			}
		})
	}
}

func TestAppModeSwitchClearsFeedback(t *testing.T) {
	m := newTestApp(t)
	m.result = "Empfohlene Kaltmiete: 850€"

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.mode != modeCityRequest {
		t.Fatalf("mode = %v, want %v", m.mode, modeCityRequest)
	}
	if m.result != "" {
		t.Errorf("result = %q, want cleared on mode switch", m.result)
	}

	// Esc from the city-request form returns to the prediction form
	m.errMsg = "PLZ nicht gefunden"
	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePrediction {
		t.Fatalf("mode = %v, want %v", m.mode, modePrediction)
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q, want cleared on mode switch", m.errMsg)
	}
}

func TestAppModeSwitchDiscardsFormState(t *testing.T) {
	m := newTestApp(t)

	m, _ = updateApp(t, m, keyRune('6'))
	m, _ = updateApp(t, m, keyRune('2'))
	if m.predForm.Data().Size != "62" {
		t.Fatalf("Size = %q, want %q", m.predForm.Data().Size, "62")
	}

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.predForm.Data().Size != "" {
		t.Errorf("Size = %q, want a fresh form after switching back", m.predForm.Data().Size)
	}
}

func TestAppAdvancedToggle(t *testing.T) {
	m := newTestApp(t)

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if !m.advanced {
		t.Fatal("ctrl+a should enable advanced mode")
	}
	if !m.settings.Preferences.AdvancedMode {
		t.Error("advanced mode should be written to the settings")
	}

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.advanced {
		t.Error("ctrl+a should toggle advanced mode off again")
	}
}

func TestAppOverlayFetchDedup(t *testing.T) {
	m := newTestApp(t)

	// First open triggers the fetch
	m, cmd := updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !m.overlayOpen {
		t.Fatal("ctrl+o should open the overlay")
	}
	if cmd == nil {
		t.Fatal("first open should trigger the model info fetch")
	}
	if !m.overlayLoading {
		t.Fatal("overlay should be in the loading state")
	}

	// Close and reopen while the fetch is still in flight: no second fetch
	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, cmd = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if cmd != nil {
		t.Error("reopening during an in-flight fetch should not fetch again")
	}

	// Once data arrived, reopening must not refetch either
	m, _ = updateApp(t, m, modelInfoMsg{info: sampleModelInfo()})
	if m.overlayLoading {
		t.Fatal("loading should clear when data arrives")
	}

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO}) // close
	m, cmd = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if cmd != nil {
		t.Error("reopening with loaded data should not fetch again")
	}
	if !strings.Contains(m.View(), "Champion Model") {
		t.Error("view should show the overlay")
	}
}

func TestAppOverlayRetriesAfterFailure(t *testing.T) {
	m := newTestApp(t)

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = updateApp(t, m, modelInfoMsg{err: errors.New("boom")})

	if !strings.Contains(m.View(), "Modell-Informationen konnten nicht geladen werden.") {
		t.Error("view should show the overlay error line")
	}

	// Close and reopen after a failure starts a fresh fetch
	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd := updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if cmd == nil {
		t.Error("reopening after a failed fetch should fetch again")
	}
}

func TestAppOverlayIsModal(t *testing.T) {
	m := newTestApp(t)
	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})

	// Typing must not reach the form underneath
	m, _ = updateApp(t, m, keyRune('6'))
	if m.predForm.Data().Size != "" {
		t.Errorf("Size = %q, want input swallowed by the overlay", m.predForm.Data().Size)
	}

	m, _ = updateApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlayOpen {
		t.Error("esc should close the overlay")
	}
}

func TestAppNarrowTerminalHint(t *testing.T) {
	m := newTestApp(t)

	m, _ = updateApp(t, m, tea.WindowSizeMsg{Width: 40, Height: 24})
	if !strings.Contains(m.View(), "zu schmal") {
		t.Error("view should ask for a wider terminal")
	}
}
